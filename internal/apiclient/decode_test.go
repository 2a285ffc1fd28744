package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantNames []string
		wantTotal int
	}{
		{"bare array", `[{"id":1,"name":"CBC"},{"id":2,"name":"Lipid"}]`, []string{"CBC", "Lipid"}, 2},
		{"page envelope with count", `{"count":40,"next":null,"results":[{"id":1,"name":"CBC"}]}`, []string{"CBC"}, 40},
		{"envelope without count", `{"results":[{"id":1,"name":"CBC"}]}`, []string{"CBC"}, 1},
		{"null body", `null`, []string{}, 0},
		{"empty body", ``, []string{}, 0},
		{"empty envelope", `{}`, []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := DecodeList[item](json.RawMessage(tt.raw))
			require.NoError(t, err)
			require.NotNil(t, items)

			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

func TestDecodeList_Invalid(t *testing.T) {
	_, _, err := DecodeList[item](json.RawMessage(`[{"id":"x"}]`))
	assert.Error(t, err)
}

func TestDecodeEntity(t *testing.T) {
	t.Run("unwraps keyed object", func(t *testing.T) {
		got, err := DecodeEntity[item](json.RawMessage(`{"message":"created","tenant_user":{"id":5,"name":"Ama"}}`), "tenant_user")
		require.NoError(t, err)
		assert.Equal(t, item{ID: 5, Name: "Ama"}, got)
	})

	t.Run("falls back to bare body", func(t *testing.T) {
		got, err := DecodeEntity[item](json.RawMessage(`{"id":6,"name":"Kofi"}`), "tenant_user")
		require.NoError(t, err)
		assert.Equal(t, item{ID: 6, Name: "Kofi"}, got)
	})

	t.Run("no key", func(t *testing.T) {
		got, err := DecodeEntity[item](json.RawMessage(`{"id":7,"name":"Esi"}`), "")
		require.NoError(t, err)
		assert.Equal(t, 7, got.ID)
	})

	t.Run("empty body yields zero value", func(t *testing.T) {
		got, err := DecodeEntity[item](nil, "tenant_user")
		require.NoError(t, err)
		assert.Equal(t, item{}, got)
	})
}
