package crud

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	items := []widget{
		{ID: "T-1", Name: "Complete Blood Count", Status: "active"},
		{ID: "T-2", Name: "Lipid Panel", Status: "inactive"},
		{ID: "T-3", Name: "Blood Glucose", Status: "active"},
	}
	cfg := widgetConfig()

	ids := func(ws []widget) []string {
		out := []string{}
		for _, w := range ws {
			out = append(out, w.ID)
		}
		return out
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty term returns all", Query{}, []string{"T-1", "T-2", "T-3"}},
		{"case-insensitive substring", Query{Search: "bLOOD"}, []string{"T-1", "T-3"}},
		{"matches id field", Query{Search: "t-2"}, []string{"T-2"}},
		{"whitespace term is empty", Query{Search: "   "}, []string{"T-1", "T-2", "T-3"}},
		{"facet all means no filter", Query{Filters: map[string]string{"status": "all"}}, []string{"T-1", "T-2", "T-3"}},
		{"facet exact match", Query{Filters: map[string]string{"status": "active"}}, []string{"T-1", "T-3"}},
		{"facet is exact not substring", Query{Filters: map[string]string{"status": "act"}}, []string{}},
		{"search and facet combine", Query{Search: "blood", Filters: map[string]string{"status": "inactive"}}, []string{}},
		{"no match", Query{Search: "urinalysis"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.q, cfg.SearchFields, cfg.Facets)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestServerParams(t *testing.T) {
	cfg := widgetConfig()
	params := serverParams(Query{Search: "cbc", Filters: map[string]string{"status": "active", "unknown": "x"}}, cfg.Facets)
	assert.Equal(t, url.Values{"search": {"cbc"}, "status": {"active"}}, params)
}

func TestStats(t *testing.T) {
	price := func(w widget) float64 { return w.Price }

	assert.Zero(t, Sum([]widget{}, price))
	assert.Zero(t, Average([]widget{}, price), "average of an empty list is 0, not NaN")
	assert.Zero(t, CountWhere([]widget(nil), func(widget) bool { return true }))

	items := []widget{{Price: 10, Status: "active"}, {Price: 20}, {Price: 45, Status: "active"}}
	assert.Equal(t, 75.0, Sum(items, price))
	assert.Equal(t, 25.0, Average(items, price))
	assert.Equal(t, 2, CountWhere(items, func(w widget) bool { return w.Status == "active" }))
}

func TestValidators(t *testing.T) {
	email := Email("email", "Email", func(w widget) string { return w.Name })
	assert.NoError(t, email(widget{Name: ""}))
	assert.NoError(t, email(widget{Name: "lab@lims.com"}))
	assert.Error(t, email(widget{Name: "not an email"}))
	assert.Error(t, email(widget{Name: "Lab <lab@lims.com>"}))

	oneOf := OneOf("status", "Status", func(w widget) string { return w.Status }, "active", "inactive")
	assert.NoError(t, oneOf(widget{Status: "active"}))
	err := oneOf(widget{Status: "gone"})
	require.Error(t, err)
	assert.Equal(t, "Status must be one of active, inactive", err.Error())
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation first", &ValidationError{Field: "name", Message: "Name is required"}, "Name is required"},
		{"error before detail", &apiclient.APIError{StatusCode: 400, Body: []byte(`{"detail":"d","error":"e"}`)}, "e"},
		{"detail", fmt.Errorf("failed to create doctors: %w", &apiclient.APIError{StatusCode: 400, Body: []byte(`{"detail":"d"}`)}), "d"},
		{"stringified body", &apiclient.APIError{StatusCode: 400, Body: []byte(`{"name": ["required"]}`)}, `{"name":["required"]}`},
		{"exception message", &apiclient.APIError{StatusCode: 500, Method: "GET", Path: "/x/"}, "LIMS API returned status 500 for GET /x/"},
		{"session expired", fmt.Errorf("failed to list: %w", apiclient.ErrSessionExpired), MsgSessionExpired},
		{"session expired with replay body", fmt.Errorf("%w: %w", apiclient.ErrSessionExpired, &apiclient.APIError{StatusCode: 401, Body: []byte(`{"detail":"token invalid"}`)}), MsgSessionExpired},
		{"in flight", ErrMutationInFlight, MsgInFlight},
		{"anything else", errors.New("dial tcp: connection refused"), MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayMessage(tt.err))
		})
	}
}

func TestFormPayload(t *testing.T) {
	fields := []Field{
		{Key: "name", Label: "Name", Type: "text"},
		{Key: "basePrice", Label: "Base Price", Type: "number"},
		{Key: "experienceYears", Label: "Experience", Type: "int"},
		{Key: "isActive", Label: "Active", Type: "checkbox"},
		{Key: "password", Label: "Password", Type: "password"},
		{Key: "notes", Label: "Notes", Type: "textarea"},
	}

	raw, err := FormPayload(fields, url.Values{
		"name":            {" CBC "},
		"basePrice":       {"12.50"},
		"experienceYears": {"7"},
		"password":        {""},
		"ignored":         {"x"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"CBC","basePrice":12.5,"experienceYears":7,"isActive":false}`, string(raw))

	raw, err = FormPayload(fields, url.Values{"isActive": {"on"}, "basePrice": {""}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"isActive":true,"basePrice":0}`, string(raw))

	_, err = FormPayload(fields, url.Values{"basePrice": {"twelve"}})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Base Price must be a number", ve.Message)

	_, err = FormPayload(fields, url.Values{"experienceYears": {"7.5"}})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Experience must be a whole number", ve.Message)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "submitting", Submitting.String())
}
