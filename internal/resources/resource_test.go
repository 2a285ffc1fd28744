package resources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  url.Values
	body   map[string]any
}

func newBackend(t *testing.T, respond func(r *http.Request) (int, string)) (*apiclient.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query()}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		calls = append(calls, rec)

		status, body := respond(r)
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"}, apiclient.NewMemoryTokens("token", "refresh"))
	return client, &calls
}

func TestResource_ListBareArrayAndEnvelope(t *testing.T) {
	for name, body := range map[string]string{
		"bare array": `[{"id":1,"name":"Dr. Mensah","status":"on_leave"},{"id":"2","name":"Dr. Owusu"}]`,
		"envelope":   `{"count":2,"results":[{"id":1,"name":"Dr. Mensah","status":"on_leave"},{"id":"2","name":"Dr. Owusu"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, calls := newBackend(t, func(r *http.Request) (int, string) { return http.StatusOK, body })
			doctors := New(client, Doctors, "2")

			items, total, err := doctors.List(context.Background(), url.Values{"search": {"mensah"}})
			require.NoError(t, err)
			require.Len(t, items, 2)
			assert.Equal(t, 2, total)

			assert.Equal(t, ID("1"), items[0].ID)
			assert.Equal(t, "on_leave", items[0].Status)
			assert.Equal(t, ID("2"), items[1].ID)
			assert.Equal(t, "active", items[1].Status)
			assert.Equal(t, NotSpecified, items[1].Specialization)

			require.Len(t, *calls, 1)
			assert.Equal(t, "/api/doctors/doctors/", (*calls)[0].path)
			assert.Equal(t, "mensah", (*calls)[0].query.Get("search"))
			assert.Empty(t, (*calls)[0].query.Get("tenant"), "doctors are not tenant scoped by query")
		})
	}
}

func TestResource_TenantUsersScopedAndUnwrapped(t *testing.T) {
	client, calls := newBackend(t, func(r *http.Request) (int, string) {
		return http.StatusCreated, `{"message":"User created","tenant_user":{"id":41,"name":"Ama Boateng","email":"ama@lab.com","role":"doctor","is_active":true}}`
	})
	users := New(client, TenantUsers, "7")

	created, err := users.Create(context.Background(), TenantUser{Name: "Ama Boateng", Email: "ama@lab.com", Role: "doctor", IsActive: true, Password: "s3cret!A"})
	require.NoError(t, err)

	assert.Equal(t, ID("41"), created.ID)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "Never", created.LastLogin)
	assert.Empty(t, created.Password)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/tenant/users/", call.path)
	assert.Equal(t, "7", call.query.Get("tenant"))
	assert.EqualValues(t, 7, call.body["tenant"])
	assert.Equal(t, "s3cret!A", call.body["password"])
	assert.NotContains(t, call.body, "id", "the client never assigns ids")
}

func TestResource_UpdateDeleteAndActions(t *testing.T) {
	client, calls := newBackend(t, func(r *http.Request) (int, string) {
		switch r.Method {
		case http.MethodDelete:
			return http.StatusNoContent, ""
		case http.MethodPut:
			return http.StatusOK, `{"id":5,"title":"Reagent supply","status":"active","value":"1200.50"}`
		default:
			return http.StatusOK, `{"status":"renewed"}`
		}
	})
	contracts := New(client, Contracts, "2")
	ctx := context.Background()

	updated, err := contracts.Update(ctx, "5", Contract{ID: "5", Title: "Reagent supply", Status: "active", Value: 1200.5})
	require.NoError(t, err)
	assert.Equal(t, 1200.5, updated.Value)
	assert.Equal(t, "USD", updated.Currency)

	require.NoError(t, contracts.Delete(ctx, "5"))

	raw, err := contracts.Action(ctx, "5", "renew", map[string]string{"end_date": "2027-01-31"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"renewed"}`, string(raw))

	require.Len(t, *calls, 3)
	assert.Equal(t, http.MethodPut, (*calls)[0].method)
	assert.Equal(t, "/api/contracts/contracts/5/", (*calls)[0].path)
	assert.Equal(t, http.MethodDelete, (*calls)[1].method)
	assert.Equal(t, "/api/contracts/contracts/5/", (*calls)[1].path)
	assert.Equal(t, http.MethodPost, (*calls)[2].method)
	assert.Equal(t, "/api/contracts/contracts/5/renew/", (*calls)[2].path)
	assert.Equal(t, "2027-01-31", (*calls)[2].body["end_date"])
}

func TestResource_AccountingSummary(t *testing.T) {
	client, calls := newBackend(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{"total_income":"5000.00","total_expenses":1250.25,"pending_count":3}`
	})
	entries := New(client, AccountingEntries, "2")

	raw, err := entries.CollectionAction(context.Background(), "summary", nil)
	require.NoError(t, err)

	summary, err := DecodeAccountingSummary(raw)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, summary.TotalIncome)
	assert.Equal(t, 1250.25, summary.TotalExpenses)
	assert.Equal(t, 3749.75, summary.NetProfit)
	assert.Equal(t, 3, summary.PendingCount)
	assert.Equal(t, "/api/accounting/entries/summary/", (*calls)[0].path)
}

func TestResource_ErrorsKeepAPIError(t *testing.T) {
	client, _ := newBackend(t, func(r *http.Request) (int, string) {
		return http.StatusBadRequest, `{"detail":"Duplicate license number"}`
	})
	doctors := New(client, Doctors, "2")

	_, err := doctors.Create(context.Background(), Doctor{Name: "Dr. Asante"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Duplicate license number", apiErr.Message())
}

func TestLogin(t *testing.T) {
	client, calls := newBackend(t, func(r *http.Request) (int, string) {
		assert.Empty(t, r.Header.Get("Authorization"))
		return http.StatusOK, `{"access":"a.b.c","refresh":"r","user":{"id":1,"email":"admin@lims.com"},"tenant":{"id":2}}`
	})

	res, err := Login(context.Background(), client, "/login/", "admin@lims.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", res.Access)
	assert.JSONEq(t, `{"id":2}`, string(res.Tenant))
	assert.Equal(t, "admin@lims.com", (*calls)[0].body["email"])
}

func TestLogin_NoToken(t *testing.T) {
	client, _ := newBackend(t, func(r *http.Request) (int, string) {
		return http.StatusOK, `{}`
	})

	_, err := Login(context.Background(), client, "", "x", "y")
	assert.Error(t, err)
}
