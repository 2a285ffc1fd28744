package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFunc func(ctx context.Context, id string) (identity.Context, error)

func (f resolverFunc) Identity(ctx context.Context, id string) (identity.Context, error) {
	return f(ctx, id)
}

type enderFunc func(ctx context.Context, id string) error

func (f enderFunc) EndSession(ctx context.Context, id string) error {
	return f(ctx, id)
}

func TestSession(t *testing.T) {
	resolver := resolverFunc(func(ctx context.Context, id string) (identity.Context, error) {
		switch id {
		case "good":
			return identity.Context{TenantID: "2", UserID: "7"}, nil
		case "broken":
			return identity.Context{}, errors.New("connection refused")
		}
		return identity.Context{}, identity.ErrNoSession
	})

	var ended []string
	ender := enderFunc(func(ctx context.Context, id string) error {
		ended = append(ended, id)
		return nil
	})

	var seenID string
	var seenWho identity.Context
	handler := Session("lims_session", "/login", resolver, ender)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = GetSessionID(r.Context())
		seenWho, _ = identity.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant-admin/doctors", nil)
		req.AddCookie(&http.Cookie{Name: "lims_session", Value: "good"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "good", seenID)
		assert.Equal(t, "2", seenWho.TenantID)
	})

	t.Run("no cookie redirects", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tenant-admin/", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("unknown session redirects and is ended", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant-admin/", nil)
		req.AddCookie(&http.Cookie{Name: "lims_session", Value: "stale"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []string{"stale"}, ended)
	})

	t.Run("storage errors keep the session", func(t *testing.T) {
		ended = nil
		req := httptest.NewRequest(http.MethodGet, "/tenant-admin/", nil)
		req.AddCookie(&http.Cookie{Name: "lims_session", Value: "broken"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Empty(t, ended)
	})

	t.Run("json clients get 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant-admin/doctors?format=json", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	})
}

func TestWantsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, WantsJSON(req))

	req.Header.Set("Accept", "application/json, text/plain")
	assert.True(t, WantsJSON(req))

	assert.True(t, WantsJSON(httptest.NewRequest(http.MethodGet, "/x?format=json", nil)))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_PassesThrough(t *testing.T) {
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}
