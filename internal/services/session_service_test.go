package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/cache"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = identity.Defaults{TenantID: "2", UserID: "1", UserEmail: "admin@lims.com"}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// loginBackend answers POST /api/login/ with body
func loginBackend(t *testing.T, status int, body string) (*apiclient.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/api/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds map[string]string
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &creds))
		assert.NotEmpty(t, creds["email"])

		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"}, apiclient.NewMemoryTokens("", "")), &calls
}

func newSessions(t *testing.T, auth *apiclient.Client) (*SessionService, *cache.MemoryCache) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	return NewSessionService(mc, auth, SessionConfig{TTL: time.Hour, Defaults: testDefaults}), mc
}

func TestLogin_StoresSession(t *testing.T) {
	access := signedToken(t, jwt.MapClaims{"user_id": 14, "tenant_id": 5, "email": "ama@lab.com", "role": "tenant_admin"})
	body := `{"access":"` + access + `","refresh":"r-1","user":{"id":14,"email":"ama@lab.com","name":"Ama Owusu"},"tenant":{"id":5,"name":"Korle Lab"}}`
	client, _ := loginBackend(t, http.StatusOK, body)
	sessions, _ := newSessions(t, client)
	ctx := context.Background()

	sess, err := sessions.Login(ctx, " ama@lab.com ", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "5", sess.Identity.TenantID)
	assert.Equal(t, "14", sess.Identity.UserID)
	assert.Equal(t, "ama@lab.com", sess.Identity.Email)
	assert.Equal(t, "tenant_admin", sess.Identity.Role, "role comes from the token claims")
	assert.Equal(t, "Ama Owusu", sess.Identity.Name)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.CreatedAt))

	gotAccess, gotRefresh, err := sessions.Tokens(sess.ID).Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, access, gotAccess)
	assert.Equal(t, "r-1", gotRefresh)

	snap, err := sessions.Snapshot(ctx, sess.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":5,"name":"Korle Lab"}`, snap.Tenant)
	assert.Equal(t, "5", snap.CurrentTenantID)
	assert.Equal(t, "14", snap.CurrentUserID)
	assert.JSONEq(t, `{"user_id":14,"tenant_id":5,"email":"ama@lab.com","role":"tenant_admin"}`, snap.UserContext)

	who, err := sessions.Identity(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Identity, who)
}

func TestLogin_IdentityFromTokenOnly(t *testing.T) {
	access := signedToken(t, jwt.MapClaims{"user_id": "u-9", "tenant_id": "7"})
	client, _ := loginBackend(t, http.StatusOK, `{"access":"`+access+`","refresh":"r"}`)
	sessions, _ := newSessions(t, client)

	sess, err := sessions.Login(context.Background(), "tech@lab.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "7", sess.Identity.TenantID)
	assert.Equal(t, "u-9", sess.Identity.UserID)
	assert.Equal(t, "admin@lims.com", sess.Identity.Email, "falls back to the configured default")
}

func TestLogin_OpaqueTokenFallsBackToDefaults(t *testing.T) {
	client, _ := loginBackend(t, http.StatusOK, `{"access":"opaque-token","refresh":"r"}`)
	sessions, _ := newSessions(t, client)

	sess, err := sessions.Login(context.Background(), "tech@lab.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "2", sess.Identity.TenantID)
	assert.Equal(t, "1", sess.Identity.UserID)

	snap, err := sessions.Snapshot(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.UserContext)
	assert.Empty(t, snap.CurrentTenantID)
}

func TestLogin_Rejected(t *testing.T) {
	client, _ := loginBackend(t, http.StatusUnauthorized, `{"detail":"No active account found with the given credentials"}`)
	sessions, _ := newSessions(t, client)

	_, err := sessions.Login(context.Background(), "ama@lab.com", "wrong")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Message())
	assert.NotErrorIs(t, err, apiclient.ErrSessionExpired)
}

func TestLogin_MissingCredentialsSkipsNetwork(t *testing.T) {
	client, calls := loginBackend(t, http.StatusOK, `{}`)
	sessions, _ := newSessions(t, client)

	_, err := sessions.Login(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	_, err = sessions.Login(context.Background(), "ama@lab.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestLogout(t *testing.T) {
	client, _ := loginBackend(t, http.StatusOK, `{"access":"a","refresh":"r","user":{"id":3}}`)
	sessions, mc := newSessions(t, client)
	ctx := context.Background()

	sess, err := sessions.Login(ctx, "ama@lab.com", "pw")
	require.NoError(t, err)
	require.NoError(t, mc.Set(ctx, cache.SessionKey("other", KeyAccessToken), []byte("x"), 0))

	require.NoError(t, sessions.Logout(ctx, sess.ID))

	_, err = sessions.Snapshot(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	ok, err := mc.Exists(ctx, cache.SessionKey("other", KeyAccessToken))
	require.NoError(t, err)
	assert.True(t, ok, "other sessions are untouched")

	assert.NoError(t, sessions.Logout(ctx, ""))
}

func TestSnapshot_UnknownSession(t *testing.T) {
	sessions, _ := newSessions(t, nil)
	_, err := sessions.Snapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = sessions.Identity(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCacheTokens(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()
	tokens := NewCacheTokens(mc, "s-1", time.Minute)

	access, refresh, err := tokens.Tokens(ctx)
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)

	require.NoError(t, tokens.SetTokens(ctx, "a-1", "r-1"))
	require.NoError(t, tokens.SetTokens(ctx, "a-2", ""))
	access, refresh, err = tokens.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a-2", access)
	assert.Equal(t, "r-1", refresh, "empty refresh keeps the current one")

	require.NoError(t, mc.Set(ctx, cache.SessionKey("s-1", identity.KeyUser), []byte(`{"id":1}`), 0))
	require.NoError(t, tokens.Clear(ctx))
	ok, err := mc.Exists(ctx, cache.SessionKey("s-1", identity.KeyUser))
	require.NoError(t, err)
	assert.False(t, ok, "clearing tokens ends the whole session")
}
