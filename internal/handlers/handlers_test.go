package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/cache"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/middleware"
	"github.com/otcheredev/lims-admin-console/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookie = "lims_session"

// fakeLIMS is a tiny LIMS backend with a login endpoint and a doctors collection
type fakeLIMS struct {
	srv *httptest.Server

	mu        sync.Mutex
	access    string
	refreshOK bool
	nextID    int
	doctors   map[int]map[string]any
	calls     []string
}

func newFakeLIMS(t *testing.T) *fakeLIMS {
	t.Helper()
	b := &fakeLIMS{
		access:    "access-1",
		refreshOK: true,
		nextID:    2,
		doctors: map[int]map[string]any{
			1: {"id": 1, "name": "Dr. Mensah", "email": "mensah@lab.com", "specialization": "Pathology", "status": "active", "experience_years": 8},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"No active account found with the given credentials"}`)
			return
		}
		b.mu.Lock()
		access := b.access
		b.mu.Unlock()
		io.WriteString(w, `{"access":"`+access+`","refresh":"refresh-1","user":{"id":4,"email":"ama@lab.com","name":"Ama Owusu"},"tenant":{"id":9,"name":"Korle Lab"}}`)
	})
	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if !b.refreshOK {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Token is blacklisted"}`)
			return
		}
		io.WriteString(w, `{"access":"`+b.access+`"}`)
	})
	mux.HandleFunc("/api/doctors/doctors/", b.authorized(b.collection))
	mux.HandleFunc("/api/doctors/doctors/{id}/", b.authorized(b.item))

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeLIMS) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		ok := r.Header.Get("Authorization") == "Bearer "+b.access
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Given token not valid for any token type"}`)
			return
		}
		next(w, r)
	}
}

func (b *fakeLIMS) collection(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		ids := make([]int, 0, len(b.doctors))
		for id := range b.doctors {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			out = append(out, b.doctors[id])
		}
		json.NewEncoder(w).Encode(out)
	case http.MethodPost:
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		doc["id"] = b.nextID
		b.doctors[b.nextID] = doc
		b.nextID++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeLIMS) item(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || b.doctors[id] == nil {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"Not found."}`)
		return
	}

	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(b.doctors[id])
	case http.MethodPut:
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		doc["id"] = id
		b.doctors[id] = doc
		json.NewEncoder(w).Encode(doc)
	case http.MethodDelete:
		delete(b.doctors, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeLIMS) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

type testApp struct {
	router   http.Handler
	backend  *fakeLIMS
	sessions *services.SessionService
	registry *services.ScreenRegistry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	backend := newFakeLIMS(t)
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })

	apiCfg := apiclient.Config{BaseURL: backend.srv.URL + "/api", RefreshPath: "/token/refresh/"}
	auth := apiclient.New(apiCfg, apiclient.NewMemoryTokens("", ""))
	sessions := services.NewSessionService(mc, auth, services.SessionConfig{
		TTL:      time.Hour,
		Defaults: identity.Defaults{TenantID: "2", UserID: "1", UserEmail: "admin@lims.com"},
	})
	registry := services.NewScreenRegistry()
	console := services.NewConsoleService(sessions, registry, apiCfg,
		services.ScreenOptions{BannerTTL: time.Second, PasswordLength: 12}, nil)
	t.Cleanup(console.Close)

	views := MustLoadViews()
	cookie := CookieConfig{Name: testCookie, TTL: time.Hour}
	authHandler := NewAuthHandler(sessions, console, cookie, views)
	screenHandler := NewScreenHandler(console, cookie, "/login", views)
	health := NewHealthHandler(mc, nil)

	r := chi.NewRouter()
	r.Get("/health", health.Health)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Route("/tenant-admin", func(r chi.Router) {
		r.Use(middleware.Session(testCookie, "/login", sessions, console))
		screenHandler.Mount(r)
	})

	return &testApp{router: r, backend: backend, sessions: sessions, registry: registry}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := a.do(formRequest(http.MethodPost, "/login", url.Values{"email": {"ama@lab.com"}, "password": {"pw"}}))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tenant-admin/", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, target, body string, cookie *http.Cookie) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) crud.View {
	t.Helper()
	var v crud.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	rec := httptest.NewRecorder()
	NewHealthHandler(mc, nil).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Services["cache"])
	_, hasDB := body.Services["database"]
	assert.False(t, hasDB, "database is only reported when enabled")

	degraded := NewHealthHandler(mc, func() error { return errors.New("connection refused") })
	rec = httptest.NewRecorder()
	degraded.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"unhealthy"`)

	rec = httptest.NewRecorder()
	degraded.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(mc, nil).Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	who, err := app.sessions.Identity(t.Context(), cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "9", who.TenantID)
	assert.Equal(t, "4", who.UserID)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(formRequest(http.MethodPost, "/login", url.Values{"email": {"ama@lab.com"}, "password": {"wrong"}}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "No active account found with the given credentials")
	assert.Empty(t, rec.Result().Cookies())

	rec = app.do(jsonRequest(http.MethodPost, "/login", `{"email":"","password":""}`, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email and password are required")
}

func TestTenantAdmin_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/tenant-admin/doctors", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", &http.Cookie{Name: testCookie, Value: "forged"}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestScreens_DashboardAndShow(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	req := httptest.NewRequest(http.MethodGet, "/tenant-admin/", nil)
	req.AddCookie(cookie)
	rec := app.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/tenant-admin/doctors")

	rec = app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "doctors", v.Name)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Dr. Mensah", v.Rows[0].Cells[0])

	req = httptest.NewRequest(http.MethodGet, "/tenant-admin/doctors?search=mensah&edit=1", nil)
	req.AddCookie(cookie)
	rec = app.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dr. Mensah")
}

func TestScreens_UnknownScreen(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	rec := app.do(jsonRequest(http.MethodGet, "/tenant-admin/radiology", "", cookie))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreens_CreateFromForm(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)
	require.Equal(t, http.StatusOK, app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie)).Code)

	req := formRequest(http.MethodPost, "/tenant-admin/doctors", url.Values{
		"name":           {"Dr. Owusu"},
		"email":          {"owusu@lab.com"},
		"specialization": {"Haematology"},
		"status":         {"active"},
	})
	req.AddCookie(cookie)
	rec := app.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tenant-admin/doctors", rec.Header().Get("Location"))
	assert.True(t, app.backend.called("POST /api/doctors/doctors/"))

	rec = app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie))
	v := decodeView(t, rec)
	assert.Len(t, v.Rows, 2)
}

func TestScreens_CreateValidationError(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	req := formRequest(http.MethodPost, "/tenant-admin/doctors", url.Values{
		"name":  {"Dr. Owusu"},
		"email": {"owusu@lab.com"},
	})
	req.AddCookie(cookie)
	rec := app.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Specialization is required")
	assert.False(t, app.backend.called("POST /api/doctors/doctors/"))

	rec = app.do(jsonRequest(http.MethodPost, "/tenant-admin/doctors", `{"name":"Dr. Owusu"}`, cookie))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Email is required", body.Error)
}

func TestScreens_ToggleAndDelete(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)
	require.Equal(t, http.StatusOK, app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie)).Code)

	rec := app.do(jsonRequest(http.MethodPost, "/tenant-admin/doctors/1/toggle", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "inactive", v.Rows[0].Cells[5])

	rec = app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors/1/delete", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", decodeView(t, rec).PendingDelete)
	assert.False(t, app.backend.called("DELETE /api/doctors/doctors/1/"), "requesting a delete only marks the row")

	rec = app.do(jsonRequest(http.MethodPost, "/tenant-admin/doctors/delete/cancel", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).PendingDelete)

	rec = app.do(jsonRequest(http.MethodPost, "/tenant-admin/doctors/1/delete", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, app.backend.called("DELETE /api/doctors/doctors/1/"))
	assert.Empty(t, decodeView(t, rec).Rows)
}

func TestScreens_ExpiredSessionSignsOut(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	app.backend.mu.Lock()
	app.backend.access = "rotated"
	app.backend.refreshOK = false
	app.backend.mu.Unlock()

	rec := app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie is cleared")

	_, err := app.sessions.Identity(t.Context(), cookie.Value)
	assert.ErrorIs(t, err, services.ErrNoSession)
}

func TestScreens_LapsedSessionReleasesScreens(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	rec := app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, app.registry.Len())

	// storage lapses on its own, without a logout
	require.NoError(t, app.sessions.Logout(t.Context(), cookie.Value))

	rec = app.do(jsonRequest(http.MethodGet, "/tenant-admin/doctors", "", cookie))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, app.registry.Len())
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := app.do(req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err := app.sessions.Identity(t.Context(), cookie.Value)
	assert.ErrorIs(t, err, services.ErrNoSession)
}

func TestQueryHelpers(t *testing.T) {
	facets := []crud.FacetView{{Key: "status"}, {Key: "type"}}
	q := queryFrom(url.Values{"search": {"  mensah "}, "status": {"active"}, "type": {crud.All}, "other": {"x"}}, facets)
	assert.Equal(t, "mensah", q.Search)
	assert.Equal(t, map[string]string{"status": "active"}, q.Filters)

	assert.True(t, sameQuery(q, crud.Query{Search: "mensah", Filters: map[string]string{"status": "active", "type": crud.All}}))
	assert.False(t, sameQuery(q, crud.Query{Search: "mensah"}))
	assert.True(t, sameQuery(crud.Query{}, crud.Query{Filters: map[string]string{}}))

	assert.True(t, hasQuery(url.Values{"status": {"all"}}, facets))
	assert.False(t, hasQuery(url.Values{"edit": {"1"}, "format": {"json"}}, facets))

	v := crud.View{Name: "doctors", Query: crud.Query{Search: "dr o", Filters: map[string]string{"status": "on_leave"}}}
	assert.Equal(t, "/tenant-admin/doctors?search=dr+o&status=on_leave", screenURL(v))
	assert.Equal(t, "/tenant-admin/doctors", screenURL(crud.View{Name: "doctors"}))
}
