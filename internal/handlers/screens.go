package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/middleware"
	"github.com/otcheredev/lims-admin-console/internal/screens"
	"github.com/otcheredev/lims-admin-console/internal/services"
	"github.com/rs/zerolog/log"
)

const maxPayloadSize = 1 << 20

// ScreenProvider hands out the screens of a session
type ScreenProvider interface {
	Screen(ctx context.Context, sessionID, name string) (crud.Controller, error)
	SessionEnder
}

// ScreenHandler serves the /tenant-admin tree
type ScreenHandler struct {
	console   ScreenProvider
	cookie    CookieConfig
	loginPath string
	views     *Views
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(console ScreenProvider, cookie CookieConfig, loginPath string, views *Views) *ScreenHandler {
	return &ScreenHandler{console: console, cookie: cookie, loginPath: loginPath, views: views}
}

// Mount registers the screen routes; the caller applies the session middleware
func (h *ScreenHandler) Mount(r chi.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/{screen}", h.Show)
	r.Post("/{screen}", h.Create)
	r.Post("/{screen}/dismiss", h.Dismiss)
	r.Post("/{screen}/delete/cancel", h.CancelDelete)
	r.Get("/{screen}/reports/{report}", h.Report)
	r.Post("/{screen}/{id}", h.Update)
	r.Post("/{screen}/{id}/toggle", h.Toggle)
	r.Get("/{screen}/{id}/delete", h.RequestDelete)
	r.Post("/{screen}/{id}/delete", h.ConfirmDelete)
	r.Post("/{screen}/{id}/actions/{action}", h.Action)
}

// Dashboard lists the available screens
func (h *ScreenHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	all := screens.All()
	if middleware.WantsJSON(r) {
		type entry struct {
			Name  string `json:"name"`
			Title string `json:"title"`
		}
		out := make([]entry, 0, len(all))
		for _, d := range all {
			out = append(out, entry{Name: d.Name, Title: d.Title})
		}
		jsonResponse(w, http.StatusOK, map[string]any{"screens": out})
		return
	}
	templateResponse(w, http.StatusOK, h.views.dashboard, &dashboardPage{User: userFrom(r.Context()), Screens: all})
}

// Show renders a screen, loading it on first visit, on ?refresh=1 or when the
// query changed. A URL without search or facet parameters keeps the current query.
func (h *ScreenHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}

	current := ctl.View()
	values := r.URL.Query()
	q := current.Query
	if hasQuery(values, current.Facets) {
		q = queryFrom(values, current.Facets)
	}
	if current.State == crud.Idle.String() || values.Get("refresh") != "" || !sameQuery(current.Query, q) {
		if err := ctl.Load(r.Context(), q); err != nil {
			if h.expired(w, r, err) {
				return
			}
			log.Warn().Err(err).Str("screen", ctl.Name()).Msg("Failed to load screen")
		}
	}

	v := ctl.View()
	if middleware.WantsJSON(r) {
		jsonResponse(w, http.StatusOK, v)
		return
	}

	var edit *crud.Row
	if id := r.URL.Query().Get("edit"); id != "" {
		for i := range v.Rows {
			if v.Rows[i].ID == id {
				edit = &v.Rows[i]
				break
			}
		}
	}
	templateResponse(w, http.StatusOK, h.views.screen, &screenPage{User: userFrom(r.Context()), View: v, Edit: edit})
}

// Create adds a row from the submitted form
func (h *ScreenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	raw, err := payload(r, ctl.Fields())
	if err == nil {
		err = ctl.CreateJSON(r.Context(), raw)
	}
	h.respond(w, r, ctl, err, http.StatusCreated)
}

// Update saves the edited row
func (h *ScreenHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	raw, err := payload(r, ctl.Fields())
	if err == nil {
		err = ctl.UpdateJSON(r.Context(), chi.URLParam(r, "id"), raw)
	}
	h.respond(w, r, ctl, err, http.StatusOK)
}

// Toggle flips the row's status
func (h *ScreenHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	h.respond(w, r, ctl, ctl.Toggle(r.Context(), chi.URLParam(r, "id")), http.StatusOK)
}

// RequestDelete is the first step of a delete: it only marks the row
func (h *ScreenHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	h.respond(w, r, ctl, ctl.RequestDelete(chi.URLParam(r, "id")), http.StatusOK)
}

// ConfirmDelete deletes the row; posting here is the confirmation
func (h *ScreenHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var err error
	if ctl.PendingDelete() != id {
		err = ctl.RequestDelete(id)
	}
	if err == nil {
		err = ctl.ConfirmDelete(r.Context())
	}
	h.respond(w, r, ctl, err, http.StatusOK)
}

// CancelDelete drops a pending delete
func (h *ScreenHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	ctl.CancelDelete()
	h.respond(w, r, ctl, nil, http.StatusOK)
}

// Dismiss clears the screen's banners
func (h *ScreenHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}
	ctl.DismissError()
	h.respond(w, r, ctl, nil, http.StatusOK)
}

// Action runs a detail action such as renew or approve. JSON clients may send a body.
func (h *ScreenHandler) Action(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}

	var body any
	if isJSON(r) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
		if err != nil {
			h.respond(w, r, ctl, err, http.StatusOK)
			return
		}
		if len(strings.TrimSpace(string(raw))) > 0 {
			if !json.Valid(raw) {
				h.respond(w, r, ctl, &crud.ValidationError{Message: "Invalid request body"}, http.StatusOK)
				return
			}
			body = json.RawMessage(raw)
		}
	}

	err := ctl.RunAction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action"), body)
	h.respond(w, r, ctl, err, http.StatusOK)
}

// Report passes a collection report such as the accounting summary through as JSON
func (h *ScreenHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.screen(w, r)
	if !ok {
		return
	}

	raw, err := ctl.Report(r.Context(), chi.URLParam(r, "report"))
	if err != nil {
		if h.expired(w, r, err) {
			return
		}
		jsonError(w, err)
		return
	}
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	jsonResponse(w, http.StatusOK, raw)
}

// screen resolves the session's controller named in the URL
func (h *ScreenHandler) screen(w http.ResponseWriter, r *http.Request) (crud.Controller, bool) {
	sessionID, _ := middleware.GetSessionID(r.Context())
	ctl, err := h.console.Screen(r.Context(), sessionID, chi.URLParam(r, "screen"))
	if err == nil {
		return ctl, true
	}

	switch {
	case h.expired(w, r, err):
	case errors.Is(err, services.ErrUnknownScreen):
		if middleware.WantsJSON(r) {
			jsonResponse(w, http.StatusNotFound, errorResponse{Error: "Screen not found"})
		} else {
			http.NotFound(w, r)
		}
	default:
		log.Error().Err(err).Str("screen", chi.URLParam(r, "screen")).Msg("Failed to open screen")
		if middleware.WantsJSON(r) {
			jsonError(w, err)
		} else {
			http.Error(w, crud.MsgUnexpected, http.StatusInternalServerError)
		}
	}
	return nil, false
}

// respond finishes a mutation. Browsers are redirected back to the screen on
// success and see the page with its error banner on failure.
func (h *ScreenHandler) respond(w http.ResponseWriter, r *http.Request, ctl crud.Controller, err error, okStatus int) {
	if err != nil && h.expired(w, r, err) {
		return
	}

	if middleware.WantsJSON(r) {
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonResponse(w, okStatus, ctl.View())
		return
	}

	v := ctl.View()
	if err == nil {
		http.Redirect(w, r, screenURL(v), http.StatusSeeOther)
		return
	}
	if v.Error == "" {
		v.Error = crud.DisplayMessage(err)
	}
	templateResponse(w, errorStatus(err), h.views.screen, &screenPage{User: userFrom(r.Context()), View: v})
}

// expired ends the session when the API no longer accepts its tokens
func (h *ScreenHandler) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrSessionExpired) && !errors.Is(err, services.ErrNoSession) {
		return false
	}
	if sessionID, ok := middleware.GetSessionID(r.Context()); ok {
		if endErr := h.console.EndSession(r.Context(), sessionID); endErr != nil {
			log.Error().Err(endErr).Msg("Failed to end expired session")
		}
	}
	clearCookie(w, h.cookie)
	log.Info().Err(err).Msg("Session expired, signing out")
	middleware.Unauthenticated(w, r, h.loginPath)
	return true
}

func payload(r *http.Request, fields []crud.Field) (json.RawMessage, error) {
	if isJSON(r) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
		if err != nil {
			return nil, err
		}
		return raw, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, &crud.ValidationError{Message: "Invalid form data"}
	}
	return crud.FormPayload(fields, r.PostForm)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func hasQuery(values url.Values, facets []crud.FacetView) bool {
	if values.Has("search") {
		return true
	}
	for _, f := range facets {
		if values.Has(f.Key) {
			return true
		}
	}
	return false
}

func queryFrom(values url.Values, facets []crud.FacetView) crud.Query {
	q := crud.Query{Search: strings.TrimSpace(values.Get("search"))}
	for _, f := range facets {
		if v := values.Get(f.Key); v != "" && v != crud.All {
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			q.Filters[f.Key] = v
		}
	}
	return q
}

func sameQuery(a, b crud.Query) bool {
	if a.Search != b.Search {
		return false
	}
	active := func(m map[string]string) map[string]string {
		out := map[string]string{}
		for k, v := range m {
			if v != "" && v != crud.All {
				out[k] = v
			}
		}
		return out
	}
	am, bm := active(a.Filters), active(b.Filters)
	if len(am) != len(bm) {
		return false
	}
	for k, v := range am {
		if bm[k] != v {
			return false
		}
	}
	return true
}

// screenURL rebuilds the screen location with its current query
func screenURL(v crud.View) string {
	values := url.Values{}
	if v.Query.Search != "" {
		values.Set("search", v.Query.Search)
	}
	for k, val := range v.Query.Filters {
		if val != "" && val != crud.All {
			values.Set(k, val)
		}
	}
	u := "/tenant-admin/" + v.Name
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

func userFrom(ctx context.Context) *identity.Context {
	who, ok := identity.FromContext(ctx)
	if !ok {
		return nil
	}
	return &who
}
