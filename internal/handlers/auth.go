package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/middleware"
	"github.com/otcheredev/lims-admin-console/internal/models"
	"github.com/otcheredev/lims-admin-console/internal/services"
	"github.com/rs/zerolog/log"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionEnder ends a session and releases its screens
type SessionEnder interface {
	EndSession(ctx context.Context, sessionID string) error
}

type AuthHandler struct {
	sessions *services.SessionService
	ender    SessionEnder
	cookie   CookieConfig
	views    *Views
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *services.SessionService, ender SessionEnder, cookie CookieConfig, views *Views) *AuthHandler {
	return &AuthHandler{sessions: sessions, ender: ender, cookie: cookie, views: views}
}

// LoginForm renders the sign-in page
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	templateResponse(w, http.StatusOK, h.views.login, &loginPage{})
}

// Login signs the user in from a form post or a JSON body
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonResponse(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
			return
		}
	} else {
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}

	sess, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		msg := loginMessage(err)
		log.Warn().Err(err).Str("email", req.Email).Msg("Sign-in failed")
		if middleware.WantsJSON(r) {
			jsonResponse(w, loginStatus(err), errorResponse{Error: msg})
			return
		}
		templateResponse(w, http.StatusUnauthorized, h.views.login, &loginPage{Email: req.Email, Error: msg})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	if middleware.WantsJSON(r) {
		jsonResponse(w, http.StatusOK, sess)
		return
	}
	http.Redirect(w, r, "/tenant-admin/", http.StatusSeeOther)
}

// Logout ends the session and returns to the sign-in page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.ender.EndSession(r.Context(), cookie.Value); err != nil {
			log.Error().Err(err).Msg("Failed to end session")
		}
	}
	clearCookie(w, h.cookie)

	if middleware.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func clearCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func loginMessage(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		return "Email and password are required"
	case errors.As(err, &apiErr):
		return apiErr.Message()
	default:
		return crud.MsgUnexpected
	}
}

func loginStatus(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
