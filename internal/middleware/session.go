package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/rs/zerolog/log"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// IdentityResolver looks up who owns a session
type IdentityResolver interface {
	Identity(ctx context.Context, sessionID string) (identity.Context, error)
}

// SessionEnder releases the server-side state of a session
type SessionEnder interface {
	EndSession(ctx context.Context, sessionID string) error
}

// Session requires a signed-in session. Browsers are redirected to loginPath,
// JSON clients get a 401. A cookie whose session is gone is handed to ender
// (when set) so its screens are released.
func Session(cookieName, loginPath string, resolver IdentityResolver, ender SessionEnder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				Unauthenticated(w, r, loginPath)
				return
			}

			who, err := resolver.Identity(r.Context(), cookie.Value)
			if err != nil {
				log.Debug().Err(err).Msg("Session lookup failed")
				if ender != nil && errors.Is(err, identity.ErrNoSession) {
					if err := ender.EndSession(r.Context(), cookie.Value); err != nil {
						log.Warn().Err(err).Str("session_id", cookie.Value).Msg("Failed to end expired session")
					}
				}
				Unauthenticated(w, r, loginPath)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, cookie.Value)
			ctx = identity.WithContext(ctx, who)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session id stored by Session
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

// WithSessionID stores a session id on a context
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, SessionIDKey, id)
}

// WantsJSON reports whether the client asked for JSON instead of HTML
func WantsJSON(r *http.Request) bool {
	return r.URL.Query().Get("format") == "json" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Unauthenticated sends the client to the sign-in page
func Unauthenticated(w http.ResponseWriter, r *http.Request, loginPath string) {
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
		return
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
