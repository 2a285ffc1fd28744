package identity

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Session storage keys holding identity data
const (
	KeyTenant          = "tenant"
	KeyCurrentTenantID = "current_tenant_id"
	KeyUserContext     = "user_context"
	KeyUser            = "user"
	KeyCurrentUserID   = "current_user_id"
)

// ErrNoSession means the session id is unknown or its tokens are gone
var ErrNoSession = errors.New("no active session")

// Snapshot is the raw content of the identity keys of one session, read once per
// request. Any field may be empty or hold malformed JSON.
type Snapshot struct {
	Tenant          string
	CurrentTenantID string
	UserContext     string
	User            string
	CurrentUserID   string
}

// Defaults is the last step of every fallback chain
type Defaults struct {
	TenantID  string
	UserID    string
	UserEmail string
}

// Context is the resolved identity handed to screens and resource calls
type Context struct {
	TenantID string `json:"tenantId"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Resolve runs every fallback chain over the snapshot
func Resolve(s Snapshot, d Defaults) Context {
	user := object(s.User)
	uc := object(s.UserContext)
	return Context{
		TenantID: ResolveTenantID(s, d),
		UserID:   ResolveUserID(s, d),
		Email:    ResolveUserEmail(s, d),
		Role:     firstString(user, "role", uc, "role"),
		Name:     firstString(user, "name", uc, "name"),
	}
}

// ResolveTenantID walks tenant object → current_tenant_id → user_context.tenant_id → default
func ResolveTenantID(s Snapshot, d Defaults) string {
	if id := idString(object(s.Tenant)["id"]); id != "" {
		return id
	}
	if id := strings.TrimSpace(s.CurrentTenantID); id != "" {
		return id
	}
	if id := idString(object(s.UserContext)["tenant_id"]); id != "" {
		return id
	}
	return d.TenantID
}

// ResolveUserID walks user object → current_user_id → user_context.user_id → default
func ResolveUserID(s Snapshot, d Defaults) string {
	if id := idString(object(s.User)["id"]); id != "" {
		return id
	}
	if id := strings.TrimSpace(s.CurrentUserID); id != "" {
		return id
	}
	if id := idString(object(s.UserContext)["user_id"]); id != "" {
		return id
	}
	return d.UserID
}

// ResolveUserEmail walks user object → user_context.email → default
func ResolveUserEmail(s Snapshot, d Defaults) string {
	if email := idString(object(s.User)["email"]); email != "" {
		return email
	}
	if email := idString(object(s.UserContext)["email"]); email != "" {
		return email
	}
	return d.UserEmail
}

type contextKey string

const identityKey contextKey = "identity"

// WithContext stores the resolved identity on a request context
func WithContext(ctx context.Context, id Context) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity stored by WithContext
func FromContext(ctx context.Context) (Context, bool) {
	id, ok := ctx.Value(identityKey).(Context)
	return id, ok
}

// object decodes a JSON object; anything else yields nil
func object(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func firstString(a map[string]any, aKey string, b map[string]any, bKey string) string {
	if s := idString(a[aKey]); s != "" {
		return s
	}
	return idString(b[bKey])
}
