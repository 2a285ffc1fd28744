package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/otcheredev/lims-admin-console/internal/identity"
)

// Session is a signed-in console user
type Session struct {
	ID        string           `json:"id"`
	Identity  identity.Context `json:"identity"`
	CreatedAt time.Time        `json:"created_at"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// AccessClaims are the claims the LIMS API puts in its access tokens. Ids may
// arrive as numbers or strings.
type AccessClaims struct {
	UserID   any    `json:"user_id,omitempty"`
	TenantID any    `json:"tenant_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserContext is what gets stored under the user_context session key
type UserContext struct {
	UserID   any    `json:"user_id,omitempty"`
	TenantID any    `json:"tenant_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Name     string `json:"name,omitempty"`
}

// LoginRequest is the sign-in form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
