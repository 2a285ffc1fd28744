package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// AnonymousDoer sends requests that carry no bearer token
type AnonymousDoer interface {
	DoAnonymous(ctx context.Context, method, path string, body, out any) error
}

// LoginResult is the answer of the login endpoint. User and Tenant are kept as
// raw JSON because they are stored verbatim in the session.
type LoginResult struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user,omitempty"`
	Tenant  json.RawMessage `json:"tenant,omitempty"`
}

// Login exchanges credentials for a token pair
func Login(ctx context.Context, client AnonymousDoer, path, email, password string) (*LoginResult, error) {
	if path == "" {
		path = "/login/"
	}

	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := client.DoAnonymous(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if out.Access == "" {
		return nil, errors.New("login response carried no access token")
	}
	return &out, nil
}
