package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/cache"
)

// Session storage keys holding the token pair
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// CacheTokens keeps a session's token pair in the session cache
type CacheTokens struct {
	cache     cache.Cache
	sessionID string
	ttl       time.Duration
}

var _ apiclient.TokenStore = (*CacheTokens)(nil)

// NewCacheTokens binds a token store to one session
func NewCacheTokens(c cache.Cache, sessionID string, ttl time.Duration) *CacheTokens {
	return &CacheTokens{cache: c, sessionID: sessionID, ttl: ttl}
}

// Tokens reads the session's access and refresh tokens; missing keys read as empty
func (t *CacheTokens) Tokens(ctx context.Context) (string, string, error) {
	access, err := t.read(ctx, KeyAccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := t.read(ctx, KeyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SetTokens stores a new pair; an empty refresh keeps the current one
func (t *CacheTokens) SetTokens(ctx context.Context, access, refresh string) error {
	if err := t.cache.Set(ctx, cache.SessionKey(t.sessionID, KeyAccessToken), []byte(access), t.ttl); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}
	if refresh == "" {
		return nil
	}
	if err := t.cache.Set(ctx, cache.SessionKey(t.sessionID, KeyRefreshToken), []byte(refresh), t.ttl); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Clear drops the whole session, not only the tokens
func (t *CacheTokens) Clear(ctx context.Context) error {
	if err := t.cache.Clear(ctx, cache.SessionPattern(t.sessionID)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (t *CacheTokens) read(ctx context.Context, name string) (string, error) {
	raw, err := t.cache.Get(ctx, cache.SessionKey(t.sessionID, name))
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(raw), nil
}
