package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/otcheredev/lims-admin-console/internal/cache"
	"github.com/otcheredev/lims-admin-console/internal/identity"
	"github.com/otcheredev/lims-admin-console/internal/models"
	"github.com/otcheredev/lims-admin-console/internal/resources"
	"github.com/rs/zerolog/log"
)

var (
	// ErrNoSession means the session id is unknown or its tokens are gone
	ErrNoSession = identity.ErrNoSession
	// ErrMissingCredentials is returned before calling the API with a blank form
	ErrMissingCredentials = errors.New("email and password are required")
)

// SessionConfig configures sign-in and identity resolution
type SessionConfig struct {
	TTL       time.Duration
	LoginPath string
	Defaults  identity.Defaults
}

// SessionService signs users in and out and reads their identity. The cache
// holds what a browser front-end would keep in local storage.
type SessionService struct {
	cache cache.Cache
	auth  resources.AnonymousDoer
	cfg   SessionConfig
	now   func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(c cache.Cache, auth resources.AnonymousDoer, cfg SessionConfig) *SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &SessionService{cache: c, auth: auth, cfg: cfg, now: time.Now}
}

// Login exchanges credentials for tokens and stores a new session
func (s *SessionService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	res, err := resources.Login(ctx, s.auth, s.cfg.LoginPath, email, password)
	if err != nil {
		return nil, err
	}

	values := map[string]string{
		KeyAccessToken:  res.Access,
		KeyRefreshToken: res.Refresh,
	}
	if present(res.User) {
		values[identity.KeyUser] = string(res.User)
	}
	if present(res.Tenant) {
		values[identity.KeyTenant] = string(res.Tenant)
	}
	if uc, err := userContextFromToken(res.Access); err != nil {
		log.Debug().Err(err).Msg("Access token carries no readable claims")
	} else {
		values[identity.KeyUserContext] = uc
	}

	snapshot := identity.Snapshot{
		Tenant:      values[identity.KeyTenant],
		User:        values[identity.KeyUser],
		UserContext: values[identity.KeyUserContext],
	}
	if id := identity.ResolveTenantID(snapshot, identity.Defaults{}); id != "" {
		values[identity.KeyCurrentTenantID] = id
	}
	if id := identity.ResolveUserID(snapshot, identity.Defaults{}); id != "" {
		values[identity.KeyCurrentUserID] = id
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	for name, value := range values {
		if value == "" {
			continue
		}
		if err := s.cache.Set(ctx, cache.SessionKey(session.ID, name), []byte(value), s.cfg.TTL); err != nil {
			_ = s.cache.Clear(ctx, cache.SessionPattern(session.ID))
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
	}

	snapshot.CurrentTenantID = values[identity.KeyCurrentTenantID]
	snapshot.CurrentUserID = values[identity.KeyCurrentUserID]
	session.Identity = identity.Resolve(snapshot, s.cfg.Defaults)

	log.Info().
		Str("session_id", session.ID).
		Str("tenant_id", session.Identity.TenantID).
		Str("user_id", session.Identity.UserID).
		Msg("User signed in")
	return session, nil
}

// Active reports whether the session still holds an access token
func (s *SessionService) Active(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	ok, err := s.cache.Exists(ctx, cache.SessionKey(sessionID, KeyAccessToken))
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return ok, nil
}

// Snapshot reads the identity keys of a session
func (s *SessionService) Snapshot(ctx context.Context, sessionID string) (identity.Snapshot, error) {
	ok, err := s.Active(ctx, sessionID)
	if err != nil {
		return identity.Snapshot{}, err
	}
	if !ok {
		return identity.Snapshot{}, ErrNoSession
	}

	var snap identity.Snapshot
	for name, dst := range map[string]*string{
		identity.KeyTenant:          &snap.Tenant,
		identity.KeyCurrentTenantID: &snap.CurrentTenantID,
		identity.KeyUserContext:     &snap.UserContext,
		identity.KeyUser:            &snap.User,
		identity.KeyCurrentUserID:   &snap.CurrentUserID,
	} {
		raw, err := s.cache.Get(ctx, cache.SessionKey(sessionID, name))
		if errors.Is(err, cache.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return identity.Snapshot{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		*dst = string(raw)
	}
	return snap, nil
}

// Identity resolves who owns a session
func (s *SessionService) Identity(ctx context.Context, sessionID string) (identity.Context, error) {
	snap, err := s.Snapshot(ctx, sessionID)
	if err != nil {
		return identity.Context{}, err
	}
	return identity.Resolve(snap, s.cfg.Defaults), nil
}

// Tokens returns the token store of a session
func (s *SessionService) Tokens(sessionID string) *CacheTokens {
	return NewCacheTokens(s.cache, sessionID, s.cfg.TTL)
}

// Logout removes every key of the session
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.cache.Clear(ctx, cache.SessionPattern(sessionID)); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	log.Info().Str("session_id", sessionID).Msg("User signed out")
	return nil
}

// userContextFromToken reads the access token claims without verifying the
// signature; the API verifies tokens, the console only needs the ids.
func userContextFromToken(token string) (string, error) {
	claims := &models.AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to parse access token: %w", err)
	}
	raw, err := json.Marshal(models.UserContext{
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Email:    claims.Email,
		Role:     claims.Role,
		Name:     claims.Name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode user context: %w", err)
	}
	return string(raw), nil
}

func present(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}
