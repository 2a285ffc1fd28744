package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = errors.New("cache miss")

// Cache is the session storage backend. It plays the part browser local storage
// plays for a single-page app: tokens, tenant/user context and nothing else.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}

// SessionKey namespaces a storage key under a session id
func SessionKey(sessionID, name string) string {
	return "session:" + sessionID + ":" + name
}

// SessionPattern matches every key of a session
func SessionPattern(sessionID string) string {
	return "session:" + sessionID + ":*"
}
