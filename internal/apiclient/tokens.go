package apiclient

import (
	"context"
	"sync"
)

// TokenStore persists the access/refresh token pair of one session
type TokenStore interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	// SetTokens stores a new pair; an empty refresh keeps the current one
	SetTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}

// MemoryTokens is a TokenStore held in process memory (CLI use and tests)
type MemoryTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
}

// NewMemoryTokens creates a token store holding the given pair
func NewMemoryTokens(access, refresh string) *MemoryTokens {
	return &MemoryTokens{access: access, refresh: refresh}
}

// Tokens returns the current pair
func (m *MemoryTokens) Tokens(ctx context.Context) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.refresh, nil
}

// SetTokens stores a new pair; an empty refresh keeps the current one
func (m *MemoryTokens) SetTokens(ctx context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	if refresh != "" {
		m.refresh = refresh
	}
	return nil
}

// Clear forgets both tokens
func (m *MemoryTokens) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	return nil
}
