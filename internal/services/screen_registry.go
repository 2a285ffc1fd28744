package services

import (
	"fmt"
	"sync"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/metrics"
)

// ScreenRegistry holds the live screens of every session. A screen keeps its
// list and banners between requests until the session ends.
type ScreenRegistry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]crud.Controller // session id -> screen name
}

// NewScreenRegistry creates an empty registry
func NewScreenRegistry() *ScreenRegistry {
	return &ScreenRegistry{
		sessions: make(map[string]map[string]crud.Controller),
	}
}

// Lookup returns the session's screen if it was already built
func (r *ScreenRegistry) Lookup(sessionID, name string) (crud.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	screen, exists := r.sessions[sessionID][name]
	return screen, exists
}

// Get returns the session's screen, building it on first use. build runs
// under the registry lock and must not block.
func (r *ScreenRegistry) Get(sessionID, name string, build func() (crud.Controller, error)) (crud.Controller, error) {
	r.mu.RLock()
	screen, exists := r.sessions[sessionID][name]
	r.mu.RUnlock()

	if exists {
		return screen, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if screen, exists := r.sessions[sessionID][name]; exists {
		return screen, nil
	}

	screen, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen %s: %w", name, err)
	}

	if r.sessions[sessionID] == nil {
		r.sessions[sessionID] = make(map[string]crud.Controller)
	}
	r.sessions[sessionID][name] = screen
	metrics.ActiveScreens.Inc()
	return screen, nil
}

// Remove closes every screen of a session; in-flight calls are cancelled
func (r *ScreenRegistry) Remove(sessionID string) {
	r.mu.Lock()
	screens := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	for _, screen := range screens {
		screen.Close()
	}
	metrics.ActiveScreens.Sub(float64(len(screens)))
}

// Sessions lists the ids of the sessions holding screens
func (r *ScreenRegistry) Sessions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// CloseAll closes all screens of all sessions
func (r *ScreenRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]map[string]crud.Controller)
	r.mu.Unlock()

	n := 0
	for _, screens := range sessions {
		for _, screen := range screens {
			screen.Close()
			n++
		}
	}
	metrics.ActiveScreens.Sub(float64(n))
}

// Len is the number of live screens
func (r *ScreenRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, screens := range r.sessions {
		n += len(screens)
	}
	return n
}
