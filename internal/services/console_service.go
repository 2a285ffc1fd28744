package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/apiclient"
	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/otcheredev/lims-admin-console/internal/screens"
	"github.com/rs/zerolog/log"
)

// ErrUnknownScreen is returned for a screen name that is not registered
var ErrUnknownScreen = errors.New("unknown screen")

// ScreenOptions are the per-screen settings shared by every session
type ScreenOptions struct {
	BannerTTL      time.Duration
	PasswordLength int
	// SweepInterval is how often screens of expired sessions are released;
	// zero disables the janitor
	SweepInterval time.Duration
}

// ConsoleService hands out the screens of a session, each bound to one API
// client that carries the session's tokens.
type ConsoleService struct {
	sessions *SessionService
	registry *ScreenRegistry
	api      apiclient.Config
	http     *http.Client
	opts     ScreenOptions
	recorder crud.Recorder

	mu      sync.Mutex
	clients map[string]*apiclient.Client

	done chan struct{}
	once sync.Once
}

// NewConsoleService creates a new console service. recorder may be nil.
func NewConsoleService(
	sessions *SessionService,
	registry *ScreenRegistry,
	api apiclient.Config,
	opts ScreenOptions,
	recorder crud.Recorder,
) *ConsoleService {
	timeout := api.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &ConsoleService{
		sessions: sessions,
		registry: registry,
		api:      api,
		http:     &http.Client{Timeout: timeout},
		opts:     opts,
		recorder: recorder,
		clients:  make(map[string]*apiclient.Client),
		done:     make(chan struct{}),
	}

	if opts.SweepInterval > 0 {
		go s.cleanup(opts.SweepInterval)
	}

	return s
}

// Screen returns the named screen of a session
func (s *ConsoleService) Screen(ctx context.Context, sessionID, name string) (crud.Controller, error) {
	def, ok := screens.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScreen, name)
	}

	if screen, ok := s.registry.Lookup(sessionID, name); ok {
		return screen, nil
	}

	// Resolve outside the registry lock; it reads session storage
	who, err := s.sessions.Identity(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.registry.Get(sessionID, name, func() (crud.Controller, error) {
		return def.Build(screens.Deps{
			Client:   s.client(sessionID),
			Identity: who,
			Options: crud.Options{
				BannerTTL: s.opts.BannerTTL,
				Recorder:  s.recorder,
				Actor: crud.Actor{
					SessionID: sessionID,
					TenantID:  who.TenantID,
					UserID:    who.UserID,
					Email:     who.Email,
				},
			},
			PasswordLength: s.opts.PasswordLength,
		}), nil
	})
}

// EndSession closes the session's screens and clears its storage
func (s *ConsoleService) EndSession(ctx context.Context, sessionID string) error {
	s.release(sessionID)
	return s.sessions.Logout(ctx, sessionID)
}

// Sweep releases the screens and clients of sessions whose storage has
// expired and returns how many sessions were released
func (s *ConsoleService) Sweep(ctx context.Context) int {
	ids := s.registry.Sessions()
	s.mu.Lock()
	for id := range s.clients {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	released := 0
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		ok, err := s.sessions.Active(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("Failed to check session during sweep")
			continue
		}
		if !ok {
			s.release(id)
			released++
		}
	}

	if released > 0 {
		log.Debug().Int("sessions", released).Msg("Released expired sessions")
	}
	return released
}

// Close stops the janitor and closes every live screen
func (s *ConsoleService) Close() {
	s.once.Do(func() { close(s.done) })
	s.registry.CloseAll()
}

func (s *ConsoleService) release(sessionID string) {
	s.registry.Remove(sessionID)

	s.mu.Lock()
	delete(s.clients, sessionID)
	s.mu.Unlock()
}

func (s *ConsoleService) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.done:
			return
		}
	}
}

// client returns the session's API client; one per session so token refreshes
// are shared by all of its screens
func (s *ConsoleService) client(sessionID string) *apiclient.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[sessionID]; ok {
		return c
	}
	c := apiclient.New(s.api, s.sessions.Tokens(sessionID), apiclient.WithHTTPClient(s.http))
	s.clients[sessionID] = c
	return c
}
