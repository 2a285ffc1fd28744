package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/metrics"
	"github.com/rs/zerolog/log"
)

const defaultBannerTTL = 4 * time.Second

// Screen is the state machine behind one admin table: load, search, create,
// edit, toggle, two-step delete. At most one mutation runs at a time and the
// local list only changes after the backend confirmed the change.
type Screen[V any] struct {
	cfg     Config[V]
	backend Backend[V]
	opts    Options

	// life is cancelled by Close and aborts every in-flight call
	life   context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         State
	loaded        bool
	items         []V
	total         int
	query         Query
	errMsg        string
	success       string
	successAt     time.Time
	pendingDelete string
	mutating      bool
	loadSeq       uint64
	closed        bool
}

// New creates an idle screen
func New[V any](cfg Config[V], backend Backend[V], opts Options) *Screen[V] {
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = defaultBannerTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	life, cancel := context.WithCancel(context.Background())
	return &Screen[V]{
		cfg:     cfg,
		backend: backend,
		opts:    opts,
		life:    life,
		cancel:  cancel,
		items:   []V{},
	}
}

// Name returns the screen's route name
func (s *Screen[V]) Name() string { return s.cfg.Name }

// Title returns the heading shown above the table
func (s *Screen[V]) Title() string { return s.cfg.Title }

// Config returns the declaration the screen was built from
func (s *Screen[V]) Config() Config[V] { return s.cfg }

// State returns the screen's lifecycle state
func (s *Screen[V]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Items returns a copy of the loaded list
func (s *Screen[V]) Items() []V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Load fetches the list. A load superseded by a newer one is discarded.
func (s *Screen[V]) Load(ctx context.Context, q Query) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loadSeq++
	seq := s.loadSeq
	s.query = q
	if !s.mutating {
		s.state = Loading
	}
	s.mu.Unlock()

	var params url.Values
	if s.cfg.ServerSearch {
		params = serverParams(q, s.cfg.Facets)
	}

	cctx, done := s.bind(ctx)
	items, total, err := s.backend.List(cctx, params)
	done()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || seq != s.loadSeq {
		log.Debug().Str("screen", s.cfg.Name).Msg("Discarding stale list response")
		return nil
	}
	if err != nil {
		s.fail(err)
		log.Warn().Err(err).Str("screen", s.cfg.Name).Msg("Failed to load list")
		return err
	}

	if items == nil {
		items = []V{}
	}
	s.items = items
	s.total = total
	s.loaded = true
	s.errMsg = ""
	if !s.mutating {
		s.state = Loaded
	}
	return nil
}

// SetQuery changes the search without fetching. Client-side screens filter the
// loaded list on the next View; server-search screens need a Load.
func (s *Screen[V]) SetQuery(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Create validates v, posts it and puts the answer at the top of the list
func (s *Screen[V]) Create(ctx context.Context, v V) (V, error) {
	var zero V
	if err := s.begin(); err != nil {
		return zero, err
	}
	start := s.opts.Now()

	if s.cfg.Prepare != nil {
		prepared, err := s.cfg.Prepare(v)
		if err != nil {
			return zero, s.finish(ctx, "create", "", start, err, nil, "", false)
		}
		v = prepared
	}
	if err := validate(v, s.cfg.Validators); err != nil {
		return zero, s.finish(ctx, "create", "", start, err, nil, "", false)
	}

	cctx, done := s.bind(ctx)
	created, err := s.backend.Create(cctx, v)
	done()

	var id string
	if err == nil {
		id = s.cfg.IDOf(created)
	}
	err = s.finish(ctx, "create", id, start, err, func() {
		s.items = append([]V{created}, s.items...)
		s.total++
	}, fmt.Sprintf("%s created successfully", s.cfg.Singular), true)
	if err != nil {
		return zero, err
	}
	return created, nil
}

// Update validates v, puts it and replaces the row in the list
func (s *Screen[V]) Update(ctx context.Context, id string, v V) (V, error) {
	var zero V
	if err := s.begin(); err != nil {
		return zero, err
	}
	start := s.opts.Now()

	if err := validate(v, s.cfg.Validators); err != nil {
		return zero, s.finish(ctx, "update", id, start, err, nil, "", false)
	}

	cctx, done := s.bind(ctx)
	updated, err := s.backend.Update(cctx, id, v)
	done()

	err = s.finish(ctx, "update", id, start, err, func() {
		s.replace(id, updated)
	}, fmt.Sprintf("%s updated successfully", s.cfg.Singular), true)
	if err != nil {
		return zero, err
	}
	return updated, nil
}

// Toggle flips the lifecycle flag of a loaded entity through Update
func (s *Screen[V]) Toggle(ctx context.Context, id string) error {
	if s.cfg.Toggle == nil {
		return ErrNotSupported
	}
	if err := s.begin(); err != nil {
		return err
	}
	start := s.opts.Now()

	current, ok := s.find(id)
	if !ok {
		return s.finish(ctx, "toggle", id, start, ErrNotFound, nil, "", false)
	}

	cctx, done := s.bind(ctx)
	updated, err := s.backend.Update(cctx, id, s.cfg.Toggle(current))
	done()

	return s.finish(ctx, "toggle", id, start, err, func() {
		s.replace(id, updated)
	}, fmt.Sprintf("%s status updated", s.cfg.Singular), true)
}

// RequestDelete is the first step of a delete; nothing is sent yet
func (s *Screen[V]) RequestDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.mutating {
		return ErrMutationInFlight
	}
	if s.indexOf(id) < 0 {
		return ErrNotFound
	}
	s.pendingDelete = id
	return nil
}

// CancelDelete drops the pending delete, if any
func (s *Screen[V]) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDelete = ""
}

// PendingDelete returns the id awaiting confirmation, if any
func (s *Screen[V]) PendingDelete() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete
}

// ConfirmDelete sends the delete requested by RequestDelete
func (s *Screen[V]) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	id := s.pendingDelete
	s.mu.Unlock()
	if id == "" {
		return ErrNoPendingDelete
	}

	if err := s.begin(); err != nil {
		return err
	}
	start := s.opts.Now()

	cctx, done := s.bind(ctx)
	err := s.backend.Delete(cctx, id)
	done()

	s.mu.Lock()
	s.pendingDelete = ""
	s.mu.Unlock()

	return s.finish(ctx, "delete", id, start, err, func() {
		if i := s.indexOf(id); i >= 0 {
			s.items = slices.Delete(s.items, i, i+1)
			if s.total > 0 {
				s.total--
			}
		}
	}, fmt.Sprintf("%s deleted successfully", s.cfg.Singular), true)
}

// RunAction posts a detail action (approve, renew...) and refreshes the row
func (s *Screen[V]) RunAction(ctx context.Context, id, action string, body any) error {
	ab, ok := s.backend.(ActionBackend[V])
	if !ok || !slices.Contains(s.cfg.Actions, action) {
		return ErrNotSupported
	}
	if err := s.begin(); err != nil {
		return err
	}
	start := s.opts.Now()

	cctx, done := s.bind(ctx)
	_, err := ab.Action(cctx, id, action, body)
	var fresh V
	if err == nil {
		fresh, err = ab.Get(cctx, id)
	}
	done()

	return s.finish(ctx, action, id, start, err, func() {
		s.replace(id, fresh)
	}, fmt.Sprintf("%s: %s completed", s.cfg.Singular, strings.ReplaceAll(action, "_", " ")), true)
}

// Report reads a collection route with the screen's current filters. It does
// not touch the list or the banners.
func (s *Screen[V]) Report(ctx context.Context, name string) (json.RawMessage, error) {
	rb, ok := s.backend.(ReportBackend)
	if !ok || !slices.Contains(s.cfg.Reports, name) {
		return nil, ErrNotSupported
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	params := serverParams(s.query, s.cfg.Facets)
	s.mu.Unlock()

	cctx, done := s.bind(ctx)
	defer done()
	return rb.CollectionAction(cctx, name, params)
}

// DismissError clears the error banner
func (s *Screen[V]) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = ""
	if s.state == Error {
		if s.loaded {
			s.state = Loaded
		} else {
			s.state = Idle
		}
	}
}

// Close cancels in-flight calls; late responses no longer touch the screen
func (s *Screen[V]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}

func (s *Screen[V]) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.mutating {
		return ErrMutationInFlight
	}
	s.mutating = true
	s.state = Submitting
	return nil
}

// finish ends a mutation: apply runs under the lock only on success.
// Validation failures are not reported to metrics or the recorder.
func (s *Screen[V]) finish(ctx context.Context, op, id string, start time.Time, err error, apply func(), success string, report bool) error {
	s.mu.Lock()
	s.mutating = false
	if s.closed {
		s.mu.Unlock()
		if err == nil {
			err = ErrClosed
		}
		return err
	}

	if err != nil {
		s.fail(err)
	} else {
		if apply != nil {
			apply()
		}
		s.errMsg = ""
		s.success = success
		s.successAt = s.opts.Now()
		if s.loaded {
			s.state = Loaded
		} else {
			s.state = Idle
		}
	}
	s.mu.Unlock()

	if report {
		s.report(ctx, op, id, start, err)
	}
	return err
}

func (s *Screen[V]) report(ctx context.Context, op, id string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.ScreenMutations.WithLabelValues(s.cfg.Name, op, outcome).Inc()

	if err != nil {
		log.Warn().Err(err).Str("screen", s.cfg.Name).Str("operation", op).Str("entity_id", id).Msg("Screen mutation failed")
	} else {
		log.Info().Str("screen", s.cfg.Name).Str("operation", op).Str("entity_id", id).Msg("Screen mutation succeeded")
	}

	if s.opts.Recorder == nil {
		return
	}
	s.opts.Recorder.Record(context.WithoutCancel(ctx), Event{
		Screen:    s.cfg.Name,
		Operation: op,
		EntityID:  id,
		Success:   err == nil,
		Message:   DisplayMessage(err),
		Actor:     s.opts.Actor,
		Duration:  s.opts.Now().Sub(start),
	})
}

// fail shows err in the banner; the loaded list is kept. Caller holds mu.
func (s *Screen[V]) fail(err error) {
	if errors.Is(err, context.Canceled) && s.closed {
		return
	}
	s.errMsg = DisplayMessage(err)
	s.success = ""
	s.state = Error
}

func (s *Screen[V]) bind(ctx context.Context) (context.Context, func()) {
	cctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.life, cancel)
	return cctx, func() {
		stop()
		cancel()
	}
}

func (s *Screen[V]) find(id string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero V
	return zero, false
}

// caller holds mu
func (s *Screen[V]) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(v V) bool { return s.cfg.IDOf(v) == id })
}

// caller holds mu
func (s *Screen[V]) replace(id string, v V) {
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = v
	}
}
