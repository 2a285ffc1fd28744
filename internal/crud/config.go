package crud

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"time"
)

// State of a screen
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
	Submitting
)

// String returns the state's lower-case name
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

var (
	ErrMutationInFlight = errors.New("another change is still being saved")
	ErrNotFound         = errors.New("entity not found in the loaded list")
	ErrNoPendingDelete  = errors.New("no delete is awaiting confirmation")
	ErrNotSupported     = errors.New("operation not supported by this screen")
	ErrClosed           = errors.New("screen is closed")
)

// Backend is the resource a screen manages
type Backend[V any] interface {
	List(ctx context.Context, params url.Values) ([]V, int, error)
	Create(ctx context.Context, v V) (V, error)
	Update(ctx context.Context, id string, v V) (V, error)
	Delete(ctx context.Context, id string) error
}

// ActionBackend is a Backend with detail routes such as approve or renew
type ActionBackend[V any] interface {
	Backend[V]
	Get(ctx context.Context, id string) (V, error)
	Action(ctx context.Context, id, action string, body any) (json.RawMessage, error)
}

// ReportBackend is a Backend with read-only collection routes such as summary
type ReportBackend interface {
	CollectionAction(ctx context.Context, action string, params url.Values) (json.RawMessage, error)
}

// Query is the search term plus the selected facet values
type Query struct {
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Column is one table column
type Column[V any] struct {
	Header string
	Value  func(V) string
}

// Facet is an exact-match dropdown filter. "all" or empty selects everything.
type Facet[V any] struct {
	Key     string
	Label   string
	Options []string
	Value   func(V) string
	// Param is the query parameter used with server search, Key when empty
	Param string
}

// Stat is one aggregate shown above the table, computed from the loaded list
type Stat[V any] struct {
	Label   string
	Compute func([]V) string
}

// Field is one form input. Key is the JSON name of the view model field.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // text, email, number, int, date, select, textarea, checkbox, password
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// Config declares a screen
type Config[V any] struct {
	Name     string
	Title    string
	Singular string

	IDOf func(V) string

	SearchFields []func(V) string
	Facets       []Facet[V]
	// ServerSearch re-fetches with search=<term> instead of filtering locally
	ServerSearch bool

	Columns    []Column[V]
	Fields     []Field
	Validators []Validator[V]
	Stats      []Stat[V]

	// Toggle returns the entity with its lifecycle flag flipped
	Toggle func(V) V
	// Actions are the backend detail routes offered per row
	Actions []string
	// Reports are the collection routes the screen may read, e.g. summary
	Reports []string

	// Prepare fills create-only values (generated passwords, defaults)
	Prepare func(V) (V, error)
}

// Options are the per-instance settings of a screen
type Options struct {
	BannerTTL time.Duration
	Now       func() time.Time
	Recorder  Recorder
	Actor     Actor
}

// Actor identifies who performs mutations, for the audit trail
type Actor struct {
	SessionID string
	TenantID  string
	UserID    string
	Email     string
}
