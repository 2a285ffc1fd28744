package crud

import (
	"context"
	"time"
)

// Event describes one mutation outcome
type Event struct {
	Screen    string
	Operation string // create, update, toggle, delete, or an action name
	EntityID  string
	Success   bool
	Message   string
	Actor     Actor
	Duration  time.Duration
}

// Recorder receives every mutation outcome (audit trail)
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// RecorderFunc adapts a function to Recorder
type RecorderFunc func(ctx context.Context, e Event)

// Record calls f(ctx, e)
func (f RecorderFunc) Record(ctx context.Context, e Event) {
	f(ctx, e)
}
