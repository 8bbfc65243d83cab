// Package events carries the domain event stream. Services emit events after
// state changes commit; sinks are fire-and-forget and must not block the
// request path.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lanternsec/authd/pkg/slogx"
)

const (
	UserCreated         = "user.created"
	UserVerified        = "user.verified"
	UserPasswordChanged = "user.password.changed"
	SessionCreated      = "session.created"
	SessionRevoked      = "session.revoked"
)

type Event struct {
	Name   string
	UserID string
	At     time.Time
	Meta   map[string]string
}

type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// LogEmitter writes each event as a structured log line.
type LogEmitter struct{}

func (LogEmitter) Emit(ctx context.Context, ev Event) {
	attrs := []any{
		slog.String("event", ev.Name),
		slog.String("user_id", ev.UserID),
		slog.Time("at", ev.At),
	}
	for k, v := range ev.Meta {
		attrs = append(attrs, slog.String(k, v))
	}
	slogx.FromContext(ctx).Info("domain_event", attrs...)
}

// Capture records events in memory for assertions in tests.
type Capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *Capture) Emit(ctx context.Context, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Names returns the event names in emission order.
func (c *Capture) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Name
	}
	return out
}
