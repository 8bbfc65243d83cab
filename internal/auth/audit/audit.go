// Package audit writes an append-only trail of security-relevant actions.
// Entries are best-effort: a failed write is logged and swallowed so auditing
// never turns a successful operation into a failed one.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/lanternsec/authd/pkg/slogx"
)

type Entry struct {
	Action  string    `json:"action"`
	ActorID string    `json:"actor_id,omitempty"`
	Subject string    `json:"subject,omitempty"`
	IP      string    `json:"ip,omitempty"`
	At      time.Time `json:"at"`
	Detail  string    `json:"detail,omitempty"`
}

type Sink interface {
	Record(ctx context.Context, e Entry)
}

// SlogSink emits audit entries on a dedicated logger so they can be routed
// to their own output by handler configuration.
type SlogSink struct {
	Logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{Logger: logger}
}

func (s *SlogSink) Record(ctx context.Context, e Entry) {
	logger := s.Logger
	if logger == nil {
		logger = slogx.FromContext(ctx)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("action", e.Action),
		slog.String("actor_id", e.ActorID),
		slog.String("subject", e.Subject),
		slog.String("ip", e.IP),
		slog.Time("at", e.At),
		slog.String("detail", e.Detail),
	)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Record(context.Context, Entry) {}
