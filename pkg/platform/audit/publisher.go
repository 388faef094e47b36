package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher writes audit events to a store. Synchronous by default; with an
// async buffer the caller never blocks and a full buffer drops the event
// rather than the request. Evaluation results are never gated on audit.
type Publisher struct {
	store  Store
	logger *slog.Logger
	inbox  chan Event
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for drop and failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithAsyncBuffer makes Emit non-blocking through a buffered channel of the
// given size. Pair with a Worker draining Inbox.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan Event, size)
		}
	}
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Inbox exposes the async channel for a Worker. Nil when synchronous.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Emit records an event. Missing ID and timestamp are filled here so call
// sites stay terse.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox != nil {
		select {
		case p.inbox <- event:
		default:
			p.logger.Warn("audit buffer full, event dropped", "action", string(event.Action))
		}
		return nil
	}
	return p.store.Append(ctx, event)
}
