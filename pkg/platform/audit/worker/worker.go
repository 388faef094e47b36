// Package worker drains buffered audit events into a store.
package worker

import (
	"context"
	"log/slog"

	audit "safeplate/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. A store
// failure is logged and the worker keeps draining; audit is best-effort
// off the request path.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("audit append failed", "action", string(event.Action), "error", err)
			}
		}
	}
}
