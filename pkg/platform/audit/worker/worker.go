package worker

import (
	"context"
	"log/slog"

	audit "irdesk/pkg/platform/audit"
)

// Publisher is the downstream the worker drains into.
type Publisher interface {
	Publish(ctx context.Context, entry audit.Entry) error
}

// Worker consumes audit entries from a channel and hands them to the
// publisher. It decouples decision latency from broker latency: the recorder
// only ever does a non-blocking channel send.
type Worker struct {
	publisher Publisher
	inbox     <-chan audit.Entry
	logger    *slog.Logger
}

func New(publisher Publisher, inbox <-chan audit.Entry, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

// Run drains the inbox until the context is cancelled. Publish failures are
// logged and skipped; the relational store already holds the entry.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.inbox:
			if err := w.publisher.Publish(ctx, entry); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "audit publish failed",
					"action", entry.Action,
					"target_id", entry.TargetID,
					"error", err,
				)
			}
		}
	}
}
