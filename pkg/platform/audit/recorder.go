package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"irdesk/pkg/requestcontext"
)

// Recorder writes audit entries on a best-effort basis. A failed write is
// logged and counted, never returned: the business mutation the entry
// describes has already committed and must not be undone by bookkeeping.
type Recorder struct {
	store  Store
	logger *slog.Logger
	sink   chan<- Entry // optional fan-out to the async publisher
	onDrop func()       // optional metrics hook, called when a write or publish is lost
}

type RecorderOption func(*Recorder)

// WithSink fans recorded entries to a channel drained by the publisher worker.
// Sends are non-blocking; a full channel drops the publish, not the store write.
func WithSink(sink chan<- Entry) RecorderOption {
	return func(r *Recorder) { r.sink = sink }
}

// WithDropHook installs a callback invoked whenever an entry is lost.
func WithDropHook(fn func()) RecorderOption {
	return func(r *Recorder) { r.onDrop = fn }
}

func NewRecorder(store Store, logger *slog.Logger, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record persists one audit entry, enriching it with request-scoped metadata.
// Entries with an empty diff are suppressed entirely.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if len(entry.Diff) == 0 {
		return
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.IP == "" {
		entry.IP = requestcontext.ClientIP(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = summarizeUserAgent(requestcontext.UserAgent(ctx))
	}

	if err := r.store.Append(ctx, entry); err != nil {
		r.drop(ctx, "audit append failed", entry, err)
		return
	}

	if r.sink == nil {
		return
	}
	select {
	case r.sink <- entry:
	default:
		r.drop(ctx, "audit sink full, publish dropped", entry, nil)
	}
}

func (r *Recorder) drop(ctx context.Context, msg string, entry Entry, err error) {
	if r.logger != nil {
		args := []any{"action", entry.Action, "target_id", entry.TargetID}
		if err != nil {
			args = append(args, "error", err)
		}
		r.logger.ErrorContext(ctx, msg, args...)
	}
	if r.onDrop != nil {
		r.onDrop()
	}
}

// summarizeUserAgent reduces a raw User-Agent header to "Browser/Version (OS)"
// so audit rows stay readable. Unparseable agents pass through untouched.
func summarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	summary := name
	if version != "" {
		summary += "/" + version
	}
	if os := ua.OS(); os != "" {
		summary += " (" + os + ")"
	}
	return summary
}
