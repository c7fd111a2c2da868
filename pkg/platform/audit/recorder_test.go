package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irdesk/pkg/platform/audit"
	"irdesk/pkg/platform/audit/store/memory"
	"irdesk/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEntry() audit.Entry {
	return audit.Entry{
		ActorID:    "admin-7",
		Action:     "request.approved",
		TargetType: "request",
		TargetID:   uuid.NewString(),
		Diff: audit.Diff{
			"status": {Before: "compliance_review", After: "approved"},
		},
	}
}

func TestRecorder_EnrichesFromContext(t *testing.T) {
	store := memory.New()
	recorder := audit.NewRecorder(store, discardLogger())

	ctx := requestcontext.WithClientIP(context.Background(), "203.0.113.9")
	ctx = requestcontext.WithUserAgent(ctx, "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	recorder.Record(ctx, sampleEntry())

	entries := store.All()
	require.Len(t, entries, 1)
	got := entries[0]
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, "203.0.113.9", got.IP)
	assert.Contains(t, got.UserAgent, "Chrome/120")
	assert.Contains(t, got.UserAgent, "Windows")
}

func TestRecorder_SuppressesEmptyDiff(t *testing.T) {
	store := memory.New()
	recorder := audit.NewRecorder(store, discardLogger())

	entry := sampleEntry()
	entry.Diff = nil
	recorder.Record(context.Background(), entry)

	assert.Empty(t, store.All())
}

type failingAuditStore struct{}

func (failingAuditStore) Append(context.Context, audit.Entry) error {
	return errors.New("disk full")
}

func (failingAuditStore) ListByTarget(context.Context, string, string) ([]audit.Entry, error) {
	return nil, nil
}

func TestRecorder_StoreFailureCountsAsDrop(t *testing.T) {
	var drops int
	recorder := audit.NewRecorder(failingAuditStore{}, discardLogger(),
		audit.WithDropHook(func() { drops++ }))

	// Must not panic or propagate; the mutation already committed.
	recorder.Record(context.Background(), sampleEntry())
	assert.Equal(t, 1, drops)
}

func TestRecorder_SinkFanOut(t *testing.T) {
	store := memory.New()
	sink := make(chan audit.Entry, 1)
	var drops int
	recorder := audit.NewRecorder(store, discardLogger(),
		audit.WithSink(sink),
		audit.WithDropHook(func() { drops++ }))

	recorder.Record(context.Background(), sampleEntry())
	require.Len(t, sink, 1)
	assert.Equal(t, 0, drops)

	// A full sink drops the publish but keeps the store write.
	recorder.Record(context.Background(), sampleEntry())
	assert.Equal(t, 1, drops)
	assert.Len(t, store.All(), 2)
}
