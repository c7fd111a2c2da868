// Package service implements the request lifecycle workflow: the transition
// protocol, the decision operations wrapping it, and the timeline aggregator.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"irdesk/internal/notify"
	"irdesk/internal/request/metrics"
	"irdesk/internal/request/models"
	"irdesk/pkg/platform/audit"
	"irdesk/pkg/platform/tx"
)

// RequestStore is the mutable side of the persistence contract.
type RequestStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next models.Status, updatedAt time.Time) error
	UpdateSettlement(ctx context.Context, id uuid.UUID, settlement models.Settlement, updatedAt time.Time) error
}

// EventStore appends and reads the immutable transition log.
type EventStore interface {
	Insert(ctx context.Context, ev models.Event) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Event, error)
}

// CommentStore persists internal annotations.
type CommentStore interface {
	Insert(ctx context.Context, c models.Comment) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Comment, error)
}

// NotificationStore is the read side of user-facing notifications.
type NotificationStore interface {
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]notify.Notification, error)
	ListByRequestForUser(ctx context.Context, requestID uuid.UUID, userID string) ([]notify.Notification, error)
}

// AttachmentStore re-tags attachment metadata for settlement stages.
type AttachmentStore interface {
	UpdateStage(ctx context.Context, requestID uuid.UUID, ids []uuid.UUID, stage models.AttachmentStage) (int64, error)
}

// Notifier dispatches user-facing notifications. All calls are best-effort
// from the workflow's perspective.
type Notifier interface {
	Decision(ctx context.Context, requestID uuid.UUID, userID, decision string) error
	InfoRequest(ctx context.Context, requestID uuid.UUID, userID, message string) error
	SettlementStage(ctx context.Context, requestID uuid.UUID, userID, stage string) error
}

// AuditRecorder writes compliance entries. Implementations never surface
// failures to the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// TimelineCache is an optional short-TTL cache for the admin timeline view.
type TimelineCache interface {
	Get(ctx context.Context, requestID uuid.UUID) ([]models.TimelineItem, bool)
	Set(ctx context.Context, requestID uuid.UUID, items []models.TimelineItem)
	Invalidate(ctx context.Context, requestID uuid.UUID)
}

// Stores groups the persistence contract the workflow depends on.
type Stores struct {
	Requests      RequestStore
	Events        EventStore
	Comments      CommentStore
	Notifications NotificationStore
	Attachments   AttachmentStore
}

// Service is the request workflow engine. Authorization happens before any
// method is called; the service trusts the actor ID it is handed.
type Service struct {
	stores   Stores
	runner   tx.Runner
	notifier Notifier
	auditor  AuditRecorder
	cache    TimelineCache
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func WithAuditRecorder(auditor AuditRecorder) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithTimelineCache(cache TimelineCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(stores Stores, runner tx.Runner, opts ...Option) (*Service, error) {
	if stores.Requests == nil {
		return nil, fmt.Errorf("request store is required")
	}
	if stores.Events == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if runner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}

	svc := &Service{
		stores: stores,
		runner: runner,
		tracer: otel.Tracer("irdesk/request"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// audit records a compliance entry for a request action. The recorder itself
// is best-effort; a nil recorder disables auditing entirely.
func (s *Service) audit(ctx context.Context, actorID, action string, requestID uuid.UUID, diff audit.Diff) {
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     action,
		TargetType: "request",
		TargetID:   requestID.String(),
		Diff:       diff,
	})
}

// notifyBestEffort runs a notification dispatch, logging and counting any
// failure. The transition has already committed; a notification outage must
// never surface to the caller.
func (s *Service) notifyBestEffort(ctx context.Context, kind string, fn func() error) {
	if s.notifier == nil {
		return
	}
	if err := fn(); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "notification dispatch failed", "kind", kind, "error", err)
		}
		s.metrics.CountNotifyFailure()
	}
}

func (s *Service) invalidateTimeline(ctx context.Context, requestID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, requestID)
	}
}

// truncateRunes bounds free-text input without splitting multi-byte runes.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
