package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Dispatcher persists a notification row and hands it to the deliverer.
// Callers treat every method as best-effort: a returned error is logged and
// counted by the workflow, never propagated to the investor-facing operation.
type Dispatcher struct {
	store     Store
	deliverer Deliverer
	logger    *slog.Logger
}

func NewDispatcher(store Store, deliverer Deliverer, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{store: store, deliverer: deliverer, logger: logger}
}

// Decision notifies the investor that their request was approved or rejected.
func (d *Dispatcher) Decision(ctx context.Context, requestID uuid.UUID, userID, decision string) error {
	return d.dispatch(ctx, Notification{
		RequestID: requestID,
		UserID:    userID,
		Kind:      KindDecision,
		Decision:  decision,
	})
}

// InfoRequest notifies the investor that more information is needed.
func (d *Dispatcher) InfoRequest(ctx context.Context, requestID uuid.UUID, userID, message string) error {
	return d.dispatch(ctx, Notification{
		RequestID: requestID,
		UserID:    userID,
		Kind:      KindInfoRequest,
		Message:   message,
	})
}

// SettlementStage notifies the investor that settlement started or completed.
func (d *Dispatcher) SettlementStage(ctx context.Context, requestID uuid.UUID, userID, stage string) error {
	return d.dispatch(ctx, Notification{
		RequestID: requestID,
		UserID:    userID,
		Kind:      KindSettlement,
		Stage:     stage,
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, n Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()

	if err := d.store.Insert(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if err := d.deliverer.Deliver(ctx, n); err != nil {
		// The row is committed; delivery is retried by the outbound channel,
		// not by this service.
		if d.logger != nil {
			d.logger.WarnContext(ctx, "notification delivery failed",
				"notification_id", n.ID,
				"kind", n.Kind,
				"error", err,
			)
		}
	}
	return nil
}

// LogDeliverer is the in-repo delivery boundary: it logs and does nothing
// else. Real channels (email, SMS, push) live outside this service.
type LogDeliverer struct {
	Logger *slog.Logger
}

func (l LogDeliverer) Deliver(ctx context.Context, n Notification) error {
	if l.Logger != nil {
		l.Logger.InfoContext(ctx, "notification dispatched",
			"notification_id", n.ID,
			"request_id", n.RequestID,
			"user_id", n.UserID,
			"kind", n.Kind,
		)
	}
	return nil
}
