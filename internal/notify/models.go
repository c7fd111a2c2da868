// Package notify persists user-facing notifications and hands them to an
// outbound delivery boundary. Delivery (email/SMS/push) is an external
// collaborator; the in-repo deliverer only logs.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification.
type Kind string

const (
	KindDecision    Kind = "decision"
	KindInfoRequest Kind = "info_request"
	KindSettlement  Kind = "settlement"
)

// Notification is one user-facing message tied to a request. Rows are
// append-only; the timeline aggregator reads them back as one of its three
// event sources.
type Notification struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	UserID    string
	Kind      Kind

	// Kind-specific payload. Decision holds approved/rejected, Message the
	// info-request text, Stage the settlement stage (started/completed).
	Decision string
	Message  string
	Stage    string

	CreatedAt time.Time
}

// Store persists notifications.
type Store interface {
	Insert(ctx context.Context, n Notification) error
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Notification, error)
	ListByRequestForUser(ctx context.Context, requestID uuid.UUID, userID string) ([]Notification, error)
}

// Deliverer pushes a notification out of process. Implementations must treat
// delivery as fire-and-forget; the row is already persisted when called.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}
