package models

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies what the investor is asking for.
type Type string

const (
	TypeBuy             Type = "buy"
	TypeSell            Type = "sell"
	TypePartnership     Type = "partnership"
	TypeBoardNomination Type = "board_nomination"
	TypeFeedback        Type = "feedback"
)

// Request is the central entity. It is created in draft by the investor,
// mutated only through the transition protocol (status, timestamps) or by the
// settlement operations (settlement sub-record), and never deleted: it
// terminates into completed or rejected.
type Request struct {
	ID         uuid.UUID
	Number     string // human-readable sequential number, e.g. "IR-2026-000123"
	InvestorID string
	Status     Status
	Type       Type

	// Present for buy/sell requests.
	Amount   *float64
	Currency *string

	TargetPrice *float64
	ExpiresAt   *time.Time
	Notes       string

	Settlement Settlement

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Settlement is the sub-record populated once a request reaches settling.
type Settlement struct {
	StartedAt   *time.Time
	CompletedAt *time.Time
	Reference   *string
	Notes       *string
}

// Event is an immutable append-only log entry for one transition. Exactly one
// event is written per successful transition, by the transition protocol only.
type Event struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	FromStatus *Status // nil for the first event of a request
	ToStatus   Status
	ActorID    string
	Note       *string
	CreatedAt  time.Time
}

// Comment is an internal admin-only annotation on a request, immutable once
// created.
type Comment struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	ActorID   string
	Body      string
	CreatedAt time.Time
}

// AttachmentStage tags which settlement phase an attachment documents.
type AttachmentStage string

const (
	AttachmentStageStarted   AttachmentStage = "started"
	AttachmentStageCompleted AttachmentStage = "completed"
)

// TimelineKind discriminates timeline item payloads.
type TimelineKind string

const (
	TimelineKindStatusChange TimelineKind = "status_change"
	TimelineKindComment      TimelineKind = "comment"
	TimelineKindNotification TimelineKind = "notification"
)

// Visibility scopes who a timeline item is rendered for.
type Visibility string

const (
	VisibilityInvestor Visibility = "investor"
	VisibilityAdmin    Visibility = "admin"
)

// TimelineItem is a derived, read-only view over one of the three event
// sources. It has no persisted lifecycle and is recomputed on every read.
// Exactly one of StatusChange, Comment, or Notification is set, matching Kind.
type TimelineItem struct {
	Kind       TimelineKind
	Visibility Visibility
	ActorID    string // empty when the source carries no actor
	CreatedAt  time.Time

	StatusChange *StatusChangeItem
	Comment      *CommentItem
	Notification *NotificationItem
}

// StatusChangeItem is the timeline payload for a request event.
type StatusChangeItem struct {
	FromStatus *Status
	ToStatus   Status
	Note       *string
}

// CommentItem is the timeline payload for an internal comment.
type CommentItem struct {
	Body string
}

// NotificationItem is the timeline payload for a user-facing notification.
type NotificationItem struct {
	UserID string
	Kind   string
	Body   string
}
