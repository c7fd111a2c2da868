// Package audit defines the compliance audit trail: immutable entries
// describing who changed what, with a field-level before/after diff.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FieldChange is one changed field in an audit diff.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// Diff maps field names to their before/after values.
type Diff map[string]FieldChange

// Entry is a single compliance record. Entries are append-only and never
// mutated; failure to write one must never roll back the business action it
// accompanies.
type Entry struct {
	ID         uuid.UUID
	ActorID    string
	Action     string // dot-namespaced, e.g. "request.approved"
	TargetType string
	TargetID   string
	Diff       Diff
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// Store persists audit entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByTarget(ctx context.Context, targetType, targetID string) ([]Entry, error)
}
