package models

import (
	"fmt"

	dErrors "irdesk/pkg/domain-errors"
)

// Status is the lifecycle state of an investor request.
// Invariant: a request's status is always one of the values below, and only
// changes along the edges in the transition table.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusSubmitted        Status = "submitted"
	StatusScreening        Status = "screening"
	StatusPendingInfo      Status = "pending_info"
	StatusComplianceReview Status = "compliance_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusSettling         Status = "settling"
	StatusCompleted        Status = "completed"
)

// transitions is the full status graph as data, so the graph is inspectable
// and testable without walking control flow. approved/rejected are reachable
// from almost every non-terminal state because a review outcome can be
// decided at any screening depth; completed and rejected are sinks.
var transitions = map[Status][]Status{
	StatusDraft:            {StatusSubmitted, StatusScreening, StatusPendingInfo, StatusComplianceReview, StatusApproved, StatusRejected},
	StatusSubmitted:        {StatusScreening, StatusPendingInfo, StatusComplianceReview, StatusApproved, StatusRejected},
	StatusScreening:        {StatusPendingInfo, StatusComplianceReview, StatusApproved, StatusRejected},
	StatusPendingInfo:      {StatusScreening, StatusComplianceReview, StatusApproved, StatusRejected},
	StatusComplianceReview: {StatusApproved, StatusPendingInfo, StatusRejected},
	StatusApproved:         {StatusSettling, StatusRejected},
	StatusSettling:         {StatusCompleted, StatusRejected},
	StatusCompleted:        {},
	StatusRejected:         {},
}

// ParseStatus constructs a Status from external input.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown status: %s", s)
	}
	return status, nil
}

// IsValid reports whether the status is a member of the enum.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0 && s.IsValid()
}

func (s Status) String() string {
	return string(s)
}

// AllowedTransitions returns the statuses reachable from the given status.
// The returned slice is a copy; mutating it does not alter the graph.
func AllowedTransitions(from Status) []Status {
	out := make([]Status, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// CanTransition reports whether from -> to is an edge in the status graph.
// A self-transition is not a graph concern; the transition protocol rejects
// it separately as a workflow no-op.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError reports a requested edge that is not in the graph.
// It carries the attempted pair for diagnostics.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// AssertTransition returns an InvalidTransitionError when from -> to is not
// a legal edge.
func AssertTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
