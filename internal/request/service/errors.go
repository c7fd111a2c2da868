package service

import (
	"errors"

	dErrors "irdesk/pkg/domain-errors"
	"irdesk/pkg/platform/sentinel"
)

// Workflow errors. These cross the service boundary and map onto transport
// responses via their codes; match with errors.Is. Invalid graph edges are
// reported as models.InvalidTransitionError wrapped with CodeConflict, so
// errors.As recovers the attempted pair.
var (
	// ErrRequestNotFound: the request ID does not exist.
	ErrRequestNotFound = dErrors.New(dErrors.CodeNotFound, "request not found")

	// ErrNoOpTransition: the request is already in the requested status.
	ErrNoOpTransition = dErrors.New(dErrors.CodeConflict, "request is already in the requested status")

	// ErrStaleStatus: a concurrent transition won the race between our read
	// and our conditional write.
	ErrStaleStatus = dErrors.New(dErrors.CodeConflict, "request status changed concurrently, retry")

	// ErrInfoMessageRequired: requestInfo called with a blank message.
	ErrInfoMessageRequired = dErrors.New(dErrors.CodeInvalidInput, "information request message is required")

	// ErrCommentRequired: addComment called with a blank body.
	ErrCommentRequired = dErrors.New(dErrors.CodeInvalidInput, "comment text is required")

	// ErrInvalidReviewStatus: moveToStatus only accepts the two review stages.
	ErrInvalidReviewStatus = dErrors.New(dErrors.CodeInvalidInput, "status must be screening or compliance_review")

	// ErrRequestNotOwned: an investor-scoped timeline read on someone else's request.
	ErrRequestNotOwned = dErrors.New(dErrors.CodeForbidden, "request does not belong to caller")
)

// loadError translates a request load failure into the domain taxonomy.
func (s *Service) loadError(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return ErrRequestNotFound
	}
	return wrapPersistence(err, "load request")
}

// wrapPersistence classifies a storage failure, naming the failing operation
// so the log line identifies the query without leaking it to clients.
func wrapPersistence(err error, op string) error {
	return dErrors.Wrap(err, dErrors.CodeInternal, op)
}
