package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
	dErrors "irdesk/pkg/domain-errors"
	"irdesk/pkg/platform/sentinel"
	"irdesk/pkg/requestcontext"
)

// noteLimit bounds the free-text note stored on a request event.
const noteLimit = 500

// TransitionResult pairs the updated request with the event that recorded
// the transition. The request is an in-memory merge of the loaded record and
// the new status, not a re-fetch.
type TransitionResult struct {
	Request *models.Request
	Event   models.Event
}

// Transition advances a request to the given status: load, validate against
// the status graph, then flip the status and append exactly one event inside
// a single transaction. The status write is conditional on the status read at
// the start, so two racing transitions cannot both pass validation against a
// stale value; the loser gets ErrStaleStatus.
func (s *Service) Transition(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status, note string) (*TransitionResult, error) {
	return s.transition(ctx, requestID, actorID, to, note, nil)
}

// transition is the shared protocol. extra, when non-nil, runs inside the
// same transaction as the status flip and event insert; settlement operations
// use it so their sub-record update obeys the same race guard.
func (s *Service) transition(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status, note string, extra func(ctx context.Context) error) (*TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "request.transition")
	defer span.End()

	req, err := s.stores.Requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.CountTransition(to.String(), "not_found")
			return nil, ErrRequestNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load request")
	}

	from := req.Status
	if from == to {
		s.metrics.CountTransition(to.String(), "noop")
		return nil, ErrNoOpTransition
	}
	if err := models.AssertTransition(from, to); err != nil {
		s.metrics.CountTransition(to.String(), "invalid")
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, err.Error())
	}

	now := requestcontext.Now(ctx).UTC()
	ev := models.Event{
		ID:         uuid.New(),
		RequestID:  requestID,
		FromStatus: &from,
		ToStatus:   to,
		ActorID:    actorID,
		CreatedAt:  now,
	}
	if trimmed := truncateRunes(note, noteLimit); trimmed != "" {
		ev.Note = &trimmed
	}

	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.stores.Requests.UpdateStatus(ctx, requestID, from, to, now); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrConflict):
				return ErrStaleStatus
			case errors.Is(err, sentinel.ErrNotFound):
				return ErrRequestNotFound
			default:
				return dErrors.Wrap(err, dErrors.CodeInternal, "update request status")
			}
		}
		if err := s.stores.Events.Insert(ctx, ev); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "insert request event")
		}
		if extra != nil {
			return extra(ctx)
		}
		return nil
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrStaleStatus) {
			outcome = "conflict"
		}
		s.metrics.CountTransition(to.String(), outcome)
		return nil, err
	}

	req.Status = to
	req.UpdatedAt = now

	s.metrics.CountTransition(to.String(), "ok")
	if s.logger != nil {
		s.logger.InfoContext(ctx, "request transitioned",
			"request_id", requestID,
			"from", from,
			"to", to,
			"actor_id", actorID,
		)
	}
	s.invalidateTimeline(ctx, requestID)

	return &TransitionResult{Request: req, Event: ev}, nil
}
