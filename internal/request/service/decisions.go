package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"irdesk/internal/notify"
	"irdesk/internal/request/models"
	"irdesk/pkg/platform/audit"
	"irdesk/pkg/requestcontext"
)

// commentLimit bounds the body of an internal comment.
const commentLimit = 2000

// Approve moves a request to approved and notifies the investor of the
// decision. The audit write and the notification are best-effort; the
// transition has already committed when they run.
func (s *Service) Approve(ctx context.Context, requestID uuid.UUID, actorID string) (*TransitionResult, error) {
	defer s.observe("approve", time.Now())

	res, err := s.Transition(ctx, requestID, actorID, models.StatusApproved, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.approved", requestID, statusDiff(res.Event, nil))
	s.notifyBestEffort(ctx, string(notify.KindDecision), func() error {
		return s.notifier.Decision(ctx, requestID, res.Request.InvestorID, "approved")
	})
	return res, nil
}

// Reject moves a request to rejected, a terminal status, and notifies the
// investor of the decision.
func (s *Service) Reject(ctx context.Context, requestID uuid.UUID, actorID string, note string) (*TransitionResult, error) {
	defer s.observe("reject", time.Now())

	res, err := s.Transition(ctx, requestID, actorID, models.StatusRejected, note)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.rejected", requestID, statusDiff(res.Event, extraField("note", res.Event.Note)))
	s.notifyBestEffort(ctx, string(notify.KindDecision), func() error {
		return s.notifier.Decision(ctx, requestID, res.Request.InvestorID, "rejected")
	})
	return res, nil
}

// RequestInfo moves a request to pending_info and asks the investor for more
// information. The message is mandatory; a blank message fails before any
// transition, audit write, or notification happens.
func (s *Service) RequestInfo(ctx context.Context, requestID uuid.UUID, actorID, message string) (*TransitionResult, error) {
	defer s.observe("request_info", time.Now())

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrInfoMessageRequired
	}

	res, err := s.Transition(ctx, requestID, actorID, models.StatusPendingInfo, message)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.info_requested", requestID, statusDiff(res.Event, map[string]any{"message": message}))
	s.notifyBestEffort(ctx, string(notify.KindInfoRequest), func() error {
		return s.notifier.InfoRequest(ctx, requestID, res.Request.InvestorID, message)
	})
	return res, nil
}

// MoveToStatus moves a request between the two review stages. No
// notification goes out for internal routing.
func (s *Service) MoveToStatus(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status) (*TransitionResult, error) {
	defer s.observe("move_to_status", time.Now())

	if to != models.StatusScreening && to != models.StatusComplianceReview {
		return nil, ErrInvalidReviewStatus
	}

	res, err := s.Transition(ctx, requestID, actorID, to, "")
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.moved", requestID, statusDiff(res.Event, nil))
	return res, nil
}

// SettlementInput carries the optional fields of the settlement operations.
type SettlementInput struct {
	Reference     *string
	Note          *string
	AttachmentIDs []uuid.UUID
}

// StartSettlement moves an approved request to settling and stamps the
// settlement sub-record. The sub-record update runs in the same transaction
// as the guarded status flip, so settlement obeys the same race discipline as
// every other transition.
func (s *Service) StartSettlement(ctx context.Context, requestID uuid.UUID, actorID string, input SettlementInput) (*TransitionResult, error) {
	defer s.observe("start_settlement", time.Now())

	now := requestcontext.Now(ctx).UTC()
	settlement := models.Settlement{
		StartedAt: &now,
		Reference: input.Reference,
		Notes:     input.Note,
	}

	res, err := s.settle(ctx, requestID, actorID, models.StatusSettling, settlement, input, models.AttachmentStageStarted)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.settlement_started", requestID,
		statusDiff(res.Event, settlementFields(input)))
	s.notifyBestEffort(ctx, string(notify.KindSettlement), func() error {
		return s.notifier.SettlementStage(ctx, requestID, res.Request.InvestorID, "started")
	})
	return res, nil
}

// CompleteSettlement moves a settling request to completed, a terminal
// status, and stamps the completion side of the settlement sub-record.
func (s *Service) CompleteSettlement(ctx context.Context, requestID uuid.UUID, actorID string, input SettlementInput) (*TransitionResult, error) {
	defer s.observe("complete_settlement", time.Now())

	now := requestcontext.Now(ctx).UTC()
	settlement := models.Settlement{
		CompletedAt: &now,
		Reference:   input.Reference,
		Notes:       input.Note,
	}

	res, err := s.settle(ctx, requestID, actorID, models.StatusCompleted, settlement, input, models.AttachmentStageCompleted)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actorID, "request.settlement_completed", requestID,
		statusDiff(res.Event, settlementFields(input)))
	s.notifyBestEffort(ctx, string(notify.KindSettlement), func() error {
		return s.notifier.SettlementStage(ctx, requestID, res.Request.InvestorID, "completed")
	})
	return res, nil
}

func (s *Service) settle(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status, settlement models.Settlement, input SettlementInput, stage models.AttachmentStage) (*TransitionResult, error) {
	res, err := s.transition(ctx, requestID, actorID, to, deref(input.Note), func(ctx context.Context) error {
		return s.stores.Requests.UpdateSettlement(ctx, requestID, settlement, requestcontext.Now(ctx).UTC())
	})
	if err != nil {
		return nil, err
	}

	mergeSettlement(&res.Request.Settlement, settlement)

	// Attachment re-tagging is metadata bookkeeping; a failure must not undo
	// the committed settlement.
	if s.stores.Attachments != nil && len(input.AttachmentIDs) > 0 {
		if _, err := s.stores.Attachments.UpdateStage(ctx, requestID, input.AttachmentIDs, stage); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "attachment re-tag failed",
				"request_id", requestID,
				"stage", stage,
				"error", err,
			)
		}
	}
	return res, nil
}

// AddComment records an internal admin-only annotation. No transition, no
// notification; the comment shows up only in the admin timeline.
func (s *Service) AddComment(ctx context.Context, requestID uuid.UUID, actorID, text string) (*models.Comment, error) {
	defer s.observe("add_comment", time.Now())

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentRequired
	}
	text = truncateRunes(text, commentLimit)

	if _, err := s.stores.Requests.GetByID(ctx, requestID); err != nil {
		return nil, s.loadError(err)
	}

	comment := models.Comment{
		ID:        uuid.New(),
		RequestID: requestID,
		ActorID:   actorID,
		Body:      text,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}
	if err := s.stores.Comments.Insert(ctx, comment); err != nil {
		return nil, wrapPersistence(err, "insert request comment")
	}

	s.audit(ctx, actorID, "request.comment_added", requestID,
		audit.ComputeDiff(nil, map[string]any{"comment": text}))
	s.invalidateTimeline(ctx, requestID)

	return &comment, nil
}

func (s *Service) observe(operation string, start time.Time) {
	s.metrics.ObserveDecision(operation, time.Since(start))
}

// statusDiff builds the audit diff for a transition-bearing operation: the
// from/to pair taken from the event, plus any operation-specific fields that
// had no prior value.
func statusDiff(ev models.Event, extra map[string]any) audit.Diff {
	before := map[string]any{}
	if ev.FromStatus != nil {
		before["status"] = ev.FromStatus.String()
	}
	after := map[string]any{"status": ev.ToStatus.String()}
	for k, v := range extra {
		after[k] = v
	}
	return audit.ComputeDiff(before, after)
}

func settlementFields(input SettlementInput) map[string]any {
	fields := map[string]any{}
	if input.Reference != nil {
		fields["settlement_reference"] = *input.Reference
	}
	if input.Note != nil {
		fields["settlement_notes"] = *input.Note
	}
	return fields
}

func extraField(key string, value *string) map[string]any {
	if value == nil {
		return nil
	}
	return map[string]any{key: *value}
}

func mergeSettlement(dst *models.Settlement, patch models.Settlement) {
	if patch.StartedAt != nil {
		dst.StartedAt = patch.StartedAt
	}
	if patch.CompletedAt != nil {
		dst.CompletedAt = patch.CompletedAt
	}
	if patch.Reference != nil {
		dst.Reference = patch.Reference
	}
	if patch.Notes != nil {
		dst.Notes = patch.Notes
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
