package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"irdesk/internal/notify"
	"irdesk/internal/request/models"
	"irdesk/internal/request/service"
)

func (s *WorkflowSuite) TestApprove() {
	s.Run("approve from compliance review", func() {
		req := s.seedRequest(models.StatusComplianceReview)

		res, err := s.service.Approve(s.ctx(), req.ID, "admin-7")
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, res.Request.Status)

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		entry := entries[0]
		s.Equal("request.approved", entry.Action)
		s.Equal("request", entry.TargetType)
		s.Equal(req.ID.String(), entry.TargetID)
		s.Equal("admin-7", entry.ActorID)
		s.Equal("compliance_review", entry.Diff["status"].Before)
		s.Equal("approved", entry.Diff["status"].After)

		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal(notify.KindDecision, notifications[0].Kind)
		s.Equal("approved", notifications[0].Decision)
		s.Equal("inv-42", notifications[0].UserID)
	})

	s.Run("approve from a terminal status fails without side effects", func() {
		req := s.seedRequest(models.StatusRejected)
		auditBefore := len(s.auditStore.All())

		_, err := s.service.Approve(s.ctx(), req.ID, "admin-7")
		s.Require().Error(err)

		s.Len(s.auditStore.All(), auditBefore)
		notifications, listErr := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(listErr)
		s.Empty(notifications)
	})
}

func (s *WorkflowSuite) TestReject() {
	req := s.seedRequest(models.StatusScreening)

	res, err := s.service.Reject(s.ctx(), req.ID, "admin-7", "does not meet mandate")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, res.Request.Status)
	s.True(res.Request.Status.IsTerminal())

	s.Require().NotNil(res.Event.Note)
	s.Equal("does not meet mandate", *res.Event.Note)

	entries := s.auditStore.All()
	s.Require().Len(entries, 1)
	s.Equal("request.rejected", entries[0].Action)
	s.Equal("does not meet mandate", entries[0].Diff["note"].After)

	notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
	s.Require().NoError(err)
	s.Require().Len(notifications, 1)
	s.Equal("rejected", notifications[0].Decision)
}

func (s *WorkflowSuite) TestRequestInfo() {
	s.Run("blank message fails before anything happens", func() {
		req := s.seedRequest(models.StatusScreening)

		_, err := s.service.RequestInfo(s.ctx(), req.ID, "admin-7", "   ")
		s.ErrorIs(err, service.ErrInfoMessageRequired)

		s.Empty(s.events.All())
		s.Empty(s.auditStore.All())
		notifications, listErr := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(listErr)
		s.Empty(notifications)

		stored, getErr := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(getErr)
		s.Equal(models.StatusScreening, stored.Status)
	})

	s.Run("valid message moves to pending_info and notifies", func() {
		req := s.seedRequest(models.StatusScreening)

		res, err := s.service.RequestInfo(s.ctx(), req.ID, "admin-7", "please send the KYC pack")
		s.Require().NoError(err)
		s.Equal(models.StatusPendingInfo, res.Request.Status)

		s.Require().NotNil(res.Event.Note)
		s.Equal("please send the KYC pack", *res.Event.Note)

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		s.Equal("request.info_requested", entries[0].Action)
		s.Equal("please send the KYC pack", entries[0].Diff["message"].After)

		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal(notify.KindInfoRequest, notifications[0].Kind)
		s.Equal("please send the KYC pack", notifications[0].Message)
	})
}

func (s *WorkflowSuite) TestMoveToStatus() {
	s.Run("only the review stages are accepted", func() {
		req := s.seedRequest(models.StatusSubmitted)

		for _, to := range []models.Status{models.StatusApproved, models.StatusRejected, models.StatusSettling, models.StatusDraft} {
			_, err := s.service.MoveToStatus(s.ctx(), req.ID, "admin-7", to)
			s.ErrorIs(err, service.ErrInvalidReviewStatus, "MoveToStatus(%s)", to)
		}
		s.Empty(s.events.All())
	})

	s.Run("routing between review stages emits no notification", func() {
		req := s.seedRequest(models.StatusScreening)

		res, err := s.service.MoveToStatus(s.ctx(), req.ID, "admin-7", models.StatusComplianceReview)
		s.Require().NoError(err)
		s.Equal(models.StatusComplianceReview, res.Request.Status)

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		s.Equal("request.moved", entries[0].Action)

		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Empty(notifications, "internal routing must not notify the investor")
	})
}

func (s *WorkflowSuite) TestSettlement() {
	s.Run("start settlement stamps the sub-record and re-tags attachments", func() {
		req := s.seedRequest(models.StatusApproved)
		attA, attB := uuid.New(), uuid.New()
		s.attachments.Seed(req.ID, attA, attB)

		ref := "WIRE-2026-0099"
		note := "funds confirmed"
		res, err := s.service.StartSettlement(s.ctx(), req.ID, "admin-7", service.SettlementInput{
			Reference:     &ref,
			Note:          &note,
			AttachmentIDs: []uuid.UUID{attA, attB},
		})
		s.Require().NoError(err)

		s.Equal(models.StatusSettling, res.Request.Status)
		s.Require().NotNil(res.Request.Settlement.StartedAt)
		s.Equal(s.now, *res.Request.Settlement.StartedAt)
		s.Require().NotNil(res.Request.Settlement.Reference)
		s.Equal(ref, *res.Request.Settlement.Reference)

		stored, err := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().NotNil(stored.Settlement.StartedAt)
		s.Equal(s.now, *stored.Settlement.StartedAt)

		s.Equal(models.AttachmentStageStarted, s.attachments.StageOf(attA))
		s.Equal(models.AttachmentStageStarted, s.attachments.StageOf(attB))

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		s.Equal("request.settlement_started", entries[0].Action)
		s.Equal(ref, entries[0].Diff["settlement_reference"].After)

		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal(notify.KindSettlement, notifications[0].Kind)
		s.Equal("started", notifications[0].Stage)
	})

	s.Run("complete settlement preserves the start stamp", func() {
		req := s.seedRequest(models.StatusSettling)
		started := s.now.Add(-30 * time.Minute)
		s.Require().NoError(s.requests.UpdateSettlement(context.Background(), req.ID,
			models.Settlement{StartedAt: &started}, started))

		res, err := s.service.CompleteSettlement(s.ctx(), req.ID, "admin-7", service.SettlementInput{})
		s.Require().NoError(err)

		s.Equal(models.StatusCompleted, res.Request.Status)
		s.True(res.Request.Status.IsTerminal())
		s.Require().NotNil(res.Request.Settlement.CompletedAt)
		s.Equal(s.now, *res.Request.Settlement.CompletedAt)

		stored, err := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().NotNil(stored.Settlement.StartedAt)
		s.Equal(started, *stored.Settlement.StartedAt)
		s.Require().NotNil(stored.Settlement.CompletedAt)

		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().Len(notifications, 1)
		s.Equal("completed", notifications[0].Stage)
	})

	s.Run("settlement cannot start before approval", func() {
		req := s.seedRequest(models.StatusScreening)
		auditBefore := len(s.auditStore.All())

		_, err := s.service.StartSettlement(s.ctx(), req.ID, "admin-7", service.SettlementInput{})
		s.Require().Error(err)

		s.Len(s.auditStore.All(), auditBefore)
		stored, getErr := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(getErr)
		s.Nil(stored.Settlement.StartedAt)
	})
}

func (s *WorkflowSuite) TestAddComment() {
	s.Run("blank comment is rejected", func() {
		req := s.seedRequest(models.StatusScreening)

		_, err := s.service.AddComment(s.ctx(), req.ID, "admin-7", "  \n\t ")
		s.ErrorIs(err, service.ErrCommentRequired)
	})

	s.Run("unknown request returns not found", func() {
		_, err := s.service.AddComment(s.ctx(), uuid.New(), "admin-7", "orphan note")
		s.ErrorIs(err, service.ErrRequestNotFound)
	})

	s.Run("comment is trimmed, persisted and audited", func() {
		req := s.seedRequest(models.StatusScreening)

		comment, err := s.service.AddComment(s.ctx(), req.ID, "admin-7", "  flagging for legal review  ")
		s.Require().NoError(err)
		s.Equal("flagging for legal review", comment.Body)
		s.Equal(s.now, comment.CreatedAt)

		stored, err := s.comments.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Require().Len(stored, 1)
		s.Equal(comment.ID, stored[0].ID)

		entries := s.auditStore.All()
		s.Require().Len(entries, 1)
		s.Equal("request.comment_added", entries[0].Action)
		s.Equal("flagging for legal review", entries[0].Diff["comment"].After)

		// No transition, no notification.
		s.Empty(s.events.All())
		notifications, err := s.notifications.ListByRequest(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Empty(notifications)
	})

	s.Run("overlong comment is truncated to the limit", func() {
		req := s.seedRequest(models.StatusScreening)

		comment, err := s.service.AddComment(s.ctx(), req.ID, "admin-7", strings.Repeat("a", 2500))
		s.Require().NoError(err)
		s.Len([]rune(comment.Body), 2000)
	})
}

func (s *WorkflowSuite) TestNotificationFailureIsBestEffort() {
	req := s.seedRequest(models.StatusComplianceReview)
	svc := s.newService(service.WithNotifier(failingNotifier{}))

	res, err := svc.Approve(s.ctx(), req.ID, "admin-7")
	s.Require().NoError(err, "a notification outage must not fail the decision")
	s.Equal(models.StatusApproved, res.Request.Status)

	// The transition and its audit entry still landed.
	s.Len(s.events.All(), 1)
	s.Len(s.auditStore.All(), 1)
}
