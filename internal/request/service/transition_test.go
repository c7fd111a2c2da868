package service_test

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"irdesk/internal/request/models"
	"irdesk/internal/request/service"
	dErrors "irdesk/pkg/domain-errors"
	"irdesk/pkg/platform/tx"
)

func (s *WorkflowSuite) TestTransition() {
	s.Run("legal transition flips status and appends exactly one event", func() {
		req := s.seedRequest(models.StatusSubmitted)

		res, err := s.service.Transition(s.ctx(), req.ID, "admin-7", models.StatusScreening, "initial look")
		s.Require().NoError(err)

		s.Equal(models.StatusScreening, res.Request.Status)
		s.Equal(s.now, res.Request.UpdatedAt)

		events := s.events.All()
		s.Require().Len(events, 1)
		ev := events[0]
		s.Equal(req.ID, ev.RequestID)
		s.Require().NotNil(ev.FromStatus)
		s.Equal(models.StatusSubmitted, *ev.FromStatus)
		s.Equal(models.StatusScreening, ev.ToStatus)
		s.Equal("admin-7", ev.ActorID)
		s.Require().NotNil(ev.Note)
		s.Equal("initial look", *ev.Note)
		s.Equal(s.now, ev.CreatedAt)

		stored, err := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusScreening, stored.Status)
	})

	s.Run("empty note stays nil on the event", func() {
		req := s.seedRequest(models.StatusSubmitted)

		_, err := s.service.Transition(s.ctx(), req.ID, "admin-7", models.StatusScreening, "")
		s.Require().NoError(err)

		events := s.events.All()
		s.Nil(events[len(events)-1].Note)
	})

	s.Run("note longer than the limit is truncated", func() {
		req := s.seedRequest(models.StatusSubmitted)
		note := strings.Repeat("я", 700)

		_, err := s.service.Transition(s.ctx(), req.ID, "admin-7", models.StatusScreening, note)
		s.Require().NoError(err)

		events := s.events.All()
		stored := events[len(events)-1].Note
		s.Require().NotNil(stored)
		s.Len([]rune(*stored), 500)
	})

	s.Run("same status is rejected as a no-op", func() {
		req := s.seedRequest(models.StatusScreening)
		before := len(s.events.All())

		_, err := s.service.Transition(s.ctx(), req.ID, "admin-7", models.StatusScreening, "")
		s.ErrorIs(err, service.ErrNoOpTransition)
		s.Len(s.events.All(), before)
	})

	s.Run("illegal edge is rejected with the attempted pair", func() {
		req := s.seedRequest(models.StatusCompleted)
		before := len(s.events.All())

		_, err := s.service.Transition(s.ctx(), req.ID, "admin-7", models.StatusScreening, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))

		var invalid *models.InvalidTransitionError
		s.Require().True(errors.As(err, &invalid))
		s.Equal(models.StatusCompleted, invalid.From)
		s.Equal(models.StatusScreening, invalid.To)

		s.Len(s.events.All(), before)
		stored, getErr := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(getErr)
		s.Equal(models.StatusCompleted, stored.Status)
	})

	s.Run("unknown request returns not found", func() {
		_, err := s.service.Transition(s.ctx(), uuid.New(), "admin-7", models.StatusScreening, "")
		s.ErrorIs(err, service.ErrRequestNotFound)
	})

	s.Run("concurrent transition loses with stale status", func() {
		req := s.seedRequest(models.StatusScreening)
		before := len(s.events.All())

		// Reads report submitted while the store holds screening, as if a
		// concurrent transition committed between our read and our write.
		stale := &staleReadStore{MemoryStore: s.requests, reportStatus: models.StatusSubmitted}
		svc, err := service.New(service.Stores{
			Requests: stale,
			Events:   s.events,
		}, tx.Passthrough{}, service.WithLogger(s.logger))
		s.Require().NoError(err)

		_, err = svc.Transition(s.ctx(), req.ID, "admin-7", models.StatusComplianceReview, "")
		s.ErrorIs(err, service.ErrStaleStatus)

		s.Len(s.events.All(), before)
		stored, getErr := s.requests.GetByID(context.Background(), req.ID)
		s.Require().NoError(getErr)
		s.Equal(models.StatusScreening, stored.Status, "losing transition must not overwrite")
	})
}
