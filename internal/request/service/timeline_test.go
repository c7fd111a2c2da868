package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"irdesk/internal/notify"
	"irdesk/internal/request/models"
	"irdesk/internal/request/service"
)

// seedHistory builds a request with one item of every kind at staggered
// timestamps: an event (oldest), an internal comment, a notification to the
// investor, and a notification to a staff user (newest).
func (s *WorkflowSuite) seedHistory() *models.Request {
	req := s.seedRequest(models.StatusScreening)
	ctx := context.Background()

	from := models.StatusSubmitted
	s.Require().NoError(s.events.Insert(ctx, models.Event{
		ID:         uuid.New(),
		RequestID:  req.ID,
		FromStatus: &from,
		ToStatus:   models.StatusScreening,
		ActorID:    "admin-7",
		CreatedAt:  s.now.Add(-40 * time.Minute),
	}))
	s.Require().NoError(s.comments.Insert(ctx, models.Comment{
		ID:        uuid.New(),
		RequestID: req.ID,
		ActorID:   "admin-7",
		Body:      "needs a second pair of eyes",
		CreatedAt: s.now.Add(-30 * time.Minute),
	}))
	s.Require().NoError(s.notifications.Insert(ctx, notify.Notification{
		ID:        uuid.New(),
		RequestID: req.ID,
		UserID:    req.InvestorID,
		Kind:      notify.KindInfoRequest,
		Message:   "please send the KYC pack",
		CreatedAt: s.now.Add(-20 * time.Minute),
	}))
	s.Require().NoError(s.notifications.Insert(ctx, notify.Notification{
		ID:        uuid.New(),
		RequestID: req.ID,
		UserID:    "compliance-desk",
		Kind:      notify.KindDecision,
		Decision:  "escalated",
		CreatedAt: s.now.Add(-10 * time.Minute),
	}))
	return req
}

func (s *WorkflowSuite) TestTimeline() {
	s.Run("admin sees all sources newest first", func() {
		req := s.seedHistory()

		items, err := s.service.Timeline(s.ctx(), req.ID, service.AdminViewer)
		s.Require().NoError(err)
		s.Require().Len(items, 4)

		for i := 1; i < len(items); i++ {
			s.False(items[i-1].CreatedAt.Before(items[i].CreatedAt), "items must be newest first")
		}

		s.Equal(models.TimelineKindNotification, items[0].Kind)
		s.Equal(models.VisibilityAdmin, items[0].Visibility, "staff-addressed notification is admin-only")
		s.Equal("compliance-desk", items[0].Notification.UserID)
		s.Equal("escalated", items[0].Notification.Body)

		s.Equal(models.TimelineKindNotification, items[1].Kind)
		s.Equal(models.VisibilityInvestor, items[1].Visibility)
		s.Equal("please send the KYC pack", items[1].Notification.Body)

		s.Equal(models.TimelineKindComment, items[2].Kind)
		s.Equal(models.VisibilityAdmin, items[2].Visibility)
		s.Equal("needs a second pair of eyes", items[2].Comment.Body)

		s.Equal(models.TimelineKindStatusChange, items[3].Kind)
		s.Require().NotNil(items[3].StatusChange.FromStatus)
		s.Equal(models.StatusSubmitted, *items[3].StatusChange.FromStatus)
		s.Equal(models.StatusScreening, items[3].StatusChange.ToStatus)
	})

	s.Run("investor sees events and own notifications only", func() {
		req := s.seedHistory()

		items, err := s.service.Timeline(s.ctx(), req.ID, service.InvestorViewer(req.InvestorID))
		s.Require().NoError(err)
		s.Require().Len(items, 2)

		s.Equal(models.TimelineKindNotification, items[0].Kind)
		s.Equal(req.InvestorID, items[0].Notification.UserID)
		s.Equal(models.TimelineKindStatusChange, items[1].Kind)

		for _, item := range items {
			s.NotEqual(models.TimelineKindComment, item.Kind, "internal comments must never reach investors")
		}
	})

	s.Run("investor cannot read someone else's request", func() {
		req := s.seedHistory()

		_, err := s.service.Timeline(s.ctx(), req.ID, service.InvestorViewer("inv-99"))
		s.ErrorIs(err, service.ErrRequestNotOwned)
	})

	s.Run("unknown request returns not found", func() {
		_, err := s.service.Timeline(s.ctx(), uuid.New(), service.AdminViewer)
		s.ErrorIs(err, service.ErrRequestNotFound)
	})
}

func (s *WorkflowSuite) TestTimelineCache() {
	cache := newFakeTimelineCache()
	svc := s.newService(service.WithTimelineCache(cache))
	req := s.seedHistory()

	s.Run("admin reads populate and then hit the cache", func() {
		first, err := svc.Timeline(s.ctx(), req.ID, service.AdminViewer)
		s.Require().NoError(err)
		s.Equal(1, cache.sets)
		s.Equal(0, cache.hits)

		second, err := svc.Timeline(s.ctx(), req.ID, service.AdminViewer)
		s.Require().NoError(err)
		s.Equal(1, cache.hits)
		s.Equal(len(first), len(second))
	})

	s.Run("investor reads bypass the cache", func() {
		hitsBefore := cache.hits
		setsBefore := cache.sets

		_, err := svc.Timeline(s.ctx(), req.ID, service.InvestorViewer(req.InvestorID))
		s.Require().NoError(err)
		s.Equal(hitsBefore, cache.hits)
		s.Equal(setsBefore, cache.sets)
	})

	s.Run("mutations invalidate the cached view", func() {
		_, err := svc.AddComment(s.ctx(), req.ID, "admin-7", "post-cache annotation")
		s.Require().NoError(err)
		s.Equal(1, cache.invalidations)

		items, err := svc.Timeline(s.ctx(), req.ID, service.AdminViewer)
		s.Require().NoError(err)
		s.Equal(models.TimelineKindComment, items[0].Kind)
		s.Equal("post-cache annotation", items[0].Comment.Body)
	})
}
