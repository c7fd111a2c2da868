package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"irdesk/internal/notify"
	"irdesk/internal/request/models"
)

// Viewer identifies who is reading a timeline. Investor scope restricts the
// view to the owning investor's notifications and hides internal comments.
type Viewer struct {
	Scope      models.Visibility
	InvestorID string // required for investor scope
}

// AdminViewer reads the full timeline.
var AdminViewer = Viewer{Scope: models.VisibilityAdmin}

// InvestorViewer reads the investor-facing timeline for the given investor.
func InvestorViewer(investorID string) Viewer {
	return Viewer{Scope: models.VisibilityInvestor, InvestorID: investorID}
}

// Timeline reconstructs the chronological history of a request from its three
// independent sources: status-change events, internal comments, and
// user-facing notifications. The sources are mutually read-only, so the three
// fetches fan out concurrently; the union is stable-sorted by creation time,
// newest first.
func (s *Service) Timeline(ctx context.Context, requestID uuid.UUID, viewer Viewer) ([]models.TimelineItem, error) {
	ctx, span := s.tracer.Start(ctx, "request.timeline")
	defer span.End()
	defer func(start time.Time) { s.metrics.ObserveTimeline(time.Since(start)) }(time.Now())

	req, err := s.stores.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.loadError(err)
	}

	admin := viewer.Scope == models.VisibilityAdmin
	if !admin && req.InvestorID != viewer.InvestorID {
		return nil, ErrRequestNotOwned
	}

	// The admin view is the hot path in the review console; serve it from the
	// short-TTL cache when possible. Mutations invalidate the key.
	if admin && s.cache != nil {
		if items, ok := s.cache.Get(ctx, requestID); ok {
			return items, nil
		}
	}

	var (
		events        []models.Event
		comments      []models.Comment
		notifications []notify.Notification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.stores.Events.ListByRequest(gctx, requestID)
		if err != nil {
			return wrapPersistence(err, "list request events")
		}
		return nil
	})
	if admin {
		g.Go(func() error {
			var err error
			comments, err = s.stores.Comments.ListByRequest(gctx, requestID)
			if err != nil {
				return wrapPersistence(err, "list request comments")
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		if admin {
			notifications, err = s.stores.Notifications.ListByRequest(gctx, requestID)
		} else {
			notifications, err = s.stores.Notifications.ListByRequestForUser(gctx, requestID, req.InvestorID)
		}
		if err != nil {
			return wrapPersistence(err, "list notifications")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]models.TimelineItem, 0, len(events)+len(comments)+len(notifications))
	for _, ev := range events {
		items = append(items, models.TimelineItem{
			Kind:       models.TimelineKindStatusChange,
			Visibility: models.VisibilityInvestor,
			ActorID:    ev.ActorID,
			CreatedAt:  ev.CreatedAt,
			StatusChange: &models.StatusChangeItem{
				FromStatus: ev.FromStatus,
				ToStatus:   ev.ToStatus,
				Note:       ev.Note,
			},
		})
	}
	for _, c := range comments {
		items = append(items, models.TimelineItem{
			Kind:       models.TimelineKindComment,
			Visibility: models.VisibilityAdmin,
			ActorID:    c.ActorID,
			CreatedAt:  c.CreatedAt,
			Comment:    &models.CommentItem{Body: c.Body},
		})
	}
	for _, n := range notifications {
		visibility := models.VisibilityInvestor
		if n.UserID != req.InvestorID {
			// Addressed to staff, not the owning investor.
			visibility = models.VisibilityAdmin
		}
		items = append(items, models.TimelineItem{
			Kind:       models.TimelineKindNotification,
			Visibility: visibility,
			CreatedAt:  n.CreatedAt,
			Notification: &models.NotificationItem{
				UserID: n.UserID,
				Kind:   string(n.Kind),
				Body:   notificationBody(n),
			},
		})
	}

	// Ties keep insertion order; no special tie-breaking is defined.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if admin && s.cache != nil {
		s.cache.Set(ctx, requestID, items)
	}
	return items, nil
}

// notificationBody picks the kind-specific payload for display.
func notificationBody(n notify.Notification) string {
	switch n.Kind {
	case notify.KindDecision:
		return n.Decision
	case notify.KindInfoRequest:
		return n.Message
	case notify.KindSettlement:
		return n.Stage
	default:
		return ""
	}
}
