package handler

import (
	"time"

	"irdesk/internal/request/models"
	"irdesk/internal/request/service"
)

type requestView struct {
	ID         string         `json:"id"`
	Number     string         `json:"number"`
	InvestorID string         `json:"investor_id"`
	Status     string         `json:"status"`
	Type       string         `json:"type"`
	Amount     *float64       `json:"amount,omitempty"`
	Currency   *string        `json:"currency,omitempty"`
	Settlement settlementView `json:"settlement"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type settlementView struct {
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Reference   *string    `json:"reference,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type eventView struct {
	ID         string    `json:"id"`
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type transitionResponse struct {
	Request requestView `json:"request"`
	Event   eventView   `json:"event"`
}

func newTransitionResponse(res *service.TransitionResult) transitionResponse {
	req := res.Request
	var from *string
	if res.Event.FromStatus != nil {
		s := res.Event.FromStatus.String()
		from = &s
	}
	return transitionResponse{
		Request: requestView{
			ID:         req.ID.String(),
			Number:     req.Number,
			InvestorID: req.InvestorID,
			Status:     req.Status.String(),
			Type:       string(req.Type),
			Amount:     req.Amount,
			Currency:   req.Currency,
			Settlement: settlementView{
				StartedAt:   req.Settlement.StartedAt,
				CompletedAt: req.Settlement.CompletedAt,
				Reference:   req.Settlement.Reference,
				Notes:       req.Settlement.Notes,
			},
			UpdatedAt: req.UpdatedAt,
		},
		Event: eventView{
			ID:         res.Event.ID.String(),
			FromStatus: from,
			ToStatus:   res.Event.ToStatus.String(),
			ActorID:    res.Event.ActorID,
			Note:       res.Event.Note,
			CreatedAt:  res.Event.CreatedAt,
		},
	}
}

type commentResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	ActorID   string    `json:"actor_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID.String(),
		RequestID: c.RequestID.String(),
		ActorID:   c.ActorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

type timelineItemView struct {
	Kind       string    `json:"kind"`
	Visibility string    `json:"visibility"`
	ActorID    string    `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	StatusChange *statusChangeView `json:"status_change,omitempty"`
	Comment      *commentItemView  `json:"comment,omitempty"`
	Notification *notificationView `json:"notification,omitempty"`
}

type statusChangeView struct {
	FromStatus *string `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Note       *string `json:"note,omitempty"`
}

type commentItemView struct {
	Body string `json:"body"`
}

type notificationView struct {
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Body   string `json:"body,omitempty"`
}

type timelineResponse struct {
	Items []timelineItemView `json:"items"`
}

func newTimelineResponse(items []models.TimelineItem) timelineResponse {
	out := timelineResponse{Items: make([]timelineItemView, 0, len(items))}
	for _, item := range items {
		view := timelineItemView{
			Kind:       string(item.Kind),
			Visibility: string(item.Visibility),
			ActorID:    item.ActorID,
			CreatedAt:  item.CreatedAt,
		}
		if sc := item.StatusChange; sc != nil {
			var from *string
			if sc.FromStatus != nil {
				s := sc.FromStatus.String()
				from = &s
			}
			view.StatusChange = &statusChangeView{
				FromStatus: from,
				ToStatus:   sc.ToStatus.String(),
				Note:       sc.Note,
			}
		}
		if c := item.Comment; c != nil {
			view.Comment = &commentItemView{Body: c.Body}
		}
		if n := item.Notification; n != nil {
			view.Notification = &notificationView{UserID: n.UserID, Kind: n.Kind, Body: n.Body}
		}
		out.Items = append(out.Items, view)
	}
	return out
}
