// Package handler wires the request workflow endpoints. It stays thin:
// decode, delegate, translate errors. Authorization ran in middleware before
// any of these handlers execute.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"irdesk/internal/request/models"
	"irdesk/internal/request/service"
	dErrors "irdesk/pkg/domain-errors"
	"irdesk/pkg/platform/httputil"
	"irdesk/pkg/requestcontext"
)

// Service is the workflow surface this handler exposes over HTTP.
type Service interface {
	Transition(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status, note string) (*service.TransitionResult, error)
	Approve(ctx context.Context, requestID uuid.UUID, actorID string) (*service.TransitionResult, error)
	Reject(ctx context.Context, requestID uuid.UUID, actorID string, note string) (*service.TransitionResult, error)
	RequestInfo(ctx context.Context, requestID uuid.UUID, actorID, message string) (*service.TransitionResult, error)
	MoveToStatus(ctx context.Context, requestID uuid.UUID, actorID string, to models.Status) (*service.TransitionResult, error)
	StartSettlement(ctx context.Context, requestID uuid.UUID, actorID string, input service.SettlementInput) (*service.TransitionResult, error)
	CompleteSettlement(ctx context.Context, requestID uuid.UUID, actorID string, input service.SettlementInput) (*service.TransitionResult, error)
	AddComment(ctx context.Context, requestID uuid.UUID, actorID, text string) (*models.Comment, error)
	Timeline(ctx context.Context, requestID uuid.UUID, viewer service.Viewer) ([]models.TimelineItem, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the workflow endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/requests/{requestID}", func(r chi.Router) {
		r.Post("/transition", h.HandleTransition)
		r.Post("/approve", h.HandleApprove)
		r.Post("/reject", h.HandleReject)
		r.Post("/request-info", h.HandleRequestInfo)
		r.Post("/move", h.HandleMove)
		r.Post("/settlement/start", h.HandleStartSettlement)
		r.Post("/settlement/complete", h.HandleCompleteSettlement)
		r.Post("/comments", h.HandleAddComment)
		r.Get("/timeline", h.HandleTimeline)
	})
}

type transitionRequest struct {
	To   string `json:"to"`
	Note string `json:"note"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type infoRequest struct {
	Message string `json:"message"`
}

type moveRequest struct {
	To string `json:"to"`
}

type settlementRequest struct {
	Reference     *string  `json:"reference"`
	Note          *string  `json:"note"`
	AttachmentIDs []string `json:"attachment_ids"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	to, err := models.ParseStatus(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.service.Transition(r.Context(), requestID, actorID, to, req.Note)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	res, err := h.service.Approve(r.Context(), requestID, actorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	res, err := h.service.Reject(r.Context(), requestID, actorID, req.Note)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleRequestInfo(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req infoRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	res, err := h.service.RequestInfo(r.Context(), requestID, actorID, req.Message)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	to, err := models.ParseStatus(req.To)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.MoveToStatus(r.Context(), requestID, actorID, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleStartSettlement(w http.ResponseWriter, r *http.Request) {
	h.handleSettlement(w, r, h.service.StartSettlement)
}

func (h *Handler) HandleCompleteSettlement(w http.ResponseWriter, r *http.Request) {
	h.handleSettlement(w, r, h.service.CompleteSettlement)
}

type settlementOp func(ctx context.Context, requestID uuid.UUID, actorID string, input service.SettlementInput) (*service.TransitionResult, error)

func (h *Handler) handleSettlement(w http.ResponseWriter, r *http.Request, op settlementOp) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req settlementRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	input := service.SettlementInput{Reference: req.Reference, Note: req.Note}
	for _, raw := range req.AttachmentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput, "invalid attachment id: %s", raw))
			return
		}
		input.AttachmentIDs = append(input.AttachmentIDs, id)
	}

	res, err := op(r.Context(), requestID, actorID, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTransitionResponse(res))
}

func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}
	var req commentRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	comment, err := h.service.AddComment(r.Context(), requestID, actorID, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, newCommentResponse(comment))
}

func (h *Handler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	requestID, actorID, ok := h.prepare(w, r)
	if !ok {
		return
	}

	viewer := service.AdminViewer
	if r.URL.Query().Get("scope") == string(models.VisibilityInvestor) {
		viewer = service.InvestorViewer(actorID)
	}

	items, err := h.service.Timeline(r.Context(), requestID, viewer)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newTimelineResponse(items))
}

// prepare extracts the request ID from the path and the actor from context,
// writing the error response itself when either is missing.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	actorID := requestcontext.ActorID(r.Context())
	if actorID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return uuid.Nil, "", false
	}
	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request id"))
		return uuid.Nil, "", false
	}
	return requestID, actorID, true
}
