package dispute

import (
	"errors"
	"net/http"
	"strconv"

	"landshare/internal/domain"
	"landshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/disputes")
	{
		g.POST("", h.FileDispute)
		g.GET("", h.ListDisputes)
		g.GET("/:id", h.GetDispute)
		g.GET("/:id/messages", h.ListMessages)
		g.POST("/:id/messages", h.AppendMessage)
		g.POST("/:id/review", h.MarkUnderReview)
		g.POST("/:id/resolve", h.Resolve)
		g.POST("/:id/close", h.Close)
	}
}

func actorID(c *gin.Context) (int64, bool) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User not authenticated")
		return 0, false
	}
	return userID, true
}

func disputeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid dispute ID")
		return 0, false
	}
	return id, true
}

// respondError maps the dispute error taxonomy onto HTTP statuses and
// envelope codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Dispute not found")
	case errors.Is(err, ErrNotAuthorized):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to perform this action")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid dispute payload")
	case errors.Is(err, ErrInvalidContent):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid message content or attachments")
	case errors.Is(err, ErrInvalidResolution):
		response.Error(c, http.StatusBadRequest, "INVALID_RESOLUTION", "Resolution kind and amount are inconsistent")
	case errors.Is(err, ErrIllegalTransition):
		response.Error(c, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, ErrDisputeClosed):
		response.Error(c, http.StatusConflict, "DISPUTE_CLOSED", "Dispute is resolved or closed")
	case errors.Is(err, ErrDisputeExists):
		response.Error(c, http.StatusConflict, "DISPUTE_EXISTS", "Booking already has an open dispute")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Dispute was modified concurrently, re-read and retry")
	case errors.Is(err, ErrReconciliationFailed):
		response.Error(c, http.StatusBadGateway, "RECONCILIATION_FAILED", "Financial reconciliation was rejected or timed out")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

func (h *Handler) FileDispute(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var req FileDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.File(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"dispute": d})
}

func (h *Handler) ListDisputes(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var f ListFilter
	if s := c.Query("status"); s != "" {
		status := domain.DisputeStatus(s)
		switch status {
		case domain.DisputeOpen, domain.DisputeUnderReview, domain.DisputeResolved, domain.DisputeClosed:
			f.Status = &status
		default:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown dispute status")
			return
		}
	}
	if s := c.Query("booking_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking_id")
			return
		}
		f.BookingID = &id
	}
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			f.Limit = v
		}
	}
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			f.Offset = v
		}
	}

	list, err := h.service.List(c.Request.Context(), actor, f)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"disputes": list})
}

func (h *Handler) GetDispute(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	d, role, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"dispute":  d,
		"role":     role,
		"messages": msgs,
	})
}

func (h *Handler) ListMessages(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) AppendMessage(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	var req AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.AppendMessage(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": m})
}

func (h *Handler) MarkUnderReview(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	d, err := h.service.MarkUnderReview(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dispute": d})
}

func (h *Handler) Resolve(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.Resolve(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dispute": d})
}

func (h *Handler) Close(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	id, ok := disputeID(c)
	if !ok {
		return
	}

	var req CloseRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	d, err := h.service.Close(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"dispute": d})
}
