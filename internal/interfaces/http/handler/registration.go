package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	registrationapp "github.com/bizreg/backend/internal/application/registration"
)

// RegistrationHandler handles business draft API endpoints
type RegistrationHandler struct {
	BaseHandler
	service *registrationapp.DraftService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(service *registrationapp.DraftService) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
	}
}

// pathUserID parses the :userId path segment and verifies it matches the
// authenticated caller.
func (h *RegistrationHandler) pathUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}

	callerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	if callerID != userID {
		h.Forbidden(c, "Cannot access another user's businesses")
		return uuid.Nil, false
	}
	return userID, true
}

// CreateDraft creates a new business draft for the user
func (h *RegistrationHandler) CreateDraft(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	var req registrationapp.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	draft, err := h.service.CreateDraft(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, draft)
}

// ListDrafts returns all business drafts owned by the user, newest first
func (h *RegistrationHandler) ListDrafts(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	drafts, err := h.service.ListDrafts(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, drafts)
}

// GetDraft returns a single business draft
func (h *RegistrationHandler) GetDraft(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	draft, err := h.service.GetDraft(c.Request.Context(), userID, businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draft)
}

// UpdateDraft applies a partial update to a draft's sections. Only the
// fields present in the body are written; protected fields are ignored.
func (h *RegistrationHandler) UpdateDraft(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		h.handleBindingError(c, err)
		return
	}
	if len(fields) == 0 {
		h.BadRequest(c, "No fields to update")
		return
	}

	draft, err := h.service.UpdateDraft(c.Request.Context(), userID, businessID, fields)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draft)
}

// CompleteRegistration records the payment outcome and marks the draft
// completed
func (h *RegistrationHandler) CompleteRegistration(c *gin.Context) {
	userID, ok := h.pathUserID(c)
	if !ok {
		return
	}

	businessID, err := uuid.Parse(c.Param("businessId"))
	if err != nil {
		h.BadRequest(c, "Invalid business ID")
		return
	}

	var req registrationapp.PaymentDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	draft, err := h.service.CompleteRegistration(c.Request.Context(), userID, businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draft)
}

// RegisterRoutes registers all business draft routes
func (h *RegistrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	businesses := rg.Group("/users/:userId/businesses")
	{
		businesses.POST("", h.CreateDraft)
		businesses.GET("", h.ListDrafts)
		businesses.GET("/:businessId", h.GetDraft)
		businesses.PATCH("/:businessId", h.UpdateDraft)
		businesses.POST("/:businessId/complete", h.CompleteRegistration)
	}
}
