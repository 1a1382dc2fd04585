package handler

import (
	"github.com/gin-gonic/gin"

	registrationapp "github.com/bizreg/backend/internal/application/registration"
)

// WizardHandler handles the step-by-step registration wizard endpoints.
// All operations except session creation require the X-Session-ID header.
type WizardHandler struct {
	BaseHandler
	service *registrationapp.WizardService
}

// NewWizardHandler creates a new WizardHandler
func NewWizardHandler(service *registrationapp.WizardService) *WizardHandler {
	return &WizardHandler{
		service: service,
	}
}

// requireSessionID extracts the session ID or responds with 400
func (h *WizardHandler) requireSessionID(c *gin.Context) (string, bool) {
	sessionID := getSessionID(c)
	if sessionID == "" {
		h.BadRequest(c, "Missing "+SessionIDHeader+" header")
		return "", false
	}
	return sessionID, true
}

// StartSession creates a fresh wizard session at the first step
func (h *WizardHandler) StartSession(c *gin.Context) {
	state, err := h.service.StartSession(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, state)
}

// GetState returns the current wizard state for the session
func (h *WizardHandler) GetState(c *gin.Context) {
	sessionID, ok := h.requireSessionID(c)
	if !ok {
		return
	}

	state, err := h.service.GetState(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Advance submits data for the current step and moves forward
func (h *WizardHandler) Advance(c *gin.Context) {
	sessionID, ok := h.requireSessionID(c)
	if !ok {
		return
	}

	var req registrationapp.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	state, err := h.service.Advance(c.Request.Context(), sessionID, req.Data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Retreat moves one step back. Backing out of the first step reports the
// session as exited instead of failing.
func (h *WizardHandler) Retreat(c *gin.Context) {
	sessionID, ok := h.requireSessionID(c)
	if !ok {
		return
	}

	state, err := h.service.Retreat(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Edit jumps back to an earlier step without discarding collected data
func (h *WizardHandler) Edit(c *gin.Context) {
	sessionID, ok := h.requireSessionID(c)
	if !ok {
		return
	}

	var req registrationapp.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindingError(c, err)
		return
	}

	state, err := h.service.Edit(c.Request.Context(), sessionID, req.Step)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Complete finishes the wizard and purges the session state
func (h *WizardHandler) Complete(c *gin.Context) {
	sessionID, ok := h.requireSessionID(c)
	if !ok {
		return
	}

	state, err := h.service.Complete(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// RegisterRoutes registers all wizard routes
func (h *WizardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wizard := rg.Group("/wizard")
	{
		wizard.POST("/sessions", h.StartSession)
		wizard.GET("/session", h.GetState)
		wizard.POST("/session/advance", h.Advance)
		wizard.POST("/session/retreat", h.Retreat)
		wizard.POST("/session/edit", h.Edit)
		wizard.POST("/session/complete", h.Complete)
	}
}
