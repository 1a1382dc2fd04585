package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/bizreg/backend/internal/application/checkout"
)

// checkoutErrorMessage is the only failure body the endpoint ever
// returns. Provider error detail stays in the server logs.
const checkoutErrorMessage = "Error creating checkout session"

// CheckoutHandler handles hosted checkout session creation. Unlike the
// rest of the API it speaks bare JSON, matching what the payment widget
// on the client expects.
type CheckoutHandler struct {
	service *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// CreateSession opens a hosted checkout session for the given amount
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkoutapp.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": checkoutErrorMessage})
		return
	}

	sessionID, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": checkoutErrorMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

// RegisterRoutes registers the checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout/session", h.CreateSession)
}
