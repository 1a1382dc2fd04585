// Package checkout proxies hosted payment session creation to the
// payment provider.
package checkout

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentGateway abstracts the hosted checkout provider
type PaymentGateway interface {
	// CreateSession opens a hosted checkout session and returns its ID
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

// SessionRequest is the provider-facing session description. Amount is in
// the currency's integer minor units.
type SessionRequest struct {
	AmountMinor int64
	Currency    string
	ProductName string
	BusinessID  string
	UserID      string
}

// CreateSessionRequest is the client-facing checkout request. Amount is in
// major currency units.
type CreateSessionRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	BusinessID string          `json:"businessId" binding:"required"`
	UserID     string          `json:"userId" binding:"required"`
}

// CheckoutService converts checkout requests into provider sessions
type CheckoutService struct {
	gateway  PaymentGateway
	currency string
	logger   *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(gateway PaymentGateway, currency string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		gateway:  gateway,
		currency: currency,
		logger:   logger,
	}
}

// CreateSession converts the amount to minor units and opens a hosted
// checkout session. Provider errors are logged with detail and returned
// as-is; callers present only an opaque failure to the client.
func (s *CheckoutService) CreateSession(ctx context.Context, req CreateSessionRequest) (string, error) {
	minor := req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	sessionID, err := s.gateway.CreateSession(ctx, SessionRequest{
		AmountMinor: minor,
		Currency:    s.currency,
		ProductName: "Business registration",
		BusinessID:  req.BusinessID,
		UserID:      req.UserID,
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("business_id", req.BusinessID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return "", err
	}
	return sessionID, nil
}
