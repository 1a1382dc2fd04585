// Package payment adapts the hosted checkout flow to Stripe.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizreg/backend/internal/application/checkout"
	"github.com/bizreg/backend/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"
)

// Ensure StripeCheckoutGateway implements PaymentGateway
var _ checkout.PaymentGateway = (*StripeCheckoutGateway)(nil)

// StripeCheckoutGateway creates hosted Stripe Checkout sessions
type StripeCheckoutGateway struct {
	cfg    *config.StripeConfig
	logger *zap.Logger
}

// NewStripeCheckoutGateway creates a gateway and initializes the global
// Stripe client key
func NewStripeCheckoutGateway(cfg *config.StripeConfig, logger *zap.Logger) (*StripeCheckoutGateway, error) {
	if cfg == nil {
		return nil, errors.New("stripe configuration is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if !strings.HasPrefix(cfg.SecretKey, "sk_") {
		return nil, fmt.Errorf("stripe secret key has unexpected format")
	}

	stripe.Key = cfg.SecretKey

	return &StripeCheckoutGateway{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// CreateSession opens a one-time payment Checkout session. The business
// and user identifiers travel as opaque metadata for reconciliation, and
// the redirect URLs carry Stripe's session-id placeholder, substituted by
// Stripe at redirect time.
func (g *StripeCheckoutGateway) CreateSession(ctx context.Context, req checkout.SessionRequest) (string, error) {
	g.logger.Debug("Creating Stripe checkout session",
		zap.String("business_id", req.BusinessID),
		zap.Int64("amount_minor", req.AmountMinor))

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.cfg.BaseURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.cfg.BaseURL + "/payment/cancel?session_id={CHECKOUT_SESSION_ID}"),
		Metadata: map[string]string{
			"businessId": req.BusinessID,
			"userId":     req.UserID,
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Stripe checkout session creation failed",
			zap.String("business_id", req.BusinessID),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("business_id", req.BusinessID),
		zap.String("session_id", sess.ID))
	return sess.ID, nil
}
