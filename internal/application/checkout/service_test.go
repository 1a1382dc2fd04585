package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestCheckoutService_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("converts amount to minor units", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		service := NewCheckoutService(gateway, "usd", zap.NewNop())

		gateway.On("CreateSession", ctx, SessionRequest{
			AmountMinor: 15000,
			Currency:    "usd",
			ProductName: "Business registration",
			BusinessID:  "biz-1",
			UserID:      "user-1",
		}).Return("cs_test_123", nil)

		sessionID, err := service.CreateSession(ctx, CreateSessionRequest{
			Amount:     decimal.NewFromFloat(150.00),
			BusinessID: "biz-1",
			UserID:     "user-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", sessionID)
		gateway.AssertExpectations(t)
	})

	t.Run("handles fractional major units exactly", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		service := NewCheckoutService(gateway, "usd", zap.NewNop())

		gateway.On("CreateSession", ctx, mock.MatchedBy(func(req SessionRequest) bool {
			return req.AmountMinor == 14999
		})).Return("cs_test_456", nil)

		_, err := service.CreateSession(ctx, CreateSessionRequest{
			Amount:     decimal.NewFromFloat(149.99),
			BusinessID: "biz-1",
			UserID:     "user-1",
		})
		require.NoError(t, err)
		gateway.AssertExpectations(t)
	})

	t.Run("propagates provider errors", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		service := NewCheckoutService(gateway, "usd", zap.NewNop())

		gateway.On("CreateSession", ctx, mock.Anything).Return("", errors.New("stripe unavailable"))

		_, err := service.CreateSession(ctx, CreateSessionRequest{
			Amount:     decimal.NewFromInt(10),
			BusinessID: "biz-1",
			UserID:     "user-1",
		})
		assert.Error(t, err)
	})
}
