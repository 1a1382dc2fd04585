package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	checkoutapp "github.com/bizreg/backend/internal/application/checkout"
)

type stubPaymentGateway struct {
	lastRequest checkoutapp.SessionRequest
	sessionID   string
	err         error
}

func (g *stubPaymentGateway) CreateSession(_ context.Context, req checkoutapp.SessionRequest) (string, error) {
	g.lastRequest = req
	if g.err != nil {
		return "", g.err
	}
	return g.sessionID, nil
}

func newCheckoutTestRouter(gateway *stubPaymentGateway) *gin.Engine {
	service := checkoutapp.NewCheckoutService(gateway, "eur", zap.NewNop())
	handler := NewCheckoutHandler(service)

	router := gin.New()
	handler.RegisterRoutes(router.Group(""))
	return router
}

func postCheckout(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout/session", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler_CreateSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the session id and converts to minor units", func(t *testing.T) {
		gateway := &stubPaymentGateway{sessionID: "cs_test_a1b2c3"}
		router := newCheckoutTestRouter(gateway)

		w := postCheckout(router, `{"amount":150.00,"businessId":"biz-1","userId":"user-1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"sessionId":"cs_test_a1b2c3"}`, w.Body.String())
		assert.Equal(t, int64(15000), gateway.lastRequest.AmountMinor)
		assert.Equal(t, "eur", gateway.lastRequest.Currency)
	})

	t.Run("converts fractional amounts exactly", func(t *testing.T) {
		gateway := &stubPaymentGateway{sessionID: "cs_test_d4e5f6"}
		router := newCheckoutTestRouter(gateway)

		w := postCheckout(router, `{"amount":"149.99","businessId":"biz-1","userId":"user-1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(14999), gateway.lastRequest.AmountMinor)
	})

	t.Run("hides provider failures behind an opaque body", func(t *testing.T) {
		gateway := &stubPaymentGateway{err: errors.New("stripe: invalid api key sk_test_xyz")}
		router := newCheckoutTestRouter(gateway)

		w := postCheckout(router, `{"amount":150.00,"businessId":"biz-1","userId":"user-1"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error creating checkout session"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "sk_test_xyz")
	})

	t.Run("treats malformed bodies the same as provider failures", func(t *testing.T) {
		gateway := &stubPaymentGateway{sessionID: "cs_test_unused"}
		router := newCheckoutTestRouter(gateway)

		w := postCheckout(router, `{"amount":`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Error creating checkout session"}`, w.Body.String())
	})
}
