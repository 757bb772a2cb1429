package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	wh "github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/webhook"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
)

type stubPayments struct{}

func (s *stubPayments) GetByReference(_ context.Context, _ string) (*models.PaymentRecord, error) {
	return nil, ledger.ErrPaymentNotFound
}

func (s *stubPayments) MarkCompleted(_ context.Context, _ string, _ decimal.Decimal, _ string) error {
	panic("not used")
}

func (s *stubPayments) MarkFailed(_ context.Context, _ string, _ string) error {
	panic("not used")
}

func newWebhookTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Paystack: config.PaystackConfig{WebhookSecret: "whsec_test"}}
	h := wh.NewHandler(cfg, &stubPayments{}, nil, nil, nil, nil, nil, nil, zap.NewNop().Sugar())

	r := gin.New()
	g := r.Group("/api/v1/payment/webhook")
	RegisterPaymentWebhookRoutes(g, h)
	return r
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment/webhook/paystack", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRegisterPaymentWebhookRoutes_RegistersEndpoint(t *testing.T) {
	r := newWebhookTestRouter()

	found := false
	for _, rt := range r.Routes() {
		if rt.Method == http.MethodPost && rt.Path == "/api/v1/payment/webhook/paystack" {
			found = true
		}
	}
	require.True(t, found)
}

func TestApiPaystackWebhook_RejectsBadSignature(t *testing.T) {
	r := newWebhookTestRouter()
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	w := postWebhook(r, body, "not-a-signature")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid signature")
}

func TestApiPaystackWebhook_RejectsMissingSignature(t *testing.T) {
	r := newWebhookTestRouter()
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	w := postWebhook(r, body, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApiPaystackWebhook_UnknownReference(t *testing.T) {
	r := newWebhookTestRouter()
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-unknown"}}`)

	w := postWebhook(r, body, signBody("whsec_test", body))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestApiPaystackWebhook_AcksUnhandledEvent(t *testing.T) {
	r := newWebhookTestRouter()
	body := []byte(`{"event":"transfer.success","data":{"reference":"ref-1"}}`)

	w := postWebhook(r, body, signBody("whsec_test", body))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"received":true`)
	require.Contains(t, w.Body.String(), "unhandled event")
}
