package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	wh "github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/webhook"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
)

const paystackSignatureHeader = "x-paystack-signature"

// @Summary      Paystack Webhook
// @Description  Handles Paystack charge events. The body must be signed with HMAC-SHA512 in the x-paystack-signature header.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body webhook.Event true "Paystack event payload"
// @Success      200  {object}  webhook.Ack
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/payment/webhook/paystack [post]
// ApiPaystackWebhook drives the settlement pipeline from gateway callbacks.
func ApiPaystackWebhook(h *wh.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		lg := logctx.FromGin(c, h.Logger)

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		ack, err := h.Handle(c.Request.Context(), body, c.GetHeader(paystackSignatureHeader))
		switch {
		case errors.Is(err, wh.ErrInvalidSignature):
			lg.Warnw("webhook_rejected", "reason", "bad signature")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
			return
		case errors.Is(err, ledger.ErrPaymentNotFound):
			lg.Errorw("webhook_payment_missing")
			c.JSON(http.StatusNotFound, gin.H{"error": "payment record not found"})
			return
		case err != nil:
			lg.Errorw("webhook_processing_failed", "err", err)
			// Stable code for support escalation; details stay in logs.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed", "code": "WEBHOOK_500"})
			return
		}

		c.JSON(http.StatusOK, ack)
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *wh.Handler) {
	// Mount under provided group, expected at "/api/v1/payment/webhook"
	r.POST("/paystack", ApiPaystackWebhook(h))
}
