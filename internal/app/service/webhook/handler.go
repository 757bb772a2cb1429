package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/notify"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/profit"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/wallet"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/metrics"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// Ack is the acknowledgment returned to the gateway.
type Ack struct {
	Received bool   `json:"received"`
	Skipped  string `json:"skipped,omitempty"`
}

// WalletService is the top-up contract the handler needs.
type WalletService interface {
	Credit(ctx context.Context, userID, reference string, amount, fee decimal.Decimal) (*models.WalletTransaction, error)
	RecordFailure(ctx context.Context, userID, reference string, amount decimal.Decimal) error
}

// ProfitService is the shop-margin contract the handler needs.
type ProfitService interface {
	Credit(ctx context.Context, shopID, orderID string, amount decimal.Decimal) (*models.ProfitRecord, error)
	SyncAvailableBalance(ctx context.Context, shopID string) error
}

// Fulfiller kicks off auto-delivery for a paid order.
type Fulfiller interface {
	FulfillPaidOrder(ctx context.Context, order *models.Order) error
}

// Handler translates gateway events into ledger state, exactly once per
// event, then hands paid shop orders to the fulfillment orchestrator.
type Handler struct {
	secret    string
	payments  ledger.PaymentStore
	orders    ledger.OrderStore
	tracking  ledger.TrackingStore
	walletSvc WalletService
	profitSvc ProfitService
	notifier  notify.Notifier
	fulfiller Fulfiller
	Logger    *zap.SugaredLogger
}

func NewHandler(
	cfg *config.Config,
	payments ledger.PaymentStore,
	orders ledger.OrderStore,
	tracking ledger.TrackingStore,
	walletSvc *wallet.Service,
	profitSvc *profit.Service,
	notifier notify.Notifier,
	fulfiller Fulfiller,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		secret:    cfg.Paystack.WebhookSecret,
		payments:  payments,
		orders:    orders,
		tracking:  tracking,
		walletSvc: walletSvc,
		profitSvc: profitSvc,
		notifier:  notifier,
		fulfiller: fulfiller,
		Logger:    log,
	}
}

// newHandlerWith is the test seam: same wiring, interface-typed services.
func newHandlerWith(
	secret string,
	payments ledger.PaymentStore,
	orders ledger.OrderStore,
	tracking ledger.TrackingStore,
	walletSvc WalletService,
	profitSvc ProfitService,
	notifier notify.Notifier,
	fulfiller Fulfiller,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		secret:    secret,
		payments:  payments,
		orders:    orders,
		tracking:  tracking,
		walletSvc: walletSvc,
		profitSvc: profitSvc,
		notifier:  notifier,
		fulfiller: fulfiller,
		Logger:    log,
	}
}

// Handle processes one signed gateway callback. Authentication and core
// ledger mutations surface errors; side effects are logged and swallowed so
// the gateway never retries an already-applied payment.
func (h *Handler) Handle(ctx context.Context, body []byte, signature string) (*Ack, error) {
	if err := VerifySignature(h.secret, body, signature); err != nil {
		return nil, err
	}

	ev, err := ParseEvent(body)
	if err != nil {
		return nil, err
	}
	lg := logctx.FromCtx(ctx, h.Logger).With("event", ev.Event, "reference", ev.Data.Reference)

	switch ev.Event {
	case EventChargeSuccess, EventChargeFailed:
	default:
		lg.Infow("webhook_event_ignored")
		metrics.WebhookEvents.WithLabelValues(ev.Event, "ignored").Inc()
		return &Ack{Received: true, Skipped: "unhandled event"}, nil
	}

	rec, err := h.payments.GetByReference(ctx, ev.Data.Reference)
	if err != nil {
		return nil, err
	}

	// Idempotency: a record already in the terminal state this event drives
	// toward has been fully processed; re-delivery is acknowledged untouched.
	if rec.Status.Terminal() {
		lg.Infow("webhook_event_skipped", "status", rec.Status)
		metrics.WebhookEvents.WithLabelValues(ev.Event, "skipped").Inc()
		return &Ack{Received: true, Skipped: "already processed"}, nil
	}

	var ack *Ack
	if ev.Event == EventChargeSuccess {
		ack, err = h.handleSuccess(ctx, rec, ev)
	} else {
		ack, err = h.handleFailure(ctx, rec, ev)
	}
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(ev.Event, "error").Inc()
		return nil, err
	}
	metrics.WebhookEvents.WithLabelValues(ev.Event, "processed").Inc()
	return ack, nil
}

func (h *Handler) handleSuccess(ctx context.Context, rec *models.PaymentRecord, ev *Event) (*Ack, error) {
	lg := logctx.FromCtx(ctx, h.Logger).With("reference", rec.Reference)

	if err := h.payments.MarkCompleted(ctx, rec.ID, ev.Data.AmountGHS(), ev.Data.GatewayTxnID()); err != nil {
		return nil, fmt.Errorf("mark payment completed: %w", err)
	}

	if rec.IsWalletTopUp() {
		return h.settleTopUp(ctx, rec, ev)
	}

	order, err := h.orders.Get(ctx, *rec.OrderID)
	if err != nil {
		return nil, err
	}
	if err := h.orders.SetPaymentStatus(ctx, order.ID, types.PaymentStatusCompleted); err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	// Everything below is a side effect: logged on failure, never surfaced,
	// so the gateway does not re-deliver an applied payment.
	h.trackCustomer(ctx, order, ev)

	if !order.IsBlacklisted() {
		msg := fmt.Sprintf("Your %sGB %s order has been received and is being processed.",
			order.VolumeGB, order.Network)
		if err := h.notifier.SendSMS(ctx, order.CustomerPhone, msg); err != nil {
			lg.Warnw("purchase_sms_failed", "err", err)
		}
	}

	h.creditProfits(ctx, order)

	go func() {
		// The webhook response must not wait out the polling loop.
		bg := context.WithoutCancel(ctx)
		if err := h.fulfiller.FulfillPaidOrder(bg, order); err != nil {
			h.Logger.Errorw("fulfillment_kickoff_failed", "order_id", order.ID, "err", err)
		}
	}()

	return &Ack{Received: true}, nil
}

func (h *Handler) settleTopUp(ctx context.Context, rec *models.PaymentRecord, ev *Event) (*Ack, error) {
	lg := logctx.FromCtx(ctx, h.Logger).With("reference", rec.Reference)

	txn, err := h.walletSvc.Credit(ctx, rec.UserID, rec.Reference, ev.Data.AmountGHS(), rec.Fee)
	if errors.Is(err, wallet.ErrAlreadyApplied) {
		lg.Infow("topup_already_applied")
		return &Ack{Received: true, Skipped: "credit already applied"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credit wallet: %w", err)
	}

	msg := fmt.Sprintf("Your wallet has been topped up with GHS %s.", txn.Amount)
	if err := h.notifier.SendInApp(ctx, rec.UserID, "Top-up successful", msg); err != nil {
		lg.Warnw("topup_notify_failed", "err", err)
	}
	if ev.Data.Customer.Email != "" {
		if err := h.notifier.SendEmail(ctx, ev.Data.Customer.Email, "Top-up successful", msg); err != nil {
			lg.Warnw("topup_email_failed", "err", err)
		}
	}
	return &Ack{Received: true}, nil
}

func (h *Handler) handleFailure(ctx context.Context, rec *models.PaymentRecord, ev *Event) (*Ack, error) {
	lg := logctx.FromCtx(ctx, h.Logger).With("reference", rec.Reference)

	if err := h.payments.MarkFailed(ctx, rec.ID, ev.Data.GatewayTxnID()); err != nil {
		return nil, fmt.Errorf("mark payment failed: %w", err)
	}

	if rec.IsWalletTopUp() {
		if err := h.walletSvc.RecordFailure(ctx, rec.UserID, rec.Reference, ev.Data.AmountGHS()); err != nil {
			lg.Warnw("topup_failure_record_failed", "err", err)
		}
		if err := h.notifier.SendInApp(ctx, rec.UserID, "Top-up failed",
			"Your wallet top-up could not be completed. "+ev.Data.GatewayResponse); err != nil {
			lg.Warnw("topup_notify_failed", "err", err)
		}
		return &Ack{Received: true}, nil
	}

	if err := h.orders.SetPaymentStatus(ctx, *rec.OrderID, types.PaymentStatusFailed); err != nil {
		return nil, fmt.Errorf("mark order payment failed: %w", err)
	}
	return &Ack{Received: true}, nil
}

// trackCustomer is best-effort repeat-customer bookkeeping.
func (h *Handler) trackCustomer(ctx context.Context, order *models.Order, ev *Event) {
	if order.ShopID == nil {
		return
	}
	t := &models.CustomerTracking{
		ShopID:  *order.ShopID,
		OrderID: order.ID,
		Phone:   order.CustomerPhone,
		Email:   ev.Data.Customer.Email,
		Amount:  ev.Data.AmountGHS(),
	}
	if err := h.tracking.Insert(ctx, t); err != nil {
		logctx.FromCtx(ctx, h.Logger).Warnw("customer_tracking_failed", "order_id", order.ID, "err", err)
	}
}

// creditProfits appends the shop margin (and the parent-shop margin when the
// checkout pre-computed one) and refreshes the affected snapshots. All
// best-effort relative to the webhook response.
func (h *Handler) creditProfits(ctx context.Context, order *models.Order) {
	lg := logctx.FromCtx(ctx, h.Logger)
	if order.ShopID == nil {
		return
	}

	if _, err := h.profitSvc.Credit(ctx, *order.ShopID, order.ID, order.Profit); err != nil && !errors.Is(err, profit.ErrAlreadyCredited) {
		lg.Errorw("profit_credit_failed", "order_id", order.ID, "shop_id", *order.ShopID, "err", err)
	}
	if err := h.profitSvc.SyncAvailableBalance(ctx, *order.ShopID); err != nil {
		lg.Errorw("balance_sync_failed", "shop_id", *order.ShopID, "err", err)
	}

	// Parent margins are trusted as computed at checkout time.
	if order.ParentShopID != nil && order.ParentProfit.IsPositive() {
		if _, err := h.profitSvc.Credit(ctx, *order.ParentShopID, order.ID, order.ParentProfit); err != nil && !errors.Is(err, profit.ErrAlreadyCredited) {
			lg.Errorw("parent_profit_credit_failed", "order_id", order.ID, "shop_id", *order.ParentShopID, "err", err)
		}
		if err := h.profitSvc.SyncAvailableBalance(ctx, *order.ParentShopID); err != nil {
			lg.Errorw("balance_sync_failed", "shop_id", *order.ParentShopID, "err", err)
		}
	}
}
