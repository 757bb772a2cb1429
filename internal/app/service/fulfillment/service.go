package fulfillment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/ledger"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/app/service/notify"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/platform/provider"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/config"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/logctx"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/metrics"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/tool"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

var (
	// ErrMaxRetriesExceeded terminates the admin retry path without touching
	// the provider.
	ErrMaxRetriesExceeded = errors.New("max fulfillment retries exceeded")
	// ErrRetryNotDue rejects a retry attempted before the scheduled backoff
	// window opens.
	ErrRetryNotDue = errors.New("retry window not reached")
	// ErrValidation marks a request that never reached the provider.
	ErrValidation = errors.New("fulfillment validation failed")
)

// Providers resolves the delivery client for a network family.
type Providers interface {
	For(family types.NetworkFamily) (provider.Client, error)
}

// Service drives a paid order to a terminal local state: eligibility check,
// provider submission, bounded confirmation polling, finalization.
type Service struct {
	orders    ledger.OrderStore
	logs      ledger.FulfillmentLogStore
	blacklist ledger.BlacklistStore
	settings  ledger.SettingsProvider
	providers Providers
	notifier  notify.Notifier
	cfg       *config.Config
	log       *zap.SugaredLogger

	pollDelays  []time.Duration
	maxAttempts int
}

func NewService(
	orders ledger.OrderStore,
	logs ledger.FulfillmentLogStore,
	blacklist ledger.BlacklistStore,
	settings ledger.SettingsProvider,
	providers *provider.Registry,
	notifier notify.Notifier,
	cfg *config.Config,
	log *zap.SugaredLogger,
) *Service {
	s := &Service{
		orders:      orders,
		logs:        logs,
		blacklist:   blacklist,
		settings:    settings,
		providers:   providers,
		notifier:    notifier,
		cfg:         cfg,
		log:         log,
		pollDelays:  cfg.Fulfillment.PollDelays,
		maxAttempts: cfg.Fulfillment.MaxAttempts,
	}
	if len(s.pollDelays) == 0 {
		s.pollDelays = []time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second}
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 3
	}
	return s
}

// AutoFulfillSettingKey is the settings-table key for a family's toggle.
func AutoFulfillSettingKey(family types.NetworkFamily) string {
	return "auto_fulfill_" + family.String()
}

// Eligible decides whether a newly-paid order should be auto-delivered now.
// An ineligible order is not an error; it stays pending for manual handling.
func (s *Service) Eligible(ctx context.Context, order *models.Order) (bool, string) {
	family := order.NetworkFamily()
	if !family.Known() {
		return false, fmt.Sprintf("unsupported network %q", order.Network)
	}

	// Toggle reads fail open: a missing or unreadable setting must not stall
	// paid orders (documented policy, see DESIGN.md).
	if !s.settings.GetBool(ctx, AutoFulfillSettingKey(family), true) {
		return false, "auto-fulfillment disabled for " + family.String()
	}

	if order.IsBlacklisted() {
		return false, "order queued as blacklisted"
	}
	blocked, err := s.blacklist.IsBlacklisted(ctx, order.CustomerPhone)
	if err != nil {
		// Lookup failures also fail open; the order-level queue flag above is
		// the first line of defense.
		logctx.FromCtx(ctx, s.log).Warnw("blacklist_lookup_failed", "order_id", order.ID, "err", err)
	} else if blocked {
		return false, "phone blacklisted"
	}

	return true, ""
}

// FulfillPaidOrder is the webhook entry point: eligibility gate, then one
// orchestrated attempt. Ineligibility returns nil.
func (s *Service) FulfillPaidOrder(ctx context.Context, order *models.Order) error {
	ok, reason := s.Eligible(ctx, order)
	if !ok {
		logctx.FromCtx(ctx, s.log).Infow("fulfillment_skipped", "order_id", order.ID, "reason", reason)
		return nil
	}
	return s.run(ctx, order, 1)
}

// Retry is the admin/cron re-drive of a failed order. It enforces the
// attempt cap before any provider traffic and schedules the next window.
func (s *Service) Retry(ctx context.Context, orderID string) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	flog, err := s.logs.GetByOrderID(ctx, orderID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load fulfillment log: %w", err)
	}

	attempt := 1
	if flog != nil {
		if flog.Status == types.FulfillmentStatusSuccess {
			return nil
		}
		if flog.AttemptsExhausted() {
			return ErrMaxRetriesExceeded
		}
		if flog.NextRetryAt != nil && time.Now().Before(*flog.NextRetryAt) {
			return fmt.Errorf("%w: next attempt at %s", ErrRetryNotDue, flog.NextRetryAt.Format(time.RFC3339))
		}
		attempt = flog.AttemptNumber + 1
	}

	if err := Transition(order.OrderStatus, types.OrderStatusProcessing); err != nil {
		return err
	}
	return s.run(ctx, order, attempt)
}

// run performs one full fulfillment attempt. Every path, including
// validation failures, leaves a FulfillmentLog row behind: the log is the
// audit trail support and finance reconcile against.
func (s *Service) run(ctx context.Context, order *models.Order, attempt int) error {
	lg := logctx.FromCtx(ctx, s.log)
	family := order.NetworkFamily()
	flog := &models.FulfillmentLog{
		OrderID:       order.ID,
		OrderType:     order.OrderType,
		Phone:         order.CustomerPhone,
		Network:       order.Network,
		Status:        types.FulfillmentStatusPending,
		AttemptNumber: attempt,
		MaxAttempts:   s.maxAttempts,
		NextRetryAt:   lo.ToPtr(time.Now().Add(NextRetryDelay(attempt))),
	}

	phone := tool.NormalizeMSISDN(order.CustomerPhone)
	if phone == "" || !family.Known() {
		msg := fmt.Sprintf("invalid phone %q or network %q", order.CustomerPhone, order.Network)
		s.recordFailure(ctx, order, flog, msg)
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	client, err := s.providers.For(family)
	if err != nil {
		s.recordFailure(ctx, order, flog, err.Error())
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	res, err := client.Initiate(ctx, provider.Request{
		Phone:     phone,
		SizeGB:    order.VolumeGB,
		Reference: order.ID,
		Family:    family,
	})
	if err != nil {
		s.recordFailure(ctx, order, flog, err.Error())
		s.notifyOps(ctx, order, err.Error())
		metrics.FulfillmentOutcomes.WithLabelValues(family.String(), "failed").Inc()
		return fmt.Errorf("initiate delivery: %w", err)
	}

	// Accepted for processing only; delivery is confirmed by polling.
	flog.Status = types.FulfillmentStatusProcessing
	if raw, err := json.Marshal(map[string]string{"body": string(res.RawBody)}); err == nil {
		flog.RawResponse = raw
	}
	if err := s.logs.Upsert(ctx, flog); err != nil {
		lg.Errorw("fulfillment_log_save_failed", "order_id", order.ID, "err", err)
	}
	if err := s.orders.SetOrderStatus(ctx, order.ID, types.OrderStatusProcessing, nil); err != nil {
		return fmt.Errorf("mark order processing: %w", err)
	}
	order.OrderStatus = types.OrderStatusProcessing

	outcome, statusText := s.poll(ctx, client, order.ID)
	switch outcome {
	case OutcomeCompleted:
		return s.finalizeSuccess(ctx, order, flog, statusText)
	case OutcomeFailed:
		s.recordFailure(ctx, order, flog, statusText)
		s.notifyOps(ctx, order, statusText)
		metrics.FulfillmentOutcomes.WithLabelValues(family.String(), "failed").Inc()
		return nil
	default:
		// Pending confirmation, not a failure: the order stays processing
		// and a later reconciliation pass settles it.
		lg.Infow("fulfillment_unconfirmed", "order_id", order.ID, "last_status", statusText)
		metrics.FulfillmentOutcomes.WithLabelValues(family.String(), "unconfirmed").Inc()
		return nil
	}
}

// poll runs the bounded verification schedule, stopping at the first
// terminal outcome.
func (s *Service) poll(ctx context.Context, client provider.Client, reference string) (Outcome, string) {
	lg := logctx.FromCtx(ctx, s.log)
	last := ""
	for i, delay := range s.pollDelays {
		if err := sleep(ctx, delay); err != nil {
			return OutcomeProcessing, last
		}
		res, err := client.Verify(ctx, reference)
		if err != nil {
			lg.Warnw("fulfillment_verify_failed", "reference", reference, "poll", i+1, "err", err)
			continue
		}
		last = res.StatusText
		if outcome := Classify(res.StatusText); outcome != OutcomeProcessing {
			return outcome, last
		}
	}
	return OutcomeProcessing, last
}

func (s *Service) finalizeSuccess(ctx context.Context, order *models.Order, flog *models.FulfillmentLog, statusText string) error {
	if err := Transition(order.OrderStatus, types.OrderStatusCompleted); err != nil {
		return err
	}
	method := "auto_" + order.NetworkFamily().String()
	if err := s.orders.SetOrderStatus(ctx, order.ID, types.OrderStatusCompleted, &method); err != nil {
		return fmt.Errorf("mark order completed: %w", err)
	}

	flog.Status = types.FulfillmentStatusSuccess
	flog.ErrorMessage = nil
	flog.NextRetryAt = nil
	if raw, err := json.Marshal(map[string]string{"status": statusText}); err == nil {
		flog.RawResponse = raw
	}
	if err := s.logs.Upsert(ctx, flog); err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("fulfillment_log_save_failed", "order_id", order.ID, "err", err)
	}

	if order.ShopID != nil {
		if err := s.notifier.SendInApp(ctx, *order.ShopID,
			"Order delivered",
			fmt.Sprintf("%sGB %s to %s delivered", order.VolumeGB, order.Network, order.CustomerPhone),
		); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("fulfillment_notify_failed", "order_id", order.ID, "err", err)
		}
	}
	metrics.FulfillmentOutcomes.WithLabelValues(order.NetworkFamily().String(), "completed").Inc()
	return nil
}

// recordFailure persists the failed log row and moves the order to failed
// when the transition is legal.
func (s *Service) recordFailure(ctx context.Context, order *models.Order, flog *models.FulfillmentLog, reason string) {
	lg := logctx.FromCtx(ctx, s.log)
	flog.Status = types.FulfillmentStatusFailed
	flog.ErrorMessage = lo.ToPtr(reason)
	if err := s.logs.Upsert(ctx, flog); err != nil {
		lg.Errorw("fulfillment_log_save_failed", "order_id", order.ID, "err", err)
	}
	if err := Transition(order.OrderStatus, types.OrderStatusFailed); err != nil {
		lg.Errorw("fulfillment_illegal_transition", "order_id", order.ID, "err", err)
		return
	}
	if err := s.orders.SetOrderStatus(ctx, order.ID, types.OrderStatusFailed, nil); err != nil {
		lg.Errorw("fulfillment_order_update_failed", "order_id", order.ID, "err", err)
	}
}

// notifyOps alerts operations staff so a human can intervene. Channel errors
// are logged and swallowed.
func (s *Service) notifyOps(ctx context.Context, order *models.Order, reason string) {
	lg := logctx.FromCtx(ctx, s.log)
	msg := fmt.Sprintf("Fulfillment failed: order %s, %s, %sGB %s. Reason: %s",
		order.ID, order.CustomerPhone, order.VolumeGB, order.Network, reason)
	for _, phone := range s.cfg.AdminPhones {
		if err := s.notifier.SendSMS(ctx, phone, msg); err != nil {
			lg.Warnw("ops_sms_failed", "phone", phone, "err", err)
		}
	}
	for _, email := range s.cfg.AdminEmails {
		if err := s.notifier.SendEmail(ctx, email, "Fulfillment failure", msg); err != nil {
			lg.Warnw("ops_email_failed", "email", email, "err", err)
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
