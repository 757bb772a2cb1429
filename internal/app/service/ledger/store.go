package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/internal/models"
	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

var (
	// ErrPaymentNotFound is surfaced when a gateway event references a
	// payment this system never initiated (an upstream sequencing problem).
	ErrPaymentNotFound = errors.New("payment record not found")
	// ErrOrderNotFound is surfaced when an order id cannot be resolved.
	ErrOrderNotFound = errors.New("order not found")
)

// PaymentStore owns PaymentRecord lookups and terminal transitions.
type PaymentStore interface {
	GetByReference(ctx context.Context, reference string) (*models.PaymentRecord, error)
	// MarkCompleted records settlement details; callers must have checked the
	// record is not already terminal.
	MarkCompleted(ctx context.Context, id string, amount decimal.Decimal, gatewayTxnID string) error
	MarkFailed(ctx context.Context, id string, gatewayTxnID string) error
}

// OrderStore owns Order state mutation.
type OrderStore interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, id string, status types.PaymentStatus) error
	SetOrderStatus(ctx context.Context, id string, status types.OrderStatus, method *string) error
}

// FulfillmentLogStore owns the per-order delivery audit trail.
type FulfillmentLogStore interface {
	GetByOrderID(ctx context.Context, orderID string) (*models.FulfillmentLog, error)
	// Upsert creates the row for orderID on first write and updates it in
	// place afterwards.
	Upsert(ctx context.Context, log *models.FulfillmentLog) error
}

// BlacklistStore answers live phone-blacklist lookups.
type BlacklistStore interface {
	IsBlacklisted(ctx context.Context, phone string) (bool, error)
}

// TrackingStore records repeat-customer activity; inserts are best-effort.
type TrackingStore interface {
	Insert(ctx context.Context, t *models.CustomerTracking) error
}

// SettingsProvider reads runtime toggles from the settings table.
type SettingsProvider interface {
	// GetBool returns def when the key is absent or unreadable.
	GetBool(ctx context.Context, key string, def bool) bool
}
