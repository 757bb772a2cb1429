package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// PaymentRecord is one attempted gateway transaction. Created at checkout
// time; only the webhook pipeline moves it to a terminal status.
type PaymentRecord struct {
	ID        string              `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Reference string              `gorm:"column:reference;type:varchar(128);not null;uniqueIndex:unique_payment_reference" json:"reference"`
	UserID    string              `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	OrderID   *string             `gorm:"column:order_id;type:uuid" json:"order_id"`
	ShopID    *string             `gorm:"column:shop_id;type:uuid" json:"shop_id"`
	Status    types.PaymentStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	// AmountReceived is the settled amount in GHS, recorded from the gateway
	// event (minor units converted at the boundary).
	AmountReceived decimal.Decimal `gorm:"column:amount_received;type:numeric(14,2);not null;default:0" json:"amount_received"`
	// Fee is the pre-recorded gateway fee deducted before wallet crediting.
	Fee          decimal.Decimal `gorm:"column:fee;type:numeric(14,2);not null;default:0" json:"fee"`
	GatewayTxnID string          `gorm:"column:gateway_txn_id;type:varchar(64)" json:"gateway_txn_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_record"
}

// IsWalletTopUp reports whether this payment funds a wallet rather than a
// shop order.
func (p *PaymentRecord) IsWalletTopUp() bool {
	return p != nil && p.OrderID == nil
}
