package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// Wallet holds a user's spendable balance. Mutated only together with a
// WalletTransaction snapshot row.
type Wallet struct {
	ID        string          `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID    string          `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:unique_wallet_user" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Wallet) TableName() string {
	return "wallet"
}

// WalletTransaction is a credit/debit ledger row. The partial unique index on
// (reference_id, user_id, type) over completed rows is what makes duplicate
// webhook delivery safe: a second completed credit for the same reference
// cannot be inserted, while failed attempts for the reference still can.
type WalletTransaction struct {
	ID            string              `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID        string              `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:unique_wallet_txn_ref,priority:2,where:status = 'completed'" json:"user_id"`
	Type          types.WalletTxnType `gorm:"column:type;type:varchar(8);not null;uniqueIndex:unique_wallet_txn_ref,priority:3,where:status = 'completed'" json:"type"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	ReferenceID   string              `gorm:"column:reference_id;type:varchar(128);not null;uniqueIndex:unique_wallet_txn_ref,priority:1,where:status = 'completed'" json:"reference_id"`
	BalanceBefore decimal.Decimal     `gorm:"column:balance_before;type:numeric(14,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal     `gorm:"column:balance_after;type:numeric(14,2);not null" json:"balance_after"`
	Status        types.PaymentStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transaction"
}
