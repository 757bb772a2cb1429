package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// ProfitRecord is one append-only ledger row for a shop's earned margin.
// balance_after = balance_before + amount at insertion time; rows are never
// mutated except for the status transition to withdrawn.
type ProfitRecord struct {
	ID            string             `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ShopID        string             `gorm:"column:shop_id;type:uuid;not null;index:idx_profit_shop_created,priority:1;uniqueIndex:unique_profit_shop_order,priority:1" json:"shop_id"`
	OrderID       string             `gorm:"column:order_id;type:uuid;not null;uniqueIndex:unique_profit_shop_order,priority:2" json:"order_id"`
	Amount        decimal.Decimal    `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal    `gorm:"column:balance_before;type:numeric(14,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal    `gorm:"column:balance_after;type:numeric(14,2);not null" json:"balance_after"`
	Status        types.ProfitStatus `gorm:"column:status;type:varchar(16);not null;default:'credited'" json:"status"`
	CreatedAt     time.Time          `gorm:"index:idx_profit_shop_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

func (ProfitRecord) TableName() string {
	return "profit_record"
}

// AvailableBalance is a derived cache of a shop's withdrawable balance. It is
// replaced wholesale after every profit-affecting event and is never the
// source of truth.
type AvailableBalance struct {
	ID             string          `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ShopID         string          `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:unique_available_balance_shop" json:"shop_id"`
	Available      decimal.Decimal `gorm:"column:available;type:numeric(14,2);not null" json:"available"`
	TotalCredited  decimal.Decimal `gorm:"column:total_credited;type:numeric(14,2);not null" json:"total_credited"`
	TotalWithdrawn decimal.Decimal `gorm:"column:total_withdrawn;type:numeric(14,2);not null" json:"total_withdrawn"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (AvailableBalance) TableName() string {
	return "available_balance"
}

// Withdrawal is a shop payout request; only approved rows count against the
// available balance.
type Withdrawal struct {
	ID        string                 `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ShopID    string                 `gorm:"column:shop_id;type:uuid;not null;index" json:"shop_id"`
	Amount    decimal.Decimal        `gorm:"column:amount;type:numeric(14,2);not null" json:"amount"`
	Status    types.WithdrawalStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawal"
}
