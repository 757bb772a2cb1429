package types

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether the payment can no longer change state.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

type OrderType string

const (
	OrderTypeShop   OrderType = "shop"
	OrderTypeWallet OrderType = "wallet"
)

type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "pending"
	FulfillmentStatusProcessing FulfillmentStatus = "processing"
	FulfillmentStatusSuccess    FulfillmentStatus = "success"
	FulfillmentStatusFailed     FulfillmentStatus = "failed"
)

type ProfitStatus string

const (
	ProfitStatusPending   ProfitStatus = "pending"
	ProfitStatusCredited  ProfitStatus = "credited"
	ProfitStatusWithdrawn ProfitStatus = "withdrawn"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusRejected WithdrawalStatus = "rejected"
)

type WalletTxnType string

const (
	WalletTxnTypeCredit WalletTxnType = "credit"
	WalletTxnTypeDebit  WalletTxnType = "debit"
)

// QueueBlacklisted marks orders routed out of auto-fulfillment by support.
const QueueBlacklisted = "blacklisted"
