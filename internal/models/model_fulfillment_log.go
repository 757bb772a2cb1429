package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// FulfillmentLog is the audit trail for delivery attempts: exactly one row
// per order, updated in place on each retry/verification poll.
type FulfillmentLog struct {
	ID        string                  `gorm:"column:id;primary_key;type:uuid" json:"id"`
	OrderID   string                  `gorm:"column:order_id;type:uuid;not null;uniqueIndex:unique_fulfillment_order" json:"order_id"`
	OrderType types.OrderType         `gorm:"column:order_type;type:varchar(16);not null" json:"order_type"`
	Phone     string                  `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Network   string                  `gorm:"column:network;type:varchar(32)" json:"network"`
	Status    types.FulfillmentStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	// AttemptNumber is monotone per order; once Status is success no further
	// attempts are recorded.
	AttemptNumber int            `gorm:"column:attempt_number;type:int;not null;default:0" json:"attempt_number"`
	MaxAttempts   int            `gorm:"column:max_attempts;type:int;not null;default:3" json:"max_attempts"`
	RawResponse   datatypes.JSON `gorm:"column:raw_response;type:jsonb;default:'{}'" json:"raw_response"`
	ErrorMessage  *string        `gorm:"column:error_message;type:text" json:"error_message"`
	NextRetryAt   *time.Time     `gorm:"column:next_retry_at;default:null" json:"next_retry_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (FulfillmentLog) TableName() string {
	return "fulfillment_log"
}

func (l *FulfillmentLog) AttemptsExhausted() bool {
	return l != nil && l.AttemptNumber >= l.MaxAttempts
}
