package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerTracking records repeat-customer activity for a shop. Inserts are
// best-effort; failures never block the webhook.
type CustomerTracking struct {
	ID        string          `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ShopID    string          `gorm:"column:shop_id;type:uuid;not null;index" json:"shop_id"`
	OrderID   string          `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	Phone     string          `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Email     string          `gorm:"column:email;type:varchar(128)" json:"email"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null;default:0" json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

func (CustomerTracking) TableName() string {
	return "customer_tracking"
}

// BlacklistEntry blocks a phone number from auto-fulfillment and purchase
// notifications.
type BlacklistEntry struct {
	ID        string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Phone     string    `gorm:"column:phone;type:varchar(20);not null;uniqueIndex:unique_blacklist_phone" json:"phone"`
	Reason    string    `gorm:"column:reason;type:text" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlacklistEntry) TableName() string {
	return "blacklist_entry"
}

// Setting is a key/value row backing runtime-togglable behavior such as the
// per-family auto-fulfillment switches.
type Setting struct {
	ID        string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	Key       string    `gorm:"column:key;type:varchar(64);not null;uniqueIndex:unique_setting_key" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "setting"
}

// Notification is an in-app notification row surfaced on dashboard screens.
type Notification struct {
	ID        string    `gorm:"column:id;primary_key;type:uuid" json:"id"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);not null;index" json:"user_id"`
	Title     string    `gorm:"column:title;type:varchar(128);not null" json:"title"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Read      bool      `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notification"
}
