package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fosuklisman1-boop/Datagod2-sub000/pkg/types"
)

// Order is a purchase of a data bundle for a phone number. Payment fields are
// owned by the webhook pipeline, fulfillment fields by the orchestrator.
type Order struct {
	ID            string  `gorm:"column:id;primary_key;type:uuid" json:"id"`
	ShopID        *string `gorm:"column:shop_id;type:uuid;index" json:"shop_id"`
	CustomerPhone string  `gorm:"column:customer_phone;type:varchar(20);not null" json:"customer_phone"`
	CustomerEmail string  `gorm:"column:customer_email;type:varchar(128)" json:"customer_email"`
	// Network is the raw label captured at checkout ("AT - iShare", "MTN", ...).
	Network       string              `gorm:"column:network;type:varchar(32);not null" json:"network"`
	VolumeGB      decimal.Decimal     `gorm:"column:volume_gb;type:numeric(8,2);not null" json:"volume_gb"`
	OrderType     types.OrderType     `gorm:"column:order_type;type:varchar(16);not null;default:'shop'" json:"order_type"`
	PaymentStatus types.PaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;default:'pending'" json:"payment_status"`
	OrderStatus   types.OrderStatus   `gorm:"column:order_status;type:varchar(16);not null;default:'pending';index" json:"order_status"`
	Profit        decimal.Decimal     `gorm:"column:profit;type:numeric(14,2);not null;default:0" json:"profit"`
	// ParentShopID/ParentProfit support sub-agent resale chains; the parent
	// margin is computed at checkout and trusted here.
	ParentShopID *string         `gorm:"column:parent_shop_id;type:uuid" json:"parent_shop_id"`
	ParentProfit decimal.Decimal `gorm:"column:parent_profit;type:numeric(14,2);not null;default:0" json:"parent_profit"`
	// Queue routes orders away from auto-fulfillment ("blacklisted").
	Queue             string    `gorm:"column:queue;type:varchar(32)" json:"queue"`
	FulfillmentMethod *string   `gorm:"column:fulfillment_method;type:varchar(32)" json:"fulfillment_method"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "order_record"
}

func (o *Order) IsBlacklisted() bool {
	return o != nil && o.Queue == types.QueueBlacklisted
}

func (o *Order) NetworkFamily() types.NetworkFamily {
	if o == nil {
		return types.NetworkFamilyUnknown
	}
	return types.ParseNetworkFamily(o.Network)
}
