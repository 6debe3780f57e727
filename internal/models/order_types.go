package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. The status only ever moves forward: an order starts as the
// user's open basket, becomes placed when payment is captured, then
// dispatched and complete as fulfilment progresses.
const (
	OrderOpen       = "open"
	OrderPlaced     = "placed"
	OrderDispatched = "dispatched"
	OrderComplete   = "complete"
)

// Order is the model for the 'orders' table. At most one open order exists
// per user at any time.
type Order struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"userId" db:"user_id"`
	Reference      string          `json:"reference" db:"reference"`
	AddressID      *int64          `json:"addressId,omitempty" db:"address_id"`
	ShippingMethod *string         `json:"shippingMethod,omitempty" db:"shipping_method"`
	Status         string          `json:"status" db:"status"`
	Total          decimal.Decimal `json:"total" db:"order_total"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

// Open reports whether the order is still a mutable basket.
func (o *Order) Open() bool {
	return o.Status == OrderOpen
}

// OrderLine is the model for the 'order_lines' table. For a given order
// there is at most one line per (product, size) pair.
type OrderLine struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   int64     `json:"orderId" db:"order_id"`
	ProductID int64     `json:"productId" db:"product_id"`
	Size      string    `json:"size" db:"size"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ShippingOption is a selectable delivery method. The cost is added to the
// grand total at checkout time, it is never folded into order_total.
type ShippingOption struct {
	Code  string          `json:"code"`
	Label string          `json:"label"`
	Cost  decimal.Decimal `json:"cost"`
}

// ShippingOptions is the closed set of delivery methods offered at checkout.
var ShippingOptions = []ShippingOption{
	{Code: "standard", Label: "Standard Delivery (3-5 days)", Cost: decimal.RequireFromString("2.00")},
	{Code: "express", Label: "Express Delivery (1-2 days)", Cost: decimal.RequireFromString("4.50")},
}

// ShippingOptionByCode looks up a shipping option by its code.
func ShippingOptionByCode(code string) (ShippingOption, bool) {
	for _, opt := range ShippingOptions {
		if opt.Code == code {
			return opt, true
		}
	}
	return ShippingOption{}, false
}
