package models

import "time"

// Customer represents a buying account, usually a small business.
// A customer with a non-nil ParentID shares its parent's product
// availability, custom prices and special offers.
type Customer struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	LineUserID  string    `db:"line_user_id" json:"line_user_id,omitempty"`
	ParentID    *int64    `db:"parent_id" json:"parent_id,omitempty"`
	PaymentType string    `db:"payment_type" json:"payment_type"`
	ShippingFee int64     `db:"shipping_fee" json:"shipping_fee"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Payment types
const (
	PaymentTypeInvoice = "invoice"
	PaymentTypeMonthly = "monthly"
)

// HidesPricing reports whether order and catalog responses for this
// customer must omit price fields. Monthly-billing customers are
// invoiced separately; totals are still computed and stored.
func (c *Customer) HidesPricing() bool {
	return c.PaymentType == PaymentTypeMonthly
}

// BillingID returns the customer id whose catalog view applies:
// the parent when one is set, otherwise the customer itself.
func (c *Customer) BillingID() int64 {
	if c.ParentID != nil {
		return *c.ParentID
	}
	return c.ID
}

// Product represents a product in the catalog.
type Product struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Unit      string    `db:"unit" json:"unit"`
	Price     float64   `db:"price" json:"price"`
	GiftRatio int       `db:"gift_ratio" json:"gift_ratio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CustomerPrice is a per-customer override of a product's unit price.
type CustomerPrice struct {
	CustomerID int64   `db:"customer_id" json:"customer_id"`
	ProductID  int64   `db:"product_id" json:"product_id"`
	Price      float64 `db:"price" json:"price"`
}

// Special offer types
const (
	OfferTypePrice = "price" // quantity threshold switches the unit price
	OfferTypeGift  = "gift"  // every full multiple grants bonus units
)

// SpecialOffer is a quantity-triggered pricing rule for a product.
type SpecialOffer struct {
	ID            int64   `db:"id" json:"id"`
	ProductID     int64   `db:"product_id" json:"product_id"`
	OfferType     string  `db:"offer_type" json:"offer_type"`
	MatchQuantity int     `db:"match_quantity" json:"match_quantity"`
	OfferPrice    float64 `db:"offer_price" json:"offer_price"`
}

// Order represents a submitted order. The id is a date-scoped
// sequence string of exactly 12 digits (YYYYMMDDNNNN).
type Order struct {
	ID          string    `db:"id" json:"id"`
	CustomerID  int64     `db:"customer_id" json:"customer_id"`
	Total       int64     `db:"total" json:"total"`
	Tax         int64     `db:"tax" json:"tax"`
	ShippingFee int64     `db:"shipping_fee" json:"shipping_fee"`
	ServiceFee  int64     `db:"service_fee" json:"service_fee"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents a priced line in an order.
type OrderItem struct {
	ID           int64   `db:"id" json:"id"`
	OrderID      string  `db:"order_id" json:"order_id"`
	ProductID    int64   `db:"product_id" json:"product_id"`
	Quantity     int     `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
	Subtotal     int64   `db:"subtotal" json:"subtotal"`
	GiftQuantity int     `db:"gift_quantity" json:"gift_quantity"`
}

// Order statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// orderTransitions lists the allowed lifecycle moves. Cancellation is
// permitted until the order ships.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted},
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
