package models

import "time"

// Event types
const (
	EventTypeOrderSubmitted        = "ORDER_SUBMITTED"
	EventTypeOrderStatusChanged    = "ORDER_STATUS_CHANGED"
	EventTypePaymentConfirmed      = "PAYMENT_CONFIRMED"
	EventTypeNotificationRequested = "NOTIFICATION_REQUESTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderSubmittedEvent published when a shop order is accepted
type OrderSubmittedEvent struct {
	BaseEvent
	OrderID    string          `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Total      int64           `json:"total"`
	Items      []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent published on every lifecycle transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// PaymentConfirmedEvent published when payment is confirmed for an order
type PaymentConfirmedEvent struct {
	BaseEvent
	OrderID    string `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Amount     int64  `json:"amount"`
}

// Notification kinds
const (
	NotifyKindPush      = "push"
	NotifyKindBroadcast = "broadcast"
)

// NotificationRequestedEvent published when a message should be
// delivered to one customer or broadcast to all of them
type NotificationRequestedEvent struct {
	BaseEvent
	Kind       string `json:"kind"`
	CustomerID int64  `json:"customer_id,omitempty"`
	Text       string `json:"text"`
}

// OrderItemData represents item data in events
type OrderItemData struct {
	ProductID    int64 `json:"product_id"`
	Quantity     int   `json:"quantity"`
	Subtotal     int64 `json:"subtotal"`
	GiftQuantity int   `json:"gift_quantity,omitempty"`
}
