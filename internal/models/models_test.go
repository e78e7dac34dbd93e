package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusPaid))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusCompleted))

	// Cancellation is allowed until the order ships.
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusPending, OrderStatusPaid))
	assert.False(t, CanTransition(OrderStatusCompleted, OrderStatusPending))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusConfirmed))
}

func TestCustomerBillingID(t *testing.T) {
	child := Customer{ID: 7}
	assert.Equal(t, int64(7), child.BillingID())

	parentID := int64(3)
	child.ParentID = &parentID
	assert.Equal(t, int64(3), child.BillingID())
}

func TestCustomerHidesPricing(t *testing.T) {
	assert.False(t, (&Customer{PaymentType: PaymentTypeInvoice}).HidesPricing())
	assert.True(t, (&Customer{PaymentType: PaymentTypeMonthly}).HidesPricing())
}
