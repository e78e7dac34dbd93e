package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/orderid"
	"shop-service/internal/pricing"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles the shop ordering flow and order lifecycle
type OrderService struct {
	store          *store.Store
	catalog        *CatalogService
	generator      *orderid.Generator
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger

	taxRatePercent int
	serviceFee     int64
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	catalog *CatalogService,
	generator *orderid.Generator,
	eventPublisher *broker.EventPublisher,
	taxRatePercent int,
	serviceFee int64,
) *OrderService {
	return &OrderService{
		store:          store,
		catalog:        catalog,
		generator:      generator,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		taxRatePercent: taxRatePercent,
		serviceFee:     serviceFee,
	}
}

// CartEntry is one requested cart line
type CartEntry struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"min=0"`
}

// SubmitOrderRequest represents a shop order submission
type SubmitOrderRequest struct {
	CustomerID int64       `json:"customer_id" binding:"required"`
	OrderID    string      `json:"order_id,omitempty"`
	Carts      []CartEntry `json:"carts" binding:"required,min=1"`
}

// OrderPricing carries the priced totals of an accepted order. It is
// omitted from responses to monthly-billing customers; the stored
// order always holds the true amounts.
type OrderPricing struct {
	Total       int64 `json:"total"`
	Tax         int64 `json:"tax"`
	ShippingFee int64 `json:"shipping_fee"`
	ServiceFee  int64 `json:"service_fee"`
}

// SubmitOrderResponse represents the response after accepting an order
type SubmitOrderResponse struct {
	OrderID string        `json:"order_id"`
	Status  string        `json:"status"`
	Pricing *OrderPricing `json:"pricing,omitempty"`
}

// normalizeCart folds the requested entries into a product -> quantity
// map, dropping zero and negative quantities and accumulating
// duplicate product lines.
func normalizeCart(entries []CartEntry) map[int64]int {
	cart := make(map[int64]int, len(entries))
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			continue
		}
		cart[entry.ProductID] += entry.Quantity
	}
	return cart
}

// SubmitOrder prices a cart against the customer's effective catalog
// and persists the resulting order. An order id is allocated from the
// counter store when the request does not carry one; allocation
// failure aborts the whole submission.
func (s *OrderService) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*SubmitOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SubmitOrder")
	defer span.End()

	cart := normalizeCart(req.Carts)
	if len(cart) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, fmt.Errorf("cart has no positive-quantity entries")
	}

	customer, catalog, err := s.catalog.EffectiveCatalog(ctx, req.CustomerID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("unknown_customer").Inc()
		return nil, err
	}

	lines, total := pricing.PriceCart(cart, catalog)
	if len(lines) == 0 {
		util.OrdersFailedTotal.WithLabelValues("no_priceable_items").Inc()
		return nil, fmt.Errorf("no cart entry matched the customer's catalog")
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID, err = s.generator.Next(ctx)
		if err != nil {
			util.OrderIDAllocationFailures.Inc()
			util.OrdersFailedTotal.WithLabelValues("id_allocation").Inc()
			return nil, err
		}
		util.OrderIDAllocationsTotal.Inc()
	}

	order := &models.Order{
		ID:          orderID,
		CustomerID:  customer.ID,
		Total:       total,
		Tax:         pricing.RoundHalfUp(float64(total) * float64(s.taxRatePercent) / 100),
		ShippingFee: customer.ShippingFee,
		ServiceFee:  s.serviceFee,
		Status:      models.OrderStatusPending,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	eventItems := make([]models.OrderItemData, 0, len(lines))
	for _, line := range lines {
		item := &models.OrderItem{
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			Subtotal:     line.Subtotal,
			GiftQuantity: line.GiftQuantity,
		}
		if err := s.store.CreateOrderItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}

		eventItems = append(eventItems, models.OrderItemData{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal,
			GiftQuantity: line.GiftQuantity,
		})
	}

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int64("total", order.Total))

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		CustomerID: customer.ID,
		Total:      order.Total,
		Items:      eventItems,
	}
	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	resp := &SubmitOrderResponse{
		OrderID: order.ID,
		Status:  order.Status,
	}
	if !customer.HidesPricing() {
		resp.Pricing = &OrderPricing{
			Total:       order.Total,
			Tax:         order.Tax,
			ShippingFee: order.ShippingFee,
			ServiceFee:  order.ServiceFee,
		}
	}
	return resp, nil
}

// GetOrder retrieves an order and its items
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrdersByCustomer retrieves a customer's orders
func (s *OrderService) ListOrdersByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	return s.store.GetOrdersByCustomerID(ctx, customerID)
}

// ListOrdersByStatus retrieves orders in a lifecycle state
func (s *OrderService) ListOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	return s.store.GetOrdersByStatus(ctx, status)
}

// UpdateStatus moves an order through its lifecycle, rejecting
// transitions the lifecycle does not allow.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, toStatus string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !models.CanTransition(order.Status, toStatus) {
		return fmt.Errorf("order %s cannot move from %s to %s", orderID, order.Status, toStatus)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, toStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusChangesTotal.WithLabelValues(toStatus).Inc()
	s.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", toStatus))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		FromStatus: order.Status,
		ToStatus:   toStatus,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	return nil
}

// ConfirmPayment marks a confirmed order as paid
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.ConfirmPayment")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !models.CanTransition(order.Status, models.OrderStatusPaid) {
		return fmt.Errorf("order %s is %s, payment cannot be confirmed", orderID, order.Status)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusPaid); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	util.PaymentsConfirmedTotal.Inc()
	s.logger.Info("Payment confirmed",
		zap.String("order_id", orderID),
		zap.Int64("amount", order.Total))

	event := &models.PaymentConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentConfirmed,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		CustomerID: order.CustomerID,
		Amount:     order.Total,
	}
	if err := s.eventPublisher.PublishPaymentConfirmed(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentConfirmed event", zap.Error(err))
	}

	return nil
}
