package worker

import (
	"context"
	"fmt"
	"log"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker delivers queued notifications and order-lifecycle
// messages to customers through the messaging gateway.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	line         *service.LineClient
	logger       *zap.Logger
}

// NewNotificationWorker creates a worker for one topic's consumer
func NewNotificationWorker(consumer *broker.Consumer, store *store.Store, line *service.LineClient) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		store:    store,
		line:     line,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnNotificationRequested(w.handleNotificationRequested)
	eventHandler.OnOrderSubmitted(w.handleOrderSubmitted)
	eventHandler.OnPaymentConfirmed(w.handlePaymentConfirmed)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleNotificationRequested(ctx context.Context, event *models.NotificationRequestedEvent) error {
	var err error
	switch event.Kind {
	case models.NotifyKindBroadcast:
		err = w.line.Broadcast(ctx, event.Text)
	case models.NotifyKindPush:
		err = w.pushToCustomer(ctx, event.CustomerID, event.Text)
	default:
		w.logger.Warn("Unknown notification kind", zap.String("kind", event.Kind))
		return nil
	}

	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues(event.Kind).Inc()
		return err
	}
	util.NotificationsSentTotal.WithLabelValues(event.Kind).Inc()
	return nil
}

func (w *NotificationWorker) handleOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	text := fmt.Sprintf("ご注文を受け付けました。注文番号: %s", event.OrderID)
	return w.notifyCustomer(ctx, event.CustomerID, text)
}

func (w *NotificationWorker) handlePaymentConfirmed(ctx context.Context, event *models.PaymentConfirmedEvent) error {
	text := fmt.Sprintf("お支払いを確認しました。注文番号: %s", event.OrderID)
	return w.notifyCustomer(ctx, event.CustomerID, text)
}

func (w *NotificationWorker) notifyCustomer(ctx context.Context, customerID int64, text string) error {
	if err := w.pushToCustomer(ctx, customerID, text); err != nil {
		util.NotificationsFailedTotal.WithLabelValues(models.NotifyKindPush).Inc()
		return err
	}
	util.NotificationsSentTotal.WithLabelValues(models.NotifyKindPush).Inc()
	return nil
}

func (w *NotificationWorker) pushToCustomer(ctx context.Context, customerID int64, text string) error {
	customer, err := w.store.GetCustomerByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer.LineUserID == "" {
		// Nothing to deliver to; skip rather than poison the topic.
		w.logger.Info("Customer has no linked messaging account, skipping",
			zap.Int64("customer_id", customerID))
		return nil
	}
	return w.line.PushMessage(ctx, customer.LineUserID, text)
}
