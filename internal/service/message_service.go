package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/broker"
	"shop-service/internal/models"
	"shop-service/internal/store"
	"shop-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageService accepts notification requests from the API and
// queues them for the notification worker.
type MessageService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewMessageService creates a new message service
func NewMessageService(store *store.Store, eventPublisher *broker.EventPublisher) *MessageService {
	return &MessageService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// SendMessageRequest represents a notification request
type SendMessageRequest struct {
	Type       string `json:"type" binding:"required,oneof=push broadcast"`
	CustomerID int64  `json:"customer_id,omitempty"`
	Text       string `json:"text" binding:"required"`
}

// RequestNotification validates the request and publishes it for
// asynchronous delivery. Push requests must name an existing customer
// with a linked LINE account.
func (ms *MessageService) RequestNotification(ctx context.Context, req *SendMessageRequest) error {
	ctx, span := util.StartSpan(ctx, "MessageService.RequestNotification")
	defer span.End()

	if req.Type == models.NotifyKindPush {
		if req.CustomerID == 0 {
			return fmt.Errorf("push notifications require a customer_id")
		}
		customer, err := ms.store.GetCustomerByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer.LineUserID == "" {
			return fmt.Errorf("customer %d has no linked messaging account", req.CustomerID)
		}
	}

	event := &models.NotificationRequestedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeNotificationRequested,
			Timestamp: time.Now(),
		},
		Kind:       req.Type,
		CustomerID: req.CustomerID,
		Text:       req.Text,
	}

	if err := ms.eventPublisher.PublishNotificationRequested(ctx, event); err != nil {
		return fmt.Errorf("failed to queue notification: %w", err)
	}

	ms.logger.Info("Notification queued",
		zap.String("kind", req.Type),
		zap.Int64("customer_id", req.CustomerID))
	return nil
}
