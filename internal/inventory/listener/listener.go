package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/retailops/inventory-service/internal/inventory"
	"github.com/retailops/inventory-service/internal/inventory/dto"
	"github.com/retailops/inventory-service/internal/pkg/broker"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

// SalesListener consumes checkout events and confirms the sale decrement per
// line. Failed lines are logged and surfaced nowhere else; the order service
// owns compensations.
type SalesListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewSalesListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, log logger.ZapLogger) *SalesListener {
	return &SalesListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *SalesListener) Start(ctx context.Context) {
	l.logger.Info("Starting sales Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping sales Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID         string             `json:"id"`
	LocationID string             `json:"location_id"`
	Items      []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (l *SalesListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		_, err := l.uc.ReserveForSale(ctx, &dto.ReserveForSaleInput{
			ProductID:   item.ProductID,
			LocationID:  event.Payload.LocationID,
			Quantity:    item.Quantity,
			ReferenceID: event.Payload.ID,
			UserID:      "system",
		})
		if err != nil {
			l.logger.Error("Failed to reserve stock for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
