package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/retailops/inventory-service/internal/pkg/broker"
	"github.com/retailops/inventory-service/internal/pkg/logger"
	"go.uber.org/zap"
)

// Recorder receives one immutable event per mutating operation. It is a
// write-only sink: failures must never abort the stock mutation they follow.
type Recorder interface {
	Record(ctx context.Context, entityType, entityID, action, userID string, details any)
}

// Event is the wire shape published to the audit topic.
type Event struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	UserID     string    `json:"user_id"`
	Details    any       `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type KafkaRecorder struct {
	producer *broker.KafkaProducer
	logger   logger.ZapLogger
}

func NewKafkaRecorder(producer *broker.KafkaProducer, log logger.ZapLogger) *KafkaRecorder {
	return &KafkaRecorder{producer: producer, logger: log}
}

// Record publishes fire-and-forget. Publish errors are logged and swallowed.
func (r *KafkaRecorder) Record(ctx context.Context, entityType, entityID, action, userID string, details any) {
	event := Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("failed to marshal audit event", zap.Error(err), zap.String("action", action))
		return
	}

	if err := r.producer.WriteMessage(ctx, []byte(entityType+":"+entityID), payload); err != nil {
		r.logger.Error("failed to publish audit event",
			zap.Error(err),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.String("action", action),
		)
	}
}

// NopRecorder discards everything. Test helper.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, entityType, entityID, action, userID string, details any) {
}
