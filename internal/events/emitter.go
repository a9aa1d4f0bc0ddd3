package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/pkg/logger"
	"github.com/dukapos/retail-core/prometheus"
)

// Publisher is satisfied by broker.KafkaProducer.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Emitter publishes domain notifications. Delivery is best effort: a
// broker outage must never fail the business operation that triggered
// the event, so failures are logged and dropped.
type Emitter struct {
	pub    Publisher
	logger logger.Logger
}

func NewEmitter(pub Publisher, log logger.Logger) *Emitter {
	return &Emitter{pub: pub, logger: log}
}

func (e *Emitter) emit(ctx context.Context, key, eventType string, payload interface{}) {
	if e == nil || e.pub == nil {
		return
	}

	envelope := Envelope{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(envelope)
	if err != nil {
		e.logger.Error("failed to marshal event", zap.String("event_type", eventType), zap.Error(err))
		return
	}

	if err := e.pub.Publish(ctx, key, value); err != nil {
		e.logger.Error("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func (e *Emitter) LowStock(ctx context.Context, p LowStockPayload) {
	prometheus.RecordLowStockEvent()
	e.emit(ctx, p.StoreID+":"+p.ProductID, TypeLowStock, p)
}

func (e *Emitter) TransferRequested(ctx context.Context, p TransferRequestedPayload) {
	e.emit(ctx, p.TransferID, TypeTransferRequested, p)
}
