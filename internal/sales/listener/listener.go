package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/sales"
	"github.com/dukapos/retail-core/internal/sales/dto"
	"github.com/dukapos/retail-core/pkg/broker"
	"github.com/dukapos/retail-core/pkg/logger"
)

// OrderListener consumes checkout orders from upstream channels (web
// shop, kiosk) and pushes them through the same sale pipeline the
// registers use.
type OrderListener struct {
	consumer *broker.KafkaConsumer
	uc       sales.UseCase
	logger   logger.Logger
}

func NewOrderListener(consumer *broker.KafkaConsumer, uc sales.UseCase, log logger.Logger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("starting order kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping order kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type orderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   orderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type orderPayload struct {
	ID            string             `json:"id"`
	StoreID       string             `json:"store_id"`
	OperatorID    string             `json:"operator_id"`
	PaymentMethod string             `json:"payment_method"`
	Items         []orderItemPayload `json:"items"`
}

type orderItemPayload struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event orderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	items := make([]dto.SaleItemInput, 0, len(event.Payload.Items))
	for _, item := range event.Payload.Items {
		items = append(items, dto.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	input := &dto.CreateSaleInput{
		StoreID:       event.Payload.StoreID,
		OperatorID:    event.Payload.OperatorID,
		Items:         items,
		PaymentMethod: model.PaymentMethod(event.Payload.PaymentMethod),
	}

	if _, err := l.uc.CreateSale(ctx, input); err != nil {
		l.logger.Error("failed to process order as sale",
			zap.String("order_id", event.Payload.ID),
			zap.String("store_id", event.Payload.StoreID),
			zap.Error(err),
		)
	}
}
