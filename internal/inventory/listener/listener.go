package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/partstock-inventory-service/internal/inventory"
	"github.com/fekuna/partstock-inventory-service/internal/model"
	"github.com/fekuna/partstock-inventory-service/pkg/broker"
	"github.com/fekuna/partstock-inventory-service/pkg/logger"
	"go.uber.org/zap"
)

// MovementListener consumes work-order events from the shop floor and issues
// the consumed parts from stock.
type MovementListener struct {
	consumer *broker.KafkaConsumer
	uc       inventory.UseCase
	logger   logger.ZapLogger
}

func NewMovementListener(consumer *broker.KafkaConsumer, uc inventory.UseCase, logger logger.ZapLogger) *MovementListener {
	return &MovementListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *MovementListener) Start(ctx context.Context) {
	l.logger.Info("Starting Movement Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Movement Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
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

type WorkOrderIssuedEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Payload   WorkOrderPayload `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
}

type WorkOrderPayload struct {
	ID    string              `json:"id"`
	Items []WorkOrderItemLine `json:"items"`
}

type WorkOrderItemLine struct {
	PartID   string `json:"part_id"`
	Quantity int64  `json:"quantity"`
}

func (l *MovementListener) processMessage(ctx context.Context, value []byte) {
	var event WorkOrderIssuedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "WorkOrderIssued" {
		return
	}

	l.logger.Info("Processing WorkOrderIssued event", zap.String("work_order_id", event.Payload.ID))

	asOf := event.Timestamp
	if asOf.IsZero() {
		asOf = time.Now()
	}

	for _, item := range event.Payload.Items {
		_, err := l.uc.RecordOutbound(ctx, item.PartID, item.Quantity, asOf)
		if err != nil {
			var insufficient *model.InsufficientStockError
			if errors.As(err, &insufficient) {
				l.logger.Warn("Work order item short on stock",
					zap.String("work_order_id", event.Payload.ID),
					zap.String("part_id", item.PartID),
					zap.Int64("shortfall", insufficient.Shortfall()),
				)
				continue
			}
			l.logger.Error("Failed to issue stock for work order item",
				zap.String("work_order_id", event.Payload.ID),
				zap.String("part_id", item.PartID),
				zap.Error(err),
			)
			// TODO: dead-letter the failed item once the DLQ topic lands
		}
	}
}
