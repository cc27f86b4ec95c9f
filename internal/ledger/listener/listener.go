package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/stridewear/catalog-service/internal/common"
	"github.com/stridewear/catalog-service/internal/ledger"
	"github.com/stridewear/catalog-service/internal/ledger/dto"
	"github.com/stridewear/catalog-service/internal/platform/broker"
	"github.com/stridewear/catalog-service/internal/platform/logger"
)

// LedgerListener consumes order events from the order subsystem and turns
// each fulfilled line item into an appended ledger decrement. The ledger is
// the single source of truth for stock; the order system never writes stock
// directly.
type LedgerListener struct {
	consumer *broker.KafkaConsumer
	uc       ledger.UseCase
	logger   logger.Logger
}

func NewLedgerListener(consumer *broker.KafkaConsumer, uc ledger.UseCase, log logger.Logger) *LedgerListener {
	return &LedgerListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *LedgerListener) Start(ctx context.Context) {
	l.logger.Info("Starting stock ledger listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping stock ledger listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read order event", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderFulfilledEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	VariantID int64 `json:"variant_id"`
	Quantity  int64 `json:"quantity"`
}

func (l *LedgerListener) processMessage(ctx context.Context, value []byte) {
	var event OrderFulfilledEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal order event", zap.Error(err))
		return
	}

	if event.EventType != "OrderFulfilled" {
		return
	}

	l.logger.Info("Processing OrderFulfilled event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		_, err := l.uc.ApplyFulfillment(ctx, &dto.ApplyFulfillmentInput{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			OrderRef:  event.Payload.ID,
		})
		if err != nil {
			// An integrity fault means the decrement landed but exposed an
			// oversell upstream; everything else is a failed append.
			if common.IsCode(err, common.ErrCodeStockIntegrity) {
				l.logger.Error("Oversell detected while applying fulfillment",
					zap.String("order_id", event.Payload.ID),
					zap.Int64("variant_id", item.VariantID),
					zap.Error(err),
				)
				continue
			}
			l.logger.Error("Failed to apply fulfillment decrement",
				zap.String("order_id", event.Payload.ID),
				zap.Int64("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}
