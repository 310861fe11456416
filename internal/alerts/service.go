package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/herlambang/storefront-inventory/internal/inventory"
	kafkax "github.com/herlambang/storefront-inventory/internal/kafka"
	"github.com/herlambang/storefront-inventory/internal/redisx"
)

// Service watches fulfillment events and raises low-stock alerts for the
// products an order just consumed.
type Service struct {
	Repo        *inventory.Repo
	Redis       *redis.Client
	Producer    *kafkax.Producer // publishes stock.low
	ServiceName string
}

// HandleOrderFulfilled is the consumer handler for the fulfilled topic.
func (s *Service) HandleOrderFulfilled(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != inventory.EventOrderFulfilled {
		return nil
	}

	// dedup by event id; a redelivered event must not re-alert
	dkey := fmt.Sprintf(redisx.KeyDedup, "alerts", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[inventory.OrderFulfilledPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, productID := range p.ProductIDs {
		product, err := s.Repo.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !inventory.IsLowStock(*product) {
			continue
		}
		s.flagAndPublish(ctx, product, env.TraceID)
	}
	return nil
}

func (s *Service) flagAndPublish(ctx context.Context, p *inventory.Product, trace string) {
	key := fmt.Sprintf(redisx.KeyLowStock, p.ID)
	// the flag doubles as a throttle: one alert per product per TTL
	if exists, _ := redisx.Exists(ctx, s.Redis, key); exists {
		return
	}
	_ = s.Redis.Set(ctx, key, "1", redisx.TTLLowStock).Err()

	ev := inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     inventory.EventStockLow,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: p.ID,
	}
	ev.Payload = kafkax.MustMarshal(inventory.StockLowPayload{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		Reserved:  p.Reserved,
	})
	s.Producer.Publish(inventory.PartitionKey(p.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventStockLow)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
