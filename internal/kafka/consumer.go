package kafka

import (
	"context"
	"log"
	"sync"

	"github.com/segmentio/kafka-go"
)

// Handler returns nil only when processing succeeded and the offset may
// be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type Consumer struct {
	r       *kafka.Reader
	workers int
}

func NewConsumer(brokers []string, group, topic string, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        brokers,
			GroupID:        group,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0, // commit per message, on success only
		}),
		workers: workers,
	}
}

// Start reads until ctx is cancelled, fanning messages out to a fixed
// worker pool. Failed messages are logged and not committed, so the group
// redelivers them.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 256)
	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					log.Printf("consumer %s: handle offset %d: %v", c.r.Config().Topic, m.Offset, err)
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					log.Printf("consumer %s: commit offset %d: %v", c.r.Config().Topic, m.Offset, err)
				}
			}
		}()
	}

	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			close(jobs)
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil
		}
	}
}
