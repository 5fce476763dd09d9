package kafkain

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Brolenso/fashionstore/internal/ports/inbound"

	"github.com/segmentio/kafka-go"
)

// Consumer listens for stock snapshots and reconciles the cart against
// each one. The store never fetches stock itself; this adapter is the
// caller that brings the authoritative map to it.
type Consumer struct {
	reader *kafka.Reader
	cart   inbound.CartUseCase
}

type ConsumerConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

func NewConsumer(cfg ConsumerConfig, cart inbound.CartUseCase) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return &Consumer{reader: r, cart: cart}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Normal shutdown path
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("[kafka] fetch error: %v", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		snap, derr := DecodeSnapshot(msg.Value)
		if derr != nil {
			log.Printf("[kafka] bad snapshot (skip+commit) key=%s err=%v", string(msg.Key), derr)
			_ = c.reader.CommitMessages(ctx, msg) // commit poison pill
			continue
		}

		removed, err := c.cart.Reconcile(ctx, snap.Availability)
		if err != nil {
			// Do NOT commit, so the snapshot can be retried.
			log.Printf("[kafka] reconcile failed (no commit) snapshot=%s err=%v", snap.SnapshotID, err)
			time.Sleep(1 * time.Second)
			continue
		}
		if removed > 0 {
			log.Printf("[kafka] reconcile snapshot=%s removed_units=%d", snap.SnapshotID, removed)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			log.Printf("[kafka] commit error: %v", err)
			// Redelivery just reconciles against the same snapshot again.
		}
	}
}
