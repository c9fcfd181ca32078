package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeSquareViewed delivers SquareViewed events to handler through a
// durable consumer. Malformed messages are terminated; handler errors are
// redelivered up to three times.
func (s *Subscriber) SubscribeSquareViewed(ctx context.Context, handler func(ctx context.Context, event *domain.SquareViewed) error) error {
	sub, err := s.js.Subscribe(SquareViewedWildcard, func(msg *nats.Msg) {
		var event domain.SquareViewed
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("drop malformed square event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("square-views"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.BindStream(StreamGridEvents),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
