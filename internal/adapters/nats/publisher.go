package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// Subjects and stream names for grid events.
const (
	StreamGridEvents     = "GRID_EVENTS"
	SubjectSquareViewed  = "grid.square."
	SubjectRegionUpdated = "grid.region."
	// Wildcards matching every event of one kind.
	SquareViewedWildcard  = SubjectSquareViewed + ">"
	RegionUpdatedWildcard = SubjectRegionUpdated + ">"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the grid
// event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      StreamGridEvents,
		Subjects:  []string{SquareViewedWildcard, RegionUpdatedWildcard},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishSquareViewed(ctx context.Context, event *domain.SquareViewed) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SquareSubject(event.Ref), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishRegionUpdated(ctx context.Context, region *domain.Region) error {
	data, err := json.Marshal(region)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(RegionSubject(region.Slug), data, nats.Context(ctx))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("gridsquare"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

// SquareSubject is the subject SquareViewed events for ref are published on.
func SquareSubject(ref string) string {
	return SubjectSquareViewed + subjectToken(ref)
}

// RegionSubject is the subject updates of the region slug are published on.
func RegionSubject(slug string) string {
	return SubjectRegionUpdated + subjectToken(slug)
}

// subjectToken makes s safe to use as a single subject token.
func subjectToken(s string) string {
	if s == "" {
		return "_"
	}
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(s)
}
