package ports

import (
	"context"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSquareViewed(ctx context.Context, event *domain.SquareViewed) error
	PublishRegionUpdated(ctx context.Context, region *domain.Region) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeSquareViewed(ctx context.Context, handler func(ctx context.Context, event *domain.SquareViewed) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
