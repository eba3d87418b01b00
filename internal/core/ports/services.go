package ports

import (
	"context"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// EventPublisher publishes dashboard events to a message broker.
type EventPublisher interface {
	PublishReading(ctx context.Context, r *domain.Reading) error
	PublishRefresh(ctx context.Context, event *domain.RefreshEvent) error
}

// EventSubscriber subscribes to sensor events from a message broker.
type EventSubscriber interface {
	SubscribeReadings(ctx context.Context, handler func(ctx context.Context, r *domain.Reading) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
