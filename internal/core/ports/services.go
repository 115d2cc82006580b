package ports

import (
	"context"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

// HereClient calls the HERE APIs whose responses carry Flexible Polyline
// geometry.
type HereClient interface {
	CalculateRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error)
	CalculateIntermodalRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error)
	CalculateIsolines(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRouteComputed(ctx context.Context, event *domain.GeometryEvent) error
	PublishGeometryStored(ctx context.Context, g *domain.StoredGeometry) error
	PublishDecodeFailure(ctx context.Context, f *domain.DecodeFailure) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRouteComputed(ctx context.Context, handler func(ctx context.Context, event *domain.GeometryEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// WorkflowStarter starts durable archive workflows.
type WorkflowStarter interface {
	// StartArchive starts archiving the geometry in event and returns the
	// workflow run ID.
	StartArchive(ctx context.Context, event *domain.GeometryEvent) (string, error)
}
