package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/ports"
)

// --- Mock HereClient ---

type mockHere struct {
	routesFn     func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error)
	intermodalFn func(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error)
	isolinesFn   func(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error)
}

func (m *mockHere) CalculateRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	if m.routesFn != nil {
		return m.routesFn(ctx, req)
	}
	return nil, nil
}

func (m *mockHere) CalculateIntermodalRoutes(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	if m.intermodalFn != nil {
		return m.intermodalFn(ctx, req)
	}
	return nil, nil
}

func (m *mockHere) CalculateIsolines(ctx context.Context, req domain.IsolineRequest) ([]domain.Isoline, error) {
	if m.isolinesFn != nil {
		return m.isolinesFn(ctx, req)
	}
	return nil, nil
}

// --- Mock GeometryRepository ---

type mockGeometryRepo struct {
	saveFn    func(ctx context.Context, g *domain.StoredGeometry) error
	getByIDFn func(ctx context.Context, id string) (*domain.StoredGeometry, error)
	listFn    func(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error)
	countFn   func(ctx context.Context) (int, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockGeometryRepo) Save(ctx context.Context, g *domain.StoredGeometry) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, g)
	}
	g.ID = "7f9c2ba4-e88f-4d1c-9b3e-0d6a5c1f2e3a"
	return nil
}

func (m *mockGeometryRepo) GetByID(ctx context.Context, id string) (*domain.StoredGeometry, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}

func (m *mockGeometryRepo) List(ctx context.Context, offset, limit int) ([]domain.StoredGeometry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockGeometryRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockGeometryRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, ports.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	computed  []*domain.GeometryEvent
	stored    []*domain.StoredGeometry
	failures  []*domain.DecodeFailure
	broadcast [][]byte
	storedErr error
}

func (m *mockPublisher) PublishRouteComputed(ctx context.Context, e *domain.GeometryEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.computed = append(m.computed, e)
	return nil
}

func (m *mockPublisher) PublishGeometryStored(ctx context.Context, g *domain.StoredGeometry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storedErr != nil {
		return m.storedErr
	}
	m.stored = append(m.stored, g)
	return nil
}

func (m *mockPublisher) PublishDecodeFailure(ctx context.Context, f *domain.DecodeFailure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, f)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcast = append(m.broadcast, data)
	return nil
}

// --- Mock WorkflowStarter ---

type mockWorkflows struct {
	startFn func(ctx context.Context, e *domain.GeometryEvent) (string, error)
}

func (m *mockWorkflows) StartArchive(ctx context.Context, e *domain.GeometryEvent) (string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, e)
	}
	return "run-1", nil
}
