package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// --- Mock CacheService ---

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	squareViewedFn  func(ctx context.Context, event *domain.SquareViewed) error
	regionUpdatedFn func(ctx context.Context, region *domain.Region) error
}

func (m *mockPublisher) PublishSquareViewed(ctx context.Context, event *domain.SquareViewed) error {
	if m.squareViewedFn != nil {
		return m.squareViewedFn(ctx, event)
	}
	return nil
}

func (m *mockPublisher) PublishRegionUpdated(ctx context.Context, region *domain.Region) error {
	if m.regionUpdatedFn != nil {
		return m.regionUpdatedFn(ctx, region)
	}
	return nil
}

// --- Mock RegionRepository ---

type mockRegionRepo struct {
	upsertFn    func(ctx context.Context, region *domain.Region) error
	getBySlugFn func(ctx context.Context, slug string) (*domain.Region, error)
	listFn      func(ctx context.Context) ([]domain.Region, error)
}

func (m *mockRegionRepo) Upsert(ctx context.Context, region *domain.Region) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, region)
	}
	return nil
}

func (m *mockRegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// --- Mock SquareViewRepository ---

type mockViewRepo struct {
	recordFn func(ctx context.Context, event *domain.SquareViewed) error
	topFn    func(ctx context.Context, limit int) ([]domain.SquareViewCount, error)
}

func (m *mockViewRepo) Record(ctx context.Context, event *domain.SquareViewed) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, event)
	}
	return nil
}

func (m *mockViewRepo) Top(ctx context.Context, limit int) ([]domain.SquareViewCount, error) {
	if m.topFn != nil {
		return m.topFn(ctx, limit)
	}
	return nil, nil
}

func ptr(v float64) *float64 { return &v }
