package usecases_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// --- Mock ReadingRepository ---

type mockReadingRepo struct {
	mu          sync.Mutex
	inserted    []domain.Reading
	latestCalls int

	insertFn  func(ctx context.Context, r *domain.Reading) error
	latestFn  func(ctx context.Context) ([]domain.Reading, error)
	historyFn func(ctx context.Context, host string, since time.Time) ([]domain.Reading, error)
}

func (m *mockReadingRepo) Insert(ctx context.Context, r *domain.Reading) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.inserted = append(m.inserted, *r)
	m.mu.Unlock()
	return nil
}

func (m *mockReadingRepo) InsertBatch(ctx context.Context, rs []domain.Reading) error {
	for i := range rs {
		if err := m.Insert(ctx, &rs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockReadingRepo) LatestPerSensor(ctx context.Context) ([]domain.Reading, error) {
	m.mu.Lock()
	m.latestCalls++
	m.mu.Unlock()
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

func (m *mockReadingRepo) History(ctx context.Context, host string, since time.Time) ([]domain.Reading, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, host, since)
	}
	return nil, nil
}

// --- Mock CacheService ---

var errMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttl: make(map[string]int)}
}

func (c *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errMiss
	}
	return v, nil
}

func (c *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttl[key] = ttlSeconds
	return nil
}

func (c *mockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	refreshes []domain.RefreshEvent
	err       error
}

func (p *mockPublisher) PublishReading(ctx context.Context, r *domain.Reading) error { return nil }

func (p *mockPublisher) PublishRefresh(ctx context.Context, e *domain.RefreshEvent) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.refreshes = append(p.refreshes, *e)
	p.mu.Unlock()
	return nil
}

func (p *mockPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.refreshes)
}

func sampleReadings() []domain.Reading {
	ts := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Reading{
		{Time: ts, Host: "frog-a", Location: domain.GeoPoint{Lat: 37.0, Lon: -122.0}, CO2: 415.126, Temperature: 20, BaroPressure: 1012, Humidity: 55, Altitude: 10},
		{Time: ts.Add(time.Minute), Host: "frog-a", Location: domain.GeoPoint{Lat: 37.0, Lon: -122.0}, CO2: 420, Temperature: 20.5, BaroPressure: 1011.5, Humidity: 54, Altitude: 10},
	}
}
