package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
)

func threeFrogs() []domain.Reading {
	return []domain.Reading{
		{Host: "frog-1", Location: domain.GeoPoint{Lat: 40.0, Lon: -3.0}, CO2: 401},
		{Host: "frog-2", Location: domain.GeoPoint{Lat: 40.0001, Lon: -3.0001}, CO2: 399.994},
		{Host: "frog-3", Location: domain.GeoPoint{Lat: 40.0002, Lon: -3.0002}, CO2: 650},
	}
}

func TestMapService_LatestUsesCache(t *testing.T) {
	repo := &mockReadingRepo{
		latestFn: func(ctx context.Context) ([]domain.Reading, error) { return threeFrogs(), nil },
	}
	cache := newMockCache()
	svc := usecases.NewMapService(repo, cache, domain.DefaultMapStyle(), 60)

	for i := 0; i < 3; i++ {
		readings, err := svc.Latest(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(readings) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(readings))
		}
	}
	if repo.latestCalls != 1 {
		t.Errorf("expected 1 repository call, got %d", repo.latestCalls)
	}
	if cache.ttl["map:latest"] != 60 {
		t.Errorf("expected TTL 60, got %d", cache.ttl["map:latest"])
	}

	if err := svc.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.Latest(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.latestCalls != 2 {
		t.Errorf("expected reload after invalidate, got %d calls", repo.latestCalls)
	}
}

func TestMapService_NoCache(t *testing.T) {
	repo := &mockReadingRepo{
		latestFn: func(ctx context.Context) ([]domain.Reading, error) { return threeFrogs(), nil },
	}
	svc := usecases.NewMapService(repo, nil, domain.DefaultMapStyle(), 0)

	svc.Latest(context.Background())
	svc.Latest(context.Background())
	if repo.latestCalls != 2 {
		t.Errorf("expected every call to hit the repository, got %d", repo.latestCalls)
	}
	if err := svc.Invalidate(context.Background()); err != nil {
		t.Errorf("invalidate without cache: %v", err)
	}
}

func TestMapService_RepoError(t *testing.T) {
	repo := &mockReadingRepo{
		latestFn: func(ctx context.Context) ([]domain.Reading, error) { return nil, errors.New("boom") },
	}
	svc := usecases.NewMapService(repo, newMockCache(), domain.DefaultMapStyle(), 60)

	vp, err := svc.Viewport(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if vp.Zoom != 0 {
		t.Errorf("expected default viewport on error, got %+v", vp)
	}
}

func TestMapService_Features(t *testing.T) {
	repo := &mockReadingRepo{
		latestFn: func(ctx context.Context) ([]domain.Reading, error) { return threeFrogs(), nil },
	}
	svc := usecases.NewMapService(repo, nil, domain.DefaultMapStyle(), 60)

	fc, err := svc.Features(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}
	f := fc.Features[1]
	if f.ID != "frog-2" {
		t.Errorf("expected id frog-2, got %v", f.ID)
	}
	if f.Properties["tooltip"] != "399.99 PPM" {
		t.Errorf("expected tooltip 399.99 PPM, got %v", f.Properties["tooltip"])
	}
	if f.Properties[domain.MetricCO2] != 399.994 {
		t.Errorf("expected raw co2 in properties, got %v", f.Properties[domain.MetricCO2])
	}
	pt := f.Point()
	if pt.Lon() != -3.0001 || pt.Lat() != 40.0001 {
		t.Errorf("expected [lon lat] geometry, got %v", pt)
	}
}

func TestMapService_ViewportTightCluster(t *testing.T) {
	repo := &mockReadingRepo{
		latestFn: func(ctx context.Context) ([]domain.Reading, error) { return threeFrogs(), nil },
	}
	svc := usecases.NewMapService(repo, nil, domain.DefaultMapStyle(), 60)

	vp, err := svc.Viewport(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// area is 4e-8, below 5^-10 (~1.02e-7): between the 20 and 15 anchors
	if vp.Zoom <= 15 || vp.Zoom >= 20 {
		t.Errorf("expected zoom in (15, 20), got %v", vp.Zoom)
	}
	if diff := vp.Center.Lat - 40.0001; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected center lat 40.0001, got %v", vp.Center.Lat)
	}
}

func TestTooltip(t *testing.T) {
	tests := []struct {
		co2  float64
		want string
	}{
		{400, "400.0 PPM"},
		{412.3, "412.3 PPM"},
		{412.5, "412.5 PPM"},
		{412.346, "412.35 PPM"},
		{412.125, "412.12 PPM"},
		{0, "0.0 PPM"},
		{math.NaN(), "nan PPM"},
	}
	for _, tt := range tests {
		if got := usecases.Tooltip(tt.co2); got != tt.want {
			t.Errorf("Tooltip(%v) = %q, want %q", tt.co2, got, tt.want)
		}
	}
}
