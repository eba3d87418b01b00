package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
)

func TestIngestService_Process(t *testing.T) {
	repo := &mockReadingRepo{}
	svc := usecases.NewIngestService(repo, 0)

	r := &domain.Reading{Host: "frog-a", Location: domain.GeoPoint{Lat: 37, Lon: -122}, CO2: 410}
	ingested := testutil.ToFloat64(metrics.ReadingsIngested)
	before := time.Now()
	if err := svc.Process(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.inserted))
	}
	if v := testutil.ToFloat64(metrics.ReadingsIngested); v != ingested+1 {
		t.Errorf("expected ingested counter %v, got %v", ingested+1, v)
	}
	got := repo.inserted[0]
	if got.Time.Before(before.Add(-time.Second)) || got.Time.Location() != time.UTC {
		t.Errorf("expected reading stamped with current UTC time, got %v", got.Time)
	}
}

func TestIngestService_KeepsTimestamp(t *testing.T) {
	repo := &mockReadingRepo{}
	svc := usecases.NewIngestService(repo, 0)

	ts := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := svc.Process(context.Background(), &domain.Reading{Host: "frog-a", Time: ts}); err != nil {
		t.Fatal(err)
	}
	if !repo.inserted[0].Time.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, repo.inserted[0].Time)
	}
}

func TestIngestService_Rejects(t *testing.T) {
	tests := []struct {
		name string
		r    *domain.Reading
		want error
	}{
		{"nil", nil, domain.ErrInvalidReading},
		{"empty host", &domain.Reading{CO2: 400}, domain.ErrSensorRequired},
		{"wildcard host", &domain.Reading{Host: "*", CO2: 400}, domain.ErrInvalidHost},
		{"host with space", &domain.Reading{Host: "frog a", CO2: 400}, domain.ErrInvalidHost},
		{"NaN co2", &domain.Reading{Host: "frog-a", CO2: math.NaN()}, domain.ErrInvalidReading},
		{"Inf latitude", &domain.Reading{Host: "frog-a", Location: domain.GeoPoint{Lat: math.Inf(1)}}, domain.ErrInvalidReading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReadingRepo{}
			svc := usecases.NewIngestService(repo, 0)
			if err := svc.Process(context.Background(), tt.r); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if len(repo.inserted) != 0 {
				t.Error("rejected reading must not be stored")
			}
		})
	}
}

func TestIngestService_RepoError(t *testing.T) {
	repo := &mockReadingRepo{
		insertFn: func(ctx context.Context, r *domain.Reading) error { return errors.New("disk full") },
	}
	svc := usecases.NewIngestService(repo, 0)

	if err := svc.Process(context.Background(), &domain.Reading{Host: "frog-a"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestIngestService_ThrottleHonoursContext(t *testing.T) {
	repo := &mockReadingRepo{}
	svc := usecases.NewIngestService(repo, 1)

	if err := svc.Process(context.Background(), &domain.Reading{Host: "frog-a"}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Process(ctx, &domain.Reading{Host: "frog-a"}); err == nil {
		t.Fatal("expected throttle to fail on cancelled context")
	}
	if len(repo.inserted) != 1 {
		t.Errorf("expected 1 insert, got %d", len(repo.inserted))
	}
}
