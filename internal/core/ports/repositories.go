package ports

import (
	"context"
	"time"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// ReadingRepository persists sensor readings.
type ReadingRepository interface {
	Insert(ctx context.Context, r *domain.Reading) error
	InsertBatch(ctx context.Context, rs []domain.Reading) error
	// LatestPerSensor returns the newest reading of every sensor.
	LatestPerSensor(ctx context.Context) ([]domain.Reading, error)
	// History returns readings of one sensor newer than since, oldest first.
	History(ctx context.Context, host string, since time.Time) ([]domain.Reading, error)
}
