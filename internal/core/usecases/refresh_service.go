package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/ports"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
)

// Invalidator drops derived view state that must be recomputed on refresh.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// RefreshService drives the periodic dashboard refresh. Each tick only
// invalidates cached state and announces itself; every consumer recomputes
// its own view from the announcement.
type RefreshService struct {
	targets   []Invalidator
	publisher ports.EventPublisher
	seq       atomic.Uint64
	now       func() time.Time
}

// NewRefreshService creates a new RefreshService. publisher may be nil.
func NewRefreshService(publisher ports.EventPublisher, targets ...Invalidator) *RefreshService {
	return &RefreshService{targets: targets, publisher: publisher, now: time.Now}
}

// Tick performs one refresh and returns the event it published.
func (s *RefreshService) Tick(ctx context.Context) (domain.RefreshEvent, error) {
	event := domain.RefreshEvent{Sequence: s.seq.Add(1), Time: s.now()}

	for _, t := range s.targets {
		if err := t.Invalidate(ctx); err != nil {
			slog.Warn("refresh invalidate failed", "sequence", event.Sequence, "error", err)
		}
	}

	metrics.RefreshTicks.Inc()

	if s.publisher == nil {
		return event, nil
	}
	if err := s.publisher.PublishRefresh(ctx, &event); err != nil {
		return event, fmt.Errorf("publish refresh: %w", err)
	}
	return event, nil
}

// Run ticks every interval until ctx is cancelled.
func (s *RefreshService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("refresh scheduler started", "interval", interval.String())

	for {
		select {
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				slog.Warn("refresh tick failed", "error", err)
			}
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		}
	}
}
