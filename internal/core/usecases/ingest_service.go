package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/time/rate"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/ports"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
)

// IngestService stores readings pushed by sensors.
type IngestService struct {
	readings ports.ReadingRepository
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewIngestService creates a new IngestService that writes at most
// perSecond readings per second. perSecond <= 0 disables the limit.
func NewIngestService(readings ports.ReadingRepository, perSecond float64) *IngestService {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = int(math.Max(1, math.Ceil(perSecond)))
	}
	return &IngestService{
		readings: readings,
		limiter:  rate.NewLimiter(limit, burst),
		now:      time.Now,
	}
}

// Process validates and stores a reading. A reading without a timestamp is
// stamped with the current time.
func (s *IngestService) Process(ctx context.Context, r *domain.Reading) error {
	if err := Validate(r); err != nil {
		metrics.ReadingsRejected.Inc()
		return err
	}
	if r.Time.IsZero() {
		r.Time = s.now().UTC()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("ingest throttle: %w", err)
	}

	if err := s.readings.Insert(ctx, r); err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	metrics.ReadingsIngested.Inc()
	return nil
}

// Validate checks that a reading can be placed on the map.
func Validate(r *domain.Reading) error {
	if r == nil {
		return domain.ErrInvalidReading
	}
	if err := domain.ValidateHost(r.Host); err != nil {
		return err
	}
	for _, v := range []float64{r.Location.Lat, r.Location.Lon, r.CO2, r.Temperature, r.BaroPressure, r.Humidity, r.Altitude} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value from %s", domain.ErrInvalidReading, r.Host)
		}
	}
	return nil
}
