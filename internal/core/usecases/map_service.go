package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/ports"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
	"github.com/ribbitnetwork/frogmap/internal/pkg/viewport"
)

const mapCacheKey = "map:latest"

// MapService builds the sensor map layer.
type MapService struct {
	readings ports.ReadingRepository
	cache    ports.CacheService
	style    domain.MapStyle
	cacheTTL int
}

// NewMapService creates a new MapService. cacheTTL is in seconds and is
// normally the refresh interval, so a tick never serves a stale layer for long.
func NewMapService(readings ports.ReadingRepository, cache ports.CacheService, style domain.MapStyle, cacheTTL int) *MapService {
	if cacheTTL <= 0 {
		cacheTTL = 60
	}
	return &MapService{readings: readings, cache: cache, style: style, cacheTTL: cacheTTL}
}

// Latest returns the newest reading of every sensor.
func (s *MapService) Latest(ctx context.Context) ([]domain.Reading, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, mapCacheKey); err == nil {
			var readings []domain.Reading
			if err := json.Unmarshal(data, &readings); err == nil {
				metrics.CacheHits.WithLabelValues("map").Inc()
				return readings, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("map").Inc()
	}

	readings, err := s.readings.LatestPerSensor(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest readings: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(readings); err == nil {
			_ = s.cache.Set(ctx, mapCacheKey, data, s.cacheTTL)
		}
	}

	return readings, nil
}

// Features returns one GeoJSON point per sensor, carrying its latest
// measurements and a CO₂ tooltip.
func (s *MapService) Features(ctx context.Context) (*geojson.FeatureCollection, error) {
	readings, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return FeatureCollection(readings), nil
}

// Viewport frames every sensor currently on the map.
func (s *MapService) Viewport(ctx context.Context) (domain.Viewport, error) {
	readings, err := s.Latest(ctx)
	if err != nil {
		return viewport.Default, err
	}
	return ViewportOf(readings), nil
}

// Style returns the marker styling of the map layer.
func (s *MapService) Style() domain.MapStyle {
	return s.style
}

// Invalidate drops the cached layer.
func (s *MapService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, mapCacheKey)
}

// FeatureCollection converts readings to map features.
func FeatureCollection(readings []domain.Reading) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range readings {
		f := geojson.NewFeature(orb.Point{r.Location.Lon, r.Location.Lat})
		f.ID = r.Host
		f.Properties["host"] = r.Host
		f.Properties["time"] = r.Time
		f.Properties["alt"] = r.Altitude
		f.Properties[domain.MetricCO2] = r.CO2
		f.Properties[domain.MetricTemperature] = r.Temperature
		f.Properties[domain.MetricBaroPressure] = r.BaroPressure
		f.Properties[domain.MetricHumidity] = r.Humidity
		f.Properties["tooltip"] = Tooltip(r.CO2)
		fc.Append(f)
	}
	return fc
}

// Tooltip formats a CO₂ concentration for a marker: rounded half to even
// at two decimals, then printed in its shortest form ("412.5 PPM",
// "400.0 PPM").
func Tooltip(co2 float64) string {
	return shortFloat(math.RoundToEven(co2*100)/100) + " PPM"
}

// shortFloat prints the shortest decimal that round-trips v, always with a
// fractional part, switching to exponent form outside [1e-4, 1e16).
func shortFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ViewportOf runs the viewport estimate over the reading locations.
func ViewportOf(readings []domain.Reading) domain.Viewport {
	lats := make([]float64, len(readings))
	lons := make([]float64, len(readings))
	for i, r := range readings {
		lats[i] = r.Location.Lat
		lons[i] = r.Location.Lon
	}
	return viewport.Estimate(lats, lons)
}
