package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/ports"
)

// SensorService serves the history of a single sensor.
type SensorService struct {
	readings ports.ReadingRepository
	now      func() time.Time
}

// NewSensorService creates a new SensorService.
func NewSensorService(readings ports.ReadingRepository) *SensorService {
	return &SensorService{readings: readings, now: time.Now}
}

// History returns the readings of the selected sensor inside the selected
// window, with times converted to the selected time zone.
func (s *SensorService) History(ctx context.Context, sel domain.Selection) ([]domain.Reading, error) {
	if err := domain.ValidateHost(sel.Host); err != nil {
		return nil, err
	}
	_, window, err := domain.ParseDuration(string(sel.Duration))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, sel.Duration)
	}
	loc, err := LoadTimezone(sel.Timezone)
	if err != nil {
		return nil, err
	}

	readings, err := s.readings.History(ctx, sel.Host, s.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("sensor history %s: %w", sel.Host, err)
	}
	for i := range readings {
		readings[i].Time = readings[i].Time.In(loc)
	}
	return readings, nil
}

// Charts returns the four chart series for the selected sensor.
func (s *SensorService) Charts(ctx context.Context, sel domain.Selection) ([]domain.Series, error) {
	readings, err := s.History(ctx, sel)
	if err != nil {
		return nil, err
	}
	return BuildSeries(readings), nil
}

// LoadTimezone resolves an IANA zone name; empty means UTC.
func LoadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTimezone, name)
	}
	return loc, nil
}

type seriesSpec struct {
	metric string
	label  string
	unit   string
	value  func(domain.Reading) float64
}

var chartSeries = []seriesSpec{
	{domain.MetricCO2, "CO₂ (PPM)", "PPM", func(r domain.Reading) float64 { return r.CO2 }},
	{domain.MetricTemperature, "Temperature (°C)", "°C", func(r domain.Reading) float64 { return r.Temperature }},
	{domain.MetricBaroPressure, "Barometric Pressure (mBar)", "mBar", func(r domain.Reading) float64 { return r.BaroPressure }},
	{domain.MetricHumidity, "Humidity (%)", "%", func(r domain.Reading) float64 { return r.Humidity }},
}

// BuildSeries splits readings into co2, temperature, pressure and humidity
// series, in that order.
func BuildSeries(readings []domain.Reading) []domain.Series {
	out := make([]domain.Series, 0, len(chartSeries))
	for _, cs := range chartSeries {
		pts := make([]domain.SeriesPoint, len(readings))
		for i, r := range readings {
			pts[i] = domain.SeriesPoint{Time: r.Time, Value: cs.value(r)}
		}
		out = append(out, domain.Series{
			Metric: cs.metric,
			Label:  cs.label,
			Unit:   cs.unit,
			Points: pts,
		})
	}
	return out
}
