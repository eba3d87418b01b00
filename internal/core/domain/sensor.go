package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	ErrSensorRequired  = errors.New("sensor host is required")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidTimezone = errors.New("invalid timezone")
	ErrInvalidReading  = errors.New("invalid reading")
	ErrSensorNotFound  = errors.New("sensor not found")
	ErrInvalidHost     = errors.New("invalid sensor host")
)

// ValidateHost checks that host is usable as a single broker subject
// token: non-empty, without dots, wildcards or whitespace.
func ValidateHost(host string) error {
	if host == "" {
		return ErrSensorRequired
	}
	if strings.ContainsAny(host, ".*>") || strings.IndexFunc(host, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	return nil
}

// Reading is a single sample reported by a frog sensor.
type Reading struct {
	Time         time.Time `json:"time"`
	Host         string    `json:"host"`
	Location     GeoPoint  `json:"location"`
	Altitude     float64   `json:"alt"`
	CO2          float64   `json:"co2"`           // PPM
	Temperature  float64   `json:"temperature"`   // °C
	BaroPressure float64   `json:"baro_pressure"` // mBar
	Humidity     float64   `json:"humidity"`      // %
}

// Duration is a history window selectable on the dashboard.
type Duration string

const (
	Duration10m Duration = "10m"
	Duration30m Duration = "30m"
	Duration1h  Duration = "1h"
	Duration24h Duration = "24h"
	Duration7d  Duration = "7d"
	Duration30d Duration = "30d"

	DefaultDuration = Duration24h
)

var durationWindows = map[Duration]time.Duration{
	Duration10m: 10 * time.Minute,
	Duration30m: 30 * time.Minute,
	Duration1h:  time.Hour,
	Duration24h: 24 * time.Hour,
	Duration7d:  7 * 24 * time.Hour,
	Duration30d: 30 * 24 * time.Hour,
}

// Durations lists the selectable windows in display order.
func Durations() []Duration {
	return []Duration{Duration10m, Duration30m, Duration1h, Duration24h, Duration7d, Duration30d}
}

// ParseDuration maps a dashboard duration label to its window.
// An empty label selects DefaultDuration.
func ParseDuration(s string) (Duration, time.Duration, error) {
	d := Duration(s)
	if d == "" {
		d = DefaultDuration
	}
	w, ok := durationWindows[d]
	if !ok {
		return "", 0, ErrInvalidDuration
	}
	return d, w, nil
}

// Selection is the sensor the viewer is looking at. It is a value:
// handlers receive a copy and never share it.
type Selection struct {
	Host     string   `json:"host"`
	Duration Duration `json:"duration"`
	Timezone string   `json:"tz,omitempty"`
}

// Metric names used as chart identifiers and storage columns.
const (
	MetricCO2          = "co2"
	MetricTemperature  = "temperature"
	MetricBaroPressure = "baro_pressure"
	MetricHumidity     = "humidity"
)

// SeriesPoint is one chart sample.
type SeriesPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is a single line chart for one metric.
type Series struct {
	Metric string        `json:"metric"`
	Label  string        `json:"label"`
	Unit   string        `json:"unit"`
	Points []SeriesPoint `json:"points"`
}

// RefreshEvent is broadcast on every scheduler tick.
type RefreshEvent struct {
	Sequence uint64    `json:"sequence"`
	Time     time.Time `json:"time"`
}
