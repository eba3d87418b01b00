package usecases

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

var csvHeader = []string{
	"Time",
	"CO₂ (PPM)",
	"Temperature (°C)",
	"Barometric Pressure (mBar)",
	"Humidity (%)",
	"Latitude",
	"Longitude",
	"Altitude (m)",
}

// ExportFileName is the download name for a sensor's CSV export.
func ExportFileName(host string) string {
	return host + "_data.csv"
}

// WriteCSV writes readings as CSV with a header row. Times keep the zone
// they carry, so History output is exported in the viewer's time zone.
func WriteCSV(w io.Writer, readings []domain.Reading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range readings {
		rec := []string{
			r.Time.Format(time.RFC3339),
			formatFloat(r.CO2),
			formatFloat(r.Temperature),
			formatFloat(r.BaroPressure),
			formatFloat(r.Humidity),
			formatFloat(r.Location.Lat),
			formatFloat(r.Location.Lon),
			formatFloat(r.Altitude),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV back into readings of host.
// Columns are matched by header name, so extra or reordered columns are fine.
func ReadCSV(r io.Reader, host string) ([]domain.Reading, error) {
	if err := domain.ValidateHost(host); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, h := range csvHeader {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", h)
		}
	}

	var out []domain.Reading
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		ts, err := time.Parse(time.RFC3339, rec[cols["Time"]])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		vals := make([]float64, len(csvHeader)-1)
		for i, h := range csvHeader[1:] {
			v, err := strconv.ParseFloat(rec[cols[h]], 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %q: %w", line, h, err)
			}
			vals[i] = v
		}

		out = append(out, domain.Reading{
			Time:         ts,
			Host:         host,
			CO2:          vals[0],
			Temperature:  vals[1],
			BaroPressure: vals[2],
			Humidity:     vals[3],
			Location:     domain.GeoPoint{Lat: vals[4], Lon: vals[5]},
			Altitude:     vals[6],
		})
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
