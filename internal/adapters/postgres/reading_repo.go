package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

const insertReadingSQL = `
	INSERT INTO sensor_readings (time, host, location, alt, co2, temperature, baro_pressure, humidity)
	VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, $7, $8, $9)
	ON CONFLICT (host, time) DO NOTHING
`

const readingColumns = `
	time, host,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lon,
	alt, co2, temperature, baro_pressure, humidity
`

// ReadingRepo implements ports.ReadingRepository with pgx.
type ReadingRepo struct {
	db *DB
}

// NewReadingRepo creates a new ReadingRepo.
func NewReadingRepo(db *DB) *ReadingRepo {
	return &ReadingRepo{db: db}
}

// Insert stores one reading. Duplicate (host, time) pairs are ignored, so
// redelivered broker messages are harmless.
func (r *ReadingRepo) Insert(ctx context.Context, rd *domain.Reading) error {
	_, err := r.db.Pool.Exec(ctx, insertReadingSQL, readingArgs(rd)...)
	return err
}

// InsertBatch stores many readings using pgx.Batch.
func (r *ReadingRepo) InsertBatch(ctx context.Context, rs []domain.Reading) error {
	if len(rs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range rs {
		batch.Queue(insertReadingSQL, readingArgs(&rs[i])...)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// LatestPerSensor returns the newest reading of every host.
func (r *ReadingRepo) LatestPerSensor(ctx context.Context) ([]domain.Reading, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT DISTINCT ON (host) `+readingColumns+`
		FROM sensor_readings
		ORDER BY host, time DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectReadings(rows)
}

// History returns one host's readings after since, oldest first.
func (r *ReadingRepo) History(ctx context.Context, host string, since time.Time) ([]domain.Reading, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+readingColumns+`
		FROM sensor_readings
		WHERE host = $1 AND time >= $2
		ORDER BY time ASC
	`, host, since)
	if err != nil {
		return nil, err
	}
	return collectReadings(rows)
}

func readingArgs(rd *domain.Reading) []any {
	return []any{
		rd.Time, rd.Host, rd.Location.Lon, rd.Location.Lat,
		rd.Altitude, rd.CO2, rd.Temperature, rd.BaroPressure, rd.Humidity,
	}
}

func collectReadings(rows pgx.Rows) ([]domain.Reading, error) {
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		var rd domain.Reading
		if err := rows.Scan(
			&rd.Time, &rd.Host,
			&rd.Location.Lat, &rd.Location.Lon,
			&rd.Altitude, &rd.CO2, &rd.Temperature, &rd.BaroPressure, &rd.Humidity,
		); err != nil {
			return nil, err
		}
		readings = append(readings, rd)
	}
	return readings, rows.Err()
}
