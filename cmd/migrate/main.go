package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ribbitnetwork/frogmap/internal/adapters/postgres"
	"github.com/ribbitnetwork/frogmap/internal/pkg/config"
	"github.com/ribbitnetwork/frogmap/internal/pkg/logging"
)

var migrations = []string{
	"migrations/001_init_extensions.sql",
	"migrations/002_sensor_readings.sql",
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("frogmap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 1)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		err = up(ctx, db)
	case "down":
		err = down(ctx, db)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", os.Args[1], err)
	}
}

func up(ctx context.Context, db *postgres.DB) error {
	for _, f := range migrations {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if _, err := db.Pool.Exec(ctx, string(data)); err != nil {
			return err
		}
		slog.Info("applied", "file", f)
	}
	slog.Info("all migrations applied")
	return nil
}

// down drops the readings table; the postgis extension stays.
func down(ctx context.Context, db *postgres.DB) error {
	if _, err := db.Pool.Exec(ctx, `DROP TABLE IF EXISTS sensor_readings`); err != nil {
		return err
	}
	slog.Info("dropped sensor_readings")
	return nil
}
