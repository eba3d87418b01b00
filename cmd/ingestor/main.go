package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/ribbitnetwork/frogmap/internal/adapters/nats"
	"github.com/ribbitnetwork/frogmap/internal/adapters/postgres"
	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
	"github.com/ribbitnetwork/frogmap/internal/pkg/config"
	"github.com/ribbitnetwork/frogmap/internal/pkg/logging"
)

const batchSize = 500

const usage = `usage:
  ingestor                           consume sensors.readings.> into the database
  ingestor backfill <host> <file>    insert a CSV export directly
  ingestor replay <host> <file>      publish a CSV export onto NATS`

func main() {
	cfg, err := config.Load("frogmap-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, "service", cfg.Telemetry.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := "consume"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "consume":
		err = consume(ctx, cfg)
	case "backfill", "replay":
		if len(os.Args) != 4 {
			log.Fatal(usage)
		}
		var readings []domain.Reading
		readings, err = loadCSV(os.Args[3], os.Args[2])
		if err != nil {
			break
		}
		if cmd == "backfill" {
			err = backfill(ctx, cfg, readings)
		} else {
			err = replay(ctx, cfg, readings)
		}
	default:
		log.Fatal(usage)
	}

	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

// consume stores every reading published by sensors until ctx is done.
func consume(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ingest := usecases.NewIngestService(postgres.NewReadingRepo(db), cfg.Ingest.RatePerSecond)
	if err := sub.SubscribeReadings(ctx, ingest.Process); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	slog.Info("ingestor consuming", "subject", natsadapter.SubjectReadingsAll, "rate_per_second", cfg.Ingest.RatePerSecond)
	<-ctx.Done()
	slog.Info("ingestor stopped")
	return nil
}

func loadCSV(path, host string) ([]domain.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	readings, err := usecases.ReadCSV(f, host)
	if err != nil {
		return nil, err
	}
	for i := range readings {
		if err := usecases.Validate(&readings[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	slog.Info("loaded csv", "path", path, "host", host, "readings", len(readings))
	return readings, nil
}

// backfill writes readings straight to the database in batches.
func backfill(ctx context.Context, cfg *config.Config, readings []domain.Reading) error {
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewReadingRepo(db)
	for start := 0; start < len(readings); start += batchSize {
		end := start + batchSize
		if end > len(readings) {
			end = len(readings)
		}
		if err := repo.InsertBatch(ctx, readings[start:end]); err != nil {
			return fmt.Errorf("batch at row %d: %w", start+1, err)
		}
		slog.Info("batch stored", "rows", end)
	}
	return nil
}

// replay publishes readings so they take the normal ingest path and reach
// live dashboards.
func replay(ctx context.Context, cfg *config.Config, readings []domain.Reading) error {
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer pub.Close()

	for i := range readings {
		if err := pub.PublishReading(ctx, &readings[i]); err != nil {
			return fmt.Errorf("publish row %d: %w", i+1, err)
		}
	}
	slog.Info("replay complete", "published", len(readings))
	return nil
}
