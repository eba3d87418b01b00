package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ribbitnetwork/frogmap/internal/adapters/http"
	natsadapter "github.com/ribbitnetwork/frogmap/internal/adapters/nats"
	"github.com/ribbitnetwork/frogmap/internal/adapters/postgres"
	"github.com/ribbitnetwork/frogmap/internal/adapters/valkey"
	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/ports"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
	"github.com/ribbitnetwork/frogmap/internal/pkg/config"
	"github.com/ribbitnetwork/frogmap/internal/pkg/logging"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
	"github.com/ribbitnetwork/frogmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("frogmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, "service", cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional)
	var (
		cache       ports.CacheService
		cachePinger http.Pinger
	)
	if vc, err := valkey.New(cfg.Valkey.Addr, "frogmap"); err != nil {
		slog.Warn("valkey unavailable, map layer is not cached", "error", err)
	} else {
		defer vc.Close()
		cache, cachePinger = vc, vc
	}

	// NATS (optional): refresh broadcast and live relay
	var (
		publisher ports.EventPublisher
		relay     http.Relay
	)
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, websocket clients get no live updates", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		relay = natsadapter.NewRelay(pub.Conn())
	}

	// Repos
	readingRepo := postgres.NewReadingRepo(db)

	// Use cases
	style := cfg.Dashboard.MapStyle
	mapSvc := usecases.NewMapService(readingRepo, cache, style, cfg.Dashboard.RefreshSeconds)
	sensorSvc := usecases.NewSensorService(readingRepo)
	refreshSvc := usecases.NewRefreshService(publisher, mapSvc)

	deps := &http.Dependencies{
		Maps:    mapSvc,
		Sensors: sensorSvc,
		Dashboard: http.DashboardInfo{
			Title:           cfg.Dashboard.Title,
			RefreshSeconds:  cfg.Dashboard.RefreshSeconds,
			DefaultDuration: domain.Duration(cfg.Dashboard.DefaultDuration),
		},
		Relay: relay,
		DB:    db,
		Cache: cachePinger,
	}

	// Periodic refresh
	go refreshSvc.Run(ctx, cfg.Dashboard.RefreshInterval())

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      cfg.Dashboard.Title,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders:    "Content-Disposition, ETag, Link",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "refresh", cfg.Dashboard.RefreshInterval().String())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
