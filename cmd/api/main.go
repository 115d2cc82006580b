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

	"github.com/samirrijal/geoflex/internal/adapters/here"
	"github.com/samirrijal/geoflex/internal/adapters/http"
	natsadapter "github.com/samirrijal/geoflex/internal/adapters/nats"
	"github.com/samirrijal/geoflex/internal/adapters/postgres"
	"github.com/samirrijal/geoflex/internal/adapters/valkey"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/core/usecases"
	"github.com/samirrijal/geoflex/internal/pkg/config"
	"github.com/samirrijal/geoflex/internal/pkg/logging"
	"github.com/samirrijal/geoflex/internal/pkg/metrics"
	"github.com/samirrijal/geoflex/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geoflex-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

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
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache and broker are optional; the API degrades to uncached,
	// unannounced operation without them.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	var publisher ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		publisher = nc
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Adapters
	hereClient := here.NewClient(cfg.HERE)
	geometryRepo := postgres.NewGeometryRepo(db)

	// Use cases
	polylineSvc := usecases.NewPolylineService(cacheSvc, publisher, usecases.PolylineOptions{
		DefaultPrecision: cfg.Polyline.DefaultPrecision,
		CacheTTL:         cfg.Polyline.CacheTTL,
		MaxPoints:        cfg.Polyline.MaxPoints,
	})
	routingSvc := usecases.NewRoutingService(hereClient, publisher)
	isolineSvc := usecases.NewIsolineService(hereClient)
	geometrySvc := usecases.NewGeometryService(geometryRepo, publisher, nil)

	deps := &http.Dependencies{
		Polylines:  polylineSvc,
		Routing:    routingSvc,
		Isolines:   isolineSvc,
		Geometries: geometrySvc,
		NATS:       natsConn,
		DB:         db,
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "geoflex API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats copies pgx pool stats into the db gauges every 15s.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}
