package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/geoflex/internal/adapters/nats"
	"github.com/samirrijal/geoflex/internal/adapters/postgres"
	"github.com/samirrijal/geoflex/internal/core/domain"
	"github.com/samirrijal/geoflex/internal/core/usecases"
	"github.com/samirrijal/geoflex/internal/pkg/config"
	"github.com/samirrijal/geoflex/internal/pkg/logging"
	"github.com/samirrijal/geoflex/internal/pkg/telemetry"
	"github.com/samirrijal/geoflex/internal/workflows"
)

// The archiver consumes computed route geometry from NATS, starts one
// archive workflow per section and runs the Temporal worker executing them.
func main() {
	cfg, err := config.Load("geoflex-archiver")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL, cfg.NATS.Durable)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	// Temporal
	tc, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer tc.Close()

	geometrySvc := usecases.NewGeometryService(
		postgres.NewGeometryRepo(db),
		publisher,
		workflows.NewStarter(tc, cfg.Temporal.TaskQueue),
	)

	w := worker.New(tc, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ArchiveGeometryWorkflow)
	w.RegisterActivity(&workflows.ArchiveActivities{Geometries: geometrySvc})
	if err := w.Start(); err != nil {
		log.Fatalf("worker: %v", err)
	}
	defer w.Stop()

	err = subscriber.SubscribeRouteComputed(ctx, func(ctx context.Context, event *domain.GeometryEvent) error {
		runID, err := geometrySvc.ScheduleArchive(ctx, event)
		if errors.Is(err, usecases.ErrInvalidArgument) {
			slog.Warn("skipping geometry event", "source", event.Source, "error", err)
			return nil
		}
		if err != nil {
			return err
		}
		slog.Debug("archive scheduled", "source", event.Source, "run_id", runID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("archiver started", "task_queue", cfg.Temporal.TaskQueue, "durable", cfg.NATS.Durable)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())
}
