package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/gridsquare/internal/adapters/nats"
	"github.com/samirrijal/gridsquare/internal/adapters/osmfile"
	"github.com/samirrijal/gridsquare/internal/adapters/postgres"
	"github.com/samirrijal/gridsquare/internal/adapters/valkey"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
	"github.com/samirrijal/gridsquare/internal/pkg/config"
	"github.com/samirrijal/gridsquare/internal/pkg/logging"
	"github.com/samirrijal/gridsquare/internal/pkg/telemetry"
	"github.com/samirrijal/gridsquare/internal/workflows"
)

func main() {
	dataDir := pflag.String("data-dir", ".", "directory that relative relation locations resolve against; the ingestor sends absolute paths")
	pflag.Parse()

	cfg, err := config.Load("gridsquare-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolStats(ctx, 15*time.Second)

	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, region cache entries will expire on their own", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// The publisher also ensures the stream the view consumer binds to.
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, square views will not be counted", "error", err)
	} else {
		defer pub.Close()
		publisher = pub

		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			log.Fatalf("nats subscriber: %v", err)
		}
		defer sub.Close()

		views := usecases.NewViewService(postgres.NewSquareViewRepo(db))
		if err := sub.SubscribeSquareViewed(ctx, views.Record); err != nil {
			log.Fatalf("subscribe square views: %v", err)
		}
		slog.Info("counting square views", "subject", natsadapter.SquareViewedWildcard)
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.BoundaryRefreshWorkflow)
	w.RegisterActivity(&workflows.BoundaryActivities{
		Relations:  osmfile.NewSource(*dataDir),
		Boundaries: usecases.NewBoundaryService(cfg.Grid.HullBufferM),
		Regions:    usecases.NewRegionService(postgres.NewRegionRepo(db), cacheSvc, publisher),
	})

	slog.Info("worker started", "task_queue", cfg.Temporal.TaskQueue, "data_dir", *dataDir)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
