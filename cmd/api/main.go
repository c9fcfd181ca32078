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

	"github.com/samirrijal/gridsquare/internal/adapters/http"
	natsadapter "github.com/samirrijal/gridsquare/internal/adapters/nats"
	"github.com/samirrijal/gridsquare/internal/adapters/postgres"
	"github.com/samirrijal/gridsquare/internal/adapters/valkey"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
	"github.com/samirrijal/gridsquare/internal/pkg/config"
	"github.com/samirrijal/gridsquare/internal/pkg/logging"
	"github.com/samirrijal/gridsquare/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("gridsquare-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Everything below is optional: without a database only preset regions
	// are served, and squares are computed on every request without a cache.
	var (
		regionRepo ports.RegionRepository
		cacheSvc   ports.CacheService
		publisher  ports.EventPublisher
		viewSvc    *usecases.ViewService
	)

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, serving preset regions only", "error", err)
	} else {
		defer db.Close()
		go db.ReportPoolStats(ctx, 15*time.Second)
		regionRepo = postgres.NewRegionRepo(db)
		viewSvc = usecases.NewViewService(postgres.NewSquareViewRepo(db))
	}

	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	deps := &http.Dependencies{
		Grid: usecases.NewGridService(cacheSvc, publisher, usecases.GridOptions{
			SquareSize:     cfg.Grid.SquareSize,
			SearchBufferKm: cfg.Grid.SearchBufferKm,
			CacheTTL:       cfg.Grid.CacheTTL,
		}),
		Regions:    usecases.NewRegionService(regionRepo, cacheSvc, publisher),
		Boundaries: usecases.NewBoundaryService(cfg.Grid.HullBufferM),
		Places:     usecases.NewPlaceService(),
		Views:      viewSvc,
		NATS:       natsConn,
		DB:         db,
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    8 * 1024 * 1024, // Overpass documents can be large
		AppName:      "Grid Square API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
