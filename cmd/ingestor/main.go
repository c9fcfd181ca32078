package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	natsadapter "github.com/samirrijal/gridsquare/internal/adapters/nats"
	"github.com/samirrijal/gridsquare/internal/adapters/osmfile"
	"github.com/samirrijal/gridsquare/internal/adapters/postgres"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
	"github.com/samirrijal/gridsquare/internal/pkg/config"
	"github.com/samirrijal/gridsquare/internal/pkg/logging"
)

func main() {
	only := pflag.StringSlice("only", nil, "ingest only these region slugs")
	concurrency := pflag.Int("concurrency", 4, "regions processed in parallel")
	viaWorkflow := pflag.Bool("workflow", false, "hand relation entries to the Temporal worker instead of building them here")
	pflag.Parse()

	manifestPath := "manifest.json"
	if pflag.NArg() > 0 {
		manifestPath = pflag.Arg(0)
	}

	cfg, err := config.Load("gridsquare-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	manifest, dir, err := loadManifest(manifestPath)
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}
	entries := filter(manifest.Regions, *only)
	slog.Info("grid square ingestor", "regions", len(entries), "source", manifest.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := 0
	if *viaWorkflow {
		targets, local, err := splitForWorkflow(entries, dir)
		if err != nil {
			log.Fatalf("workflow: %v", err)
		}
		n, err := submitRefresh(ctx, cfg, targets)
		if err != nil {
			log.Fatalf("workflow: %v", err)
		}
		failed += n
		entries = local
	}
	if len(entries) == 0 {
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, region updates will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	in := &ingestor{
		source:     osmfile.NewSource(dir),
		boundaries: usecases.NewBoundaryService(cfg.Grid.HullBufferM),
		regions:    usecases.NewRegionService(postgres.NewRegionRepo(db), nil, publisher),
	}

	start := time.Now()
	failed += in.run(ctx, entries, *concurrency)
	slog.Info("ingestion complete", "regions", len(entries), "failed", failed, "took", time.Since(start))
	if failed > 0 {
		os.Exit(1)
	}
}
