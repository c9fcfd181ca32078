package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/gridsquare/internal/adapters/osmfile"
	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// ingestor builds and saves region boundaries from files on disk.
type ingestor struct {
	source     *osmfile.Source
	boundaries *usecases.BoundaryService
	regions    *usecases.RegionService
}

// run ingests entries with at most concurrency in flight. One failing entry
// does not stop the others; the failure count is returned.
func (in *ingestor) run(ctx context.Context, entries []RegionEntry, concurrency int) (failed int) {
	var g errgroup.Group
	g.SetLimit(max(concurrency, 1))

	var failures atomic.Int32
	for _, entry := range entries {
		g.Go(func() error {
			if err := in.ingest(ctx, entry); err != nil {
				failures.Add(1)
				slog.ErrorContext(ctx, "region ingest failed", "slug", entry.Slug, "file", entry.File, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failures.Load())
}

func (in *ingestor) ingest(ctx context.Context, entry RegionEntry) error {
	var (
		region *domain.Region
		err    error
	)
	switch entry.Mode {
	case modeHull:
		var doc *domain.OSMDocument
		doc, err = in.source.LoadDocument(ctx, entry.File)
		if err != nil {
			return err
		}
		region, err = in.boundaries.HullRegion(ctx, entry.Slug, entry.Name, doc.Elements, entry.BufferM)
	default:
		var rel *domain.OSMElement
		rel, err = in.source.LoadRelation(ctx, entry.File)
		if err != nil {
			return err
		}
		region, err = in.boundaries.AssembleRegion(ctx, entry.Slug, entry.Name, rel)
	}
	if err != nil {
		return err
	}

	if err := in.regions.Save(ctx, region); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	slog.InfoContext(ctx, "region ingested",
		"slug", region.Slug, "source", region.Source, "points", len(region.Boundary))
	return nil
}
