package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// BoundaryActivities holds the activity implementations for the boundary
// refresh workflow.
type BoundaryActivities struct {
	Relations  ports.RelationSource
	Boundaries *usecases.BoundaryService
	Regions    *usecases.RegionService
}

// LoadRelation fetches the relation document at location.
func (a *BoundaryActivities) LoadRelation(ctx context.Context, location string) (*domain.OSMElement, error) {
	rel, err := a.Relations.LoadRelation(ctx, location)
	if err != nil {
		return nil, classify(fmt.Errorf("load relation %s: %w", location, err))
	}
	return rel, nil
}

// AssembleRegion stitches rel into a polygon region.
func (a *BoundaryActivities) AssembleRegion(ctx context.Context, slug, name string, rel *domain.OSMElement) (*domain.Region, error) {
	region, err := a.Boundaries.AssembleRegion(ctx, slug, name, rel)
	if err != nil {
		return nil, classify(err)
	}
	slog.InfoContext(ctx, "assembled region", "slug", slug, "relation", region.OSMRelationID, "points", len(region.Boundary))
	return region, nil
}

// SaveRegion persists region, replacing any earlier version.
func (a *BoundaryActivities) SaveRegion(ctx context.Context, region *domain.Region) error {
	if err := a.Regions.Save(ctx, region); err != nil {
		return classify(err)
	}
	return nil
}

// classify marks errors that a retry cannot fix.
func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, usecases.ErrNotRelation),
		errors.Is(err, usecases.ErrNoOuterWays),
		errors.Is(err, usecases.ErrDegenerateBoundary),
		errors.Is(err, usecases.ErrInvalidRegion):
		return temporal.NewNonRetryableApplicationError(err.Error(), "BoundaryRejected", err)
	}
	return err
}
