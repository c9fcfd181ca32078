package ports

import (
	"context"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// RegionRepository persists region boundaries.
type RegionRepository interface {
	Upsert(ctx context.Context, region *domain.Region) error
	GetBySlug(ctx context.Context, slug string) (*domain.Region, error)
	List(ctx context.Context) ([]domain.Region, error)
}

// RelationSource loads an OSM relation with member geometry, as returned by
// an Overpass "out geom" query. Locations are adapter specific (a file path
// for the file-backed source).
type RelationSource interface {
	LoadRelation(ctx context.Context, location string) (*domain.OSMElement, error)
}

// SquareViewRepository keeps per-square view counts.
type SquareViewRepository interface {
	Record(ctx context.Context, event *domain.SquareViewed) error
	Top(ctx context.Context, limit int) ([]domain.SquareViewCount, error)
}
