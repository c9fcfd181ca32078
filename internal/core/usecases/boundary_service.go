package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/pkg/geospatial"
	"github.com/samirrijal/gridsquare/internal/pkg/metrics"
	"github.com/samirrijal/gridsquare/internal/pkg/osgrid"
	"github.com/samirrijal/gridsquare/internal/pkg/telemetry"
)

var (
	ErrNotRelation        = errors.New("element is not a relation")
	ErrNoOuterWays        = errors.New("relation has no outer ways with geometry")
	ErrDegenerateBoundary = errors.New("boundary has fewer than 3 distinct points")
	ErrTooFewPoints       = errors.New("at least 3 points are needed for a hull")
)

// BoundaryService turns raw OSM geometry into region boundaries in grid
// coordinates.
type BoundaryService struct {
	hullBufferM float64
}

// NewBoundaryService creates a new BoundaryService. hullBufferM is the
// default buffer around generated hulls; <= 0 means 500 m.
func NewBoundaryService(hullBufferM float64) *BoundaryService {
	if hullBufferM <= 0 {
		hullBufferM = 500
	}
	return &BoundaryService{hullBufferM: hullBufferM}
}

// AssembleRelation stitches the outer ways of a multipolygon relation into a
// single closed ring of [easting, northing] points. Ways that cannot be
// joined end to end are still appended and reported as a warning.
func (s *BoundaryService) AssembleRelation(ctx context.Context, rel *domain.OSMElement) (orb.Ring, error) {
	if rel == nil || rel.Type != "relation" {
		return nil, ErrNotRelation
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanAssembleRelation, attribute.Int64("osm.relation", rel.ID))
	defer span.End()

	var ways []orb.LineString
	for _, m := range rel.Members {
		if m.Role != "outer" || len(m.Geometry) == 0 {
			continue
		}
		ls := make(orb.LineString, len(m.Geometry))
		for i, p := range m.Geometry {
			ls[i] = p.Orb()
		}
		ways = append(ways, ls)
	}
	if len(ways) == 0 {
		return nil, fmt.Errorf("relation %d: %w", rel.ID, ErrNoOuterWays)
	}

	ordered, gaps := geospatial.OrderWays(ways)
	if gaps > 0 {
		metrics.BoundaryGaps.Add(float64(gaps))
		slog.WarnContext(ctx, "outer ways do not form a continuous chain",
			"relation", rel.ID, "ways", len(ways), "gaps", gaps)
	}

	geo := geospatial.FlattenWays(ordered)
	grid := make([]orb.Point, len(geo))
	for i, p := range geo {
		g := osgrid.LatLonToGrid(p.Lat(), p.Lon())
		grid[i] = orb.Point{g.Easting, g.Northing}
	}

	ring, err := closedRing(geospatial.DedupeConsecutive(grid))
	if err != nil {
		return nil, fmt.Errorf("relation %d: %w", rel.ID, err)
	}

	span.SetAttributes(attribute.Int("boundary.points", len(ring)), attribute.Int("boundary.gaps", gaps))
	slog.DebugContext(ctx, "assembled relation boundary", "relation", rel.ID, "ways", len(ways), "points", len(ring))
	return ring, nil
}

// AssembleRegion assembles rel into a polygon region named slug.
func (s *BoundaryService) AssembleRegion(ctx context.Context, slug, name string, rel *domain.OSMElement) (*domain.Region, error) {
	ring, err := s.AssembleRelation(ctx, rel)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = rel.Tags["name"]
	}
	metrics.BoundariesAssembled.WithLabelValues(string(domain.SourceOSM)).Inc()
	return &domain.Region{
		Slug:          slug,
		Name:          name,
		OSMRelationID: rel.ID,
		Kind:          domain.RegionPolygon,
		Source:        domain.SourceOSM,
		Boundary:      ring,
	}, nil
}

// HullFromPoints converts WGS84 points to grid coordinates, takes their convex
// hull and buffers it by bufferM metres (<= 0 uses the service default).
func (s *BoundaryService) HullFromPoints(ctx context.Context, points []domain.GeoPoint, bufferM float64) (orb.Ring, error) {
	_, span := telemetry.StartSpan(ctx, telemetry.SpanHull, attribute.Int("hull.input_points", len(points)))
	defer span.End()

	if bufferM <= 0 {
		bufferM = s.hullBufferM
	}

	grid := make([]orb.Point, 0, len(points))
	for _, p := range points {
		g := osgrid.LatLonToGrid(p.Lat, p.Lon)
		grid = append(grid, orb.Point{g.Easting, g.Northing})
	}
	if len(grid) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(grid))
	}

	hull := geospatial.ConvexHull(grid)
	if len(hull) < 4 {
		return nil, ErrDegenerateBoundary
	}
	return geospatial.BufferPolygon(hull, bufferM), nil
}

// HullRegion builds a hull region from the located nodes in elements.
func (s *BoundaryService) HullRegion(ctx context.Context, slug, name string, elements []domain.OSMElement, bufferM float64) (*domain.Region, error) {
	var points []domain.GeoPoint
	for _, el := range elements {
		if el.Lat != nil && el.Lon != nil {
			points = append(points, domain.GeoPoint{Lat: *el.Lat, Lon: *el.Lon})
		}
	}

	ring, err := s.HullFromPoints(ctx, points, bufferM)
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", slug, err)
	}
	metrics.BoundariesAssembled.WithLabelValues(string(domain.SourceHull)).Inc()
	return &domain.Region{
		Slug:     slug,
		Name:     name,
		Kind:     domain.RegionPolygon,
		Source:   domain.SourceHull,
		Boundary: ring,
	}, nil
}

// closedRing closes pts, requiring at least 3 distinct vertices.
func closedRing(pts []orb.Point) (orb.Ring, error) {
	open := pts
	if len(open) > 1 && open[0].Equal(open[len(open)-1]) {
		open = open[:len(open)-1]
	}
	if len(open) < 3 {
		return nil, ErrDegenerateBoundary
	}
	ring := append(orb.Ring(nil), open...)
	return append(ring, ring[0]), nil
}
