package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/paulmach/orb"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/pkg/geospatial"
	"github.com/samirrijal/gridsquare/internal/pkg/metrics"
	"github.com/samirrijal/gridsquare/internal/pkg/osgrid"
	"github.com/samirrijal/gridsquare/internal/pkg/telemetry"
)

var (
	ErrOutsideGrid       = errors.New("position is outside the national grid")
	ErrInvalidCoordinate = errors.New("latitude must be within ±90 and longitude within ±180")
	ErrEmptyRegion       = errors.New("region has no usable boundary")
)

// randomAttempts bounds the rejection sampling in RandomSquare.
const randomAttempts = 1000

// GridOptions configures a GridService. Zero values take the defaults.
type GridOptions struct {
	SquareSize     float64 // metres, default 1000
	SearchBufferKm float64 // default 2
	CacheTTL       time.Duration
	Rand           func() float64 // uniform in [0, 1); default math/rand/v2
}

// GridService resolves grid squares, references and random picks.
type GridService struct {
	cache     ports.CacheService
	publisher ports.EventPublisher
	opts      GridOptions
}

// NewGridService creates a new GridService. cache and publisher may be nil.
func NewGridService(cache ports.CacheService, publisher ports.EventPublisher, opts GridOptions) *GridService {
	if opts.SquareSize <= 0 {
		opts.SquareSize = 1000
	}
	if opts.SearchBufferKm <= 0 {
		opts.SearchBufferKm = 2
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.Rand == nil {
		opts.Rand = rand.Float64
	}
	return &GridService{cache: cache, publisher: publisher, opts: opts}
}

// Square resolves the square of the given size containing (easting, northing).
// size <= 0 uses the configured square size.
func (s *GridService) Square(ctx context.Context, easting, northing, size float64) (*domain.Square, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanSquare)
	defer span.End()

	if size <= 0 {
		size = s.opts.SquareSize
	}
	if !insideGrid(easting, northing) {
		return nil, fmt.Errorf("%w: E%.0f N%.0f", ErrOutsideGrid, easting, northing)
	}

	sq, err := s.resolve(ctx, osgrid.SnapToGrid(easting, northing, size), size)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("grid.ref", sq.Ref.Text))
	s.announce(ctx, sq, "lookup", "")
	return sq, nil
}

// Parse parses a grid reference into the square it names.
func (s *GridService) Parse(ctx context.Context, text string) (*domain.GridReference, error) {
	ref, err := osgrid.ParseGridRef(text)
	if err != nil {
		metrics.GridRefsParsed.WithLabelValues("rejected").Inc()
		return nil, err
	}
	metrics.GridRefsParsed.WithLabelValues("ok").Inc()

	return &domain.GridReference{
		Text:            ref.Text,
		Hectad:          osgrid.Hectad(ref.Text),
		Easting:         ref.Easting,
		Northing:        ref.Northing,
		PrecisionMeters: ref.Precision,
	}, nil
}

// Locate returns the configured-size square containing a WGS84 position.
func (s *GridService) Locate(ctx context.Context, lat, lon float64) (*domain.Square, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanLocate,
		attribute.Float64("geo.lat", lat), attribute.Float64("geo.lon", lon))
	defer span.End()

	if math.IsNaN(lat) || math.IsNaN(lon) || math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return nil, ErrInvalidCoordinate
	}

	g := osgrid.LatLonToGrid(lat, lon)
	if !insideGrid(g.Easting, g.Northing) {
		return nil, fmt.Errorf("%w: %.5f, %.5f", ErrOutsideGrid, lat, lon)
	}

	sq, err := s.resolve(ctx, osgrid.SnapToGrid(g.Easting, g.Northing, s.opts.SquareSize), s.opts.SquareSize)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, sq, "locate", "")
	return sq, nil
}

// RandomSquare picks a random square inside region. Polygon regions are
// sampled by rejection on the square's centre; after 1000 misses the square
// at the centre of the boundary's extent is returned instead.
func (s *GridService) RandomSquare(ctx context.Context, region *domain.Region) (*domain.Square, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRandomSquare)
	defer span.End()

	if region == nil || len(region.Boundary) < 2 ||
		(region.Kind != domain.RegionBBox && len(region.Boundary) < 3) {
		return nil, ErrEmptyRegion
	}
	span.SetAttributes(attribute.String("region.slug", region.Slug))

	origin := s.pick(ctx, region)

	sq, err := s.resolve(ctx, origin, s.opts.SquareSize)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, sq, "random", region.Slug)
	return sq, nil
}

func (s *GridService) pick(ctx context.Context, region *domain.Region) osgrid.GridCoord {
	size := s.opts.SquareSize
	ext := region.Extent()
	minE, minN := ext.Min[0], ext.Min[1]
	spanE, spanN := ext.Max[0]-minE, ext.Max[1]-minN

	sample := func() osgrid.GridCoord {
		return osgrid.GridCoord{
			Easting:  math.Floor(s.opts.Rand()*spanE/size)*size + minE,
			Northing: math.Floor(s.opts.Rand()*spanN/size)*size + minN,
		}
	}

	if region.Kind == domain.RegionBBox {
		return sample()
	}

	for attempt := 1; attempt <= randomAttempts; attempt++ {
		g := sample()
		if geospatial.PointInPolygon(g.Easting+size/2, g.Northing+size/2, region.Boundary) {
			metrics.RandomSquareAttempts.Observe(float64(attempt))
			return g
		}
	}

	metrics.RandomSquareAttempts.Observe(randomAttempts)
	slog.WarnContext(ctx, "no random square found inside region, using extent centre",
		"region", region.Slug, "attempts", randomAttempts)
	return osgrid.GridCoord{
		Easting:  math.Floor((ext.Min[0]+ext.Max[0])/(2*size)) * size,
		Northing: math.Floor((ext.Min[1]+ext.Max[1])/(2*size)) * size,
	}
}

// resolve builds the square with south-west corner origin, going through the
// cache when one is configured.
func (s *GridService) resolve(ctx context.Context, origin osgrid.GridCoord, size float64) (*domain.Square, error) {
	cacheKey := fmt.Sprintf("square:%.0f:%.0f:%.0f", origin.Easting, origin.Northing, size)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var sq domain.Square
			if err := json.Unmarshal(data, &sq); err == nil {
				metrics.CacheHits.WithLabelValues("square").Inc()
				return &sq, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("square").Inc()
	}

	sq, err := s.build(origin, size)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(sq); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, int(s.opts.CacheTTL.Seconds()))
		}
	}
	return sq, nil
}

func (s *GridService) build(origin osgrid.GridCoord, size float64) (*domain.Square, error) {
	e, n := origin.Easting, origin.Northing
	digits := digitsForSize(size)

	text, err := osgrid.FormatGridRefDigits(e, n, digits)
	if err != nil {
		return nil, err
	}

	corners := domain.SquareCorners{
		SW: geoPoint(osgrid.GridToLatLon(e, n)),
		NE: geoPoint(osgrid.GridToLatLon(e+size, n+size)),
		NW: geoPoint(osgrid.GridToLatLon(e, n+size)),
		SE: geoPoint(osgrid.GridToLatLon(e+size, n)),
	}

	extent := orb.MultiPoint{corners.SW.Orb(), corners.NE.Orb(), corners.NW.Orb(), corners.SE.Orb()}.Bound()

	return &domain.Square{
		Ref: domain.GridReference{
			Text:            text,
			Hectad:          osgrid.Hectad(text),
			Easting:         e,
			Northing:        n,
			PrecisionMeters: math.Pow10(5 - digits),
		},
		Origin:       domain.GridCoordinate{Easting: e, Northing: n},
		Size:         size,
		Corners:      corners,
		Center:       geoPoint(osgrid.GridToLatLon(e+size/2, n+size/2)),
		SearchBounds: domain.BoundsFromOrb(geospatial.ExpandBounds(extent, s.opts.SearchBufferKm)),
	}, nil
}

func (s *GridService) announce(ctx context.Context, sq *domain.Square, origin, region string) {
	metrics.SquaresServed.WithLabelValues(origin).Inc()
	if s.publisher == nil {
		return
	}
	event := &domain.SquareViewed{
		Ref:      sq.Ref.Text,
		Easting:  sq.Origin.Easting,
		Northing: sq.Origin.Northing,
		Center:   sq.Center,
		Origin:   origin,
		Region:   region,
		ViewedAt: time.Now(),
	}
	if err := s.publisher.PublishSquareViewed(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish square viewed failed", "ref", sq.Ref.Text, "error", err)
	}
}

// digitsForSize maps a power-of-ten square size to reference digits per
// axis. Other sizes are labelled at 1 km.
func digitsForSize(size float64) int {
	for d := 0; d <= 5; d++ {
		if size == math.Pow10(5-d) {
			return d
		}
	}
	return 2
}

func insideGrid(e, n float64) bool {
	return e >= 0 && e <= osgrid.MaxEasting && n >= 0 && n <= osgrid.MaxNorthing
}

func geoPoint(ll osgrid.LatLon) domain.GeoPoint {
	return domain.GeoPoint{Lat: ll.Lat, Lon: ll.Lon}
}
