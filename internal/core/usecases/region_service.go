package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/ports"
	"github.com/samirrijal/gridsquare/internal/pkg/metrics"
)

var (
	ErrRegionNotFound = fmt.Errorf("region %w", domain.ErrNotFound)
	ErrInvalidRegion  = errors.New("invalid region")
)

const regionCacheTTL = 3600

// RegionService serves preset and persisted regions. A persisted region
// replaces the preset with the same slug.
type RegionService struct {
	regions   ports.RegionRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
}

// NewRegionService creates a new RegionService. Any dependency may be nil;
// without a repository only the presets are served.
func NewRegionService(regions ports.RegionRepository, cache ports.CacheService, publisher ports.EventPublisher) *RegionService {
	return &RegionService{regions: regions, cache: cache, publisher: publisher}
}

// List returns presets in their fixed order, each replaced by its persisted
// version if one exists, followed by other persisted regions sorted by slug.
// Repository failures degrade to the presets alone.
func (s *RegionService) List(ctx context.Context) ([]domain.Region, error) {
	presets := PresetRegions()
	if s.regions == nil {
		return presets, nil
	}

	stored, err := s.regions.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "list regions failed, serving presets", "error", err)
		return presets, nil
	}

	bySlug := make(map[string]domain.Region, len(stored))
	for _, r := range stored {
		bySlug[r.Slug] = r
	}

	out := make([]domain.Region, 0, len(presets)+len(stored))
	for _, p := range presets {
		if r, ok := bySlug[p.Slug]; ok {
			out = append(out, r)
			delete(bySlug, p.Slug)
			continue
		}
		out = append(out, p)
	}

	extra := make([]domain.Region, 0, len(bySlug))
	for _, r := range bySlug {
		extra = append(extra, r)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Slug < extra[j].Slug })

	return append(out, extra...), nil
}

// Get returns the region with the given slug.
func (s *RegionService) Get(ctx context.Context, slug string) (*domain.Region, error) {
	cacheKey := "region:" + slug
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var r domain.Region
			if err := json.Unmarshal(data, &r); err == nil {
				metrics.CacheHits.WithLabelValues("region").Inc()
				return &r, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("region").Inc()
	}

	region, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && region.Source != domain.SourcePreset {
		if data, err := json.Marshal(region); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, regionCacheTTL)
		}
	}
	return region, nil
}

func (s *RegionService) lookup(ctx context.Context, slug string) (*domain.Region, error) {
	var repoErr error
	if s.regions != nil {
		r, err := s.regions.GetBySlug(ctx, slug)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			repoErr = err
		}
	}

	for _, p := range PresetRegions() {
		if p.Slug == slug {
			if repoErr != nil {
				slog.WarnContext(ctx, "region lookup failed, serving preset", "slug", slug, "error", repoErr)
			}
			return &p, nil
		}
	}

	if repoErr != nil {
		return nil, fmt.Errorf("get region %s: %w", slug, repoErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, slug)
}

// Save validates and persists a region, invalidating its cache entry.
func (s *RegionService) Save(ctx context.Context, region *domain.Region) error {
	if err := ValidateRegion(region); err != nil {
		return err
	}
	if s.regions == nil {
		return fmt.Errorf("save region %s: no repository configured", region.Slug)
	}

	region.UpdatedAt = time.Now().UTC()
	if err := s.regions.Upsert(ctx, region); err != nil {
		return fmt.Errorf("upsert region %s: %w", region.Slug, err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "region:"+region.Slug)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishRegionUpdated(ctx, region); err != nil {
			slog.WarnContext(ctx, "publish region updated failed", "slug", region.Slug, "error", err)
		}
	}
	return nil
}

// ValidateRegion checks slug, kind and boundary shape.
func ValidateRegion(r *domain.Region) error {
	if r == nil {
		return fmt.Errorf("%w: nil region", ErrInvalidRegion)
	}
	if r.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidRegion)
	}
	switch r.Kind {
	case domain.RegionPolygon:
		if len(r.Boundary) < 3 {
			return fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrInvalidRegion, len(r.Boundary))
		}
	case domain.RegionBBox:
		if len(r.Boundary) != 2 {
			return fmt.Errorf("%w: bbox needs exactly 2 points, got %d", ErrInvalidRegion, len(r.Boundary))
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRegion, r.Kind)
	}
	return nil
}
