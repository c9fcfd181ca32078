package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// RegionRepo implements ports.RegionRepository. Boundaries are stored as a
// JSONB array of [easting, northing] pairs.
type RegionRepo struct {
	db *DB
}

func NewRegionRepo(db *DB) *RegionRepo {
	return &RegionRepo{db: db}
}

const regionColumns = `id::text, slug, name, COALESCE(osm_relation_id, 0), kind, source, boundary, updated_at`

func (r *RegionRepo) Upsert(ctx context.Context, region *domain.Region) error {
	boundary, err := json.Marshal(region.Boundary)
	if err != nil {
		return fmt.Errorf("encode boundary: %w", err)
	}

	var relation *int64
	if region.OSMRelationID != 0 {
		relation = &region.OSMRelationID
	}

	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO regions (slug, name, osm_relation_id, kind, source, boundary, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			osm_relation_id = EXCLUDED.osm_relation_id,
			kind = EXCLUDED.kind,
			source = EXCLUDED.source,
			boundary = EXCLUDED.boundary,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text
	`, region.Slug, region.Name, relation, string(region.Kind), string(region.Source), boundary, region.UpdatedAt).
		Scan(&region.ID)
}

func (r *RegionRepo) GetBySlug(ctx context.Context, slug string) (*domain.Region, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+regionColumns+` FROM regions WHERE slug = $1`, slug)
	region, err := scanRegion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return region, nil
}

func (r *RegionRepo) List(ctx context.Context) ([]domain.Region, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+regionColumns+` FROM regions ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []domain.Region
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, *region)
	}
	return regions, rows.Err()
}

func scanRegion(row pgx.Row) (*domain.Region, error) {
	var (
		reg          domain.Region
		kind, source string
		boundary     []byte
	)
	if err := row.Scan(&reg.ID, &reg.Slug, &reg.Name, &reg.OSMRelationID, &kind, &source, &boundary, &reg.UpdatedAt); err != nil {
		return nil, err
	}
	reg.Kind = domain.RegionKind(kind)
	reg.Source = domain.RegionSource(source)

	var ring orb.Ring
	if err := json.Unmarshal(boundary, &ring); err != nil {
		return nil, fmt.Errorf("decode boundary of %s: %w", reg.Slug, err)
	}
	reg.Boundary = ring
	return &reg, nil
}
