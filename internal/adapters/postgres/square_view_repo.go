package postgres

import (
	"context"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// SquareViewRepo implements ports.SquareViewRepository.
type SquareViewRepo struct {
	db *DB
}

func NewSquareViewRepo(db *DB) *SquareViewRepo {
	return &SquareViewRepo{db: db}
}

func (r *SquareViewRepo) Record(ctx context.Context, event *domain.SquareViewed) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO square_views (ref, easting, northing, views, last_viewed)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (ref) DO UPDATE SET
			views = square_views.views + 1,
			last_viewed = GREATEST(square_views.last_viewed, EXCLUDED.last_viewed)
	`, event.Ref, event.Easting, event.Northing, event.ViewedAt)
	return err
}

func (r *SquareViewRepo) Top(ctx context.Context, limit int) ([]domain.SquareViewCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT ref, easting, northing, views, last_viewed
		FROM square_views
		ORDER BY views DESC, last_viewed DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.SquareViewCount
	for rows.Next() {
		var c domain.SquareViewCount
		if err := rows.Scan(&c.Ref, &c.Easting, &c.Northing, &c.Views, &c.LastViewed); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
