package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/ports"
)

const (
	defaultPopularLimit = 10
	maxPopularLimit     = 100
)

// ViewService consumes SquareViewed events and reports popular squares.
type ViewService struct {
	views ports.SquareViewRepository
}

// NewViewService creates a new ViewService.
func NewViewService(views ports.SquareViewRepository) *ViewService {
	return &ViewService{views: views}
}

// Record stores one view. Events without a reference are ignored.
func (s *ViewService) Record(ctx context.Context, event *domain.SquareViewed) error {
	if event == nil || event.Ref == "" {
		return nil
	}
	if err := s.views.Record(ctx, event); err != nil {
		return fmt.Errorf("record view %s: %w", event.Ref, err)
	}
	return nil
}

// Popular returns the most viewed squares. limit is clamped to 1..100, with
// 0 meaning the default of 10.
func (s *ViewService) Popular(ctx context.Context, limit int) ([]domain.SquareViewCount, error) {
	switch {
	case limit <= 0:
		limit = defaultPopularLimit
	case limit > maxPopularLimit:
		limit = maxPopularLimit
	}
	counts, err := s.views.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top squares: %w", err)
	}
	if counts == nil {
		counts = []domain.SquareViewCount{}
	}
	return counts, nil
}
