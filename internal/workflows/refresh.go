package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// RefreshTarget names one region to rebuild from a relation document.
type RefreshTarget struct {
	Slug     string
	Name     string
	Location string
}

// RefreshInput is the input for the boundary refresh workflow.
type RefreshInput struct {
	Targets []RefreshTarget
}

// RefreshResult reports which regions were rebuilt. Failed maps a slug to
// the error that stopped it.
type RefreshResult struct {
	Refreshed []string
	Failed    map[string]string
}

// BoundaryRefreshWorkflow loads, assembles and saves each target in turn.
// A failing target is recorded and skipped; it never aborts the others.
func BoundaryRefreshWorkflow(ctx workflow.Context, input RefreshInput) (*RefreshResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting boundary refresh", "targets", len(input.Targets))

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	result := &RefreshResult{Refreshed: []string{}, Failed: map[string]string{}}
	for _, target := range input.Targets {
		if err := refreshOne(ctx, target); err != nil {
			logger.Warn("boundary refresh failed", "slug", target.Slug, "error", err)
			result.Failed[target.Slug] = err.Error()
			continue
		}
		result.Refreshed = append(result.Refreshed, target.Slug)
	}

	logger.Info("Boundary refresh finished", "refreshed", len(result.Refreshed), "failed", len(result.Failed))
	return result, nil
}

func refreshOne(ctx workflow.Context, target RefreshTarget) error {
	var rel domain.OSMElement
	if err := workflow.ExecuteActivity(ctx, "LoadRelation", target.Location).Get(ctx, &rel); err != nil {
		return err
	}

	var region domain.Region
	if err := workflow.ExecuteActivity(ctx, "AssembleRegion", target.Slug, target.Name, &rel).Get(ctx, &region); err != nil {
		return err
	}

	return workflow.ExecuteActivity(ctx, "SaveRegion", &region).Get(ctx, nil)
}
