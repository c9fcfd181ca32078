package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/samirrijal/gridsquare/internal/pkg/config"
	"github.com/samirrijal/gridsquare/internal/workflows"
)

// splitForWorkflow separates relation entries, which go to the worker, from
// entries that are still built locally. Relation files are sent as absolute
// paths so the worker does not resolve them against its own data directory.
func splitForWorkflow(entries []RegionEntry, dir string) ([]workflows.RefreshTarget, []RegionEntry, error) {
	var targets []workflows.RefreshTarget
	var local []RegionEntry
	for _, e := range entries {
		if e.Mode != modeRelation {
			local = append(local, e)
			continue
		}
		path := e.File
		if !filepath.IsAbs(path) {
			abs, err := filepath.Abs(filepath.Join(dir, path))
			if err != nil {
				return nil, nil, fmt.Errorf("region %s: %w", e.Slug, err)
			}
			path = abs
		}
		targets = append(targets, workflows.RefreshTarget{Slug: e.Slug, Name: e.Name, Location: path})
	}
	return targets, local, nil
}

// refreshFailures logs each failed target of a finished refresh and returns
// how many there were.
func refreshFailures(result *workflows.RefreshResult) int {
	if result == nil {
		return 0
	}
	slugs := make([]string, 0, len(result.Failed))
	for slug := range result.Failed {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		slog.Error("boundary refresh failed", "slug", slug, "error", result.Failed[slug])
	}
	return len(slugs)
}

// submitRefresh starts a BoundaryRefreshWorkflow for targets, waits for it
// and returns the number of targets that failed.
func submitRefresh(ctx context.Context, cfg *config.Config, targets []workflows.RefreshTarget) (int, error) {
	if len(targets) == 0 {
		return 0, nil
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		return 0, fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("boundary-refresh-%d", time.Now().Unix()),
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.BoundaryRefreshWorkflow, workflows.RefreshInput{Targets: targets})
	if err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	slog.Info("boundary refresh started", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "targets", len(targets))

	var result workflows.RefreshResult
	if err := run.Get(ctx, &result); err != nil {
		return 0, fmt.Errorf("wait: %w", err)
	}
	failed := refreshFailures(&result)
	slog.Info("boundary refresh finished", "refreshed", len(result.Refreshed), "failed", failed)
	return failed, nil
}
