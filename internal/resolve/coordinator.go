package resolve

import (
	"context"
	"sync"
	"time"

	"modelcatalog/internal/core"

	"golang.org/x/sync/errgroup"
)

// Coordinator issues at most one upstream fetch per distinct fetch key and
// joins all outstanding fetches before returning. An error from the fetcher
// aborts the whole resolution; empty results are legitimate and handled by
// the merger.
type Coordinator struct {
	fetcher core.ModelFetcher
	metrics core.MetricsCollector
	logger  core.Logger
}

// NewCoordinator creates a fetch coordinator.
func NewCoordinator(fetcher core.ModelFetcher, metrics core.MetricsCollector, logger core.Logger) *Coordinator {
	if metrics == nil {
		metrics = &core.NopMetrics{}
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Coordinator{fetcher: fetcher, metrics: metrics, logger: logger}
}

// FetchAll runs the plain fetch variant for every group concurrently and
// waits for all of them.
func (c *Coordinator) FetchAll(ctx context.Context, plan *FetchPlan) (map[string][]string, error) {
	results := make(map[string][]string, len(plan.Groups))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, group := range plan.Groups {
		group := group
		g.Go(func() error {
			start := time.Now()
			models, err := c.fetcher.FetchModels(ctx, group.Params)
			if err != nil {
				return err
			}
			c.metrics.RecordUpstreamFetch(time.Since(start))
			c.logger.Debug("Fetched %d models for endpoint %s", len(models), group.Params.Name)

			mu.Lock()
			results[group.Key] = models
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FetchAllWithDetails runs the detailed fetch variant for every group
// concurrently and waits for all of them.
func (c *Coordinator) FetchAllWithDetails(ctx context.Context, plan *FetchPlan) (map[string]*core.FetchResult, error) {
	results := make(map[string]*core.FetchResult, len(plan.Groups))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, group := range plan.Groups {
		group := group
		g.Go(func() error {
			start := time.Now()
			result, err := c.fetcher.FetchModelsWithDetails(ctx, group.Params)
			if err != nil {
				return err
			}
			c.metrics.RecordUpstreamFetch(time.Since(start))
			c.logger.Debug("Fetched %d models with details for endpoint %s", len(result.Models), group.Params.Name)

			mu.Lock()
			results[group.Key] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
