package resolve

import (
	"context"
	"fmt"
	"time"

	"modelcatalog/internal/core"
	"modelcatalog/internal/util"
)

// Resolver runs the full model-resolution pipeline behind a cache-aside
// wrapper. It holds no per-request state; the injected cache is the only
// resource shared across concurrent callers. Plain and detailed resolutions
// use distinct cache slots and are never converted into one another.
//
// There is no locking around the miss path: concurrent callers that miss
// simultaneously each recompute and redundantly write the same slot. Writes
// are idempotent for identical inputs, so the last write winning is safe.
type Resolver struct {
	endpoints   []core.EndpointConfig
	coordinator *Coordinator
	defaults    core.DefaultsProvider
	cache       core.Cache
	metrics     core.MetricsCollector
	logger      core.Logger
}

// ResolverConfig carries the resolver's dependencies.
type ResolverConfig struct {
	Endpoints []core.EndpointConfig
	Fetcher   core.ModelFetcher
	Defaults  core.DefaultsProvider
	Cache     core.Cache
	Metrics   core.MetricsCollector
	Logger    core.Logger
}

// NewResolver creates a resolver instance.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required in ResolverConfig")
	}
	if cfg.Defaults == nil {
		return nil, fmt.Errorf("defaults provider is required in ResolverConfig")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache is required in ResolverConfig")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &core.NopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = &core.NopLogger{}
	}

	return &Resolver{
		endpoints:   cfg.Endpoints,
		coordinator: NewCoordinator(cfg.Fetcher, cfg.Metrics, cfg.Logger),
		defaults:    cfg.Defaults,
		cache:       cfg.Cache,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}, nil
}

// ResolveModels returns the plain per-endpoint model lists for the caller,
// serving from the plain cache slot when possible.
func (r *Resolver) ResolveModels(ctx context.Context, userID string) (core.ModelsConfig, error) {
	start := time.Now()

	var cached core.ModelsConfig
	if r.readSlot(core.ModelsCacheKeyBase, &cached) {
		r.metrics.RecordResolution(true, time.Since(start), false, true)
		return cached, nil
	}
	r.metrics.RecordCacheMiss()

	defaults, err := r.defaults.LoadDefaultModels(ctx, userID)
	if err != nil {
		r.metrics.RecordResolution(false, time.Since(start), false, false)
		return nil, fmt.Errorf("failed to load default models: %w", err)
	}

	plan := BuildFetchPlan(FilterEligibleEndpoints(r.endpoints), userID)
	fetched, err := r.coordinator.FetchAll(ctx, plan)
	if err != nil {
		r.metrics.RecordResolution(false, time.Since(start), false, false)
		return nil, err
	}

	merged := mergeWithDefaults(defaults, MergeResults(plan, fetched))
	r.writeSlot(core.ModelsCacheKeyBase, merged)
	r.metrics.RecordResolution(true, time.Since(start), false, false)
	return merged, nil
}

// ResolveModelsWithDetails returns the detailed resolution result, serving
// from the detailed cache slot when possible.
func (r *Resolver) ResolveModelsWithDetails(ctx context.Context, userID string) (core.DetailedModelsConfig, error) {
	start := time.Now()

	var cached core.DetailedModelsConfig
	if r.readSlot(core.ModelsCacheKeyDetailed, &cached) {
		r.metrics.RecordResolution(true, time.Since(start), true, true)
		return cached, nil
	}
	r.metrics.RecordCacheMiss()

	defaults, err := r.defaults.LoadDefaultModels(ctx, userID)
	if err != nil {
		r.metrics.RecordResolution(false, time.Since(start), true, false)
		return core.DetailedModelsConfig{}, fmt.Errorf("failed to load default models: %w", err)
	}

	plan := BuildFetchPlan(FilterEligibleEndpoints(r.endpoints), userID)
	fetched, err := r.coordinator.FetchAllWithDetails(ctx, plan)
	if err != nil {
		r.metrics.RecordResolution(false, time.Since(start), true, false)
		return core.DetailedModelsConfig{}, err
	}

	result := MergeDetailedResults(plan, fetched)
	result.Models = mergeWithDefaults(defaults, result.Models)

	r.writeSlot(core.ModelsCacheKeyDetailed, result)
	r.metrics.RecordResolution(true, time.Since(start), true, false)
	return result, nil
}

// readSlot deserializes a cached value into out, recording a hit on success.
func (r *Resolver) readSlot(key string, out any) bool {
	value, found := r.cache.Get(key)
	if !found {
		return false
	}

	data, ok := value.([]byte)
	if !ok {
		r.logger.Warn("Unexpected cache value type for %s, recomputing", key)
		return false
	}
	if err := util.UnmarshalJSON(data, out); err != nil {
		r.logger.Warn("Failed to decode cached value for %s: %v", key, err)
		return false
	}

	r.metrics.RecordCacheHit()
	return true
}

// writeSlot serializes and stores a resolution result.
func (r *Resolver) writeSlot(key string, value any) {
	data, err := util.MarshalJSON(value)
	if err != nil {
		r.logger.Warn("Failed to encode resolution result for %s: %v", key, err)
		return
	}
	r.cache.Set(key, data, core.ModelsCacheTTL)
}

// mergeWithDefaults overlays the custom-endpoint results on the baseline
// config; a custom endpoint wins any name collision with a default entry.
func mergeWithDefaults(defaults, custom core.ModelsConfig) core.ModelsConfig {
	merged := make(core.ModelsConfig, len(defaults)+len(custom))
	for name, models := range defaults {
		merged[name] = models
	}
	for name, models := range custom {
		merged[name] = models
	}
	return merged
}
