package core

import (
	"context"
	"time"
)

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// Cache is the key/value store behind the resolution cache. Values are
// serialized byte slices so that in-process and Redis implementations
// behave identically. Expiry policy belongs to the store, not the caller.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, duration time.Duration)
	Stop()
}

// StorageInterface persists resolution stats across restarts.
type StorageInterface interface {
	SaveStats(stats *ResolutionStats) error
	LoadStats() (*ResolutionStats, error)
	Close() error
}

// ModelFetcher retrieves model lists from a provider. Implementations must
// recover from provider-side failures by returning an empty list; an error
// return aborts the whole resolution for the request.
type ModelFetcher interface {
	FetchModels(ctx context.Context, params FetchParams) ([]string, error)
	FetchModelsWithDetails(ctx context.Context, params FetchParams) (*FetchResult, error)
}

// DefaultsProvider supplies the baseline ModelsConfig from static
// configuration. Must be pure with respect to the caller.
type DefaultsProvider interface {
	LoadDefaultModels(ctx context.Context, userID string) (ModelsConfig, error)
}

// MetricsCollector interface
type MetricsCollector interface {
	RecordResolution(success bool, duration time.Duration, detailed bool, cacheHit bool)
	RecordCacheHit()
	RecordCacheMiss()
	RecordUpstreamFetch(duration time.Duration)
	GetQPS() float64
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordResolution(success bool, duration time.Duration, detailed bool, cacheHit bool) {
}
func (*NopMetrics) RecordCacheHit()                             {}
func (*NopMetrics) RecordCacheMiss()                            {}
func (*NopMetrics) RecordUpstreamFetch(duration time.Duration)  {}
func (*NopMetrics) GetQPS() float64                             { return 0 }
