package resolve

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"modelcatalog/internal/core"
)

// mapCache is a minimal core.Cache for tests.
type mapCache struct {
	mu    sync.Mutex
	items map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]any)}
}

func (m *mapCache) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *mapCache) Set(key string, value any, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *mapCache) Stop() {}

// stubDefaults counts invocations of the static default provider.
type stubDefaults struct {
	calls  atomic.Int64
	config core.ModelsConfig
	err    error
}

func (d *stubDefaults) LoadDefaultModels(ctx context.Context, userID string) (core.ModelsConfig, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return d.config, nil
}

func newTestResolver(t *testing.T, endpoints []core.EndpointConfig, fetcher *stubFetcher, defaults *stubDefaults) *Resolver {
	t.Helper()
	resolver, err := NewResolver(ResolverConfig{
		Endpoints: endpoints,
		Fetcher:   fetcher,
		Defaults:  defaults,
		Cache:     newMapCache(),
	})
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}
	return resolver
}

func TestResolver_SharedFetchScenario(t *testing.T) {
	// Endpoints A and B share baseURL and apiKey; one fetch serves both.
	fetcher := &stubFetcher{models: map[string][]string{"https://x": {"m1", "m2"}}}
	defaults := &stubDefaults{config: core.ModelsConfig{}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		fetchEndpoint("A", "https://x", "K"),
		fetchEndpoint("B", "https://x", "K"),
	}, fetcher, defaults)

	result, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fetcher.calls.Load() != 1 {
		t.Errorf("Expected exactly one fetch call, got %d", fetcher.calls.Load())
	}
	for _, name := range []string{"A", "B"} {
		models := result[name]
		if len(models) != 2 || models[0] != "m1" || models[1] != "m2" {
			t.Errorf("Endpoint %s: expected [m1 m2], got %v", name, models)
		}
	}
}

func TestResolver_EmptyFetchFallsBackToDefault(t *testing.T) {
	fetcher := &stubFetcher{models: map[string][]string{}}
	defaults := &stubDefaults{config: core.ModelsConfig{}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		defaultedEndpoint("C", "https://x", "K", "d1"),
	}, fetcher, defaults)

	result, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if models := result["C"]; len(models) != 1 || models[0] != "d1" {
		t.Errorf("Expected default fallback, got %v", models)
	}
}

func TestResolver_NoCustomEndpointsYieldsDefaultsUnchanged(t *testing.T) {
	fetcher := &stubFetcher{}
	defaults := &stubDefaults{config: core.ModelsConfig{
		"openAI": {"gpt-4o", "gpt-4o-mini"},
	}}
	resolver := newTestResolver(t, nil, fetcher, defaults)

	result, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fetcher.calls.Load() != 0 {
		t.Error("No custom endpoints should mean no fetches")
	}
	if models := result["openAI"]; len(models) != 2 {
		t.Errorf("Defaults should pass through unchanged, got %v", models)
	}
}

func TestResolver_CustomOverridesDefaultOnNameCollision(t *testing.T) {
	fetcher := &stubFetcher{models: map[string][]string{"https://x": {"custom-model"}}}
	defaults := &stubDefaults{config: core.ModelsConfig{
		"Mistral": {"default-model"},
	}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		fetchEndpoint("Mistral", "https://x", "K"),
	}, fetcher, defaults)

	result, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if models := result["Mistral"]; len(models) != 1 || models[0] != "custom-model" {
		t.Errorf("Custom endpoint should overwrite the default entry, got %v", models)
	}
}

func TestResolver_CacheRoundTrip(t *testing.T) {
	fetcher := &stubFetcher{models: map[string][]string{"https://x": {"m1"}}}
	defaults := &stubDefaults{config: core.ModelsConfig{"base": {"b1"}}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		fetchEndpoint("A", "https://x", "K"),
	}, fetcher, defaults)

	first, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, err := resolver.ResolveModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error on cached call: %v", err)
	}

	if fetcher.calls.Load() != 1 {
		t.Errorf("Cached call must not fetch again, got %d calls", fetcher.calls.Load())
	}
	if defaults.calls.Load() != 1 {
		t.Errorf("Cached call must not reload defaults, got %d calls", defaults.calls.Load())
	}
	if len(second) != len(first) {
		t.Errorf("Cached result differs: %v vs %v", second, first)
	}
	for name, models := range first {
		got := second[name]
		if len(got) != len(models) {
			t.Errorf("Endpoint %s: cached %v vs original %v", name, got, models)
			continue
		}
		for i := range models {
			if got[i] != models[i] {
				t.Errorf("Endpoint %s: cached %v vs original %v", name, got, models)
				break
			}
		}
	}
}

func TestResolver_PlainAndDetailedSlotsAreIndependent(t *testing.T) {
	fetcher := &stubFetcher{
		models: map[string][]string{"https://x": {"m1"}},
		details: map[string]map[string]core.ModelDetails{
			"https://x": {"m1": {"context": float64(4096)}},
		},
	}
	defaults := &stubDefaults{config: core.ModelsConfig{}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		fetchEndpoint("A", "https://x", "K"),
	}, fetcher, defaults)

	if _, err := resolver.ResolveModels(context.Background(), "user"); err != nil {
		t.Fatalf("Plain resolution failed: %v", err)
	}

	// The plain slot being warm must not satisfy a detailed read.
	detailed, err := resolver.ResolveModelsWithDetails(context.Background(), "user")
	if err != nil {
		t.Fatalf("Detailed resolution failed: %v", err)
	}
	if fetcher.calls.Load() != 2 {
		t.Errorf("Detailed mode must recompute, got %d fetch calls", fetcher.calls.Load())
	}
	if detailed.ModelDetails["m1"]["context"] != float64(4096) {
		t.Errorf("Detailed result missing details: %+v", detailed.ModelDetails)
	}

	// Second detailed read hits its own slot.
	if _, err := resolver.ResolveModelsWithDetails(context.Background(), "user"); err != nil {
		t.Fatalf("Cached detailed resolution failed: %v", err)
	}
	if fetcher.calls.Load() != 2 {
		t.Errorf("Cached detailed call must not fetch, got %d calls", fetcher.calls.Load())
	}
}

func TestResolver_FetchFailureAborts(t *testing.T) {
	wantErr := errors.New("connection reset")
	fetcher := &stubFetcher{err: wantErr}
	defaults := &stubDefaults{config: core.ModelsConfig{"base": {"b1"}}}
	resolver := newTestResolver(t, []core.EndpointConfig{
		fetchEndpoint("A", "https://x", "K"),
	}, fetcher, defaults)

	if _, err := resolver.ResolveModels(context.Background(), "user"); !errors.Is(err, wantErr) {
		t.Errorf("Fetch failure must abort resolution, got %v", err)
	}
}

func TestResolver_DefaultsErrorPropagates(t *testing.T) {
	wantErr := errors.New("defaults unavailable")
	fetcher := &stubFetcher{}
	defaults := &stubDefaults{err: wantErr}
	resolver := newTestResolver(t, nil, fetcher, defaults)

	if _, err := resolver.ResolveModels(context.Background(), "user"); !errors.Is(err, wantErr) {
		t.Errorf("Defaults provider error must propagate, got %v", err)
	}
}

func TestNewResolver_RequiresDependencies(t *testing.T) {
	if _, err := NewResolver(ResolverConfig{}); err == nil {
		t.Error("Expected error for missing dependencies")
	}
	if _, err := NewResolver(ResolverConfig{Fetcher: &stubFetcher{}, Defaults: &stubDefaults{}}); err == nil {
		t.Error("Expected error for missing cache")
	}
}
