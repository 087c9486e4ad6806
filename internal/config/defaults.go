package config

import (
	"context"
	"fmt"
	"os"

	"modelcatalog/internal/core"

	"github.com/bytedance/sonic"
)

// StaticDefaultsProvider serves the baseline ModelsConfig from a static
// JSON file mapping endpoint names to model lists. It is pure with respect
// to the caller: every caller sees the same baseline.
type StaticDefaultsProvider struct {
	config core.ModelsConfig
}

// NewStaticDefaultsProvider loads the default model map from disk. A missing
// file yields an empty baseline rather than an error.
func NewStaticDefaultsProvider(path string, logger core.Logger) (*StaticDefaultsProvider, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path from config, not user input
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("No default models config at %s, baseline is empty", path)
			return &StaticDefaultsProvider{config: core.ModelsConfig{}}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries map[string][]core.ModelEntry
	if err := sonic.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config := make(core.ModelsConfig, len(entries))
	for name, list := range entries {
		config[name] = core.ModelEntryNames(list)
	}

	logger.Info("Loaded default model lists for %d endpoints from %s", len(config), path)
	return &StaticDefaultsProvider{config: config}, nil
}

// LoadDefaultModels returns a copy of the baseline so callers cannot mutate
// the shared map.
func (p *StaticDefaultsProvider) LoadDefaultModels(ctx context.Context, userID string) (core.ModelsConfig, error) {
	result := make(core.ModelsConfig, len(p.config))
	for name, models := range p.config {
		result[name] = models
	}
	return result, nil
}

var _ core.DefaultsProvider = (*StaticDefaultsProvider)(nil)
