package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"modelcatalog/internal/core"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestLoadEndpoints_ObjectWrapper(t *testing.T) {
	path := writeTempFile(t, "endpoints.json", `{
		"endpoints": [
			{
				"name": "Mistral",
				"baseURL": "https://api.mistral.ai/v1",
				"apiKey": "${MISTRAL_API_KEY}",
				"models": {"fetch": true, "default": ["mistral-small", {"name": "mistral-large"}]}
			}
		]
	}`)

	endpoints := LoadEndpoints(path, &core.NopLogger{})
	if len(endpoints) != 1 {
		t.Fatalf("Expected 1 endpoint, got %d", len(endpoints))
	}

	ep := endpoints[0]
	if ep.Name != "Mistral" || !ep.Models.Fetch {
		t.Errorf("Unexpected endpoint: %+v", ep)
	}
	names := core.ModelEntryNames(ep.Models.Default)
	if len(names) != 2 || names[1] != "mistral-large" {
		t.Errorf("Structured default entries not parsed: %v", names)
	}
}

func TestLoadEndpoints_BareArray(t *testing.T) {
	path := writeTempFile(t, "endpoints.json", `[
		{"name": "A", "baseURL": "https://a", "apiKey": "k", "models": {"fetch": true}}
	]`)

	endpoints := LoadEndpoints(path, &core.NopLogger{})
	if len(endpoints) != 1 || endpoints[0].Name != "A" {
		t.Errorf("Bare array not accepted: %+v", endpoints)
	}
}

func TestLoadEndpoints_MalformedYieldsNone(t *testing.T) {
	path := writeTempFile(t, "endpoints.json", `{"endpoints": {"not": "a list"}}`)
	if endpoints := LoadEndpoints(path, &core.NopLogger{}); endpoints != nil {
		t.Errorf("Malformed list should yield zero endpoints, got %+v", endpoints)
	}
}

func TestLoadEndpoints_MissingFileYieldsNone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if endpoints := LoadEndpoints(path, &core.NopLogger{}); endpoints != nil {
		t.Errorf("Missing file should yield zero endpoints, got %+v", endpoints)
	}
}

func TestStaticDefaultsProvider_Load(t *testing.T) {
	path := writeTempFile(t, "models.json", `{
		"openAI": ["gpt-4o", {"name": "gpt-4o-mini"}],
		"anthropic": ["claude-sonnet-4-5"]
	}`)

	provider, err := NewStaticDefaultsProvider(path, &core.NopLogger{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	config, err := provider.LoadDefaultModels(context.Background(), "user")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(config["openAI"]) != 2 || config["openAI"][1] != "gpt-4o-mini" {
		t.Errorf("Unexpected openAI defaults: %v", config["openAI"])
	}
	if len(config["anthropic"]) != 1 {
		t.Errorf("Unexpected anthropic defaults: %v", config["anthropic"])
	}
}

func TestStaticDefaultsProvider_MissingFileIsEmpty(t *testing.T) {
	provider, err := NewStaticDefaultsProvider(filepath.Join(t.TempDir(), "missing.json"), &core.NopLogger{})
	if err != nil {
		t.Fatalf("Missing file should not error: %v", err)
	}
	config, _ := provider.LoadDefaultModels(context.Background(), "user")
	if len(config) != 0 {
		t.Errorf("Expected empty baseline, got %v", config)
	}
}

func TestStaticDefaultsProvider_CallersCannotMutateBaseline(t *testing.T) {
	path := writeTempFile(t, "models.json", `{"openAI": ["gpt-4o"]}`)
	provider, err := NewStaticDefaultsProvider(path, &core.NopLogger{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	first, _ := provider.LoadDefaultModels(context.Background(), "user")
	first["injected"] = []string{"x"}

	second, _ := provider.LoadDefaultModels(context.Background(), "user")
	if _, ok := second["injected"]; ok {
		t.Error("Mutation leaked into the shared baseline")
	}
}

func TestLoadServerConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CLIENT_API_KEYS", "k1, k2")

	cfg, err := LoadServerConfigFromEnv(&core.NopLogger{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Port != core.DefaultPort {
		t.Errorf("Expected default port, got '%s'", cfg.Port)
	}
	if len(cfg.ClientAPIKeys) != 2 {
		t.Errorf("Expected 2 client keys, got %v", cfg.ClientAPIKeys)
	}
}
