package core

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// EndpointConfig describes one custom model provider from the application
// configuration. BaseURL and APIKey may be literals or ${ENV_VAR} references
// resolved at request time.
type EndpointConfig struct {
	Name           string            `json:"name"`
	BaseURL        string            `json:"baseURL"`
	APIKey         string            `json:"apiKey"`
	Headers        map[string]string `json:"headers,omitempty"`
	DirectEndpoint bool              `json:"directEndpoint,omitempty"`
	Models         ModelsSpec        `json:"models"`
}

// ModelsSpec controls how an endpoint's model list is obtained.
type ModelsSpec struct {
	Fetch       bool         `json:"fetch,omitempty"`
	Default     []ModelEntry `json:"default,omitempty"`
	UserIDQuery string       `json:"userIdQuery,omitempty"`
}

// ModelEntry accepts either a bare model id string or an object with a
// "name" field, e.g. ["gpt-4o", {"name": "gpt-4o-mini", "label": "Mini"}].
type ModelEntry struct {
	Name  string
	Extra map[string]any
}

// UnmarshalJSON supports both string and object forms.
func (e *ModelEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		e.Name = s
		e.Extra = nil
		return nil
	}

	var obj map[string]any
	if err := sonic.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("model entry must be a string or an object: %w", err)
	}

	name, _ := obj["name"].(string)
	if name == "" {
		return fmt.Errorf("model entry object missing 'name' field")
	}
	delete(obj, "name")

	e.Name = name
	if len(obj) > 0 {
		e.Extra = obj
	} else {
		e.Extra = nil
	}
	return nil
}

// MarshalJSON emits the compact string form when no extra fields are present.
func (e ModelEntry) MarshalJSON() ([]byte, error) {
	if len(e.Extra) == 0 {
		return sonic.Marshal(e.Name)
	}
	obj := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		obj[k] = v
	}
	obj["name"] = e.Name
	return sonic.Marshal(obj)
}

// ModelEntryNames flattens entries down to their plain identifier strings.
func ModelEntryNames(entries []ModelEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}
	return names
}

// ModelsConfig maps endpoint name to its resolved model identifiers.
type ModelsConfig map[string][]string

// ModelDetails is opaque per-model metadata returned by a provider
// (parameter schema, context window, pricing and so on).
type ModelDetails map[string]any

// DetailedModelsConfig is the detailed-mode resolution result. It is a
// distinct type from ModelsConfig; the two are never converted implicitly.
type DetailedModelsConfig struct {
	Models       ModelsConfig            `json:"models"`
	ModelDetails map[string]ModelDetails `json:"modelDetails"`
}

// FetchParams carries everything the fetch collaborator needs for one
// upstream model-list call.
type FetchParams struct {
	Name        string
	APIKey      string
	BaseURL     string
	UserID      string
	Headers     map[string]string
	Direct      bool
	UserIDQuery string
}

// FetchResult is the detailed fetch variant's return value.
type FetchResult struct {
	Models       []string
	ModelDetails map[string]ModelDetails
}
