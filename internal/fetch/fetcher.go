// Package fetch implements the upstream model-list collaborator for
// OpenAI-compatible providers. Provider-side failures are recovered to an
// empty list so that the resolution pipeline can fall back to configured
// defaults; only request-construction errors propagate.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"modelcatalog/internal/core"
	"modelcatalog/internal/util"
)

// HTTPModelFetcher fetches model lists over HTTP.
type HTTPModelFetcher struct {
	client *http.Client
	logger core.Logger
}

// NewHTTPModelFetcher creates a fetcher using the given client.
func NewHTTPModelFetcher(client *http.Client, logger core.Logger) *HTTPModelFetcher {
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &HTTPModelFetcher{client: client, logger: logger}
}

// modelsResponse tolerates the response shapes seen across providers: the
// OpenAI "data" array of objects, a "models" array, or a bare string array.
type modelsResponse struct {
	Data   []map[string]any `json:"data"`
	Models []any            `json:"models"`
}

// FetchModels retrieves the plain model identifier list for one endpoint.
func (f *HTTPModelFetcher) FetchModels(ctx context.Context, params core.FetchParams) ([]string, error) {
	result, err := f.fetch(ctx, params, false)
	if err != nil {
		return nil, err
	}
	return result.Models, nil
}

// FetchModelsWithDetails retrieves model identifiers plus the per-model
// metadata objects the provider returned.
func (f *HTTPModelFetcher) FetchModelsWithDetails(ctx context.Context, params core.FetchParams) (*core.FetchResult, error) {
	return f.fetch(ctx, params, true)
}

func (f *HTTPModelFetcher) fetch(ctx context.Context, params core.FetchParams, withDetails bool) (*core.FetchResult, error) {
	requestURL, err := buildModelsURL(params)
	if err != nil {
		return nil, fmt.Errorf("invalid models URL for endpoint %s: %w", params.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build models request for endpoint %s: %w", params.Name, err)
	}

	req.Header.Set(core.HeaderContentType, core.ContentTypeJSON)
	if params.APIKey != "" {
		req.Header.Set(core.HeaderAuthorization, core.AuthBearerPrefix+params.APIKey)
	}
	for name, value := range params.Headers {
		req.Header.Set(name, value)
	}

	empty := &core.FetchResult{Models: []string{}, ModelDetails: map[string]core.ModelDetails{}}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Warn("Model fetch for endpoint %s failed: %v", params.Name, err)
		return empty, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("Model fetch for endpoint %s returned status %d", params.Name, resp.StatusCode)
		return empty, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	if err != nil {
		f.logger.Warn("Failed to read models response for endpoint %s: %v", params.Name, err)
		return empty, nil
	}

	result, ok := parseModelsBody(body, withDetails)
	if !ok {
		f.logger.Warn("Unrecognized models response from endpoint %s", params.Name)
		return empty, nil
	}
	return result, nil
}

// buildModelsURL joins the models path onto the base URL; a direct endpoint
// is used exactly as configured. The user id query is appended when the
// endpoint declares one.
func buildModelsURL(params core.FetchParams) (string, error) {
	raw := params.BaseURL
	if !params.Direct {
		raw = strings.TrimSuffix(raw, "/") + "/models"
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}

	if params.UserIDQuery != "" && params.UserID != "" {
		query := parsed.Query()
		query.Set(params.UserIDQuery, params.UserID)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

func parseModelsBody(body []byte, withDetails bool) (*core.FetchResult, bool) {
	result := &core.FetchResult{Models: []string{}, ModelDetails: map[string]core.ModelDetails{}}

	var envelope modelsResponse
	if err := util.UnmarshalJSON(body, &envelope); err == nil && (envelope.Data != nil || envelope.Models != nil) {
		for _, item := range envelope.Data {
			appendModelObject(result, item, withDetails)
		}
		for _, item := range envelope.Models {
			switch v := item.(type) {
			case string:
				result.Models = append(result.Models, v)
			case map[string]any:
				appendModelObject(result, v, withDetails)
			}
		}
		return result, true
	}

	var ids []string
	if err := util.UnmarshalJSON(body, &ids); err == nil {
		result.Models = append(result.Models, ids...)
		return result, true
	}

	return nil, false
}

// appendModelObject records one provider model object, preferring "id" and
// falling back to "name" for the identifier.
func appendModelObject(result *core.FetchResult, obj map[string]any, withDetails bool) {
	id, _ := obj["id"].(string)
	if id == "" {
		id, _ = obj["name"].(string)
	}
	if id == "" {
		return
	}

	result.Models = append(result.Models, id)
	if withDetails {
		details := make(core.ModelDetails, len(obj))
		for k, v := range obj {
			details[k] = v
		}
		result.ModelDetails[id] = details
	}
}

var _ core.ModelFetcher = (*HTTPModelFetcher)(nil)
