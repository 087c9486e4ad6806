package resolve

import "modelcatalog/internal/core"

// FilterEligibleEndpoints selects the custom-endpoint configurations the
// pipeline can work with: name, baseURL and apiKey present, and at least one
// of models.fetch or models.default set. A nil or empty input short-circuits
// to an empty slice. Filtering runs on the raw configuration, before any
// name normalization or credential resolution.
func FilterEligibleEndpoints(endpoints []core.EndpointConfig) []core.EndpointConfig {
	eligible := make([]core.EndpointConfig, 0, len(endpoints))
	for _, ep := range endpoints {
		if ep.Name == "" || ep.BaseURL == "" || ep.APIKey == "" {
			continue
		}
		if !ep.Models.Fetch && len(ep.Models.Default) == 0 {
			continue
		}
		eligible = append(eligible, ep)
	}
	return eligible
}
