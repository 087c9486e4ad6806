package resolve

import (
	"sort"

	"modelcatalog/internal/core"
	"modelcatalog/internal/util"
)

// GroupMember is one endpoint participating in a fetch group, carrying the
// fallback list applied when the group's fetch comes back empty.
type GroupMember struct {
	Name    string
	Default []string
}

// FetchGroup is the set of endpoints sharing one fetch key. Params is taken
// from the first endpoint seen for the key.
type FetchGroup struct {
	Key     string
	Params  core.FetchParams
	Members []GroupMember
}

// FetchPlan partitions the eligible endpoints into fetch groups and
// statically resolved entries. Group membership is fixed here, before any
// fetch is issued.
type FetchPlan struct {
	Groups map[string]*FetchGroup
	Static core.ModelsConfig
}

// BuildFetchPlan computes the fetch key for every fetch-requiring endpoint
// and collapses endpoints sharing a (resolved baseURL, resolved apiKey) pair
// into a single group. Endpoints that do not fetch, or whose credentials are
// the per-user sentinel, resolve immediately from their default list.
func BuildFetchPlan(endpoints []core.EndpointConfig, userID string) *FetchPlan {
	plan := &FetchPlan{
		Groups: make(map[string]*FetchGroup),
		Static: make(core.ModelsConfig),
	}

	for _, ep := range endpoints {
		name := util.NormalizeEndpointName(ep.Name)
		defaults := core.ModelEntryNames(ep.Models.Default)

		if !ep.Models.Fetch {
			plan.Static[name] = defaults
			continue
		}

		baseURL := util.ExtractEnvVariable(ep.BaseURL)
		apiKey := util.ExtractEnvVariable(ep.APIKey)

		// Per-user credentials are never fetched on the shared path.
		if util.IsUserProvided(baseURL) || util.IsUserProvided(apiKey) {
			plan.Static[name] = defaults
			continue
		}

		key := baseURL + core.FetchKeySeparator + apiKey
		group, exists := plan.Groups[key]
		if !exists {
			group = &FetchGroup{
				Key: key,
				Params: core.FetchParams{
					Name:        ep.Name,
					APIKey:      apiKey,
					BaseURL:     baseURL,
					UserID:      userID,
					Headers:     ep.Headers,
					Direct:      ep.DirectEndpoint,
					UserIDQuery: ep.Models.UserIDQuery,
				},
			}
			plan.Groups[key] = group
		}
		group.Members = append(group.Members, GroupMember{Name: name, Default: defaults})
	}

	return plan
}

// SortedKeys returns the group keys in ascending order. The merger processes
// groups in this order so that detail collisions resolve deterministically.
func (p *FetchPlan) SortedKeys() []string {
	keys := make([]string, 0, len(p.Groups))
	for key := range p.Groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
