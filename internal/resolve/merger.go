package resolve

import "modelcatalog/internal/core"

// MergeResults distributes each group's fetch result to every member of the
// group, substituting a member's default list when the fetched list is empty
// or absent, and folds in the statically resolved endpoints.
func MergeResults(plan *FetchPlan, fetched map[string][]string) core.ModelsConfig {
	result := make(core.ModelsConfig, len(plan.Static)+len(plan.Groups))

	for name, models := range plan.Static {
		result[name] = nonNil(models)
	}

	for _, key := range plan.SortedKeys() {
		group := plan.Groups[key]
		models := fetched[key]
		for _, member := range group.Members {
			if len(models) > 0 {
				result[member.Name] = models
			} else {
				result[member.Name] = nonNil(member.Default)
			}
		}
	}

	return result
}

// MergeDetailedResults is the detailed-mode counterpart: the same fallback
// policy on each group's model list, plus a single modelDetails accumulator
// across all groups. Groups are processed in sorted key order, so a model id
// appearing in multiple providers resolves to the lexically last group's
// entry.
func MergeDetailedResults(plan *FetchPlan, fetched map[string]*core.FetchResult) core.DetailedModelsConfig {
	result := core.DetailedModelsConfig{
		Models:       make(core.ModelsConfig, len(plan.Static)+len(plan.Groups)),
		ModelDetails: make(map[string]core.ModelDetails),
	}

	for name, models := range plan.Static {
		result.Models[name] = nonNil(models)
	}

	for _, key := range plan.SortedKeys() {
		group := plan.Groups[key]
		fetchResult := fetched[key]

		var models []string
		if fetchResult != nil {
			models = fetchResult.Models
		}

		for _, member := range group.Members {
			if len(models) > 0 {
				result.Models[member.Name] = models
			} else {
				result.Models[member.Name] = nonNil(member.Default)
			}
		}

		if fetchResult != nil {
			for id, details := range fetchResult.ModelDetails {
				result.ModelDetails[id] = details
			}
		}
	}

	return result
}

func nonNil(models []string) []string {
	if models == nil {
		return []string{}
	}
	return models
}
