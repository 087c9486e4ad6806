package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"modelcatalog/internal/core"
	"modelcatalog/internal/metrics"

	"github.com/gin-gonic/gin"
)

func (s *Server) callerID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// listModels serves the OpenAI-compatible flattened model list. Endpoint
// names iterate in sorted order so the output is stable across requests;
// a model offered by several endpoints appears once, owned by the first.
func (s *Server) listModels(c *gin.Context) {
	modelsConfig, err := s.resolver.ResolveModels(c.Request.Context(), s.callerID(c))
	if err != nil {
		s.config.Logger.Error("Model resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "failed to resolve models", "type": "server_error"}})
		return
	}

	endpointNames := make([]string, 0, len(modelsConfig))
	for name := range modelsConfig {
		endpointNames = append(endpointNames, name)
	}
	sort.Strings(endpointNames)

	created := time.Now().Unix()
	seen := make(map[string]bool)
	data := make([]core.ModelInfo, 0)
	for _, endpointName := range endpointNames {
		for _, model := range modelsConfig[endpointName] {
			if seen[model] {
				continue
			}
			seen[model] = true
			data = append(data, core.ModelInfo{
				ID:      model,
				Object:  core.ModelObjectType,
				Created: created,
				OwnedBy: endpointName,
			})
		}
	}

	c.JSON(http.StatusOK, core.ModelList{Object: core.ModelListObject, Data: data})
}

// getModelsConfig serves the per-endpoint model lists without details.
func (s *Server) getModelsConfig(c *gin.Context) {
	modelsConfig, err := s.resolver.ResolveModels(c.Request.Context(), s.callerID(c))
	if err != nil {
		s.config.Logger.Error("Model resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve models"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": modelsConfig})
}

// getDetailedModelsConfig serves the per-endpoint model lists together
// with the provider-reported model metadata.
func (s *Server) getDetailedModelsConfig(c *gin.Context) {
	result, err := s.resolver.ResolveModelsWithDetails(c.Request.Context(), s.callerID(c))
	if err != nil {
		s.config.Logger.Error("Detailed model resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve models"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"models": result.Models, "modelDetails": result.ModelDetails})
}

func (s *Server) getStatsData(c *gin.Context) {
	stats := s.metricsService.GetResolutionStats()
	periodStats := metrics.GetPeriodStats(stats.ResolutionHistory, 24, 24*7, 24*30)
	currentQPS := s.metricsService.GetQPS()

	var successRate float64
	var avgResponseTime int64
	if stats.TotalResolutions > 0 {
		successRate = float64(stats.SuccessfulResolutions) / float64(stats.TotalResolutions) * 100
		avgResponseTime = stats.TotalResponseTime / stats.TotalResolutions
	}

	var cacheHitRate float64
	if lookups := stats.CacheHits + stats.CacheMisses; lookups > 0 {
		cacheHitRate = float64(stats.CacheHits) / float64(lookups) * 100
	}

	lastResolution := ""
	if !stats.LastResolutionTime.IsZero() {
		lastResolution = stats.LastResolutionTime.Format(core.TimeFormatDateTime)
	}

	periods := []gin.H{
		{"label": "24h", "resolutions": periodStats[24].Resolutions, "success_rate": periodStats[24].SuccessRate, "avg_response_time": periodStats[24].AvgResponseTime, "qps": periodStats[24].QPS},
		{"label": "7d", "resolutions": periodStats[24*7].Resolutions, "success_rate": periodStats[24*7].SuccessRate, "avg_response_time": periodStats[24*7].AvgResponseTime, "qps": periodStats[24*7].QPS},
		{"label": "30d", "resolutions": periodStats[24*30].Resolutions, "success_rate": periodStats[24*30].SuccessRate, "avg_response_time": periodStats[24*30].AvgResponseTime, "qps": periodStats[24*30].QPS},
	}

	c.JSON(http.StatusOK, gin.H{
		"current_time":         time.Now().Format(core.TimeFormatDateTime),
		"total_resolutions":    stats.TotalResolutions,
		"success_rate":         successRate,
		"avg_response_time":    avgResponseTime,
		"qps":                  fmt.Sprintf("%.3f", currentQPS),
		"upstream_fetches":     stats.UpstreamFetches,
		"cache_hits":           stats.CacheHits,
		"cache_misses":         stats.CacheMisses,
		"cache_hit_rate":       cacheHitRate,
		"last_resolution_time": lastResolution,
		"total_records":        len(stats.ResolutionHistory),
		"periods":              periods,
	})
}
