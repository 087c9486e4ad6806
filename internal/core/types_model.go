package core

import "time"

// ModelInfo represents a single model entry in the OpenAI-compatible
// models list response.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the OpenAI-compatible model list response.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// ResolutionRecord is one resolved request in the stats history.
type ResolutionRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ResponseTime int64     `json:"response_time"`
	Detailed     bool      `json:"detailed"`
	CacheHit     bool      `json:"cache_hit"`
}

// ResolutionStats aggregates resolution metrics for persistence and the
// stats endpoints.
type ResolutionStats struct {
	TotalResolutions      int64              `json:"total_resolutions"`
	SuccessfulResolutions int64              `json:"successful_resolutions"`
	FailedResolutions     int64              `json:"failed_resolutions"`
	TotalResponseTime     int64              `json:"total_response_time"`
	UpstreamFetches       int64              `json:"upstream_fetches"`
	CacheHits             int64              `json:"cache_hits"`
	CacheMisses           int64              `json:"cache_misses"`
	LastResolutionTime    time.Time          `json:"last_resolution_time"`
	ResolutionHistory     []ResolutionRecord `json:"resolution_history"`
}

// PeriodStats summarizes a trailing time window.
type PeriodStats struct {
	Resolutions     int64   `json:"resolutions"`
	SuccessRate     float64 `json:"successRate"`
	AvgResponseTime int64   `json:"avgResponseTime"`
	QPS             float64 `json:"qps"`
}
