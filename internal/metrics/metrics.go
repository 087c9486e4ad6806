package metrics

import (
	"embed"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"modelcatalog/internal/core"

	"github.com/gin-gonic/gin"
)

// StatsPageHTML holds the embedded monitoring dashboard HTML.
//
//go:embed static/index.html
var StatsPageHTML embed.FS

// atomicResolutionStats thread-safe resolution counters
type atomicResolutionStats struct {
	TotalResolutions      atomic.Int64
	SuccessfulResolutions atomic.Int64
	FailedResolutions     atomic.Int64
	TotalResponseTime     atomic.Int64
	UpstreamFetches       atomic.Int64
	CacheHits             atomic.Int64
	CacheMisses           atomic.Int64
}

// MetricsConfig configuration for MetricsService
type MetricsConfig struct {
	SaveInterval time.Duration
	HistorySize  int
	Storage      core.StorageInterface
	Logger       core.Logger
}

// MetricsService collects and manages resolution metrics
type MetricsService struct {
	atomicStats        atomicResolutionStats
	resolutionHistory  []core.ResolutionRecord
	historyMu          sync.RWMutex
	lastResolutionTime time.Time
	maxHistorySize     int
	storage            core.StorageInterface
	logger             core.Logger
	lastSaveTime       time.Time
	minSaveInterval    time.Duration
	done               chan struct{}
	historyBuffer      []core.ResolutionRecord
	bufferMu           sync.Mutex
	bufferFlushTimer   *time.Ticker
	recentRequests     []time.Time
	recentMu           sync.Mutex
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(config MetricsConfig) *MetricsService {
	ms := &MetricsService{
		maxHistorySize:  config.HistorySize,
		storage:         config.Storage,
		logger:          config.Logger,
		minSaveInterval: config.SaveInterval,
		done:            make(chan struct{}),
		historyBuffer:   make([]core.ResolutionRecord, 0, core.HistoryBatchSize),
	}

	ms.bufferFlushTimer = time.NewTicker(core.HistoryFlushInterval)
	go ms.flushLoop()

	return ms
}

func (ms *MetricsService) flushLoop() {
	for {
		select {
		case <-ms.bufferFlushTimer.C:
			ms.flushBuffer()
		case <-ms.done:
			return
		}
	}
}

func (ms *MetricsService) flushBuffer() {
	ms.bufferMu.Lock()
	if len(ms.historyBuffer) == 0 {
		ms.bufferMu.Unlock()
		return
	}
	batch := ms.historyBuffer
	ms.historyBuffer = make([]core.ResolutionRecord, 0, core.HistoryBatchSize)
	ms.bufferMu.Unlock()

	ms.historyMu.Lock()
	ms.resolutionHistory = append(ms.resolutionHistory, batch...)
	if len(ms.resolutionHistory) > ms.maxHistorySize {
		ms.resolutionHistory = ms.resolutionHistory[len(ms.resolutionHistory)-ms.maxHistorySize:]
	}
	ms.historyMu.Unlock()
}

// RecordResolution records one resolution request outcome
func (ms *MetricsService) RecordResolution(success bool, duration time.Duration, detailed bool, cacheHit bool) {
	now := time.Now()
	responseTime := duration.Milliseconds()

	ms.historyMu.Lock()
	ms.lastResolutionTime = now
	ms.historyMu.Unlock()

	ms.atomicStats.TotalResolutions.Add(1)
	ms.atomicStats.TotalResponseTime.Add(responseTime)
	if success {
		ms.atomicStats.SuccessfulResolutions.Add(1)
	} else {
		ms.atomicStats.FailedResolutions.Add(1)
	}

	ms.recentMu.Lock()
	ms.recentRequests = append(ms.recentRequests, now)
	ms.recentRequests = trimBefore(ms.recentRequests, now.Add(-1*time.Minute))
	ms.recentMu.Unlock()

	record := core.ResolutionRecord{
		Timestamp:    now,
		Success:      success,
		ResponseTime: responseTime,
		Detailed:     detailed,
		CacheHit:     cacheHit,
	}

	ms.bufferMu.Lock()
	ms.historyBuffer = append(ms.historyBuffer, record)
	shouldFlush := len(ms.historyBuffer) >= core.HistoryBatchSize
	ms.bufferMu.Unlock()

	if shouldFlush {
		ms.flushBuffer()
	}

	ms.SaveStatsDebounced()
}

// RecordCacheHit records a resolution cache hit
func (ms *MetricsService) RecordCacheHit() {
	ms.atomicStats.CacheHits.Add(1)
}

// RecordCacheMiss records a resolution cache miss
func (ms *MetricsService) RecordCacheMiss() {
	ms.atomicStats.CacheMisses.Add(1)
}

// RecordUpstreamFetch records one upstream model-list fetch
func (ms *MetricsService) RecordUpstreamFetch(duration time.Duration) {
	ms.atomicStats.UpstreamFetches.Add(1)
}

// GetQPS returns current QPS
func (ms *MetricsService) GetQPS() float64 {
	ms.recentMu.Lock()
	defer ms.recentMu.Unlock()

	ms.recentRequests = trimBefore(ms.recentRequests, time.Now().Add(-1*time.Minute))
	if len(ms.recentRequests) == 0 {
		return 0
	}
	return math.Round(float64(len(ms.recentRequests))/60.0*1000) / 1000
}

func trimBefore(times []time.Time, cutoff time.Time) []time.Time {
	startIdx := 0
	for startIdx < len(times) && times[startIdx].Before(cutoff) {
		startIdx++
	}
	if startIdx == 0 {
		return times
	}
	trimmed := make([]time.Time, len(times)-startIdx)
	copy(trimmed, times[startIdx:])
	return trimmed
}

// GetResolutionStats returns current stats snapshot
func (ms *MetricsService) GetResolutionStats() core.ResolutionStats {
	ms.flushBuffer()
	ms.historyMu.RLock()
	defer ms.historyMu.RUnlock()

	historyCopy := make([]core.ResolutionRecord, len(ms.resolutionHistory))
	copy(historyCopy, ms.resolutionHistory)

	return core.ResolutionStats{
		TotalResolutions:      ms.atomicStats.TotalResolutions.Load(),
		SuccessfulResolutions: ms.atomicStats.SuccessfulResolutions.Load(),
		FailedResolutions:     ms.atomicStats.FailedResolutions.Load(),
		TotalResponseTime:     ms.atomicStats.TotalResponseTime.Load(),
		UpstreamFetches:       ms.atomicStats.UpstreamFetches.Load(),
		CacheHits:             ms.atomicStats.CacheHits.Load(),
		CacheMisses:           ms.atomicStats.CacheMisses.Load(),
		LastResolutionTime:    ms.lastResolutionTime,
		ResolutionHistory:     historyCopy,
	}
}

// GetPeriodStats computes period statistics for multiple hour windows in a single pass.
func GetPeriodStats(history []core.ResolutionRecord, hourPeriods ...int) map[int]core.PeriodStats {
	if len(hourPeriods) == 0 {
		return nil
	}

	now := time.Now()
	cutoffs := make([]time.Time, len(hourPeriods))
	resolutions := make([]int64, len(hourPeriods))
	successful := make([]int64, len(hourPeriods))
	responseTime := make([]int64, len(hourPeriods))

	for i, hours := range hourPeriods {
		cutoffs[i] = now.Add(-time.Duration(hours) * time.Hour)
	}

	for _, record := range history {
		for i, cutoff := range cutoffs {
			if record.Timestamp.After(cutoff) {
				resolutions[i]++
				responseTime[i] += record.ResponseTime
				if record.Success {
					successful[i]++
				}
			}
		}
	}

	result := make(map[int]core.PeriodStats, len(hourPeriods))
	for i, hours := range hourPeriods {
		stats := core.PeriodStats{
			Resolutions: resolutions[i],
			QPS:         float64(resolutions[i]) / (float64(hours) * 3600.0),
		}
		if resolutions[i] > 0 {
			stats.SuccessRate = float64(successful[i]) / float64(resolutions[i]) * 100
			stats.AvgResponseTime = responseTime[i] / resolutions[i]
		}
		result[hours] = stats
	}
	return result
}

// LoadStats loads stats from storage
func (ms *MetricsService) LoadStats() error {
	if ms.storage == nil {
		return nil
	}
	stats, err := ms.storage.LoadStats()
	if err != nil {
		return err
	}

	ms.atomicStats.TotalResolutions.Store(stats.TotalResolutions)
	ms.atomicStats.SuccessfulResolutions.Store(stats.SuccessfulResolutions)
	ms.atomicStats.FailedResolutions.Store(stats.FailedResolutions)
	ms.atomicStats.TotalResponseTime.Store(stats.TotalResponseTime)
	ms.atomicStats.UpstreamFetches.Store(stats.UpstreamFetches)
	ms.atomicStats.CacheHits.Store(stats.CacheHits)
	ms.atomicStats.CacheMisses.Store(stats.CacheMisses)
	ms.lastResolutionTime = stats.LastResolutionTime

	ms.historyMu.Lock()
	ms.resolutionHistory = stats.ResolutionHistory
	ms.historyMu.Unlock()

	return nil
}

// SaveStatsDebounced saves stats with debounce
func (ms *MetricsService) SaveStatsDebounced() {
	now := time.Now()
	ms.historyMu.Lock()
	if now.Sub(ms.lastSaveTime) < ms.minSaveInterval {
		ms.historyMu.Unlock()
		return
	}
	ms.lastSaveTime = now
	ms.historyMu.Unlock()

	if ms.storage == nil {
		return
	}

	stats := ms.GetResolutionStats()
	if err := ms.storage.SaveStats(&stats); err != nil {
		ms.logger.Warn("Failed to save stats: %v", err)
	}
}

// Close saves final stats and stops
func (ms *MetricsService) Close() error {
	close(ms.done)
	ms.bufferFlushTimer.Stop()
	ms.flushBuffer()

	if ms.storage != nil {
		stats := ms.GetResolutionStats()
		return ms.storage.SaveStats(&stats)
	}
	return nil
}

// ShowStatsPage serves the stats HTML page
func ShowStatsPage(c *gin.Context) {
	data, err := StatsPageHTML.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load stats page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

var _ core.MetricsCollector = (*MetricsService)(nil)
