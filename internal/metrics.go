package internal

import (
	"sort"
	"sync"
	"time"
)

// MetricsCollector keeps in-process counters for outbound Riot calls and the
// service's own HTTP surface. A background reporter logs a summary once a
// minute.
type MetricsCollector struct {
	logger *Logger

	requestCount    map[string]int64
	requestDuration map[string][]int64
	statusCounts    map[int]int64
	cacheHits       int64
	cacheMisses     int64
	ingestedMatches int64

	mu sync.RWMutex
}

func NewMetricsCollector(logger *Logger) *MetricsCollector {
	mc := &MetricsCollector{
		logger:          logger,
		requestCount:    make(map[string]int64),
		requestDuration: make(map[string][]int64),
		statusCounts:    make(map[int]int64),
	}

	go mc.startMetricsReporter()
	return mc
}

func (mc *MetricsCollector) RecordRequest(endpoint string, duration time.Duration, statusCode int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestCount[endpoint]++
	mc.requestDuration[endpoint] = append(mc.requestDuration[endpoint], duration.Milliseconds())
	mc.statusCounts[statusCode]++
}

func (mc *MetricsCollector) RecordCacheHit(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cacheHits++

	mc.logger.Debug("cache_hit").
		Component("metrics").
		Operation("record_cache").
		Cache(true, key).
		Log()
}

func (mc *MetricsCollector) RecordCacheMiss(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cacheMisses++

	mc.logger.Debug("cache_miss").
		Component("metrics").
		Operation("record_cache").
		Cache(false, key).
		Log()
}

func (mc *MetricsCollector) RecordMatchIngested(matchID string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.ingestedMatches++

	mc.logger.Debug("match_ingested").
		Component("metrics").
		Operation("record_ingest").
		Match("", "", matchID).
		Log()
}

func (mc *MetricsCollector) startMetricsReporter() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mc.reportMetrics()
	}
}

func (mc *MetricsCollector) reportMetrics() {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	totalRequests := int64(0)
	for _, count := range mc.requestCount {
		totalRequests += count
	}
	totalErrors := int64(0)
	for status, count := range mc.statusCounts {
		if status >= 400 {
			totalErrors += count
		}
	}

	mc.logger.Info("metrics_report").
		Component("metrics").
		Operation("report").
		Meta("total_requests", totalRequests).
		Meta("total_errors", totalErrors).
		Meta("cache_hits", mc.cacheHits).
		Meta("cache_misses", mc.cacheMisses).
		Meta("cache_hit_rate_percent", mc.calculateCacheHitRate()).
		Meta("ingested_matches", mc.ingestedMatches).
		Log()

	for endpoint, durations := range mc.requestDuration {
		if len(durations) == 0 {
			continue
		}

		mc.logger.Info("endpoint_performance").
			Component("metrics").
			Operation("performance_report").
			Meta("endpoint", endpoint).
			Meta("request_count", mc.requestCount[endpoint]).
			Meta("avg_duration_ms", average(durations)).
			Meta("p95_duration_ms", percentile(durations, 0.95)).
			Log()
	}
}

func (mc *MetricsCollector) calculateCacheHitRate() float64 {
	total := mc.cacheHits + mc.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(mc.cacheHits) / float64(total) * 100
}

func average(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := int64(0)
	for _, v := range values {
		sum += v
	}

	return float64(sum) / float64(len(values))
}

func percentile(values []int64, p float64) int64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	index := int(p * float64(len(sorted)-1))
	return sorted[index]
}

// GetMetrics returns a snapshot. The maps are copies; callers encode them
// after the lock is released while recording continues on other goroutines.
func (mc *MetricsCollector) GetMetrics() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	requests := make(map[string]int64, len(mc.requestCount))
	for endpoint, count := range mc.requestCount {
		requests[endpoint] = count
	}

	statuses := make(map[int]int64, len(mc.statusCounts))
	for status, count := range mc.statusCounts {
		statuses[status] = count
	}

	return map[string]interface{}{
		"cache": map[string]interface{}{
			"hits":     mc.cacheHits,
			"misses":   mc.cacheMisses,
			"hit_rate": mc.calculateCacheHitRate(),
		},
		"requests":         requests,
		"statuses":         statuses,
		"ingested_matches": mc.ingestedMatches,
	}
}
