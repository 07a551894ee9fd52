// Package stats provides runtime statistics tracking for ocode sessions.
package stats

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Collector tracks request counters for a running session.
type Collector struct {
	startTime     time.Time
	requestCount  atomic.Int64
	toolCount     atomic.Int64
	cacheHitCount atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

// Stats represents session statistics at a point in time.
type Stats struct {
	Uptime     string      `json:"uptime"`
	Goroutines int         `json:"goroutines"`
	Memory     MemoryStats `json:"memory"`

	RequestCount int64   `json:"request_count"`
	ToolCount    int64   `json:"tool_count"`
	CacheHits    int64   `json:"cache_hits"`
	ErrorCount   int64   `json:"error_count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`

	HistorySize int64 `json:"history_size_bytes"`
}

// MemoryStats represents process memory usage.
type MemoryStats struct {
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	HeapSysMB   float64 `json:"heap_sys_mb"`
	NumGC       uint32  `json:"num_gc"`
}

// Collect returns current statistics. historySize is the on-disk size of
// the history database, 0 when unknown.
func (c *Collector) Collect(historySize int64) *Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	requests := c.requestCount.Load()
	avgLatency := float64(0)
	if requests > 0 {
		avgLatency = float64(c.totalDuration.Load()) / float64(requests) / 1e6
	}

	return &Stats{
		Uptime:     time.Since(c.startTime).String(),
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryStats{
			HeapAllocMB: bytesToMB(int64(m.HeapAlloc)),
			HeapSysMB:   bytesToMB(int64(m.HeapSys)),
			NumGC:       m.NumGC,
		},
		RequestCount: requests,
		ToolCount:    c.toolCount.Load(),
		CacheHits:    c.cacheHitCount.Load(),
		ErrorCount:   c.errorCount.Load(),
		AvgLatencyMs: avgLatency,
		HistorySize:  historySize,
	}
}

// RecordRequest records a completed request.
func (c *Collector) RecordRequest(duration time.Duration) {
	c.requestCount.Add(1)
	c.totalDuration.Add(duration.Nanoseconds())
}

// RecordTool records one tool execution.
func (c *Collector) RecordTool() {
	c.toolCount.Add(1)
}

// RecordCacheHit records one response served from the cache.
func (c *Collector) RecordCacheHit() {
	c.cacheHitCount.Add(1)
}

// RecordError records an error.
func (c *Collector) RecordError() {
	c.errorCount.Add(1)
}

// StartTime returns when the collector started.
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

func bytesToMB(b int64) float64 {
	return float64(b) / (1024 * 1024)
}
