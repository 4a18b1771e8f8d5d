// Package metrics exposes Prometheus collectors for the chunk cache and
// the simulation loops.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_cache_hits_total",
		Help: "Chunk cache hits (in memory or loaded from the persistent store)",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_cache_misses_total",
		Help: "Chunk cache misses (chunk had to be generated)",
	})
	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_cache_evictions_total",
		Help: "Chunks evicted from the LRU cache",
	})
	diskLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_store_loads_total",
		Help: "Chunks loaded from the persistent store",
	})
	diskSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_chunk_store_saves_total",
		Help: "Chunks saved to the persistent store",
	})
	liveChunks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_chunk_cache_live",
		Help: "Chunks currently resident in the cache",
	})
	cacheMemoryBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "world_chunk_cache_memory_bytes",
		Help: "Approximate memory held by cached chunks",
	})
	chunkGenDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "world_chunk_generation_seconds",
		Help:    "Local chunk generation duration",
		Buckets: prometheus.DefBuckets,
	})
	historyTickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "world_history_tick_seconds",
		Help:    "History season tick duration",
		Buckets: prometheus.DefBuckets,
	})
	historyTickEvents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "world_history_tick_events",
		Help:    "Chronicle events appended per history tick",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	pathFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "world_path_bresenham_fallbacks_total",
		Help: "Road paths that exhausted A* and fell back to Bresenham",
	})
)

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() { cacheHits.Inc() }

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() { cacheMisses.Inc() }

// RecordEviction increments the eviction counter.
func RecordEviction() { cacheEvictions.Inc() }

// RecordDiskLoad increments the store load counter.
func RecordDiskLoad() { diskLoads.Inc() }

// RecordDiskSave increments the store save counter.
func RecordDiskSave() { diskSaves.Inc() }

// SetCacheSize updates the live chunk and memory gauges.
func SetCacheSize(chunks int, memoryBytes int) {
	liveChunks.Set(float64(chunks))
	cacheMemoryBytes.Set(float64(memoryBytes))
}

// ObserveChunkGeneration records one chunk generation duration.
func ObserveChunkGeneration(seconds float64) { chunkGenDuration.Observe(seconds) }

// ObserveHistoryTick records one history tick.
func ObserveHistoryTick(seconds float64, events int) {
	historyTickDuration.Observe(seconds)
	historyTickEvents.Observe(float64(events))
}

// RecordPathFallback increments the Bresenham fallback counter.
func RecordPathFallback() { pathFallbacks.Inc() }
