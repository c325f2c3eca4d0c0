package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_analyze_requests_total",
			Help: "Total number of analyze requests handled",
		},
		[]string{"status"},
	)

	AnalyzeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "persona_analyze_duration_seconds",
			Help: "Duration of a full analyze request in seconds",
		},
	)

	InferenceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persona_inference_calls_total",
			Help: "Total number of inference API calls",
		},
		[]string{"operation", "status"},
	)

	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "persona_inference_duration_seconds",
			Help: "Duration of inference API calls in seconds",
		},
		[]string{"operation"},
	)

	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_embedding_cache_hits_total",
			Help: "Total number of embedding cache hits",
		},
	)

	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "persona_embedding_cache_misses_total",
			Help: "Total number of embedding cache misses",
		},
	)
)
