// Package metrics exposes Prometheus collectors for the advisory pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderCalls counts text-generation requests by call site.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finadvisor_provider_calls_total",
		Help: "Text-generation provider calls, labeled by call site.",
	}, []string{"call"})

	// ProviderFailures counts failed or timed-out provider calls.
	ProviderFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finadvisor_provider_failures_total",
		Help: "Provider calls that errored or timed out, labeled by call site.",
	}, []string{"call"})

	// ParserFallbacks counts safe-parser invocations that returned the
	// caller's fallback instead of a decoded value.
	ParserFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finadvisor_parser_fallbacks_total",
		Help: "Model outputs that failed to decode and fell back to defaults.",
	})

	// PipelineDuration observes end-to-end advisory latency.
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "finadvisor_pipeline_duration_seconds",
		Help:    "End-to-end advisory pipeline duration.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})
)
