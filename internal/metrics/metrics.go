package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arigato_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// OptimizeDuration tracks provider latency per style and outcome.
	OptimizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arigato_optimize_duration_seconds",
		Help:    "Time spent waiting for an optimization.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"style", "outcome"})

	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arigato_optimizations_total",
		Help: "Optimizations by target AI, style and outcome.",
	}, []string{"target", "style", "outcome"})

	PromptChars = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arigato_prompt_chars",
		Help:    "Number of characters in submitted rough prompts.",
		Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000},
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arigato_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arigato_active_sessions",
		Help: "Browser sessions currently held in memory.",
	})
)
