package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScrapesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_scrapes_total",
		Help: "The total number of product page scrapes by outcome",
	}, []string{"outcome"})

	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_optimizations_total",
		Help: "The total number of optimize operations by provenance or failure",
	}, []string{"status"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "listing_llm_request_duration_seconds",
		Help:    "Duration of generative service requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	OptimizationScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "listing_optimization_score",
		Help:    "Distribution of computed optimization scores",
		Buckets: []float64{0, 20, 40, 60, 80, 100},
	})

	FeedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_feedback_total",
		Help: "Total number of feedback submissions by rating",
	}, []string{"rating"})
)
