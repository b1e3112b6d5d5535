package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors for the pipeline server. They are registered with the default registry
// and served on /metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ytsum_pipeline_requests_total",
			Help: "Cumulative number of pipeline requests decoded.",
		})

	PipelineStatementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytsum_pipeline_statements_total",
			Help: "Cumulative number of stream requests run, by result type.",
		}, []string{"result"})

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ytsum_pipeline_duration_seconds",
			Help:    "Time spent running a whole pipeline.",
			Buckets: prometheus.DefBuckets,
		})
)

func init() {
	prometheus.MustRegister(
		PipelineRequestsTotal,
		PipelineStatementsTotal,
		PipelineDuration,
	)
}
