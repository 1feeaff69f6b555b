package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initParserMetrics() {
	r.DocumentsLoadedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_documents_loaded_total",
			Help: "Total number of network documents loaded, by result",
		},
		[]string{"source", "result"},
	)

	r.ParseErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_parse_errors_total",
			Help: "Total number of parser errors, by component category",
		},
		[]string{"category"},
	)

	r.ParseWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "waternet_parse_warnings_total",
			Help: "Total number of parser warnings, by component category",
		},
		[]string{"category"},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waternet_load_duration_seconds",
			Help:    "Document load duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"source"},
	)

	r.DocumentSizeBytes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "waternet_document_size_bytes",
			Help:    "Size of loaded network documents in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
}
