package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kvvec_operations_total",
			Help: "Total number of vector operations",
		},
		[]string{"op", "status"},
	)

	VectorGrowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kvvec_vector_grows_total",
			Help: "Total number of backing store reallocations",
		},
	)

	Vectors = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kvvec_vectors",
			Help: "Number of live vectors",
		},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kvvec_operation_duration_seconds",
			Help:    "Vector operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// Observe records one finished operation.
func Observe(op, status string, start time.Time) {
	OperationsTotal.WithLabelValues(op, status).Inc()
	OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
