package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	initsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segd",
			Subsystem: "manager",
			Name:      "inits_total",
			Help:      "Initialize calls by result (loaded, already, error)",
		},
		[]string{"result"},
	)

	segmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "segd",
			Subsystem: "manager",
			Name:      "segments_total",
			Help:      "Segmentation requests by result",
		},
		[]string{"result"},
	)

	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "segd",
			Subsystem: "manager",
			Name:      "cache_hits_total",
			Help:      "Segmentation responses replayed from the result cache",
		},
	)

	slotWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segd",
			Subsystem: "manager",
			Name:      "slot_wait_seconds",
			Help:      "Time segmentation calls spent waiting for the in-flight slot",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60},
		},
	)

	segmentDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "segd",
			Subsystem: "manager",
			Name:      "segment_duration_seconds",
			Help:      "Decode, bind and predict duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(initsTotal, segmentsTotal, cacheHitsTotal, slotWait, segmentDuration)
}

// resultLabel buckets an error into a low-cardinality metric label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotInitialized(err):
		return "not_initialized"
	case IsInvalidRequest(err):
		return "invalid"
	case IsResourceLoad(err):
		return "load_error"
	case IsDependencyUnavailable(err):
		return "unavailable"
	case IsSerialization(err):
		return "serialization_error"
	case IsInference(err):
		return "inference_error"
	default:
		return "error"
	}
}
