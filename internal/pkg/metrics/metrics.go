package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	clockEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "clock_events_total",
		Help:      "Clock transitions processed, by action and outcome.",
	}, []string{"action", "outcome"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attendance",
		Name:      "operation_duration_seconds",
		Help:      "Attendance engine operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// RecordClockEvent counts one clock transition attempt.
func RecordClockEvent(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	clockEvents.WithLabelValues(action, outcome).Inc()
}

// ObserveOperation records the wall time of one engine operation.
func ObserveOperation(operation string, seconds float64) {
	operationDuration.WithLabelValues(operation).Observe(seconds)
}
