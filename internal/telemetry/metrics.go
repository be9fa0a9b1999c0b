package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	actionExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actuator_action_executions_total",
		Help: "Total workflow actions executed, by kind and result status",
	}, []string{"kind", "status"})

	actionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "actuator_action_duration_seconds",
		Help:    "Workflow action execution time",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// APIRequests — счётчик запросов к HTTP API.
	APIRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuator_api_http_requests_total",
		Help: "Total HTTP requests handled by actuator-api",
	})
)

// ObserveAction записывает результат выполнения действия.
func ObserveAction(kind, status string, elapsed time.Duration) {
	actionExecutions.WithLabelValues(kind, status).Inc()
	actionDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
