package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the API and the worker.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	UploadsTotal    prometheus.Counter
	JobsProcessed   *prometheus.CounterVec
}

// InitMetrics creates and registers the collectors.
func InitMetrics() (*Metrics, error) {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "file_uploads_total",
			Help: "Successfully created file records.",
		}),
		JobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Background jobs by queue and outcome.",
		}, []string{"queue", "status"}),
	}

	for _, c := range []prometheus.Collector{m.RequestDuration, m.UploadsTotal, m.JobsProcessed} {
		if err := prometheus.Register(c); err != nil {
			// Re-registration happens in tests; reuse is fine.
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return m, nil
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
