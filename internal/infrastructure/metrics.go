package infrastructure

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the dashboard.
// One instance is created per process and shared through the app container.
type Metrics struct {
	RenderPasses  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	CacheHits     *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics registers and returns the process-wide metrics instance.
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RenderPasses: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tradepulse",
				Name:      "render_passes_total",
				Help:      "Chart render passes by outcome",
			}, []string{"outcome"}),
			QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "tradepulse",
				Name:      "query_duration_seconds",
				Help:      "Warehouse query latency by query name",
				Buckets:   prometheus.DefBuckets,
			}, []string{"query"}),
			CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tradepulse",
				Name:      "query_cache_total",
				Help:      "Query cache lookups by result",
			}, []string{"result"}),
			HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "tradepulse",
				Name:      "http_requests_total",
				Help:      "HTTP requests by path and status",
			}, []string{"path", "status"}),
		}
	})
	return metrics
}

// ObserveQuery records the duration of one warehouse query.
func (m *Metrics) ObserveQuery(name string, start time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
