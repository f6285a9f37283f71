// Package metrics exposes Prometheus metrics for the portal.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"local_portal/internal/domain"
)

type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeStreams   *prometheus.GaugeVec
	placeholders    *prometheus.CounterVec
	expired         *prometheus.CounterVec
	sweepDuration   prometheus.Histogram
}

// NewCollector creates the portal metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activeStreams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portal_active_streams",
			Help: "Open server-sent event streams by collection.",
		}, []string{"collection"}),
		placeholders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_placeholder_sections_total",
			Help: "Home page sections served from placeholder data.",
		}, []string{"section", "reason"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_documents_expired_total",
			Help: "Documents flipped to expired by the sweeper.",
		}, []string{"collection"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portal_sweep_duration_seconds",
			Help:    "Duration of expiry sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.activeStreams,
		c.placeholders,
		c.expired,
		c.sweepDuration,
	)

	return c
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) StreamOpened(collection string) {
	c.activeStreams.WithLabelValues(collection).Inc()
}

func (c *Collector) StreamClosed(collection string) {
	c.activeStreams.WithLabelValues(collection).Dec()
}

// RecordPlaceholder counts a section served from placeholder data. reason is
// "error" or "empty".
func (c *Collector) RecordPlaceholder(section, reason string) {
	c.placeholders.WithLabelValues(section, reason).Inc()
}

func (c *Collector) RecordSweep(stats *domain.SweepStats) {
	c.expired.WithLabelValues("classifieds").Add(float64(stats.ClassifiedsExpired))
	c.expired.WithLabelValues("advertisements").Add(float64(stats.AdsExpired))
	c.sweepDuration.Observe(stats.Duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
