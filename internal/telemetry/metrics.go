// Package telemetry holds the Prometheus collectors and OpenTelemetry tracing
// setup shared by the comment service's HTTP adapters.
package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commentbox"

// Metrics is the set of collectors the HTTP adapters report to.
type Metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	commentsPosted prometheus.Counter
	widgetSubmits  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		commentsPosted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_posted_total",
			Help:      "Comments accepted and stored by the service.",
		}),
		widgetSubmits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_submits_total",
			Help:      "Widget form submissions handled by the web host, by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one finished HTTP request. An empty route means no
// pattern matched.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

// CommentPosted counts a stored comment.
func (m *Metrics) CommentPosted() {
	if m == nil {
		return
	}
	m.commentsPosted.Inc()
}

// WidgetSubmit counts a widget form submission with the given outcome
// ("ok", "invalid", "failed").
func (m *Metrics) WidgetSubmit(outcome string) {
	if m == nil {
		return
	}
	m.widgetSubmits.WithLabelValues(outcome).Inc()
}
