// Package metrics provides Prometheus metrics for copylistd.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copylist_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "copylist_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	listEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copylist_entries",
			Help: "Number of paths currently in the copy list",
		},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copylist_mutations_total",
			Help: "Total number of copy list mutations by operation",
		},
		[]string{"op"},
	)

	subscribersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "copylist_subscribers_active",
			Help: "Number of connected change notification subscribers",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "copylist_notifications_total",
			Help: "Total number of change notifications by outcome",
		},
		[]string{"topic", "outcome"},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetListEntries sets the current copy list length.
func SetListEntries(n int) {
	listEntries.Set(float64(n))
}

// RecordMutation counts a successful add, remove or clear.
func RecordMutation(op string) {
	mutationsTotal.WithLabelValues(op).Inc()
}

// SetSubscribersActive sets the number of connected subscribers.
func SetSubscribersActive(n int) {
	subscribersActive.Set(float64(n))
}

// RecordNotification counts a notification delivered to or dropped for one subscriber.
func RecordNotification(topic string, delivered bool) {
	outcome := "delivered"
	if !delivered {
		outcome = "dropped"
	}
	notificationsTotal.WithLabelValues(topic, outcome).Inc()
}

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
