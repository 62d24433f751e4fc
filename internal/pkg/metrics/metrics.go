package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ClockEvents counts state transitions by kind and outcome.
	ClockEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clock_timer",
		Name:      "clock_events_total",
		Help:      "Clock state transitions processed, by event and outcome.",
	}, []string{"event", "outcome"})

	// NotificationsQueued counts notifications accepted onto the queue.
	NotificationsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clock_timer",
		Name:      "notifications_queued_total",
		Help:      "Notifications accepted for asynchronous delivery.",
	})

	// NotificationsDropped counts notifications rejected by a full queue.
	NotificationsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clock_timer",
		Name:      "notifications_dropped_total",
		Help:      "Notifications dropped because the queue was full.",
	})

	// SSEConnections tracks currently open notification streams.
	SSEConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "clock_timer",
		Name:      "sse_connections",
		Help:      "Open server-sent event streams.",
	})
)

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
