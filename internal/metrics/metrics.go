package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idish_gateway",
			Name:      "http_requests_total",
			Help:      "Gateway HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	backendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idish_gateway",
			Name:      "backend_requests_total",
			Help:      "Requests issued to the iDISH backend by endpoint group and status code.",
		},
		[]string{"endpoint", "code"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "idish_gateway",
			Name:      "backend_request_seconds",
			Help:      "Latency of backend requests by endpoint group.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idish_gateway",
			Name:      "domain_events_total",
			Help:      "Domain events published on the in-process bus.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, backendRequests, backendLatency, domainEvents)
	})
}

// IncHTTP increments the gateway request counter for a route/code pair.
func IncHTTP(route, code string) {
	httpRequests.WithLabelValues(route, code).Inc()
}

// ObserveBackend records one backend call. The endpoint label is the route
// group, not the full path, to keep cardinality bounded.
func ObserveBackend(endpoint, code string, elapsed time.Duration) {
	backendRequests.WithLabelValues(endpoint, code).Inc()
	backendLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// IncEvent counts a published domain event.
func IncEvent(eventType string) {
	domainEvents.WithLabelValues(eventType).Inc()
}
