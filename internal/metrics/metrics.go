package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetslot",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	availabilityQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetslot",
			Name:      "availability_queries_total",
			Help:      "Count of availability queries by outcome.",
		},
		[]string{"outcome"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetslot",
			Name:      "bookings_created_total",
			Help:      "Count of booking submissions by outcome.",
		},
		[]string{"outcome"},
	)

	malformedBusyIntervals = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meetslot",
			Name:      "malformed_busy_intervals_total",
			Help:      "Count of calendar busy intervals with unparsable boundaries.",
		},
	)

	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meetslot",
			Name:      "upstream_errors_total",
			Help:      "Count of failed calendar operations by operation.",
		},
		[]string{"op"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, availabilityQueries, bookingsCreated, malformedBusyIntervals, upstreamErrors)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncAvailabilityQuery(outcome string) {
	availabilityQueries.WithLabelValues(outcome).Inc()
}

func IncBookingCreated(outcome string) {
	bookingsCreated.WithLabelValues(outcome).Inc()
}

func AddMalformedBusyIntervals(n int) {
	malformedBusyIntervals.Add(float64(n))
}

func IncUpstreamError(op string) {
	upstreamErrors.WithLabelValues(op).Inc()
}
