package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by handler.",
		},
		[]string{"handler"},
	)

	availabilityComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "availability_computed_total",
			Help:      "Count of full-day availability computations.",
		},
	)

	availabilityCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "availability_cache_hits_total",
			Help:      "Count of availability responses served from cache.",
		},
	)

	bookings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "bookings_total",
			Help:      "Count of booking attempts by outcome.",
		},
		[]string{"outcome"},
	)

	calendarCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "calendar_calls_total",
			Help:      "Count of calendar provider calls by operation.",
		},
		[]string{"op"},
	)

	calendarErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reservas",
			Name:      "calendar_errors_total",
			Help:      "Count of calendar provider failures by operation.",
		},
		[]string{"op"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, availabilityComputed, availabilityCacheHits, bookings, calendarCalls, calendarErrors)
	})
}

func IncHTTP(handler string) {
	httpRequests.WithLabelValues(handler).Inc()
}

func IncAvailabilityComputed() {
	availabilityComputed.Inc()
}

func IncAvailabilityCacheHit() {
	availabilityCacheHits.Inc()
}

func IncBooking(outcome string) {
	bookings.WithLabelValues(outcome).Inc()
}

func IncCalendarCall(op string) {
	calendarCalls.WithLabelValues(op).Inc()
}

func IncCalendarError(op string) {
	calendarErrors.WithLabelValues(op).Inc()
}
