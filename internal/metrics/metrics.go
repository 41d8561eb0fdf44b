package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "archive"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "purchases_total",
			Help:      "Stock decrease attempts by result.",
		},
		[]string{"result"},
	)

	unitsSold = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "units_sold_total",
			Help:      "Units removed from stock by successful purchases.",
		},
	)

	favoriteToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "favorite_toggles_total",
			Help:      "Favorite toggles by resulting state.",
		},
		[]string{"state"},
	)

	itemViews = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "catalog",
			Name:      "item_views_total",
			Help:      "Item detail reads.",
		},
	)

	registrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Successful registrations.",
		},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		purchases,
		unitsSold,
		favoriteToggles,
		itemViews,
		registrations,
		logins,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordPurchase counts a stock decrease attempt. result is "ok",
// "insufficient", "not_found" or "error".
func RecordPurchase(result string, amount int) {
	purchases.WithLabelValues(result).Inc()
	if result == "ok" {
		unitsSold.Add(float64(amount))
	}
}

// RecordFavoriteToggle counts a toggle by the state it left behind.
func RecordFavoriteToggle(active bool) {
	state := "removed"
	if active {
		state = "added"
	}
	favoriteToggles.WithLabelValues(state).Inc()
}

// RecordItemView counts an item detail read.
func RecordItemView() {
	itemViews.Inc()
}

// RecordRegistration counts a new identity.
func RecordRegistration() {
	registrations.Inc()
}

// RecordLogin counts a login attempt. result is "ok", "unknown" or "bad".
func RecordLogin(result string) {
	logins.WithLabelValues(result).Inc()
}
