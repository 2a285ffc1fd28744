package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequests counts calls to the LIMS REST API
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lims_console_backend_requests_total",
			Help: "Total number of requests sent to the LIMS API",
		},
		[]string{"method", "status_class"},
	)

	// BackendDuration tracks LIMS API latency
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lims_console_backend_request_duration_seconds",
			Help:    "Duration of requests sent to the LIMS API",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// TokenRefreshes counts refresh-token exchanges by outcome
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lims_console_token_refresh_total",
			Help: "Access token refresh attempts",
		},
		[]string{"outcome"},
	)

	// ScreenMutations counts create/update/delete outcomes per screen
	ScreenMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lims_console_screen_mutations_total",
			Help: "Mutations submitted from admin screens",
		},
		[]string{"screen", "operation", "outcome"},
	)

	// HTTPRequests counts requests served by the console itself
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lims_console_http_requests_total",
			Help: "Requests served by the admin console",
		},
		[]string{"method", "status_code"},
	)

	// ActiveScreens is the number of live screen instances across sessions
	ActiveScreens = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lims_console_active_screens",
			Help: "Screen instances currently held in session registries",
		},
	)
)

// StatusClass buckets an HTTP status code ("2xx", "4xx", ...); 0 means transport error
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}
