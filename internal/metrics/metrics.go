package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtdesk",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtdesk",
			Name:      "actions_total",
			Help:      "Completed booking actions by type.",
		},
		[]string{"action"},
	)

	actionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtdesk",
			Name:      "action_errors_total",
			Help:      "Rejected booking actions by error kind.",
		},
		[]string{"kind"},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtdesk",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		},
		[]string{"result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, actions, actionErrors, logins)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncAction counts a successfully completed booking action.
func IncAction(action string) {
	actions.WithLabelValues(action).Inc()
}

// IncActionError counts a rejected booking action by error kind.
func IncActionError(kind string) {
	actionErrors.WithLabelValues(kind).Inc()
}

// IncLogin counts a login attempt by result.
func IncLogin(result string) {
	logins.WithLabelValues(result).Inc()
}
