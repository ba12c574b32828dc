// Package metrics holds the Prometheus collectors for the service. They are
// registered against the default registry and served on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts inbound requests by route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_access_http_requests_total",
			Help: "Total number of HTTP requests processed, by route and status code.",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "group_access_http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"route"},
	)

	// PortalCallsTotal counts outbound portal REST calls. result is "ok" or "error".
	PortalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_access_portal_calls_total",
			Help: "Total number of outbound portal REST calls, by operation and result.",
		},
		[]string{"operation", "result"},
	)

	PortalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "group_access_portal_call_duration_seconds",
			Help:    "Histogram of outbound portal REST call latencies, by operation.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// MembershipOutcomesTotal counts terminal reconciler states.
	MembershipOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_access_membership_outcomes_total",
			Help: "Total number of group membership reconciliations, by terminal state.",
		},
		[]string{"state"},
	)

	// ProvisioningTotal counts user creation attempts by strategy and result.
	ProvisioningTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_access_provisioning_total",
			Help: "Total number of user provisioning attempts, by strategy and result.",
		},
		[]string{"strategy", "result"},
	)
)

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
