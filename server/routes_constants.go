package server

// Route path constants
const (
	RouteCheckPermissions = "/check-permissions"
	RouteSignup           = "/signup"

	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
