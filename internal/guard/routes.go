package guard

// Navigation targets. These are referenced symbolically as redirect
// destinations; the guard never parses or validates them.
const (
	RouteSignIn         = "/sign-in"
	RouteSignUp         = "/sign-up"
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"
	RouteRoot           = "/"
	RouteDashboard      = "/dashboard"
	RouteMyPage         = "/my-page"

	// RouteNotFound is reserved but currently unrouted: unmatched paths fall
	// back to the root-redirect rule instead of a distinct not-found view.
	RouteNotFound = "/404"
)
