package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteRecovery = "/recovery"

	// Auth Routes - Registration & Password Management
	RouteRegister         = "/register"
	RouteForgotPassword   = "/forgot-password"
	RoutePasswordReset    = "/password-reset"
	RouteValidatePassword = "/validate-password"

	// Dashboard Routes
	RouteDashboard               = "/dashboard"
	RouteDashboardProfile        = "/dashboard/profile"
	RouteDashboardChangePassword = "/dashboard/change-password"
	RouteDashboardTOTPSetup      = "/dashboard/totp/setup"
	RouteDashboardTOTPVerify     = "/dashboard/totp/verify"
	RouteDashboardTOTPDisable    = "/dashboard/totp/disable"

	// Search Routes
	RouteSearch        = "/search"
	RouteSearchSuggest = "/search/suggest"
	RouteSearchReverse = "/search/reverse"
	RouteSearchRoute   = "/search/route"
	RouteSearchHistory = "/search/history"

	// Operations
	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
