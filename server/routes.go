package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() error {
	pages, err := parsePages()
	if err != nil {
		return err
	}

	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(pages.login), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteRecovery, ChainMiddleware(s.PageHandler(pages.recovery), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteRecovery, ChainMiddleware(s.RecoverySubmissionHandler(), s.HTMLMiddleWare()...))

	// REGISTRATION & PASSWORDS
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.PageHandler(pages.register), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteForgotPassword, ChainMiddleware(s.PageHandler(pages.forgotPassword), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RoutePasswordReset, ChainMiddleware(s.PageHandler(pages.resetPassword), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RoutePasswordReset, ChainMiddleware(s.PasswordResetSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteValidatePassword, ChainMiddleware(s.ValidatePasswordHandler(), s.HTMLMiddleWare()...))

	// DASHBOARD
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(pages.dashboard), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteDashboardProfile, ChainMiddleware(s.ProfileUpdateHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteDashboardChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteDashboardTOTPSetup, ChainMiddleware(s.TOTPSetupHandler(pages.dashboard), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteDashboardTOTPVerify, ChainMiddleware(s.TOTPVerifyHandler(pages.dashboard), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteDashboardTOTPDisable, ChainMiddleware(s.TOTPDisableHandler(), s.HTMLMiddleWare(s.RequireLogin())...))

	// SEARCH
	s.RegisterRouteHandler("GET "+RouteSearch, ChainMiddleware(s.SearchPageHandler(pages.search), s.HTMLMiddleWare(s.RequireLogin())...))
	s.RegisterRouteHandler("GET "+RouteSearchSuggest, ChainMiddleware(s.SuggestHandler(), s.APIMiddleware(s.RateLimitMiddleware, s.RequireLogin())...))
	s.RegisterRouteHandler("GET "+RouteSearchReverse, ChainMiddleware(s.ReverseGeocodeHandler(), s.APIMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteSearchRoute, ChainMiddleware(s.RouteHandler(), s.APIMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("GET "+RouteSearchHistory, ChainMiddleware(s.HistoryListHandler(), s.APIMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("POST "+RouteSearchHistory, ChainMiddleware(s.HistoryAppendHandler(), s.APIMiddleware(s.RequireLogin())...))
	s.RegisterRouteHandler("DELETE "+RouteSearchHistory, ChainMiddleware(s.HistoryClearHandler(), s.APIMiddleware(s.RequireLogin())...))

	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.StaticMiddleware()...))
	return nil
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, red+error+resetColour)
}
