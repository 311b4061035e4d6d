package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-route-finder/account"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/logging"
)

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData(r)
		if id := sessionIDFromRequest(r); id != "" && s.browserSessionFor(id, r).loggedIn() {
			redirectSuccess(w, r, RouteSearch)
			return
		}
		render(w, r, tmpl, data)
	}
}

// LoginSubmissionHandler exchanges the credentials for a token pair and
// stores it against the browser session.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := account.LoginFormFrom(r)
		if err := account.Validate(form); err != nil {
			s.renderLoginError(w, r, validationMessage(err), form.Email)
			return
		}

		bs := s.loginSession(r)
		tokens, err := bs.client.Login(r.Context(), api.LoginRequest{
			Email:    form.Email,
			Password: form.Password,
			OTP:      form.OTP,
		})
		if err != nil {
			s.browsers.forget(bs.id)
			s.renderLoginError(w, r, apiErrorMessage(err), form.Email)
			return
		}

		if err := bs.tokens.Login(tokens.Access, tokens.Refresh); err != nil {
			s.browsers.forget(bs.id)
			logging.FromContext(r.Context()).Err(err).Msg("Failed to store login credentials")
			s.renderLoginError(w, r, "Unable to start your session, please try again", form.Email)
			return
		}
		s.issueLoginSession(w, r, bs)
		logging.FromContext(r.Context()).Info().Str("session", bs.id).Msg("[server] logged in")
		redirectSuccess(w, r, RouteSearch)
	}
}

// RecoverySubmissionHandler logs in with a one-off recovery code instead of a TOTP code.
func (s *Server) RecoverySubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := account.RecoveryFormFrom(r)
		if err := account.Validate(form); err != nil {
			redirectWithQuery(w, r, RouteRecovery, url.Values{"error": {validationMessage(err)}, "email": {form.Email}})
			return
		}

		bs := s.loginSession(r)
		tokens, err := bs.client.UseRecoveryCode(r.Context(), api.RecoveryCodeRequest{
			Email:        form.Email,
			RecoveryCode: form.RecoveryCode,
		})
		if err != nil {
			s.browsers.forget(bs.id)
			redirectWithQuery(w, r, RouteRecovery, url.Values{"error": {apiErrorMessage(err)}, "email": {form.Email}})
			return
		}
		if err := bs.tokens.Login(tokens.Access, tokens.Refresh); err != nil {
			s.browsers.forget(bs.id)
			logging.FromContext(r.Context()).Err(err).Msg("Failed to store login credentials")
			redirectWithError(w, r, RouteRecovery, "Unable to start your session, please try again")
			return
		}
		s.issueLoginSession(w, r, bs)
		redirectWithMessage(w, r, RouteDashboard, "Logged in with a recovery code. It cannot be used again.")
	}
}

// LogoutHandler blacklists the refresh token at the remote API and forgets
// everything held for the browser.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := sessionIDFromRequest(r)
		if sessionID == "" {
			redirectSuccess(w, r, RouteLogin)
			return
		}

		bs := s.browserSessionFor(sessionID, r)
		if refreshToken, ok := bs.tokens.Get(credentials.KeyRefreshToken); ok {
			if err := bs.client.Logout(r.Context(), refreshToken); err != nil {
				logging.FromContext(r.Context()).Warn().Err(err).Msg("Logout: remote logout failed")
			}
		}
		if err := bs.tokens.Clear(); err != nil {
			logging.FromContext(r.Context()).Err(err).Msg("Logout: failed to clear credentials")
		}
		s.browsers.forget(sessionID)
		s.expireSessionCookie(w, r)

		redirectWithMessage(w, r, RouteLogin, "You have been logged out.")
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectWithQuery(w, r, RouteLogin, url.Values{"error": {errorMsg}, "email": {email}})
}

// validationMessage is the first form error, in form order.
func validationMessage(err error) string {
	var ve *account.ValidationError
	if errors.As(err, &ve) && ve.First() != "" {
		return ve.First()
	}
	return err.Error()
}
