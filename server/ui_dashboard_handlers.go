package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/jrsteele09/go-route-finder/account"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/internal/logging"
	"github.com/jrsteele09/go-route-finder/internal/utils"
)

const dashboardHistoryLimit = 10

// dashboardData loads the user and the page model of the dashboard. It
// reports false when a response has already been written.
func (s *Server) dashboardData(w http.ResponseWriter, r *http.Request, bs *browserSession) (PageData, bool) {
	data := s.pageData(r)
	data.LoggedIn = true

	user, err := bs.client.GetUser(r.Context())
	if err != nil {
		if location, ok := bs.nav.Location(); ok {
			redirectSuccess(w, r, location)
			return data, false
		}
		data.Error = apiErrorMessage(err)
	}
	data.User = user

	accessToken, _ := bs.tokens.Get(credentials.KeyAccessToken)
	if claims, err := credentials.ParseClaims(accessToken); err == nil {
		data.TokenExpiresIn = claims.ExpiresIn(time.Now())
	}

	entries, err := s.history.List(r.Context(), bs.owner())
	if err != nil {
		logging.FromContext(r.Context()).Err(err).Msg("Failed to list search history")
	}
	if len(entries) > dashboardHistoryLimit {
		entries = entries[len(entries)-dashboardHistoryLimit:]
	}
	data.History = entries
	return data, true
}

func (s *Server) DashboardHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := s.dashboardData(w, r, sessionFrom(r))
		if !ok {
			return
		}
		render(w, r, tmpl, data)
	}
}

func (s *Server) ProfileUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		form := account.ProfileFormFrom(r)
		if err := account.Validate(form); err != nil {
			redirectWithError(w, r, RouteDashboard, validationMessage(err))
			return
		}

		_, err := bs.client.UpdateUser(r.Context(), api.UpdateUserRequest{
			Email:     utils.Ptr(form.Email),
			FirstName: utils.Ptr(form.FirstName),
			LastName:  utils.Ptr(form.LastName),
		})
		if err != nil {
			respondPageError(w, r, bs, err, RouteDashboard)
			return
		}
		redirectWithMessage(w, r, RouteDashboard, "Profile updated.")
	}
}

func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		form := account.ChangePasswordFormFrom(r)
		if err := account.Validate(form); err != nil {
			redirectWithError(w, r, RouteDashboard, validationMessage(err))
			return
		}

		err := bs.client.ChangePassword(r.Context(), api.ChangePasswordRequest{
			OldPassword: form.CurrentPassword,
			NewPassword: form.NewPassword,
		})
		if err != nil {
			respondPageError(w, r, bs, err, RouteDashboard)
			return
		}
		redirectWithMessage(w, r, RouteDashboard, "Password changed.")
	}
}

// TOTPSetupHandler starts enrolment and shows the secret to scan
func (s *Server) TOTPSetupHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		setup, err := bs.client.SetupTOTP(r.Context())
		if err != nil {
			respondPageError(w, r, bs, err, RouteDashboard)
			return
		}

		data, ok := s.dashboardData(w, r, bs)
		if !ok {
			return
		}
		data.TOTPSetup = setup
		render(w, r, tmpl, data)
	}
}

// TOTPVerifyHandler confirms enrolment. The recovery codes are only shown on this response.
func (s *Server) TOTPVerifyHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		form := account.TOTPFormFrom(r)
		if err := account.Validate(form); err != nil {
			redirectWithError(w, r, RouteDashboard, validationMessage(err))
			return
		}

		codes, err := bs.client.VerifyTOTP(r.Context(), form.Code)
		if err != nil {
			respondPageError(w, r, bs, err, RouteDashboard)
			return
		}

		data, ok := s.dashboardData(w, r, bs)
		if !ok {
			return
		}
		data.Message = "Two-factor authentication is on. Keep these recovery codes somewhere safe, they will not be shown again."
		data.RecoveryCodes = utils.NonEmpty(codes.Codes)
		render(w, r, tmpl, data)
	}
}

func (s *Server) TOTPDisableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := sessionFrom(r)
		form := account.TOTPFormFrom(r)
		if err := account.Validate(form); err != nil {
			redirectWithError(w, r, RouteDashboard, validationMessage(err))
			return
		}

		if err := bs.client.DisableTOTP(r.Context(), form.Code); err != nil {
			respondPageError(w, r, bs, err, RouteDashboard)
			return
		}
		redirectWithMessage(w, r, RouteDashboard, "Two-factor authentication is off.")
	}
}
