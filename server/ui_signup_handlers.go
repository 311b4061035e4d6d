package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-route-finder/account"
	"github.com/jrsteele09/go-route-finder/api"
)

// ValidatePasswordHandler reports password strength to the htmx forms as they are typed
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")
		if password == "" {
			password = r.FormValue("new_password")
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if password == "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := account.ValidatePasswordStrength(password); err != nil {
			msg := template.HTMLEscapeString(err.Error())
			w.Header().Set("HX-Trigger", fmt.Sprintf(`{"passwordInvalid": %q}`, err.Error()))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<span class="text-danger"><i class="bi bi-x-circle-fill me-1"></i>%s</span>`, msg)
			return
		}

		w.Header().Set("HX-Trigger", `{"passwordValid": ""}`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<span class="text-success"><i class="bi bi-check-circle-fill me-1"></i></span>`)
	}
}

func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := s.browserSession(w, r)
		form := account.RegisterFormFrom(r)

		if err := account.Validate(form); err != nil {
			redirectWithQuery(w, r, RouteRegister, url.Values{"error": {validationMessage(err)}, "email": {form.Email}})
			return
		}

		_, err := bs.client.Register(r.Context(), api.RegisterRequest{
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
		})
		if err != nil {
			redirectWithQuery(w, r, RouteRegister, url.Values{"error": {apiErrorMessage(err)}, "email": {form.Email}})
			return
		}
		redirectWithQuery(w, r, RouteLogin, url.Values{"message": {"Account created. You can now log in."}, "email": {form.Email}})
	}
}

func (s *Server) ForgotPasswordSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := s.browserSession(w, r)
		form := account.ForgotPasswordFormFrom(r)

		if err := account.Validate(form); err != nil {
			redirectWithError(w, r, RouteForgotPassword, validationMessage(err))
			return
		}

		if err := bs.client.ForgottenPassword(r.Context(), form.Email); err != nil {
			redirectWithError(w, r, RouteForgotPassword, apiErrorMessage(err))
			return
		}
		redirectWithMessage(w, r, RouteForgotPassword, "If an account exists for that email, a password reset link is on its way.")
	}
}

// PasswordResetSubmissionHandler completes a reset started from the emailed link
func (s *Server) PasswordResetSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs := s.browserSession(w, r)
		form := account.ResetPasswordFormFrom(r)

		retry := func(msg string) {
			redirectWithQuery(w, r, RoutePasswordReset, url.Values{"error": {msg}, "uid": {form.UID}, "token": {form.Token}})
		}

		if err := account.Validate(form); err != nil {
			retry(validationMessage(err))
			return
		}

		err := bs.client.PasswordReset(r.Context(), api.PasswordResetRequest{
			UID:         form.UID,
			Token:       form.Token,
			NewPassword: form.Password,
		})
		if err != nil {
			retry(apiErrorMessage(err))
			return
		}
		redirectWithMessage(w, r, RouteLogin, "Your password has been reset. You can now log in.")
	}
}
