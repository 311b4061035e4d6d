package server

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/logging"
)

type redirectBody struct {
	Redirect string `json:"redirect"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// wantsJSON reports whether the caller expects a JSON answer rather than a page.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, RouteSearch+"/") ||
		strings.Contains(r.Header.Get("Accept"), contentTypeJSON)
}

// apiErrorMessage is the message to show for a failed remote call.
func apiErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return gateway.NetworkFailureMessage
}

// respondPageError answers a failed remote call from a form handler: to the
// login page when the gateway navigated there, otherwise back to fallback
// with the error message.
func respondPageError(w http.ResponseWriter, r *http.Request, bs *browserSession, err error, fallback string) {
	if location, ok := bs.nav.Location(); ok {
		redirectSuccess(w, r, location)
		return
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("[server] remote call failed")
	}
	redirectWithError(w, r, fallback, apiErrorMessage(err))
}

// respondJSONError answers a failed remote call from a JSON handler. Remote
// error payloads are passed through with their status.
func respondJSONError(w http.ResponseWriter, r *http.Request, bs *browserSession, err error) {
	if location, ok := bs.nav.Location(); ok {
		writeJSON(w, http.StatusUnauthorized, redirectBody{Redirect: location})
		return
	}
	if errors.Is(err, errors.ErrLoginRequired) {
		writeJSON(w, http.StatusUnauthorized, redirectBody{Redirect: RouteLogin})
		return
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Payload) > 0 && json.Valid(apiErr.Payload) {
			writeJSON(w, apiErr.StatusCode, json.RawMessage(apiErr.Payload))
			return
		}
		writeJSON(w, apiErr.StatusCode, messageBody{Message: apiErrorMessage(err)})
		return
	}

	logging.FromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("[server] request failed")
	writeJSON(w, http.StatusInternalServerError, messageBody{Message: gateway.NetworkFailureMessage})
}
