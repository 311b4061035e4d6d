package server

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

const (
	// loggedInSessionID is the name of the cookie that keys a browser's server-side credentials
	loggedInSessionID = "loggedInSessionId"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

func (s *Server) SetLoginSessionCookie(w http.ResponseWriter, sessionID string, r *http.Request, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     loggedInSessionID,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// sessionIDFromRequest returns the session cookie value, or "" when there is none.
func sessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(loggedInSessionID)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ensureSessionID returns the browser's session id, issuing a new cookie when
// the request carries none.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if id := sessionIDFromRequest(r); id != "" {
		return id
	}
	id := uuid.NewString()
	s.SetLoginSessionCookie(w, id, r, int(s.config.GetMaxSessionAge().Seconds()))
	return id
}

func (s *Server) expireSessionCookie(w http.ResponseWriter, r *http.Request) {
	s.SetLoginSessionCookie(w, "", r, -1)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectWithQuery(w, r, path, url.Values{"error": {errorMsg}})
}

// redirectWithMessage redirects with a confirmation shown by the target page
func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	redirectWithQuery(w, r, path, url.Values{"message": {message}})
}

func redirectWithQuery(w http.ResponseWriter, r *http.Request, path string, query url.Values) {
	redirectSuccess(w, r, path+"?"+query.Encode())
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
