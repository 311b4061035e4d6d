package server

import (
	"net/http"
)

// RequireLogin lets logged-in browsers through with their session in the
// request context. HTML routes redirect everyone else to the login page, JSON
// routes answer 401 with the redirect location.
func (s *Server) RequireLogin() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(r)
			if sessionID == "" {
				s.loginRequired(w, r)
				return
			}

			bs := s.browserSessionFor(sessionID, r)
			if !bs.loggedIn() {
				s.loginRequired(w, r)
				return
			}

			next(w, r.WithContext(withBrowserSession(r.Context(), bs)))
		}
	}
}

func (s *Server) loginRequired(w http.ResponseWriter, r *http.Request) {
	location := s.gateway.LoginRequiredURL()
	if wantsJSON(r) {
		writeJSON(w, http.StatusUnauthorized, redirectBody{Redirect: location})
		return
	}
	redirectSuccess(w, r, location)
}

// sessionFrom returns the session RequireLogin stored. Handlers behind
// RequireLogin only.
func sessionFrom(r *http.Request) *browserSession {
	bs, ok := browserSessionFrom(r.Context())
	if !ok {
		panic("server: handler mounted without RequireLogin")
	}
	return bs
}
