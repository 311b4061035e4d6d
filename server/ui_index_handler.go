package server

import (
	"net/http"
)

// IndexHandler sends logged-in browsers to the search page and everyone else to login
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := sessionIDFromRequest(r); id != "" && s.browserSessionFor(id, r).loggedIn() {
			http.Redirect(w, r, RouteSearch, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}
