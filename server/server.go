package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	gateway     *gateway.Gateway
	credentials credentials.Repo
	history     history.Store
	browsers    *browserRegistry
}

func New(config config.Config, gw *gateway.Gateway, credentialsRepo credentials.Repo, historyStore history.Store) (*Server, error) {
	if gw == nil {
		return nil, fmt.Errorf("[Server New] a gateway is required")
	}
	if credentialsRepo == nil || historyStore == nil {
		return nil, fmt.Errorf("[Server New] credential and history stores are required")
	}

	s := &Server{
		mux:         http.NewServeMux(),
		config:      config,
		gateway:     gw,
		credentials: credentialsRepo,
		history:     historyStore,
		browsers:    newBrowserRegistry(config.GetMaxSessionAge()),
	}
	s.env = config.GetEnv()

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] failed to initialise routes: %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
