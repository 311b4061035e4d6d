// Package gateway performs every call to the remote API. It attaches the
// session's bearer token, classifies failures and, when the access token has
// expired, refreshes it once and replays the original call once.
package gateway

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jrsteele09/go-route-finder/gateway"

const (
	DefaultRefreshEndpoint = "/api/token/refresh"
	DefaultLoginPath       = "/login"
)

// Gateway holds what is shared by every browser session: the remote base URL,
// the transport and the optional circuit breaker.
type Gateway struct {
	baseURL         string
	client          *http.Client
	refreshEndpoint string
	loginPath       string
	breaker         *gobreaker.CircuitBreaker[*http.Response]
	tracer          trace.Tracer
}

type Option func(*Gateway)

// WithHTTPClient replaces the default client. Its Jar is ignored, each
// session brings its own.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

func WithRefreshEndpoint(endpoint string) Option {
	return func(g *Gateway) {
		if endpoint != "" {
			g.refreshEndpoint = endpoint
		}
	}
}

func WithLoginPath(path string) Option {
	return func(g *Gateway) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithTimeout bounds each HTTP exchange. Zero leaves the transport defaults.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			c := *g.client
			c.Timeout = timeout
			g.client = &c
		}
	}
}

// WithCircuitBreaker guards the transport with a breaker that opens after
// repeated transport failures. HTTP error statuses do not count as failures.
func WithCircuitBreaker(enabled bool) Option {
	return func(g *Gateway) {
		if enabled {
			g.breaker = newBreaker("remote-api")
		} else {
			g.breaker = nil
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

// New creates a Gateway for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[gateway New] invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[gateway New] base URL %q must be http or https", baseURL)
	}

	g := &Gateway{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		client:          &http.Client{},
		refreshEndpoint: DefaultRefreshEndpoint,
		loginPath:       DefaultLoginPath,
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	log.Info().Str("baseURL", g.baseURL).Bool("circuitBreaker", g.breaker != nil).Msg("[gateway New] remote API gateway ready")
	return g, nil
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

func (g *Gateway) LoginPath() string {
	return g.loginPath
}

// LoginRequiredURL is where a browser is sent when its credentials are gone.
func (g *Gateway) LoginRequiredURL() string {
	return g.loginPath + "?showLoginRequired=true"
}

type SessionOption func(*Session)

// WithJar gives the session its own cookie jar so cookies set by the remote
// API are sent back on that session's later calls only.
func WithJar(jar http.CookieJar) SessionOption {
	return func(s *Session) {
		c := *s.client
		c.Jar = jar
		s.client = &c
	}
}

// Session binds the gateway to one browser session's credentials and navigation.
func (g *Gateway) Session(tokens TokenStore, nav Navigator, opts ...SessionOption) *Session {
	c := *g.client
	c.Jar = nil
	s := &Session{
		gw:     g,
		tokens: tokens,
		nav:    nav,
		client: &c,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (g *Gateway) send(client *http.Client, req *http.Request) (*http.Response, error) {
	if g.breaker == nil {
		return client.Do(req)
	}
	return g.breaker.Execute(func() (*http.Response, error) {
		return client.Do(req)
	})
}
