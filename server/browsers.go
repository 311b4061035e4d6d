package server

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/autocomplete"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/logging"
	"github.com/rs/zerolog/log"
)

const browserSweepInterval = time.Minute

// browser is the server-side state of one browser besides its credentials:
// the cookie jar used towards the remote API and one debouncer per search box.
type browser struct {
	jar      http.CookieJar
	lastSeen time.Time

	mu         sync.Mutex
	suggesters map[history.Slot]*autocomplete.Debouncer[api.Location]
}

func (b *browser) suggester(slot history.Slot, opts ...autocomplete.Option) *autocomplete.Debouncer[api.Location] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.suggesters[slot]; ok {
		return d
	}
	d := autocomplete.NewDebouncer(searchLocations, opts...)
	b.suggesters[slot] = d
	return d
}

type browserRegistry struct {
	maxAge time.Duration

	mu        sync.Mutex
	browsers  map[string]*browser
	lastSweep time.Time
}

func newBrowserRegistry(maxAge time.Duration) *browserRegistry {
	return &browserRegistry{
		maxAge:    maxAge,
		browsers:  map[string]*browser{},
		lastSweep: time.Now(),
	}
}

func (reg *browserRegistry) get(sessionID string) *browser {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	now := time.Now()
	if now.Sub(reg.lastSweep) > browserSweepInterval {
		reg.sweep(now)
	}

	b, ok := reg.browsers[sessionID]
	if !ok {
		b = &browser{
			suggesters: map[history.Slot]*autocomplete.Debouncer[api.Location]{},
		}
		if jar, err := cookiejar.New(nil); err == nil {
			b.jar = jar
		} else {
			log.Error().Err(err).Msg("[server] failed to create cookie jar")
		}
		reg.browsers[sessionID] = b
	}
	b.lastSeen = now
	return b
}

func (reg *browserRegistry) forget(sessionID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.browsers, sessionID)
}

func (reg *browserRegistry) sweep(now time.Time) {
	for id, b := range reg.browsers {
		if reg.maxAge > 0 && now.Sub(b.lastSeen) > reg.maxAge {
			delete(reg.browsers, id)
		}
	}
	reg.lastSweep = now
}

// httpNavigator records where the gateway sent the browser. Handlers turn a
// recorded location into a redirect.
type httpNavigator struct {
	path string

	mu       sync.Mutex
	location string
}

func newHTTPNavigator(r *http.Request) *httpNavigator {
	return &httpNavigator{path: r.URL.Path}
}

func (n *httpNavigator) CurrentPath() string {
	return n.path
}

func (n *httpNavigator) Navigate(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = location
}

func (n *httpNavigator) Location() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location, n.location != ""
}

// browserSession bundles everything a handler needs to act for one browser.
type browserSession struct {
	id      string
	tokens  *credentials.Store
	nav     *httpNavigator
	client  *api.Client
	browser *browser
}

func (s *Server) browserSession(w http.ResponseWriter, r *http.Request) *browserSession {
	return s.browserSessionFor(s.ensureSessionID(w, r), r)
}

func (s *Server) browserSessionFor(sessionID string, r *http.Request) *browserSession {
	b := s.browsers.get(sessionID)
	tokens := credentials.NewStore(s.credentials, sessionID)
	nav := newHTTPNavigator(r)

	var opts []gateway.SessionOption
	if b.jar != nil {
		opts = append(opts, gateway.WithJar(b.jar))
	}
	return &browserSession{
		id:      sessionID,
		tokens:  tokens,
		nav:     nav,
		client:  api.New(s.gateway.Session(tokens, nav, opts...)),
		browser: b,
	}
}

// loginSession prepares a browser session under a newly minted id. The id
// reaches the browser only through issueLoginSession, once login succeeds.
func (s *Server) loginSession(r *http.Request) *browserSession {
	return s.browserSessionFor(uuid.NewString(), r)
}

// issueLoginSession hands the browser the cookie of the logged-in session and
// drops everything held under the id it arrived with.
func (s *Server) issueLoginSession(w http.ResponseWriter, r *http.Request, bs *browserSession) {
	if previous := sessionIDFromRequest(r); previous != "" && previous != bs.id {
		if err := credentials.NewStore(s.credentials, previous).Clear(); err != nil {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("Failed to clear the previous session")
		}
		s.browsers.forget(previous)
	}
	s.SetLoginSessionCookie(w, bs.id, r, int(s.config.GetMaxSessionAge().Seconds()))
}

func (bs *browserSession) loggedIn() bool {
	_, ok := bs.tokens.Get(credentials.KeyIsLoggedIn)
	return ok
}

// owner keys the search history: the user the access token was issued to,
// or the session id when the token cannot be read.
func (bs *browserSession) owner() string {
	accessToken, _ := bs.tokens.Get(credentials.KeyAccessToken)
	if claims, err := credentials.ParseClaims(accessToken); err == nil {
		if owner := claims.Owner(); owner != "" {
			return owner
		}
	}
	return bs.id
}

type sessionContextKey struct{}
type clientContextKey struct{}

func withBrowserSession(ctx context.Context, bs *browserSession) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, bs)
}

func browserSessionFrom(ctx context.Context) (*browserSession, bool) {
	bs, ok := ctx.Value(sessionContextKey{}).(*browserSession)
	return bs, ok
}

// withAPIClient hands the requesting browser's client to the debounced lookup.
func withAPIClient(ctx context.Context, client *api.Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

func searchLocations(ctx context.Context, query string) ([]api.Location, error) {
	client, ok := ctx.Value(clientContextKey{}).(*api.Client)
	if !ok {
		return nil, errors.ErrInternal
	}
	return client.SearchLocations(ctx, query)
}
