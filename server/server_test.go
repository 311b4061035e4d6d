package server_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/history"
	"github.com/jrsteele09/go-route-finder/internal/config"
	"github.com/jrsteele09/go-route-finder/server"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Analytical1"
)

type received struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          map[string]any
}

// remoteAPI stands in for the mapping API behind the gateway.
type remoteAPI struct {
	mu       sync.Mutex
	received []received
	handlers map[string]http.HandlerFunc
}

func (a *remoteAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := received{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Authorization: r.Header.Get("Authorization")}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	a.mu.Lock()
	a.received = append(a.received, rec)
	handler, ok := a.handlers[r.Method+" "+r.URL.Path]
	a.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	handler(w, r)
}

func (a *remoteAPI) handle(method, path string, handler http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[method+" "+path] = handler
}

func (a *remoteAPI) reply(method, path string, status int, body any) {
	a.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	})
}

func (a *remoteAPI) requests(path string) []received {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []received
	for _, rec := range a.received {
		if rec.Path == path {
			out = append(out, rec)
		}
	}
	return out
}

func (a *remoteAPI) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.received)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type testFixture struct {
	remote  *remoteAPI
	app     *httptest.Server
	client  *http.Client
	history history.Store
}

func setupTestFixture(t *testing.T, env ...string) *testFixture {
	t.Helper()

	settings := map[string]string{
		"ENV":                   "TEST",
		"APP_NAME":              "Route Finder",
		"HISTORY_FOLDER":        history.InMemory,
		"AUTOCOMPLETE_DEBOUNCE": "0s",
		"RATE_LIMITING":         "false",
	}
	for i := 0; i+1 < len(env); i += 2 {
		settings[env[i]] = env[i+1]
	}
	for key, value := range settings {
		t.Setenv(key, value)
	}
	cfg, err := config.New()
	require.NoError(t, err)

	remote := &remoteAPI{handlers: map[string]http.HandlerFunc{}}
	remoteServer := httptest.NewServer(remote)
	t.Cleanup(remoteServer.Close)

	gw, err := gateway.New(remoteServer.URL)
	require.NoError(t, err)

	historyStore := history.NewInMemoryStore()
	srv, err := server.New(cfg, gw, credentials.NewInMemoryRepo(cfg.GetMaxSessionAge()), historyStore)
	require.NoError(t, err)

	app := httptest.NewServer(srv)
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testFixture{remote: remote, app: app, client: client, history: historyStore}
}

func accessToken(t *testing.T, userID int) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"token_type": "access",
		"user_id":    userID,
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func (f *testFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.app.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *testFixture) postForm(t *testing.T, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.app.URL+path, values)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *testFixture) sendJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req, err := http.NewRequest(method, f.app.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// login signs in through the login form and returns the stored access token.
func (f *testFixture) login(t *testing.T) string {
	t.Helper()
	token := accessToken(t, 42)
	f.remote.reply(http.MethodPost, api.EndpointToken, http.StatusOK, api.TokenPair{Access: token, Refresh: "refresh-1"})

	resp := f.postForm(t, server.RouteLogin, url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, server.RouteSearch, resp.Header.Get("Location"))
	return token
}

func redirectQuery(t *testing.T, resp *http.Response) (string, url.Values) {
	t.Helper()
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	return location.Path, location.Query()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
