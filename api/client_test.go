package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/api"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/stretchr/testify/require"
)

type received struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	Body          map[string]any
}

type reply struct {
	status int
	body   any
}

type testFixture struct {
	mu       sync.Mutex
	received []received
	replies  map[string]reply
	client   *api.Client
	store    *credentials.Store
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{replies: map[string]reply{}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := received{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Authorization: r.Header.Get("Authorization")}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		f.mu.Lock()
		f.received = append(f.received, rec)
		rep, ok := f.replies[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		if rep.body != nil {
			_ = json.NewEncoder(w).Encode(rep.body)
		}
	}))
	t.Cleanup(server.Close)

	gw, err := gateway.New(server.URL)
	require.NoError(t, err)
	f.store = credentials.NewStore(credentials.NewInMemoryRepo(0), "session-1")
	require.NoError(t, f.store.Login("access", "refresh"))
	f.client = api.New(gw.Session(f.store, noopNavigator{}))
	return f
}

func (f *testFixture) reply(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, body: body}
}

func (f *testFixture) last(t *testing.T) received {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.received)
	return f.received[len(f.received)-1]
}

type noopNavigator struct{}

func (noopNavigator) CurrentPath() string { return "/" }
func (noopNavigator) Navigate(string)     {}

func TestAuthEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("login is anonymous", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointToken, http.StatusOK, map[string]string{"access": "a1", "refresh": "r1"})

		tokens, err := f.client.Login(ctx, api.LoginRequest{Email: "ada@example.com", Password: "Secret123", OTP: "123456"})
		require.NoError(t, err)
		require.Equal(t, &api.TokenPair{Access: "a1", Refresh: "r1"}, tokens)

		got := f.last(t)
		require.Empty(t, got.Authorization)
		require.Equal(t, "ada@example.com", got.Body["email"])
		require.Equal(t, "123456", got.Body["otp"])
	})

	t.Run("login without otp omits it", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointToken, http.StatusOK, map[string]string{"access": "a1", "refresh": "r1"})

		_, err := f.client.Login(ctx, api.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
		require.NoError(t, err)
		_, present := f.last(t).Body["otp"]
		require.False(t, present)
	})

	t.Run("bad credentials", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointToken, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})

		_, err := f.client.Login(ctx, api.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "No active account found with the given credentials", apiErr.Message)
	})

	t.Run("register reports field errors", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointUser, http.StatusBadRequest, map[string][]string{
			"email":    {"user with this email already exists."},
			"password": {"This password is too common."},
		})

		_, err := f.client.Register(ctx, api.RegisterRequest{Email: "ada@example.com", Password: "Password1"})
		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, map[string]string{
			"email":    "user with this email already exists.",
			"password": "This password is too common.",
		}, apiErr.FieldErrors())
		require.Empty(t, f.last(t).Authorization)
	})

	t.Run("recovery code login", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointUseRecoveryCode, http.StatusOK, map[string]string{"access": "a2", "refresh": "r2"})

		tokens, err := f.client.UseRecoveryCode(ctx, api.RecoveryCodeRequest{Email: "ada@example.com", RecoveryCode: "abcd-efgh"})
		require.NoError(t, err)
		require.Equal(t, "a2", tokens.Access)
		require.Equal(t, "abcd-efgh", f.last(t).Body["recovery_code"])
	})

	t.Run("forgotten password and reset", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointForgottenPassword, http.StatusOK, nil)
		f.reply(http.MethodPost, api.EndpointPasswordReset, http.StatusOK, map[string]string{"message": "Password reset"})

		require.NoError(t, f.client.ForgottenPassword(ctx, "ada@example.com"))
		require.Equal(t, "ada@example.com", f.last(t).Body["email"])

		require.NoError(t, f.client.PasswordReset(ctx, api.PasswordResetRequest{UID: "MQ", Token: "tok", NewPassword: "NewSecret1"}))
		got := f.last(t)
		require.Equal(t, "MQ", got.Body["uid"])
		require.Equal(t, "NewSecret1", got.Body["new_password"])
		require.Empty(t, got.Authorization)
	})

	t.Run("logout sends the refresh token with credentials", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointLogout, http.StatusNoContent, nil)

		require.NoError(t, f.client.Logout(ctx, "refresh"))
		got := f.last(t)
		require.Equal(t, "Bearer access", got.Authorization)
		require.Equal(t, "refresh", got.Body["refresh"])
	})
}

func TestUserEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("get user", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodGet, api.EndpointUser, http.StatusOK, map[string]any{"id": 7, "email": "ada@example.com", "first_name": "Ada", "totp_enabled": true})

		user, err := f.client.GetUser(ctx)
		require.NoError(t, err)
		require.Equal(t, "Ada", user.DisplayName())
		require.True(t, user.TOTPEnabled)
		require.Equal(t, "Bearer access", f.last(t).Authorization)
	})

	t.Run("update only sends set fields", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPut, api.EndpointUser, http.StatusOK, map[string]any{"email": "ada@example.com", "first_name": "Ada", "last_name": "Lovelace"})

		first := "Ada"
		user, err := f.client.UpdateUser(ctx, api.UpdateUserRequest{FirstName: &first})
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", user.DisplayName())
		require.Equal(t, map[string]any{"first_name": "Ada"}, f.last(t).Body)
	})

	t.Run("change password", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointChangePassword, http.StatusBadRequest, map[string][]string{"old_password": {"Wrong password."}})

		err := f.client.ChangePassword(ctx, api.ChangePasswordRequest{OldPassword: "x", NewPassword: "NewSecret1"})
		var apiErr *api.Error
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "Old password: Wrong password.", apiErr.Message)
	})

	t.Run("totp lifecycle", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointSetupTOTP, http.StatusOK, map[string]string{"secret": "JBSWY3DP", "otpauth_url": "otpauth://totp/RouteFinder:ada"})
		f.reply(http.MethodPost, api.EndpointVerifyTOTP, http.StatusOK, map[string][]string{"recovery_codes": {"c1", "c2"}})
		f.reply(http.MethodPost, api.EndpointDisableTOTP, http.StatusOK, nil)

		setup, err := f.client.SetupTOTP(ctx)
		require.NoError(t, err)
		require.Equal(t, "JBSWY3DP", setup.Secret)

		codes, err := f.client.VerifyTOTP(ctx, "123456")
		require.NoError(t, err)
		require.Equal(t, []string{"c1", "c2"}, codes.Codes)

		require.NoError(t, f.client.DisableTOTP(ctx, "654321"))
		require.Equal(t, "654321", f.last(t).Body["code"])
	})
}

func TestRoutingEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("route", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodPost, api.EndpointRoute, http.StatusOK, map[string]any{
			"distance": 1200.5,
			"duration": 300,
			"geometry": [][2]float64{{-1.54, 53.8}, {-1.55, 53.81}},
			"traffic":  []map[string]any{{"geometry": [][2]float64{{-1.54, 53.8}, {-1.55, 53.81}}, "congestion": "heavy"}},
		})

		route, err := f.client.Route(ctx, api.RouteRequest{
			Start:   api.Coordinate{Lat: 53.8, Lon: -1.54},
			End:     api.Coordinate{Lat: 53.81, Lon: -1.55},
			Traffic: true,
		})
		require.NoError(t, err)
		require.InDelta(t, 1200.5, route.Distance, 0.001)
		require.Len(t, route.Geometry, 2)
		require.Equal(t, "heavy", route.Traffic[0].Congestion)

		body := f.last(t).Body
		require.Equal(t, true, body["traffic"])
		require.Equal(t, map[string]any{"lat": 53.8, "lon": -1.54}, body["start"])
	})

	t.Run("search locations", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodGet, api.EndpointLocation, http.StatusOK, []map[string]any{{"display_name": "Leeds, UK", "lat": 53.8, "lon": -1.54}})

		locations, err := f.client.SearchLocations(ctx, " Leeds ")
		require.NoError(t, err)
		require.Len(t, locations, 1)
		require.Equal(t, "Leeds, UK", locations[0].Name)
		require.Equal(t, "Leeds", f.last(t).Query.Get("query"))
	})

	t.Run("empty search skips the call", func(t *testing.T) {
		f := setupTestFixture(t)

		locations, err := f.client.SearchLocations(ctx, "  ")
		require.NoError(t, err)
		require.Empty(t, locations)
		require.Empty(t, f.received)
	})

	t.Run("reverse geocode", func(t *testing.T) {
		f := setupTestFixture(t)
		f.reply(http.MethodGet, api.EndpointLocation, http.StatusOK, map[string]any{"display_name": "Briggate, Leeds", "lat": 53.797, "lon": -1.542})

		location, err := f.client.ReverseGeocode(ctx, api.Coordinate{Lat: 53.797, Lon: -1.542})
		require.NoError(t, err)
		require.Equal(t, "Briggate, Leeds", location.Name)

		query := f.last(t).Query
		require.Equal(t, "53.797", query.Get("lat"))
		require.Equal(t, "-1.542", query.Get("lon"))
	})
}

func TestLoginRequiredPassesThrough(t *testing.T) {
	f := setupTestFixture(t)
	require.NoError(t, f.store.Clear(credentials.KeyRefreshToken))
	f.reply(http.MethodGet, api.EndpointUser, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})

	_, err := f.client.GetUser(context.Background())
	require.ErrorIs(t, err, errors.ErrLoginRequired)

	var apiErr *api.Error
	require.False(t, errors.As(err, &apiErr))
}

func TestNetworkFailureIsAnAPIError(t *testing.T) {
	gw, err := gateway.New("http://127.0.0.1:1")
	require.NoError(t, err)
	client := api.New(gw.Session(credentials.NewStore(credentials.NewInMemoryRepo(0), "s"), noopNavigator{}))

	_, err = client.GetUser(context.Background())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, gateway.NetworkFailureStatus, apiErr.StatusCode)
	require.Equal(t, gateway.NetworkFailureMessage, apiErr.Message)
}
