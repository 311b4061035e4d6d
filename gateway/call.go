package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/credentials"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/logging"
	"github.com/jrsteele09/go-route-finder/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// Request is a call as captured for sending, and for replaying after a refresh.
// Endpoint is relative to the gateway base URL and may carry a query string.
type Request struct {
	Method   string
	Endpoint string
	Body     any
}

// chain tracks one call from its first send to its final outcome.
type chain struct {
	req       Request
	body      []byte
	opts      callOptions
	state     State
	refreshed bool
	offline   bool
}

func (c *chain) moveTo(ctx context.Context, next State) {
	if !c.state.canMoveTo(next) {
		logging.FromContext(ctx).Error().Str("from", c.state.String()).Str("to", next.String()).Msg("[gateway] invalid call state transition")
	}
	c.state = next
}

func (c *chain) outcome(err error) string {
	switch {
	case err != nil:
		return "login_required"
	case c.offline:
		return "network_error"
	case c.state == Succeeded && c.refreshed:
		return "succeeded_after_refresh"
	case c.state == Succeeded:
		return "succeeded"
	default:
		return "failed"
	}
}

// Call performs method on endpoint with body encoded as JSON. A nil body sends
// no payload.
//
// The returned Response is never nil when err is nil: transport failures come
// back as a 400 carrying {"message": "An error occurred."} and any non-2xx
// status is returned as is. The error is only set when the browser has been
// sent to the login page, and then matches errors.ErrLoginRequired.
func (s *Session) Call(ctx context.Context, method, endpoint string, body any, opts ...CallOption) (*Response, error) {
	return s.Do(ctx, Request{Method: method, Endpoint: endpoint, Body: body}, opts...)
}

// Go runs Call in its own goroutine and delivers the result on the returned
// channel, which is closed afterwards.
func (s *Session) Go(ctx context.Context, method, endpoint string, body any, opts ...CallOption) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		resp, err := s.Call(ctx, method, endpoint, body, opts...)
		results <- Result{Response: resp, Err: err}
	}()
	return results
}

// Do performs req. See Call.
func (s *Session) Do(ctx context.Context, req Request, opts ...CallOption) (*Response, error) {
	c := &chain{req: req, state: Idle}
	for _, opt := range opts {
		if opt != nil {
			opt(&c.opts)
		}
	}
	if req.Body != nil {
		body, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "[gateway Do] encode %s %s body", req.Method, req.Endpoint)
		}
		c.body = body
	}

	ctx, span := s.gw.tracer.Start(ctx, "gateway.call", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("api.endpoint", req.Endpoint),
		attribute.Bool("api.anonymous", c.opts.anonymous),
	))
	defer span.End()
	start := time.Now()

	resp, err := s.run(ctx, c)

	outcome := c.outcome(err)
	span.SetAttributes(
		attribute.String("gateway.state", c.state.String()),
		attribute.Bool("gateway.refreshed", c.refreshed),
		attribute.String("gateway.outcome", outcome),
	)
	if resp != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	metrics.GatewayCalls.WithLabelValues(req.Method, outcome).Inc()
	metrics.GatewayCallDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	event := logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("endpoint", req.Endpoint).
		Str("outcome", outcome).
		Dur("duration", time.Since(start))
	if resp != nil {
		event = event.Int("status", resp.StatusCode)
	}
	event.Msg("[gateway] call complete")

	return resp, err
}

func (s *Session) run(ctx context.Context, c *chain) (*Response, error) {
	accessToken := ""
	if !c.opts.anonymous {
		accessToken, _ = s.tokens.Get(credentials.KeyAccessToken)
	}

	c.moveTo(ctx, Sent)
	resp, err := s.exchange(ctx, c.req.Method, c.req.Endpoint, c.body, accessToken)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("endpoint", c.req.Endpoint).Msg("[gateway] no response from remote API")
		c.offline = true
		c.moveTo(ctx, Failed)
		return networkFailure(), nil
	}

	switch {
	case resp.OK():
		c.moveTo(ctx, Succeeded)
		return resp, nil

	case c.opts.anonymous:
		c.moveTo(ctx, Failed)
		return resp, nil

	case resp.credentialsNotProvided():
		c.moveTo(ctx, Failed)
		if s.nav.CurrentPath() == s.gw.loginPath {
			return resp, nil
		}
		s.nav.Navigate(s.gw.LoginRequiredURL())
		return nil, fmt.Errorf("[gateway] %s %s: %w", c.req.Method, c.req.Endpoint, errors.ErrLoginRequired)

	case resp.StatusCode == http.StatusUnauthorized:
		return s.recoverUnauthorized(ctx, c, resp)

	default:
		c.moveTo(ctx, Failed)
		return resp, nil
	}
}

// recoverUnauthorized refreshes the access token once and replays the call
// once. The replay goes through exchange directly, so whatever it returns is
// final.
func (s *Session) recoverUnauthorized(ctx context.Context, c *chain, unauthorized *Response) (*Response, error) {
	if c.refreshed {
		c.moveTo(ctx, Failed)
		return unauthorized, nil
	}

	refreshToken, ok := s.tokens.Get(credentials.KeyRefreshToken)
	if !ok {
		c.moveTo(ctx, Failed)
		s.expire(ctx)
		return nil, fmt.Errorf("[gateway] %s %s: %w: %w", c.req.Method, c.req.Endpoint, errors.ErrLoginRequired, errors.ErrNoRefreshToken)
	}

	c.moveTo(ctx, AwaitingRefresh)
	c.refreshed = true
	accessToken, err := s.refresh(ctx, refreshToken)
	if err != nil {
		c.moveTo(ctx, Failed)
		s.expire(ctx)
		return nil, fmt.Errorf("[gateway] %s %s: %w: %w", c.req.Method, c.req.Endpoint, errors.ErrLoginRequired, err)
	}

	c.moveTo(ctx, Retried)
	resp, err := s.exchange(ctx, c.req.Method, c.req.Endpoint, c.body, accessToken)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("endpoint", c.req.Endpoint).Msg("[gateway] no response to replayed call")
		c.offline = true
		c.moveTo(ctx, Failed)
		return networkFailure(), nil
	}
	if resp.OK() {
		c.moveTo(ctx, Succeeded)
	} else {
		c.moveTo(ctx, Failed)
	}
	return resp, nil
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// refresh exchanges the refresh token for a new access token and stores it.
func (s *Session) refresh(ctx context.Context, refreshToken string) (string, error) {
	ctx, span := s.gw.tracer.Start(ctx, "gateway.refresh")
	defer span.End()

	fail := func(result string, err error) (string, error) {
		metrics.GatewayRefreshes.WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).Warn().Err(err).Msg("[gateway] token refresh failed")
		return "", err
	}

	body, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return fail("error", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err))
	}

	resp, err := s.exchange(ctx, http.MethodPost, s.gw.refreshEndpoint, body, "")
	if err != nil {
		return fail("error", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err))
	}
	if !resp.OK() {
		return fail("rejected", fmt.Errorf("%w: status %d", errors.ErrRefreshFailed, resp.StatusCode))
	}

	var tokens refreshResponse
	if err := resp.Decode(&tokens); err != nil {
		return fail("error", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err))
	}
	if tokens.Access == "" {
		return fail("error", fmt.Errorf("%w: no access token in response", errors.ErrRefreshFailed))
	}

	if err := s.tokens.Set(credentials.KeyAccessToken, tokens.Access); err != nil {
		return fail("error", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err))
	}
	if tokens.Refresh != "" {
		if err := s.tokens.Set(credentials.KeyRefreshToken, tokens.Refresh); err != nil {
			return fail("error", fmt.Errorf("%w: %w", errors.ErrRefreshFailed, err))
		}
	}

	metrics.GatewayRefreshes.WithLabelValues("success").Inc()
	logging.FromContext(ctx).Debug().Bool("rotated", tokens.Refresh != "").Msg("[gateway] access token refreshed")
	return tokens.Access, nil
}

// expire forgets the session's credentials and sends the browser to login.
func (s *Session) expire(ctx context.Context) {
	if err := s.tokens.Clear(credentials.KeyAccessToken, credentials.KeyRefreshToken, credentials.KeyIsLoggedIn); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("[gateway] failed to clear credentials")
	}
	s.nav.Navigate(s.gw.LoginRequiredURL())
}

// exchange is a single HTTP round trip. It reports an error only when no
// HTTP response was received.
func (s *Session) exchange(ctx context.Context, method, endpoint string, body []byte, accessToken string) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.gw.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken}).SetAuthHeader(req)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	httpResp, err := s.gw.send(s.client, req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{StatusCode: httpResp.StatusCode, Payload: payload}, nil
}
