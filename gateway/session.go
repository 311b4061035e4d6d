package gateway

import (
	"net/http"
)

// TokenStore is the session-scoped credential capability the gateway reads
// and writes. Keys are the credentials package's accessToken, refreshToken and
// isLoggedIn.
type TokenStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Clear(keys ...string) error
}

// Navigator moves the browser. CurrentPath is the page the call was made from.
type Navigator interface {
	CurrentPath() string
	Navigate(location string)
}

// Session performs calls on behalf of one browser session. It is safe for
// concurrent use as long as its TokenStore and Navigator are.
type Session struct {
	gw     *Gateway
	tokens TokenStore
	nav    Navigator
	client *http.Client
}

// Result is delivered by Go once the call chain completes.
type Result struct {
	Response *Response
	Err      error
}

type callOptions struct {
	anonymous bool
}

type CallOption func(*callOptions)

// Anonymous sends no bearer token and hands any 401 or 403 back as an
// ordinary error response. Used by the login and password recovery flows.
func Anonymous() CallOption {
	return func(o *callOptions) {
		o.anonymous = true
	}
}
