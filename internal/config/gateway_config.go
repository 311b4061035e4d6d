package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/v2"
)

type GatewayConfig interface {
	GetAPIBaseURL() string
	GetRefreshEndpoint() string
	GetLoginPath() string
	GetRequestTimeout() time.Duration
	GetCircuitBreakerEnabled() bool
}

type Gateway struct {
	k *koanf.Koanf
}

var _ GatewayConfig = Gateway{}

// GetAPIBaseURL returns the remote mapping API root, without a trailing slash.
func (g Gateway) GetAPIBaseURL() string {
	return strings.TrimRight(stringValue(g.k, "api_base_url", "http://localhost:8000"), "/")
}

func (g Gateway) GetRefreshEndpoint() string {
	return stringValue(g.k, "api_refresh_endpoint", "/api/token/refresh")
}

func (g Gateway) GetLoginPath() string {
	return stringValue(g.k, "login_path", "/login")
}

// GetRequestTimeout is zero unless configured, leaving calls on transport defaults.
func (g Gateway) GetRequestTimeout() time.Duration {
	return durationValue(g.k, "api_timeout", 0)
}

func (g Gateway) GetCircuitBreakerEnabled() bool {
	return boolValue(g.k, "api_circuit_breaker", false)
}
