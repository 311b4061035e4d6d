package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

type SecurityConfig interface {
	GetMaxSessionAge() time.Duration
	GetEnableRateLimiting() bool
	GetRateLimitRequests() int
	GetRateLimitWindow() time.Duration
}

type Security struct {
	k *koanf.Koanf
}

var _ SecurityConfig = Security{}

func (s Security) GetMaxSessionAge() time.Duration {
	return durationValue(s.k, "session_max_age", 24*time.Hour)
}

func (s Security) GetEnableRateLimiting() bool {
	return boolValue(s.k, "rate_limiting", true)
}

// GetRateLimitRequests is the number of autocomplete requests allowed per IP and window.
func (s Security) GetRateLimitRequests() int {
	return intValue(s.k, "rate_limit_requests", 120)
}

func (s Security) GetRateLimitWindow() time.Duration {
	return durationValue(s.k, "rate_limit_window", time.Minute)
}
