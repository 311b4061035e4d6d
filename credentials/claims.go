package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-route-finder/internal/errors"
	"github.com/jrsteele09/go-route-finder/internal/utils"
)

// Claims are the access token claims the front end reads. The signature is
// never verified here, the remote API remains the authority on validity.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type,omitempty"`
	UserID    any    `json:"user_id,omitempty"`
}

// ParseClaims decodes the claims of a JWT access token without verifying it.
func ParseClaims(accessToken string) (*Claims, error) {
	if accessToken == "" {
		return nil, errors.ErrInvalidToken
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("[credentials ParseClaims] %w: %w", errors.ErrInvalidToken, err)
	}
	return claims, nil
}

// Owner identifies the user the token was issued to: the user_id claim, or
// the subject when there is none.
func (c *Claims) Owner() string {
	if id := utils.IDString(c.UserID); id != "" {
		return id
	}
	return c.Subject
}

// ExpiresIn returns how long the token remains valid from now, zero when
// expired or when the token carries no expiry.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil || c.ExpiresAt.Before(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}
