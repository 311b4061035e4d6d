package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-route-finder/gateway"
)

// Login exchanges email, password and, for TOTP accounts, the one time code
// for a token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	tokens := &TokenPair{}
	if err := c.do(ctx, http.MethodPost, EndpointToken, req, tokens, gateway.Anonymous()); err != nil {
		return nil, err
	}
	return tokens, nil
}

// UseRecoveryCode logs in with a one time recovery code instead of a TOTP code.
func (c *Client) UseRecoveryCode(ctx context.Context, req RecoveryCodeRequest) (*TokenPair, error) {
	tokens := &TokenPair{}
	if err := c.do(ctx, http.MethodPost, EndpointUseRecoveryCode, req, tokens, gateway.Anonymous()); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodPost, EndpointUser, req, user, gateway.Anonymous()); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgottenPassword asks the remote API to email a password reset link.
func (c *Client) ForgottenPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, EndpointForgottenPassword, ForgottenPasswordRequest{Email: email}, nil, gateway.Anonymous())
}

func (c *Client) PasswordReset(ctx context.Context, req PasswordResetRequest) error {
	return c.do(ctx, http.MethodPost, EndpointPasswordReset, req, nil, gateway.Anonymous())
}

// Logout blacklists the refresh token on the remote side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, EndpointLogout, LogoutRequest{Refresh: refreshToken}, nil)
}
