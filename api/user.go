package api

import (
	"context"
	"net/http"
)

func (c *Client) GetUser(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, EndpointUser, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodPut, EndpointUser, req, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, EndpointChangePassword, req, nil)
}

// SetupTOTP starts TOTP enrolment. The account is not protected until the
// first code is verified.
func (c *Client) SetupTOTP(ctx context.Context) (*TOTPSetup, error) {
	setup := &TOTPSetup{}
	if err := c.do(ctx, http.MethodPost, EndpointSetupTOTP, nil, setup); err != nil {
		return nil, err
	}
	return setup, nil
}

// VerifyTOTP confirms enrolment with a code from the authenticator app and
// returns the recovery codes.
func (c *Client) VerifyTOTP(ctx context.Context, code string) (*RecoveryCodes, error) {
	codes := &RecoveryCodes{}
	if err := c.do(ctx, http.MethodPost, EndpointVerifyTOTP, TOTPCodeRequest{Code: code}, codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (c *Client) DisableTOTP(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, EndpointDisableTOTP, TOTPCodeRequest{Code: code}, nil)
}
