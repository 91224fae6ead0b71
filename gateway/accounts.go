package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/facultyms/appraise/internal/util"
	"github.com/facultyms/appraise/session"
)

// Login authenticates creds and returns the server's session record. The
// caller (normally auth.Manager.Login) decides whether to persist it.
func (c *Client) Login(ctx context.Context, creds Credentials) (*session.Record, error) {
	creds.Password = util.Normalize(creds.Password)
	if err := c.validateInput(creds); err != nil {
		return nil, err
	}
	var rec session.Record
	if err := c.do(ctx, http.MethodPost, "/login", creds, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SendOTP asks the server to send a password-reset OTP.
func (c *Client) SendOTP(ctx context.Context, req OTPRequest) (*MessageResponse, error) {
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/send-otp", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP confirms an OTP and returns the reset token.
func (c *Client) VerifyOTP(ctx context.Context, req OTPVerification) (*OTPTokenResponse, error) {
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out OTPTokenResponse
	if err := c.do(ctx, http.MethodPost, "/verify-otp", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, req PasswordReset) (*MessageResponse, error) {
	req.NewPassword = util.Normalize(req.NewPassword)
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/reset-user-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword starts the forgotten-password flow.
func (c *Client) ForgotPassword(ctx context.Context, req OTPRequest) (*MessageResponse, error) {
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/forgot-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Accounts lists all user accounts (admin).
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Account fetches one user account by ID (admin).
func (c *Client) Account(ctx context.Context, id string) (*Account, error) {
	var out Account
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount provisions a new user (admin).
func (c *Client) CreateAccount(ctx context.Context, req CreateAccount) (*Account, error) {
	req.Password = util.Normalize(req.Password)
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out Account
	if err := c.do(ctx, http.MethodPost, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccount edits a user (admin).
func (c *Client) UpdateAccount(ctx context.Context, id string, req UpdateAccount) (*Account, error) {
	if err := c.validateInput(req); err != nil {
		return nil, err
	}
	var out Account
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes a user (admin).
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}
