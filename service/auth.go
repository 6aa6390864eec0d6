package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"absolute-cinema-cli/model"
)

// Login exchanges credentials for a bearer token. The backend answers with
// the token as plain text.
func (c *Client) Login(ctx context.Context, email string, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", errors.New("email and password are required")
	}
	query := url.Values{}
	query.Set("email", email)
	query.Set("password", password)

	var token string
	err := c.do(ctx, http.MethodPost, c.endpoint("/auth/login", query), nil, &token)
	if err != nil {
		if IsUnauthorized(err) {
			return "", errors.New("invalid credentials or unverified account")
		}
		return "", fmt.Errorf("login failed: %w", err)
	}
	if token == "" {
		return "", errors.New("login failed: empty token")
	}
	return token, nil
}

// GetCurrentUser returns the profile of the token holder.
func (c *Client) GetCurrentUser(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, c.endpoint("/auth/user", nil), &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ErrInvalidOTP is returned when the backend rejects a one-time code.
var ErrInvalidOTP = errors.New("invalid or expired one-time code")

// Register creates an unverified customer account. The backend emails a
// one-time code and returns its expiry.
func (c *Client) Register(ctx context.Context, reg model.Registration) (model.OTPToken, error) {
	var token model.OTPToken
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/register", nil), reg, &token); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict && apiErr.Body != "" {
			return model.OTPToken{}, errors.New(apiErr.Body)
		}
		return model.OTPToken{}, fmt.Errorf("register: %w", err)
	}
	return token, nil
}

// GenerateOTP sends a fresh verification code for an unverified account.
func (c *Client) GenerateOTP(ctx context.Context, email string, password string) (string, error) {
	query := url.Values{}
	query.Set("email", strings.TrimSpace(email))
	query.Set("password", password)

	var message string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/generate-otp", query), nil, &message); err != nil {
		if IsUnauthorized(err) {
			return "", errors.New("unknown account or wrong password")
		}
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return message, nil
}

// Verify activates an account with the emailed code. The backend reports a
// wrong code either as a 400 or as a 200 without a success message.
func (c *Client) Verify(ctx context.Context, email string, otp string) error {
	query := url.Values{}
	query.Set("email", strings.TrimSpace(email))
	query.Set("otp", strings.TrimSpace(otp))

	var message string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/verify", query), nil, &message); err != nil {
		if hasStatus(err, http.StatusBadRequest) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("verify: %w", err)
	}
	if !strings.Contains(strings.ToLower(message), "success") {
		return ErrInvalidOTP
	}
	return nil
}

// RequestPasswordReset emails a reset code to the account holder.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	query := url.Values{}
	query.Set("email", strings.TrimSpace(email))

	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/otp-password-reset-token", query), nil, nil); err != nil {
		if IsNotFound(err) {
			return errors.New("no account with that email")
		}
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

// VerifyPasswordResetOTP trades a reset code for the token ResetPassword needs.
func (c *Client) VerifyPasswordResetOTP(ctx context.Context, email string, otp string) (string, error) {
	query := url.Values{}
	query.Set("email", strings.TrimSpace(email))
	query.Set("otp", strings.TrimSpace(otp))

	var token string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/verify-password-reset-otp", query), nil, &token); err != nil {
		if hasStatus(err, http.StatusBadRequest) {
			return "", ErrInvalidOTP
		}
		return "", fmt.Errorf("verify reset code: %w", err)
	}
	if token == "" {
		return "", errors.New("verify reset code: empty token")
	}
	return token, nil
}

func (c *Client) ResetPassword(ctx context.Context, reset model.PasswordReset) (string, error) {
	query := url.Values{}
	query.Set("email", strings.TrimSpace(reset.Email))
	query.Set("token", strings.TrimSpace(reset.Token))
	query.Set("newPassword", reset.NewPassword)

	var message string
	if err := c.do(ctx, http.MethodPost, c.endpoint("/auth/reset-password", query), nil, &message); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Body != "" && apiErr.StatusCode < http.StatusInternalServerError {
			return "", errors.New(apiErr.Body)
		}
		return "", fmt.Errorf("reset password: %w", err)
	}
	return message, nil
}

// UpdateUser replaces the profile of user id and returns the stored result.
func (c *Client) UpdateUser(ctx context.Context, id int64, update model.ProfileUpdate) (model.User, error) {
	if id <= 0 {
		return model.User{}, errors.New("user id is required")
	}
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))

	var user model.User
	if err := c.do(ctx, http.MethodPut, c.endpoint("/auth/update", query), update, &user); err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
