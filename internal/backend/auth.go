package backend

import (
	"context"
	"net/http"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Register starts sign-up. The backend either emails a one-time code or,
// when it verifies accounts itself, signs the user in right away.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*domain.RegisterResult, error) {
	env, err := call[domain.RegisterResult](ctx, c, http.MethodPost, "/auth/register", nil, reg)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return &domain.RegisterResult{Email: reg.Email}, nil
	}
	return env.Data, nil
}

// VerifyOTP completes sign-up and signs the user in
func (c *Client) VerifyOTP(ctx context.Context, v domain.OTPVerification) (*domain.AuthResult, error) {
	return data(call[domain.AuthResult](ctx, c, http.MethodPost, "/auth/verify-otp", nil, v))
}

// ResendOTP asks the backend to email a fresh code
func (c *Client) ResendOTP(ctx context.Context, email string) (string, error) {
	return message(call[Empty](ctx, c, http.MethodPost, "/auth/resend-otp", nil, map[string]string{"email": email}))
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	return data(call[domain.AuthResult](ctx, c, http.MethodPost, "/auth/login", nil, creds))
}

// Me returns the user owning the token in ctx
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	return data(call[domain.User](ctx, c, http.MethodGet, "/auth/me", nil, nil))
}
