package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Backend is the part of the REST client the authenticator needs
type Backend interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.RegisterResult, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	VerifyOTP(ctx context.Context, v domain.OTPVerification) (*domain.AuthResult, error)
	Me(ctx context.Context) (*domain.User, error)
}

// Authenticator moves sessions between signed-out and signed-in
type Authenticator struct {
	backend Backend
	store   *Store
	logger  zerolog.Logger
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(b Backend, store *Store, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		backend: b,
		store:   store,
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Login signs the session in with email and password
func (a *Authenticator) Login(ctx context.Context, sess *Session, creds domain.Credentials) error {
	result, err := a.backend.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	a.signIn(ctx, sess, result)
	a.logger.Info().Str("user_id", result.User.ID).Msg("user signed in")
	return nil
}

// Register starts sign-up. It reports true when the session is already
// signed in; otherwise the email is remembered for OTP verification.
func (a *Authenticator) Register(ctx context.Context, sess *Session, reg domain.Registration) (bool, error) {
	result, err := a.backend.Register(ctx, reg)
	if err != nil {
		return false, fmt.Errorf("registration failed: %w", err)
	}
	if result.Token != "" && result.User != nil {
		a.signIn(ctx, sess, &domain.AuthResult{Token: result.Token, User: *result.User})
		a.logger.Info().Str("user_id", result.User.ID).Msg("user registered and signed in")
		return true, nil
	}
	sess.PendingEmail = reg.Email
	if result.Email != "" {
		sess.PendingEmail = result.Email
	}
	return false, nil
}

// VerifyOTP completes registration and signs the session in
func (a *Authenticator) VerifyOTP(ctx context.Context, sess *Session, v domain.OTPVerification) error {
	result, err := a.backend.VerifyOTP(ctx, v)
	if err != nil {
		return fmt.Errorf("otp verification failed: %w", err)
	}
	a.signIn(ctx, sess, result)
	a.logger.Info().Str("user_id", result.User.ID).Msg("user verified and signed in")
	return nil
}

// signIn also issues a new session id so an id seen before login is useless after it
func (a *Authenticator) signIn(ctx context.Context, sess *Session, result *domain.AuthResult) {
	if err := a.store.Delete(ctx, sess.ID); err != nil {
		a.logger.Warn().Err(err).Msg("failed to drop pre-login session")
	}
	sess.ID = ulid.Make().String()
	sess.SignIn(result.Token, result.User, a.store.now(), a.store.Expiry(result.Token))
}

// Restore validates a stored token against the backend. A rejected token
// signs the session out and returns ErrUnauthorized; any other failure
// keeps the token and leaves the session loading so the next request
// tries again.
func (a *Authenticator) Restore(ctx context.Context, sess *Session) error {
	if sess.Token == "" {
		sess.IsAuthenticated = false
		sess.IsLoading = false
		return nil
	}
	if !sess.IsLoading {
		return nil
	}

	user, err := a.backend.Me(backend.WithToken(ctx, sess.Token))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			a.logger.Info().Str("session_id", sess.ID).Msg("stored token rejected, signing out")
			sess.SignOut()
			return domain.ErrUnauthorized
		}
		a.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("could not validate session")
		sess.IsAuthenticated = false
		sess.IsLoading = true
		return fmt.Errorf("failed to restore session: %w", err)
	}

	sess.User = user
	sess.IsAuthenticated = true
	sess.IsLoading = false
	sess.ValidatedAt = a.store.now()
	return nil
}

// Logout deletes the session
func (a *Authenticator) Logout(ctx context.Context, sess *Session) error {
	userID := sess.UserID()
	sess.SignOut()
	sess.Flashes = nil
	if err := a.store.Delete(ctx, sess.ID); err != nil {
		return err
	}
	a.logger.Info().Str("user_id", userID).Msg("user signed out")
	return nil
}
