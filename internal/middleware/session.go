package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/guard"
	"github.com/mansoorceksport/mealturn/internal/session"
	"github.com/mansoorceksport/mealturn/internal/telemetry"
	"github.com/rs/zerolog"
)

// SessionKey is the fiber.Locals key holding the *session.Session
const SessionKey = "session"

// SessionConfig configures the session cookie
type SessionConfig struct {
	CookieName string
	Secure     bool
}

// Sessions loads the visitor's session, validates a stored token against
// the backend and saves the session after the handler ran. A backend 401
// anywhere in the request signs the visitor out and sends them to login.
func Sessions(store *session.Store, auth *session.Authenticator, cfg SessionConfig, logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		cookieID := c.Cookies(cfg.CookieName)

		sess, err := store.Load(ctx, cookieID)
		if err != nil {
			if !errors.Is(err, session.ErrSessionNotFound) {
				logger.Error().Err(err).Msg("failed to load session")
			}
			sess = store.New()
		}

		if err := auth.Restore(ctx, sess); err != nil && errors.Is(err, domain.ErrUnauthorized) {
			sess.Error("Phiên đăng nhập đã hết hạn", "Vui lòng đăng nhập lại")
		}

		if sess.IsAuthenticated {
			telemetry.SetSpanAttribute(c, "user.id", sess.UserID())
		}
		c.Locals(SessionKey, sess)
		c.SetUserContext(backend.WithToken(ctx, sess.Token))

		handlerErr := c.Next()
		if handlerErr != nil && errors.Is(handlerErr, domain.ErrUnauthorized) {
			logger.Info().Str("path", c.Path()).Msg("backend rejected session token")
			sess.SignOut()
			sess.Error("Phiên đăng nhập đã hết hạn", "Vui lòng đăng nhập lại")
			handlerErr = c.Redirect(guard.LoginPath, fiber.StatusSeeOther)
		}

		if err := store.Save(ctx, sess); err != nil {
			logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session")
		}
		writeCookie(c, cfg, sess, cookieID)

		return handlerErr
	}
}

func writeCookie(c *fiber.Ctx, cfg SessionConfig, sess *session.Session, previous string) {
	kept := sess.Persistent()
	switch {
	case kept && sess.ID != previous:
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	case !kept && previous != "":
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   cfg.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}

// Current returns the request's session
func Current(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	if sess == nil {
		return &session.Session{}
	}
	return sess
}
