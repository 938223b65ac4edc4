package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/guard"
)

// ErrSessionLoading is returned while the session could not be validated yet
var ErrSessionLoading = fiber.NewError(fiber.StatusServiceUnavailable, "Đang kiểm tra phiên đăng nhập, vui lòng thử lại")

// Require protects the routes behind it with the given access level
func Require(access guard.Access) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.Decide(Current(c).State(), access)
		switch d.Outcome {
		case guard.Wait:
			c.Set(fiber.HeaderRetryAfter, "2")
			return ErrSessionLoading
		case guard.Redirect:
			return c.Redirect(d.Location, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RequireAuth lets signed-in users through
func RequireAuth() fiber.Handler {
	return Require(guard.Protected)
}

// RequireAdmin lets admins through
func RequireAdmin() fiber.Handler {
	return Require(guard.Admin)
}

// GuestOnly sends signed-in users away from login and registration
func GuestOnly() fiber.Handler {
	return Require(guard.GuestOnly)
}
