package handler

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/session"
)

// AuthHandler serves login, registration and logout
type AuthHandler struct {
	base
	auth *session.Authenticator
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(d Deps, auth *session.Authenticator) *AuthHandler {
	return &AuthHandler{base: newBase(d, "auth"), auth: auth}
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type registerForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type otpForm struct {
	OTP string `form:"otp"`
}

// RegisterPage is the view-model of the registration screen
type RegisterPage struct {
	Step  string `json:"step"`
	Email string `json:"email,omitempty"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render(c, "login", "Đăng nhập", fiber.Map{})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	creds := domain.Credentials{Email: strings.TrimSpace(form.Email), Password: form.Password}
	if err := h.check(creds); err != nil {
		sess.Error("❌ Đăng nhập thất bại", domain.UserMessage(err))
		return redirect(c, "/login")
	}

	if err := h.auth.Login(c.UserContext(), sess, creds); err != nil {
		sess.Error("❌ Đăng nhập thất bại", domain.UserMessageOr(err, "Email hoặc mật khẩu không đúng"))
		return redirect(c, "/login")
	}

	sess.Success("🎉 Đăng nhập thành công!", fmt.Sprintf("Chào mừng %s đến với Web Đặt Cơm!", sess.User.Name))
	return redirect(c, "/")
}

// RegisterPage handles GET /register; it shows the OTP step while a
// registration is waiting for its code
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	data := RegisterPage{Step: "register"}
	if sess.PendingEmail != "" {
		data = RegisterPage{Step: "verify", Email: sess.PendingEmail}
	}
	return h.render(c, "register", "Đăng ký", data)
}

// Register handles POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	var form registerForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	reg := domain.Registration{
		Name:     strings.TrimSpace(form.Name),
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	}
	if err := h.check(reg); err != nil {
		sess.Error("❌ Đăng ký thất bại", domain.UserMessage(err))
		return redirect(c, "/register")
	}

	signedIn, err := h.auth.Register(c.UserContext(), sess, reg)
	if err != nil {
		sess.Error("❌ Đăng ký thất bại", domain.UserMessage(err))
		return redirect(c, "/register")
	}
	if signedIn {
		sess.Success("🎉 Đăng ký thành công!", "Chào mừng bạn đến với Web Đặt Cơm!")
		return redirect(c, "/")
	}

	sess.Success("📧 Đã gửi mã OTP!", fmt.Sprintf("Kiểm tra email %s để lấy mã xác thực.", sess.PendingEmail))
	return redirect(c, "/register")
}

// VerifyOTP handles POST /register/verify
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	if sess.PendingEmail == "" {
		return redirect(c, "/register")
	}

	var form otpForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	v := domain.OTPVerification{Email: sess.PendingEmail, OTP: strings.TrimSpace(form.OTP)}
	if err := h.check(v); err != nil {
		sess.Error("❌ Mã OTP không đúng", domain.UserMessage(err))
		return redirect(c, "/register")
	}

	if err := h.auth.VerifyOTP(c.UserContext(), sess, v); err != nil {
		sess.Error("❌ Mã OTP không đúng", domain.UserMessageOr(err, "Vui lòng kiểm tra lại"))
		return redirect(c, "/register")
	}

	sess.Success("🎉 Xác thực thành công!", "Tài khoản đã được kích hoạt.")
	return redirect(c, "/")
}

// ResendOTP handles POST /register/resend
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	if sess.PendingEmail == "" {
		return redirect(c, "/register")
	}

	if _, err := h.api.ResendOTP(c.UserContext(), sess.PendingEmail); err != nil {
		h.logger.Warn().Err(err).Msg("resend otp failed")
		sess.Error("❌ Không thể gửi lại", "Vui lòng thử lại sau.")
		return redirect(c, "/register")
	}

	sess.Success("📧 Đã gửi lại mã OTP!", "Kiểm tra email của bạn.")
	return redirect(c, "/register")
}

// RestartRegistration handles POST /register/restart, going back to the form
func (h *AuthHandler) RestartRegistration(c *fiber.Ctx) error {
	middleware.Current(c).PendingEmail = ""
	return redirect(c, "/register")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	if err := h.auth.Logout(c.UserContext(), sess); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
	}
	return redirect(c, "/")
}
