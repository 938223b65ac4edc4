package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/view"
	"github.com/rs/zerolog"
)

// ErrorPage is the view-model of the error screen
type ErrorPage struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// statusOf maps an error to the response status and the message shown
func statusOf(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg := fe.Message
		if fe.Code == fiber.StatusNotFound && msg == fiber.ErrNotFound.Message {
			msg = "Trang bạn tìm không tồn tại"
		}
		return fe.Code, msg
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, domain.UserMessage(err)
		}
		return fiber.StatusBadGateway, "Máy chủ đặt cơm đang bận, vui lòng thử lại sau"
	}

	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return fiber.StatusBadRequest, invalid.Message
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "Không tìm thấy dữ liệu"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "Bạn không có quyền truy cập"
	}
	return fiber.StatusInternalServerError, "Có lỗi xảy ra"
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusOf(err)

		event := logger.Warn()
		if code >= fiber.StatusInternalServerError && code != fiber.StatusServiceUnavailable {
			event = logger.Error()
		}
		event.Err(err).Int("status", code).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

		if view.WantsJSON(c) {
			return c.Status(code).JSON(fiber.Map{
				"error": msg,
			})
		}

		page := view.Page{
			Name:   "error",
			Title:  msg,
			Data:   ErrorPage{Status: code, Message: msg, Retry: code == fiber.StatusServiceUnavailable},
			Layout: view.MainLayout,
		}
		if sess := middleware.Current(c); sess.IsAuthenticated {
			page.User = sess.User
		}
		if renderErr := view.RenderStatus(c, code, page); renderErr != nil {
			logger.Error().Err(renderErr).Msg("failed to render error page")
			return c.Status(code).SendString(msg)
		}
		return nil
	}
}
