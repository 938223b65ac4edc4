package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMatchesSentinels(t *testing.T) {
	unauthorized := fmt.Errorf("load profile: %w", &APIError{Status: 401, Message: "Token expired"})
	assert.True(t, errors.Is(unauthorized, ErrUnauthorized))
	assert.False(t, errors.Is(unauthorized, ErrNotFound))

	assert.True(t, errors.Is(&APIError{Status: 404}, ErrNotFound))
	assert.True(t, errors.Is(&APIError{Status: 403}, ErrForbidden))
	assert.False(t, errors.Is(&APIError{Status: 500}, ErrUnauthorized))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "backend message", err: &APIError{Status: 400, Message: "Đã đặt món hôm nay"}, want: "Đã đặt món hôm nay"},
		{name: "wrapped backend message", err: fmt.Errorf("create order: %w", &APIError{Status: 400, Message: "Hết lượt"}), want: "Hết lượt"},
		{name: "backend without message", err: &APIError{Status: 500}, want: genericFailure},
		{name: "validation", err: &ValidationError{Field: "email", Message: "Email không hợp lệ"}, want: "Email không hợp lệ"},
		{name: "transport", err: errors.New("connection refused"), want: genericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestUserMessageOr(t *testing.T) {
	assert.Equal(t, "Email hoặc mật khẩu không đúng", UserMessageOr(&APIError{Status: 401}, "Email hoặc mật khẩu không đúng"))
	assert.Equal(t, "Tài khoản đã bị khóa", UserMessageOr(&APIError{Status: 403, Message: "Tài khoản đã bị khóa"}, "x"))
}
