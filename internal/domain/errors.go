package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrUnauthorized = errors.New("session is no longer valid")
)

// genericFailure is shown when the backend gave no usable message
const genericFailure = "Có lỗi xảy ra"

// UserMessage extracts the text shown to the user for a failed call
func UserMessage(err error) string {
	return UserMessageOr(err, genericFailure)
}

// UserMessageOr is UserMessage with a screen specific fallback
func UserMessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var msgErr interface{ UserMessage() string }
	if errors.As(err, &msgErr) {
		return msgErr.UserMessage()
	}
	return fallback
}

// ValidationError is a rejected form submission that never reached the backend
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UserMessage returns the message safe to display
func (e *ValidationError) UserMessage() string {
	return e.Message
}
