package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ValidationError marks input shape or range violations; handlers map it
// to VALIDATION_ERROR / 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalidf builds a ValidationError.
func Invalidf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ConflictError marks state conflicts outside booking admission (booked
// slots during regeneration, non-cancellable bookings, duplicates).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// AuthError marks credential failures; handlers map it to
// AUTHENTICATION_ERROR / 401.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }

// Unauthorizedf builds an AuthError.
func Unauthorizedf(format string, args ...interface{}) error {
	return &AuthError{Msg: fmt.Sprintf(format, args...)}
}

// Error codes shared by every endpoint. Handlers map service errors onto
// these; clients switch on the code, not the message.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND_ERROR"
	CodeConflict       = "CONFLICT_ERROR"
	CodeRateLimit      = "RATE_LIMIT_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// StatusForCode maps an error code to its HTTP status.
func StatusForCode(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler is a middleware that catches panics and returns a structured
// INTERNAL_ERROR envelope instead of a bare 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger := GetLogger()
				logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				RespondError(c, http.StatusInternalServerError, CodeInternal,
					"An unexpected error occurred. Please try again later.", nil)
			}
		}()
		c.Next()
	}
}
