package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeConflict       = "CONFLICT"
	CodePaymentFailed  = "PAYMENT_FAILED"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeBadGateway     = "UPSTREAM_ERROR"
	CodeGatewayTimeout = "UPSTREAM_TIMEOUT"
	CodeInternal       = "INTERNAL_ERROR"
)

// AppError is the error type services return for anything a client should see.
type AppError struct {
	Code    string
	Message string
	Status  int
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a payload rendered under "details".
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

func newAppError(code string, status int, format string, args ...any) *AppError {
	return &AppError{Code: code, Status: status, Message: fmt.Sprintf(format, args...)}
}

func ErrNotFound(format string, args ...any) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound, format, args...)
}

func ErrBadRequest(format string, args ...any) *AppError {
	return newAppError(CodeBadRequest, http.StatusBadRequest, format, args...)
}

func ErrUnprocessable(format string, args ...any) *AppError {
	return newAppError(CodeValidation, http.StatusUnprocessableEntity, format, args...)
}

func ErrUnauthorized(format string, args ...any) *AppError {
	return newAppError(CodeUnauthorized, http.StatusUnauthorized, format, args...)
}

func ErrForbidden(format string, args ...any) *AppError {
	return newAppError(CodeForbidden, http.StatusForbidden, format, args...)
}

func ErrConflict(format string, args ...any) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, format, args...)
}

func ErrPaymentRequired(format string, args ...any) *AppError {
	return newAppError(CodePaymentFailed, http.StatusPaymentRequired, format, args...)
}

func ErrUnavailable(format string, args ...any) *AppError {
	return newAppError(CodeUnavailable, http.StatusServiceUnavailable, format, args...)
}

func ErrBadGateway(format string, args ...any) *AppError {
	return newAppError(CodeBadGateway, http.StatusBadGateway, format, args...)
}

func ErrGatewayTimeout(format string, args ...any) *AppError {
	return newAppError(CodeGatewayTimeout, http.StatusGatewayTimeout, format, args...)
}

// ErrInternal wraps an unexpected failure; the cause is logged, never rendered.
func ErrInternal(err error, format string, args ...any) *AppError {
	e := newAppError(CodeInternal, http.StatusInternalServerError, format, args...)
	e.Err = err
	return e
}

// IsNotFound reports whether err carries a 404 AppError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusNotFound
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondError renders err, using the AppError status when there is one.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		GetLogger().Error("Unhandled service error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": CodeInternal})
		return
	}
	if appErr.Status >= http.StatusInternalServerError {
		GetLogger().Error(appErr.Message, zap.String("path", c.Request.URL.Path), zap.Error(appErr.Err))
	}
	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.JSON(appErr.Status, body)
}
