package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error shape every controller hands to WriteError.
// Only Message reaches the client; Code and Err are for logs.
type AppError struct {
	Code       string
	Message    string
	Detail     string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New crea un AppError.
func New(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// FromError returns err as an *AppError, or a generic 500 wrapping it.
func FromError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternalServerError.WithCause(err)
}

// WithMessage returns a copy with a different client-facing message.
func (e *AppError) WithMessage(msg string) *AppError {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithDetail returns a copy carrying a log-only detail.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithCause returns a copy wrapping err.
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// =================================================================================
// ERRORES PREDEFINIDOS
// =================================================================================

// ─── 400 ───

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Bad request",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "Request body is not valid JSON",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingFields = &AppError{
		Code:       "MISSING_FIELDS",
		Message:    "Missing required fields",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrActiveTenantRequired = &AppError{
		Code:       "ACTIVE_TENANT_REQUIRED",
		Message:    "Active tenant context required",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrNoActiveSession = &AppError{
		Code:       "NO_ACTIVE_SESSION",
		Message:    "No active session",
		HTTPStatus: http.StatusBadRequest,
	}
)

// ─── 401 ───

var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Not authenticated",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrSessionExpired = &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    "Session expired",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// ─── 403 ───

var (
	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Forbidden",
		HTTPStatus: http.StatusForbidden,
	}

	ErrAccountDisabled = &AppError{
		Code:       "ACCOUNT_DISABLED",
		Message:    "Account is disabled",
		HTTPStatus: http.StatusForbidden,
	}

	ErrClientFrozen = &AppError{
		Code:       "CLIENT_FROZEN",
		Message:    "Client data is frozen, updates are disabled",
		HTTPStatus: http.StatusForbidden,
	}
)

// ─── 404 / 405 ───

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrClientNotFound = &AppError{
		Code:       "CLIENT_NOT_FOUND",
		Message:    "Client not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// ─── 409 / 410 ───

var (
	ErrConflict = &AppError{
		Code:       "CONFLICT",
		Message:    "Conflict",
		HTTPStatus: http.StatusConflict,
	}

	ErrEmailAlreadyInUse = &AppError{
		Code:       "EMAIL_ALREADY_IN_USE",
		Message:    "A user with that email already exists",
		HTTPStatus: http.StatusConflict,
	}

	ErrInviteExpired = &AppError{
		Code:       "INVITE_EXPIRED",
		Message:    "Invite expired or invalid",
		HTTPStatus: http.StatusGone,
	}
)

// ─── 429 ───

var (
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests, try again later",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// ─── 5xx ───

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServerMisconfigured = &AppError{
		Code:       "SERVER_MISCONFIGURED",
		Message:    "Server misconfigured",
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "Service unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
