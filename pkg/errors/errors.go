package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Each code maps to exactly one HTTP status at the boundary.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeAuthentication = "AUTHENTICATION_ERROR"
	CodeAuthorization  = "AUTHORIZATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL_ERROR"
)

var (
	ErrInvalidCredentials   = NewAppError(CodeAuthentication, "Invalid credentials", nil)
	ErrAccountInactive      = NewAppError(CodeAuthentication, "Account is inactive", nil)
	ErrIncorrectOldPassword = NewAppError(CodeAuthentication, "Incorrect old password", nil)

	ErrCredentialsRequired = NewAppError(CodeAuthentication, "Authentication credentials were not provided", nil)
	ErrInvalidAuthHeader   = NewAppError(CodeAuthentication, "Invalid authorization header format", nil)
	ErrTokenInvalid        = NewAppError(CodeAuthentication, "Invalid token", nil)
	ErrTokenExpired        = NewAppError(CodeAuthentication, "Token has expired", nil)
	ErrTokenRevoked        = NewAppError(CodeAuthentication, "Token has been revoked", nil)
	ErrTokenUserNotFound   = NewAppError(CodeAuthentication, "User not found", nil)
	ErrUserInactive        = NewAppError(CodeAuthentication, "User inactive or deleted", nil)

	ErrPermissionDenied = NewAppError(CodeAuthorization, "Permission denied", nil)
	ErrSelfDeletion     = NewAppError(CodeAuthorization, "Cannot delete your own account", nil)

	ErrUserNotFound     = NewAppError(CodeNotFound, "User not found", nil)
	ErrDriverNotFound   = NewAppError(CodeNotFound, "Driver not found", nil)
	ErrSupplierNotFound = NewAppError(CodeNotFound, "Supplier not found", nil)

	ErrUsernameTaken = NewAppError(CodeConflict, "Username already exists", nil)
	ErrEmailTaken    = NewAppError(CodeConflict, "Email already exists", nil)

	ErrMissingCredentials = NewAppError(CodeValidation, "Please provide email/username and password", nil)
	ErrMissingSignupData  = NewAppError(CodeValidation, "Please provide username, email and password", nil)
	ErrInvalidEmail       = NewAppError(CodeValidation, "Invalid email format", nil)
	ErrWeakPassword       = NewAppError(CodeValidation, "Password must be at least 8 characters and include uppercase, lowercase, and numbers", nil)
	ErrResetLinkInvalid   = NewAppError(CodeValidation, "Password reset link is invalid or has expired", nil)
)

type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation builds a 400 error, optionally carrying per-field messages.
func Validation(message string, fields map[string]string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Fields: fields}
}

func NotFound(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// Internal wraps an unexpected failure. The message is what the client sees.
func Internal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// StatusCode resolves the HTTP status for err. Anything that is not an
// *AppError is internal.
func StatusCode(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
