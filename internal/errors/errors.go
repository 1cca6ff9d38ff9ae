package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches domain errors by code so wrapped copies still compare equal
// to the predefined values.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// CooldownError is returned when an action must not be repeated before
// RetryAfter has elapsed.
type CooldownError struct {
	*DomainError
	RetryAfter time.Duration
}

func NewCooldownError(domainErr *DomainError, retryAfter time.Duration) *CooldownError {
	return &CooldownError{DomainError: domainErr, RetryAfter: retryAfter}
}

func (e *CooldownError) Unwrap() error {
	return e.DomainError
}

// Predefined domain errors
var (
	// Account errors
	ErrUserNotFound       = NewDomainError("USER_NOT_FOUND", "user not found")
	ErrUserExists         = NewDomainError("USER_EXISTS", "user with this email or phone already exists")
	ErrAccountExists      = NewDomainError("ACCOUNT_EXISTS", "user already exists")
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
	ErrAccountDisabled    = NewDomainError("ACCOUNT_DISABLED", "account is not active")
	ErrSelfModification   = NewDomainError("SELF_MODIFICATION", "administrators cannot change their own role, status or account")
	ErrIncorrectPassword  = NewDomainError("INCORRECT_PASSWORD", "current password is incorrect")

	// OTP errors
	ErrOtpAlreadySent = NewDomainError("OTP_ALREADY_SENT", "OTP already sent, please wait before requesting a new one")
	ErrInvalidOtp     = NewDomainError("INVALID_OTP", "invalid OTP")
	ErrOtpExpired     = NewDomainError("OTP_EXPIRED", "OTP expired")
	ErrDeliveryFailed = NewDomainError("DELIVERY_FAILED", "failed to send OTP email")

	// Authentication errors
	ErrUnauthorized = NewDomainError("UNAUTHORIZED", "unauthorized")
	ErrForbidden    = NewDomainError("FORBIDDEN", "access forbidden")
	ErrInvalidToken = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired = NewDomainError("TOKEN_EXPIRED", "token has expired")

	// Catalog errors
	ErrCategoryNotFound = NewDomainError("CATEGORY_NOT_FOUND", "category not found")
	ErrCategoryExists   = NewDomainError("CATEGORY_EXISTS", "category already exists")
	ErrSettingNotFound  = NewDomainError("SETTING_NOT_FOUND", "setting not found")

	// Validation errors
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "invalid input")
	ErrInvalidRole   = NewDomainError("INVALID_ROLE", "invalid role")
	ErrInvalidStatus = NewDomainError("INVALID_STATUS", "invalid status")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "INVALID_ROLE", "INVALID_STATUS":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "UNAUTHORIZED", "INVALID_CREDENTIALS", "INVALID_TOKEN", "TOKEN_EXPIRED",
		"INVALID_OTP", "OTP_EXPIRED", "INCORRECT_PASSWORD":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "FORBIDDEN", "ACCOUNT_DISABLED", "SELF_MODIFICATION":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "CATEGORY_NOT_FOUND", "SETTING_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "USER_EXISTS", "ACCOUNT_EXISTS", "OTP_ALREADY_SENT", "CATEGORY_EXISTS":
		return http.StatusConflict

	// 502 Bad Gateway
	case "DELIVERY_FAILED":
		return http.StatusBadGateway

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
