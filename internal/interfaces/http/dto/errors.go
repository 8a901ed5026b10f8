package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself. Domain errors keep the code
// they were created with.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeBodyTooLarge = "BODY_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps exact error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:           http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"VERSION_CONFLICT":        http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeValidation:            http.StatusUnprocessableEntity,
	"INVALID_STATE":              http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":         http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":        http.StatusUnprocessableEntity,
	"PAYMENT_METHOD_UNAVAILABLE": http.StatusUnprocessableEntity,
	"FIXED_SIZE":                 http.StatusUnprocessableEntity,

	ErrCodeBodyTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	"UPSTREAM_UNAVAILABLE": http.StatusBadGateway,
	"NOT_CONFIGURED":       http.StatusServiceUnavailable,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
}

// codeFamilies maps code prefixes and suffixes shared by many domain errors
var codeFamilies = []struct {
	prefix string
	suffix string
	status int
}{
	{suffix: "_NOT_FOUND", status: http.StatusNotFound},
	{suffix: "_EXISTS", status: http.StatusConflict},
	{prefix: "OPTIMISTIC_LOCK", status: http.StatusConflict},
	{prefix: "HAS_", status: http.StatusConflict},
	{prefix: "CANNOT_", status: http.StatusUnprocessableEntity},
	{prefix: "INVALID_", status: http.StatusBadRequest},
	{prefix: "UNKNOWN_", status: http.StatusBadRequest},
	{prefix: "TOO_MANY_", status: http.StatusBadRequest},
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not known.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	for _, f := range codeFamilies {
		if f.prefix != "" && strings.HasPrefix(code, f.prefix) {
			return f.status
		}
		if f.suffix != "" && strings.HasSuffix(code, f.suffix) {
			return f.status
		}
	}
	return http.StatusInternalServerError
}
