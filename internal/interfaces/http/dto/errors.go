package dto

import (
	"net/http"
	"strings"
)

// Error code constants surfaced by the API. Domain errors carry these
// codes; the handler layer maps them to HTTP status codes here.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed or unparseable requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource does not exist
	ErrCodeNotFound = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures are 400, business rule rejections are 422,
// dependency outages are 503.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"PAYMENT_EXCEEDS_BALANCE": http.StatusUnprocessableEntity,
	"INVOICE_VOID":            http.StatusUnprocessableEntity,
	"INVOICE_ALREADY_PAID":    http.StatusUnprocessableEntity,
	"QUOTE_INVOICED":          http.StatusUnprocessableEntity,
	"QUOTE_REJECTED":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":      http.StatusUnprocessableEntity,
	"PRODUCT_NOT_FOUND":       http.StatusUnprocessableEntity,
	"INVALID_STATE":           http.StatusUnprocessableEntity,

	"UPSTREAM_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown INVALID_ codes are treated as input errors; anything else
// falls back to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
