package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/crazycube/graveyard-api/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest   ErrorCode = "bad_request"
	ErrCodeNotFound     ErrorCode = "not_found"
	ErrCodeUnauthorized ErrorCode = "unauthorized"

	// Server errors (5xx)
	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeServiceError  ErrorCode = "service_error"
	ErrCodeUnavailable   ErrorCode = "unavailable"
)

// APIError is the JSON error envelope returned by every endpoint
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

func newAPIError(code ErrorCode, message string, details []string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewBadRequestError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeBadRequest, message, details)
}

func NewNotFoundError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeNotFound, message, details)
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeUnauthorized, message, details)
}

func NewInternalError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeInternalError, message, details)
}

func NewServiceError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeServiceError, message, details)
}

func NewUnavailableError(message string, details ...string) *APIError {
	return newAPIError(ErrCodeUnavailable, message, details)
}

// FromError maps a service error to an HTTP status and envelope.
// Invalid input is a client error and a request whose own context ended is 503.
// Anything else came from the chain node, upstream timeouts included, and is 502.
func FromError(ctx context.Context, err error, message string) (int, *APIError) {
	switch {
	case errors.Is(err, domain.ErrInvalidAddress):
		return http.StatusBadRequest, NewBadRequestError("Invalid address", err.Error())
	case ctx.Err() != nil:
		return http.StatusServiceUnavailable, NewUnavailableError(message, ctx.Err().Error())
	default:
		return http.StatusBadGateway, NewServiceError(message, err.Error())
	}
}
