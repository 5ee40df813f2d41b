package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/contacts/internal/domain"
)

// Error codes shared by the bootstrap middleware and routers.
const (
	CodeInvalidJSON         = "INVALID_JSON"
	CodePayloadTooLarge     = "PAYLOAD_TOO_LARGE"
	CodeInvalidBody         = "INVALID_BODY"
	CodeInvalidID           = "INVALID_ID"
	CodeContactNotFound     = "CONTACT_NOT_FOUND"
	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	case errors.Is(err, domain.ErrContactNotFound):
		return http.StatusNotFound, CodeContactNotFound, message
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, CodeInvalidID, message
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest, CodeInvalidBody, message

	case errors.Is(err, domain.ErrDatabaseUnavailable):
		return http.StatusServiceUnavailable, CodeDatabaseUnavailable, "Database unavailable"

	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, CodeInternal, "Internal server error"
	}
}
