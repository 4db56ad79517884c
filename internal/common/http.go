package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendForbiddenError sends a forbidden error response
func SendForbiddenError(c echo.Context) error {
	return c.JSON(http.StatusForbidden, CreateErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
}

// SendDomainError maps a typed service error onto the matching HTTP response.
// NotFound -> 404, InsufficientStock -> 400, AlreadyExists -> 400,
// Conflict -> 409. Anything else is answered with a generic 500 and the full
// error is only written to the server log.
func SendDomainError(c echo.Context, err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", notFound.Error(), nil))
	}
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("INSUFFICIENT_STOCK", stock.Error(), nil))
	}
	var exists *AlreadyExistsError
	if errors.As(err, &exists) {
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("ALREADY_EXISTS", exists.Error(), nil))
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", conflict.Error(), nil))
	}
	log.Printf("internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "operation could not be completed", nil))
}
