package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Error kinds returned by the service layer. Controllers map them to HTTP
// statuses with StatusFor; wrap with fmt.Errorf("%w: ...") to add detail.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOrExpired = errors.New("invalid or expired")
	ErrUpstream         = errors.New("upstream failure")
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusFor translates a service error into an HTTP status code. Duplicate
// email surfaces as 400, matching the original API contract.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidOrExpired):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// Fail writes the standard JSON error body for a service error.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(StatusFor(err)).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
	})
}
