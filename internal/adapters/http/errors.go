package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
	"github.com/samirrijal/gridsquare/internal/pkg/osgrid"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, unprocessable, internal_error, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errUnprocessable returns a 422 error for well-formed input the domain rejects.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusUnprocessableEntity, "unprocessable", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// errFrom maps a service error onto the matching response.
func errFrom(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, osgrid.ErrInvalidGridRef),
		errors.Is(err, usecases.ErrOutsideGrid),
		errors.Is(err, usecases.ErrInvalidCoordinate),
		errors.Is(err, usecases.ErrInvalidRegion):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrEmptyRegion),
		errors.Is(err, usecases.ErrNotRelation),
		errors.Is(err, usecases.ErrNoOuterWays),
		errors.Is(err, usecases.ErrDegenerateBoundary),
		errors.Is(err, usecases.ErrTooFewPoints):
		return errUnprocessable(c, err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}
