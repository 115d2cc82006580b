package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geoflex/internal/adapters/here"
	"github.com/samirrijal/geoflex/internal/core/ports"
	"github.com/samirrijal/geoflex/internal/core/usecases"
	"github.com/samirrijal/geoflex/internal/pkg/flexpolyline"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, invalid_polyline:<kind>, ...
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

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// writeError maps service and adapter errors onto HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	var upstream *here.APIError
	switch {
	case errors.Is(err, usecases.ErrTooManyPoints):
		return newError(c, fiber.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
	case errors.Is(err, usecases.ErrInvalidArgument):
		return errBadRequest(c, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		return newError(c, fiber.StatusNotFound, "not_found", "geometry not found")
	case flexpolyline.Code(err) != "unknown":
		return newError(c, fiber.StatusUnprocessableEntity, "invalid_polyline:"+flexpolyline.Code(err), err.Error())
	case errors.As(err, &upstream):
		return newError(c, fiber.StatusBadGateway, "bad_gateway", upstream.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusGatewayTimeout, "gateway_timeout", "upstream request timed out")
	}
	LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
