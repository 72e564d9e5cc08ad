package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nmr-relax/rotkit/internal/convert"
	"github.com/nmr-relax/rotkit/internal/interpreter"
	"github.com/nmr-relax/rotkit/internal/rotation"
	"github.com/nmr-relax/rotkit/internal/server/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ORDER", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeDomainError maps an error from a rotation call to a response.
// Input errors carry their message; anything else is reported generically.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, rotation.ErrInvalidOrder):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ORDER", err.Error())
	case errors.Is(err, convert.ErrNoRotation),
		errors.Is(err, convert.ErrAmbiguous),
		errors.Is(err, convert.ErrNotFinite),
		errors.Is(err, rotation.ErrShape),
		errors.Is(err, rotation.ErrNotRotation),
		errors.Is(err, rotation.ErrZeroVector):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ROTATION", err.Error())
	case errors.Is(err, interpreter.ErrStopped):
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "interpreter is shutting down")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "BODY_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
