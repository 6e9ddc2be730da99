package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/services"
)

// ErrorHandler renders any error that reaches the fiber app as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError && e == nil {
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// NotFound is the catch-all for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Endpoint not found",
	})
}

// pipelineError maps analyzer errors onto HTTP responses.
func pipelineError(c *fiber.Ctx, err error, prefix string) error {
	var (
		validErr   *services.ValidationError
		extractErr *services.ExtractionError
	)

	switch {
	case errors.As(err, &validErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validErr.Message,
		})
	case errors.Is(err, services.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": services.UnsupportedFormatMessage,
		})
	case errors.As(err, &extractErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": extractErr.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": prefix + ": " + err.Error(),
		})
	}
}
