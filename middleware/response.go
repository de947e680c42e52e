package middleware

import (
	"log"

	"lms/apperrors"

	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes the uniform success envelope.
func JsonResponse(c *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse classifies err and writes the failure envelope. Internal
// causes are logged here and never leak to the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperrors.As(err)
	if appErr.Kind == apperrors.KindInternal && appErr.Err != nil {
		log.Printf("%s %s: %v", c.Method(), c.Path(), appErr.Err)
	}
	return c.Status(appErr.Status()).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Message,
	})
}

// ValidationErrorResponse reports per-field validation failures.
func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   "Validation failed!",
		"errors":  errors,
	})
}
