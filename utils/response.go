package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Success writes the {success: true, data} envelope.
func Success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// Fail writes the {success: false, message} envelope.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ErrorHandler renders errors that escape handlers with the same envelope.
// Bodies over the server limit are reported as a bad request carrying
// tooLargeMessage.
func ErrorHandler(logger zerolog.Logger, tooLargeMessage string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}
		if status == fiber.StatusRequestEntityTooLarge {
			status = fiber.StatusBadRequest
			message = tooLargeMessage
		}
		if status >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		}
		return Fail(c, status, message)
	}
}
