package rest

import (
	"errors"
	"github.com/gofiber/fiber/v2"
	"tryon/api/model"
)

// ErrorHandler renders every unhandled error as the JSON error payload.
// Messages of non fiber errors are not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}

	return c.Status(code).JSON(model.ErrorResponse{Error: msg})
}
