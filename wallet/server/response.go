package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the error schema shared by all handlers.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

func badRequest(c *fiber.Ctx, title, message string) error {
	return writeError(c, fiber.StatusBadRequest, title, message)
}

func notFound(c *fiber.Ctx, title, message string) error {
	return writeError(c, fiber.StatusNotFound, title, message)
}

func unprocessableEntity(c *fiber.Ctx, title, message string) error {
	return writeError(c, fiber.StatusUnprocessableEntity, title, message)
}
