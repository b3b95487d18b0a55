package main

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/linht/sx1255"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func sendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func sendError(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

func sendErrorMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// statusFor distinguishes configuration mistakes, which are the client's
// fault, from bus failures.
func statusFor(err error) int {
	if errors.Is(err, sx1255.ErrOutOfRange) || errors.Is(err, sx1255.ErrInvalidConfiguration) {
		return 422
	}
	return 500
}
