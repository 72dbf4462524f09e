// Package response defines the wire shapes shared by handlers and middleware.
package response

import (
	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform error payload. Every non-2xx response carries a
// single human-readable detail string.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// MessageBody is a minimal acknowledgement payload.
type MessageBody struct {
	Message string `json:"message"`
}

// Error writes the uniform error body with the given status code.
func Error(c echo.Context, statusCode int, detail string) error {
	return c.JSON(statusCode, ErrorBody{Detail: detail})
}

// Message writes a 2xx acknowledgement body.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageBody{Message: message})
}
