package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/contact-enricher/internal/dto"
	middlewarepkg "github.com/octobees/contact-enricher/internal/middleware"
)

// APIResponse is the envelope of the auth and contact status endpoints.
// RequestID echoes X-Request-ID so operators can find the matching log line.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(statusOr(status, http.StatusOK), APIResponse{
		Status:    "success",
		Message:   message,
		Data:      data,
		RequestID: middlewarepkg.RequestIDFromContext(c),
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(statusOr(status, http.StatusInternalServerError), APIResponse{
		Status:    "error",
		Message:   message,
		RequestID: middlewarepkg.RequestIDFromContext(c),
	})
}

// Fail answers with the bare {"error": ...} body the batch contract uses instead of the envelope.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(statusOr(status, http.StatusInternalServerError), dto.ErrorResponse{Error: message})
}

func statusOr(status, fallback int) int {
	if status == 0 {
		return fallback
	}
	return status
}
