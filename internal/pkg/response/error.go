package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string        `json:"error"`
	Kind  apperror.Kind `json:"kind"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Retryable() {
			c.Header("Retry-After", "1")
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Kind: appErr.Kind})
		return
	}

	// Unknown errors are recorded for the request logger and hidden from the client.
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Kind: apperror.KindInternal})
}

// BadRequest sends a 400 validation error with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Kind: apperror.KindValidation})
}
