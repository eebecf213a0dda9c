package api

import (
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/response"
)

const (
	RequestIDHeader = "X-Request-ID"
	ctxRequestID    = "requestID"
)

// GetRequestID returns the id assigned by RequestLogger.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// RequestLogger assigns every request an id (reusing X-Request-ID when the
// client sends one) and logs its start and completion.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		log.Info("HTTP request started",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote_addr", c.ClientIP(),
		)

		c.Next()

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			log.Error("HTTP request completed", append(attrs, "error", c.Errors.String())...)
			return
		}
		log.Info("HTTP request completed", attrs...)
	}
}

// Recovery turns a panic into a 500 response. gin's own recovery output is
// discarded in favour of one structured log line.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		log.Error("Panic recovered",
			"request_id", GetRequestID(c),
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
			Error: "internal server error",
			Kind:  apperror.KindInternal,
		})
	})
}
