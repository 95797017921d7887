package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/middleware"
)

// RespondError writes the two-field JSON error body used across the
// service: a short status label plus a human-readable message.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":   statusLabel(status),
		"message": message,
	})
}

// LogAndRespondError logs the underlying error with request context and
// responds with a safe public message.
func LogAndRespondError(c *gin.Context, log logging.Logger, status int, err error, message string) {
	log.Error(c.Request.Context(), message,
		"error", err,
		"path", c.Request.URL.Path,
		"status", status,
		"request_id", middleware.RequestIDFrom(c),
	)
	RespondError(c, status, message)
}

// statusLabel matches the labels the security middleware uses for its own
// denials.
func statusLabel(status int) string {
	switch status {
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusTooManyRequests:
		return "Too many requests"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return http.StatusText(status)
	}
}
