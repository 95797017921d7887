// Package middleware provides HTTP middleware for the auth service.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/louals/production-api/internal/guard"
	"github.com/louals/production-api/internal/logging"
	"github.com/louals/production-api/internal/models"
)

// RoleContextKey is where an upstream auth layer stores the caller's role.
// Unauthenticated requests have no value and are treated as guests.
const RoleContextKey = "auth.role"

// quota is one role's sliding-window rule plus its denial message.
type quota struct {
	limit   int
	message string
}

// Fixed role->quota mapping, one-minute window each.
var roleQuotas = map[string]quota{
	models.RoleAdmin: {limit: 20, message: "Admin request limit exceeded (20 per minute). Slow down"},
	models.RoleUser:  {limit: 10, message: "User request limit exceeded (10 per minute). Slow down"},
	models.RoleGuest: {limit: 5, message: "Guest request limit exceeded (5 per minute). Slow down"},
}

const quotaWindowSeconds = 60

// Security returns middleware that submits every request to the guard
// oracle and short-circuits denied requests. It runs ahead of all business
// handlers. An oracle failure fails closed with a 500.
func Security(protector guard.Protector, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := resolveRole(c)
		q, ok := roleQuotas[role]
		if !ok {
			q = roleQuotas[models.RoleGuest]
			role = models.RoleGuest
		}

		rule := guard.Rule{
			Name:          role + "-rate-limit",
			WindowSeconds: quotaWindowSeconds,
			MaxRequests:   q.limit,
		}
		req := guard.RequestInfo{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Path:      c.Request.URL.Path,
			Query:     c.Request.URL.RawQuery,
		}

		decision, err := protector.Protect(c.Request.Context(), req, rule)
		if err != nil {
			log.Error(c.Request.Context(), "security middleware failure",
				"error", err,
				"path", req.Path,
				"request_id", RequestIDFrom(c),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Something went wrong with security middleware",
			})
			return
		}

		if decision.IsDenied() {
			log.Warn(c.Request.Context(), "request denied",
				"ip", req.IP,
				"userAgent", req.UserAgent,
				"path", req.Path,
				"reason", string(decision.Reason.Type),
				"request_id", RequestIDFrom(c),
			)

			// Detection details are deliberately not revealed.
			if decision.Reason.IsBot() || decision.Reason.IsShield() {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error":   "Forbidden",
					"message": "Automated requests are not allowed",
				})
				return
			}

			if decision.Reason.IsRateLimit() {
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":   "Too many requests",
					"message": q.message,
				})
				return
			}
		}

		c.Next()
	}
}

func resolveRole(c *gin.Context) string {
	if role, ok := c.Get(RoleContextKey); ok {
		if s, ok := role.(string); ok && s != "" {
			return s
		}
	}
	return models.RoleGuest
}
