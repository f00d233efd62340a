package middleware

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// RequireActive rejects callers whose membership is not ACTIVE.
// It must run after AuthMiddleware.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !identity.IsActive() {
			GetLoggerFromCtx(c.Request.Context()).Warn("Inactive member denied", slog.String("status", string(identity.Status)))
			abortWithMessage(c, http.StatusForbidden, "Membership is not active")
			return
		}
		c.Next()
	}
}

// RequireRole rejects callers that do not hold one of the given roles.
// Admins must also be ACTIVE to use admin routes.
func RequireRole(roles ...domain.MemberRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok {
			abortWithMessage(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !identity.IsActive() {
			abortWithMessage(c, http.StatusForbidden, "Membership is not active")
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		GetLoggerFromCtx(c.Request.Context()).Warn("Role check failed", slog.String("role", string(identity.Role)))
		abortWithMessage(c, http.StatusForbidden, "Insufficient permissions")
	}
}
