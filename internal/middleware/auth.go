package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.Envelope{Success: false, Message: msg})
}

// IdentityResolver loads the current role and status of a token's subject.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, memberID string) (domain.Identity, error)
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the caller's identity in the request context. Role and status come
// from the resolver on every request, so suspensions and demotions apply immediately.
func AuthMiddleware(jwtSecret string, resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortWithMessage(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			logger.Warn("Authorization header format invalid")
			abortWithMessage(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortWithMessage(c, http.StatusUnauthorized, msg)
			return
		}

		identity, err := resolver.ResolveIdentity(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Token subject no longer exists", slog.String("member_id", claims.Subject))
				abortWithMessage(c, http.StatusUnauthorized, "Invalid token claims")
				return
			}
			logger.Error("Failed to resolve token subject", slog.String("member_id", claims.Subject), slog.String("error", err.Error()))
			abortWithMessage(c, http.StatusInternalServerError, "internal server error")
			return
		}

		enrichedLogger := logger.With(
			slog.String("member_id", identity.MemberID),
			slog.String("role", string(identity.Role)),
		)
		ctx := WithIdentity(c.Request.Context(), identity)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(identityCtxKey), identity)

		c.Next()
	}
}
