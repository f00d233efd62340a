package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for keys stored in request contexts.
type contextKey string

const (
	loggerCtxKey   = contextKey("logger")
	identityCtxKey = contextKey("identity")
)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithIdentity returns a copy of ctx carrying the authenticated caller.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, identity)
}

// GetIdentityFromCtx retrieves the authenticated caller from a standard context.
func GetIdentityFromCtx(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(domain.Identity)
	return identity, ok
}

// GetIdentityFromContext retrieves the authenticated caller from the Gin context.
// It returns the identity and a boolean indicating if it was found.
func GetIdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	if val, exists := c.Get(string(identityCtxKey)); exists {
		if identity, ok := val.(domain.Identity); ok {
			return identity, true
		}
	}
	// check in the request context as well
	return GetIdentityFromCtx(c.Request.Context())
}
