package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// Option configures the BaseService embedded in every service.
type Option func(*BaseService)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(b *BaseService) {
		b.clock = clock
	}
}

func (s *BaseService) apply(opts []Option) {
	for _, opt := range opts {
		opt(s)
	}
}

// Now returns the current UTC time from the configured clock.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// requireAdmin rejects callers without the ADMIN role.
func requireAdmin(actor domain.Identity) error {
	if !actor.IsAdmin() {
		return apperrors.Newf(apperrors.ErrForbidden, "admin role required")
	}
	return nil
}

// requireOwnerOrAdmin rejects callers that neither own the record nor are admins.
func requireOwnerOrAdmin(actor domain.Identity, ownerID string) error {
	if !actor.CanActOn(ownerID) {
		return apperrors.Newf(apperrors.ErrForbidden, "you can only act on your own records")
	}
	return nil
}
