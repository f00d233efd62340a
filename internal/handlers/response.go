package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/SscSPs/assoc_backend/internal/validation"
	"github.com/gin-gonic/gin"
)

// ErrorResponse documents the failure envelope for swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"validation error: amount must be greater than zero"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, dto.Envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.Envelope{Success: true, Message: message})
}

// respondError maps err onto its HTTP status. Client errors are logged at
// warn level, everything else at error level with the full cause.
func respondError(c *gin.Context, err error, logMsg string) {
	status := apperrors.HTTPStatus(err)
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error(logMsg, slog.String("error", err.Error()))
	} else {
		logger.Warn(logMsg, slog.String("error", err.Error()), slog.Int("status", status))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.Envelope{Success: false, Message: apperrors.PublicMessage(err)})
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.Envelope{Success: false, Message: message})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON", slog.String("error", err.Error()))
		abortBadRequest(c, "Invalid request: "+validation.Describe(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query", slog.String("error", err.Error()))
		abortBadRequest(c, "Invalid query parameters: "+validation.Describe(err))
		return false
	}
	return true
}

// pathID returns the :id path parameter, rejecting anything that is not a UUID.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !validation.IsUUID(id) {
		abortBadRequest(c, "Invalid ID: "+id)
		return "", false
	}
	return id, true
}

// currentIdentity returns the caller set by AuthMiddleware.
func currentIdentity(c *gin.Context) (domain.Identity, bool) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok || identity.MemberID == "" {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Identity not found in context")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Envelope{Success: false, Message: "Unauthorized"})
		return domain.Identity{}, false
	}
	return identity, true
}
