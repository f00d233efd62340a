package handlers

import (
	"github.com/SscSPs/assoc_backend/cmd/docs"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/metrics"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/SscSPs/assoc_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes. A nil loginLimiter disables
// rate limiting on login.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public authentication routes
	registerAuthRoutes(r, services.Auth, services.Member, loginLimiter)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the authenticated /api/v1 group and delegates to
// the per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, services.Auth))

	active := middleware.RequireActive()
	admin := middleware.RequireRole(domain.RoleAdmin)

	registerMeRoutes(v1, services.Auth, services.Member)
	registerAdminRoutes(v1, admin, services.Auth)
	registerMemberRoutes(v1, active, admin, services.Member)
	registerEventRoutes(v1, active, admin, services.Event)
	registerAnnouncementRoutes(v1, admin, services.Announcement)
	registerFeedbackRoutes(v1, active, admin, services.Feedback)

	finance := v1.Group("/finance")
	registerAccountRoutes(finance, admin, services.Account)
	registerExpenseRoutes(finance, active, admin, services.Expense)
	registerPaymentRoutes(finance, active, admin, services.Payment)
	registerInvoiceRoutes(finance, active, admin, services.Invoice)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
