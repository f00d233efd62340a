package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// authHandler handles registration, login and the caller's own credentials.
type authHandler struct {
	authService   portssvc.AuthSvc
	memberService portssvc.MemberSvcFacade
}

func newAuthHandler(as portssvc.AuthSvc, ms portssvc.MemberSvcFacade) *authHandler {
	return &authHandler{authService: as, memberService: ms}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, authService portssvc.AuthSvc, memberService portssvc.MemberSvcFacade, loginLimiter *limiter.Limiter) {
	h := newAuthHandler(authService, memberService)

	auth := rg.Group("/api/v1/auth")
	{
		if loginLimiter != nil {
			auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
		} else {
			auth.POST("/login", h.login)
		}
		auth.POST("/register", h.register)
	}
}

// registerMeRoutes sets up routes acting on the authenticated caller.
func registerMeRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc, memberService portssvc.MemberSvcFacade) {
	h := newAuthHandler(authService, memberService)

	me := rg.Group("/auth/me")
	{
		me.GET("", h.me)
		me.PUT("/password", h.changePassword)
	}
}

// registerAdminRoutes sets up admin-only audit routes.
func registerAdminRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc, authService portssvc.AuthSvc) {
	h := newAuthHandler(authService, nil)

	rg.GET("/admin/login-logs", admin, h.listLoginLogs)
}

// login godoc
// @Summary Member login
// @Description Authenticates a member and returns a JWT token. Every attempt is recorded in the login log.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.Envelope{data=dto.LoginResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Membership not active"
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	meta := dto.LoginMetadata{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	resp, err := h.authService.Login(c.Request.Context(), req, meta)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member logged in", slog.String("member_id", resp.Member.MemberID))
	respondData(c, http.StatusOK, resp)
}

// register godoc
// @Summary Register as a member
// @Description Creates a PENDING membership that an admin must approve before the member can log in.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member registered", slog.String("member_id", member.MemberID))
	respondData(c, http.StatusCreated, dto.ToMemberResponse(member))
}

// me godoc
// @Summary Current member
// @Description Returns the profile of the authenticated member.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), identity, identity.MemberID)
	if err != nil {
		respondError(c, err, "Failed to load current member")
		return
	}
	respondData(c, http.StatusOK, dto.ToMemberResponse(member))
}

// changePassword godoc
// @Summary Change password
// @Description Replaces the caller's password after verifying the current one.
// @Tags auth
// @Accept json
// @Produce json
// @Param password body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me/password [put]
func (h *authHandler) changePassword(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity, req); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	respondMessage(c, http.StatusOK, "Password updated")
}

// listLoginLogs godoc
// @Summary List login attempts
// @Description Returns the login audit trail, newest first.
// @Tags admin
// @Produce json
// @Param memberId query string false "Filter by member ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.LoginLog]}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/login-logs [get]
func (h *authHandler) listLoginLogs(c *gin.Context) {
	var params dto.ListLoginLogsParams
	if !bindQuery(c, &params) {
		return
	}

	logs, err := h.authService.ListLoginLogs(c.Request.Context(), domain.LoginLogFilter{
		MemberID: params.MemberID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list login logs")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(logs, params.ListParams))
}
