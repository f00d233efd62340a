package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests related to members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers routes related to members.
func registerMemberRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	members := rg.Group("/members", active)
	{
		members.GET("", h.listMembers)
		members.GET("/:id", h.getMember)
		members.PUT("/:id", h.updateMember)

		members.POST("", admin, h.createMember)
		members.DELETE("/:id", admin, h.deleteMember)
		members.POST("/:id/approve", admin, h.lifecycle(memberService.ApproveMember, "approved"))
		members.POST("/:id/reject", admin, h.lifecycle(memberService.RejectMember, "rejected"))
		members.POST("/:id/suspend", admin, h.lifecycle(memberService.SuspendMember, "suspended"))
		members.POST("/:id/reactivate", admin, h.lifecycle(memberService.ReactivateMember, "reactivated"))
		members.POST("/:id/promote", admin, h.lifecycle(memberService.PromoteMember, "promoted"))
		members.POST("/:id/demote", admin, h.lifecycle(memberService.DemoteMember, "demoted"))
	}
}

// listMembers godoc
// @Summary List members
// @Description Members see the active directory. Admins may filter by any status or role.
// @Tags members
// @Produce json
// @Param status query string false "Status filter" Enums(PENDING, ACTIVE, SUSPENDED, REJECTED)
// @Param role query string false "Role filter" Enums(MEMBER, ADMIN)
// @Param search query string false "Name or email search"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[dto.MemberResponse]}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListMembersParams
	if !bindQuery(c, &params) {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), identity, params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(dto.ToMemberResponses(members), params.ListParams))
}

// getMember godoc
// @Summary Get a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), identity, memberID)
	if err != nil {
		respondError(c, err, "Failed to get member")
		return
	}
	respondData(c, http.StatusOK, dto.ToMemberResponse(member))
}

// createMember godoc
// @Summary Create a member
// @Description Admins add members directly. They start ACTIVE.
// @Tags members
// @Accept json
// @Produce json
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create member")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member created", slog.String("member_id", member.MemberID))
	respondData(c, http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMember godoc
// @Summary Update a member profile
// @Description Members may edit their own profile. Position is admin-only.
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param member body dto.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *memberHandler) updateMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.UpdateMember(c.Request.Context(), identity, memberID, req)
	if err != nil {
		respondError(c, err, "Failed to update member")
		return
	}
	respondData(c, http.StatusOK, dto.ToMemberResponse(member))
}

// deleteMember godoc
// @Summary Delete a member
// @Description Only members without payments, invoices, expenses or feedback can be deleted.
// @Tags members
// @Param id path string true "Member ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [delete]
func (h *memberHandler) deleteMember(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.memberService.DeleteMember(c.Request.Context(), identity, memberID); err != nil {
		respondError(c, err, "Failed to delete member")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member deleted", slog.String("member_id", memberID))
	c.Status(http.StatusNoContent)
}

type memberTransition func(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)

// lifecycle godoc
// @Summary Change member status or role
// @Description Approve, reject, suspend, reactivate, promote or demote a member.
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Param action path string true "Transition" Enums(approve, reject, suspend, reactivate, promote, demote)
// @Success 200 {object} dto.Envelope{data=dto.MemberResponse}
// @Failure 400 {object} ErrorResponse "Invalid transition"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id}/{action} [post]
func (h *memberHandler) lifecycle(transition memberTransition, verb string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			return
		}
		memberID, ok := pathID(c)
		if !ok {
			return
		}

		member, err := transition(c.Request.Context(), identity, memberID)
		if err != nil {
			respondError(c, err, "Member transition failed")
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Member "+verb,
			slog.String("member_id", memberID),
			slog.String("status", string(member.Status)),
			slog.String("role", string(member.Role)))
		respondData(c, http.StatusOK, dto.ToMemberResponse(member))
	}
}
