package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type announcementHandler struct {
	announcementService portssvc.AnnouncementSvc
}

func newAnnouncementHandler(as portssvc.AnnouncementSvc) *announcementHandler {
	return &announcementHandler{announcementService: as}
}

func registerAnnouncementRoutes(rg *gin.RouterGroup, admin gin.HandlerFunc, announcementService portssvc.AnnouncementSvc) {
	h := newAnnouncementHandler(announcementService)

	announcements := rg.Group("/announcements")
	{
		announcements.GET("", h.listAnnouncements)
		announcements.GET("/:id", h.getAnnouncement)
		announcements.POST("", admin, h.createAnnouncement)
		announcements.PUT("/:id", admin, h.updateAnnouncement)
		announcements.DELETE("/:id", admin, h.deleteAnnouncement)
	}
}

// listAnnouncements godoc
// @Summary List announcements
// @Description Pinned announcements first, then newest. Admin-only announcements are hidden from members.
// @Tags announcements
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Announcement]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /announcements [get]
func (h *announcementHandler) listAnnouncements(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if !bindQuery(c, &params) {
		return
	}

	items, err := h.announcementService.ListAnnouncements(c.Request.Context(), identity, params)
	if err != nil {
		respondError(c, err, "Failed to list announcements")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(items, params))
}

// getAnnouncement godoc
// @Summary Get an announcement
// @Tags announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} dto.Envelope{data=domain.Announcement}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /announcements/{id} [get]
func (h *announcementHandler) getAnnouncement(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	announcementID, ok := pathID(c)
	if !ok {
		return
	}

	announcement, err := h.announcementService.GetAnnouncement(c.Request.Context(), identity, announcementID)
	if err != nil {
		respondError(c, err, "Failed to get announcement")
		return
	}
	respondData(c, http.StatusOK, announcement)
}

// createAnnouncement godoc
// @Summary Publish an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param announcement body dto.CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} dto.Envelope{data=domain.Announcement}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /announcements [post]
func (h *announcementHandler) createAnnouncement(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create announcement")
		return
	}
	respondData(c, http.StatusCreated, announcement)
}

// updateAnnouncement godoc
// @Summary Update an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param announcement body dto.UpdateAnnouncementRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=domain.Announcement}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /announcements/{id} [put]
func (h *announcementHandler) updateAnnouncement(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	announcementID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	announcement, err := h.announcementService.UpdateAnnouncement(c.Request.Context(), identity, announcementID, req)
	if err != nil {
		respondError(c, err, "Failed to update announcement")
		return
	}
	respondData(c, http.StatusOK, announcement)
}

// deleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags announcements
// @Param id path string true "Announcement ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /announcements/{id} [delete]
func (h *announcementHandler) deleteAnnouncement(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	announcementID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.announcementService.DeleteAnnouncement(c.Request.Context(), identity, announcementID); err != nil {
		respondError(c, err, "Failed to delete announcement")
		return
	}
	c.Status(http.StatusNoContent)
}
