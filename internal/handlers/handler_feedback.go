package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type feedbackHandler struct {
	feedbackService portssvc.FeedbackSvc
}

func newFeedbackHandler(fs portssvc.FeedbackSvc) *feedbackHandler {
	return &feedbackHandler{feedbackService: fs}
}

func registerFeedbackRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, feedbackService portssvc.FeedbackSvc) {
	h := newFeedbackHandler(feedbackService)

	feedback := rg.Group("/feedback")
	{
		feedback.POST("", active, h.submitFeedback)
		feedback.GET("", h.listFeedback)
		feedback.GET("/:id", h.getFeedback)
		feedback.PUT("/:id/status", admin, h.updateFeedbackStatus)
		feedback.DELETE("/:id", admin, h.deleteFeedback)
	}
}

// submitFeedback godoc
// @Summary Submit feedback
// @Description Anonymous feedback is stored without any link to the author.
// @Tags feedback
// @Accept json
// @Produce json
// @Param feedback body dto.CreateFeedbackRequest true "Feedback"
// @Success 201 {object} dto.Envelope{data=domain.Feedback}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /feedback [post]
func (h *feedbackHandler) submitFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.SubmitFeedback(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to submit feedback")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Feedback submitted",
		slog.String("feedback_id", feedback.FeedbackID),
		slog.Bool("anonymous", feedback.MemberID == nil))
	respondData(c, http.StatusCreated, feedback)
}

// listFeedback godoc
// @Summary List feedback
// @Description Admins see all feedback. Members see only their own attributed feedback.
// @Tags feedback
// @Produce json
// @Param status query string false "Status filter" Enums(NEW, REVIEWED, RESOLVED)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Feedback]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /feedback [get]
func (h *feedbackHandler) listFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var params dto.ListFeedbackParams
	if !bindQuery(c, &params) {
		return
	}

	items, err := h.feedbackService.ListFeedback(c.Request.Context(), identity, domain.FeedbackFilter{
		Status: params.Status,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list feedback")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(items, params.ListParams))
}

// getFeedback godoc
// @Summary Get feedback
// @Tags feedback
// @Produce json
// @Param id path string true "Feedback ID"
// @Success 200 {object} dto.Envelope{data=domain.Feedback}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /feedback/{id} [get]
func (h *feedbackHandler) getFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	feedbackID, ok := pathID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.GetFeedback(c.Request.Context(), identity, feedbackID)
	if err != nil {
		respondError(c, err, "Failed to get feedback")
		return
	}
	respondData(c, http.StatusOK, feedback)
}

// updateFeedbackStatus godoc
// @Summary Update feedback status
// @Description Moves feedback NEW to REVIEWED to RESOLVED, optionally recording a response.
// @Tags feedback
// @Accept json
// @Produce json
// @Param id path string true "Feedback ID"
// @Param status body dto.UpdateFeedbackStatusRequest true "New status"
// @Success 200 {object} dto.Envelope{data=domain.Feedback}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /feedback/{id}/status [put]
func (h *feedbackHandler) updateFeedbackStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	feedbackID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateFeedbackStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	feedback, err := h.feedbackService.UpdateFeedbackStatus(c.Request.Context(), identity, feedbackID, req)
	if err != nil {
		respondError(c, err, "Failed to update feedback status")
		return
	}
	respondData(c, http.StatusOK, feedback)
}

// deleteFeedback godoc
// @Summary Delete feedback
// @Tags feedback
// @Param id path string true "Feedback ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /feedback/{id} [delete]
func (h *feedbackHandler) deleteFeedback(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	feedbackID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), identity, feedbackID); err != nil {
		respondError(c, err, "Failed to delete feedback")
		return
	}
	c.Status(http.StatusNoContent)
}
