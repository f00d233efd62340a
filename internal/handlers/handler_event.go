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

// eventHandler handles HTTP requests related to events and RSVPs.
type eventHandler struct {
	eventService portssvc.EventSvcFacade
}

func newEventHandler(es portssvc.EventSvcFacade) *eventHandler {
	return &eventHandler{eventService: es}
}

// registerEventRoutes registers routes related to events.
func registerEventRoutes(rg *gin.RouterGroup, active, admin gin.HandlerFunc, eventService portssvc.EventSvcFacade) {
	h := newEventHandler(eventService)

	events := rg.Group("/events")
	{
		events.GET("", h.listEvents)
		events.GET("/:id", h.getEvent)
		events.GET("/:id/attendees", h.listAttendees)
		events.POST("/:id/rsvp", active, h.toggleRSVP)

		events.POST("", admin, h.createEvent)
		events.PUT("/:id", admin, h.updateEvent)
		events.DELETE("/:id", admin, h.deleteEvent)
	}
}

// listEvents godoc
// @Summary List events
// @Description Lists events by start time. With upcoming=true only events that have not started are returned.
// @Tags events
// @Produce json
// @Param upcoming query bool false "Only upcoming events"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.Envelope{data=dto.ListResponse[domain.Event]}
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /events [get]
func (h *eventHandler) listEvents(c *gin.Context) {
	var params dto.ListEventsParams
	if !bindQuery(c, &params) {
		return
	}

	events, err := h.eventService.ListEvents(c.Request.Context(), domain.EventFilter{
		UpcomingOnly: params.Upcoming,
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list events")
		return
	}
	respondData(c, http.StatusOK, dto.NewListResponse(events, params.ListParams))
}

// getEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.Envelope{data=domain.Event}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *eventHandler) getEvent(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Failed to get event")
		return
	}
	respondData(c, http.StatusOK, event)
}

// listAttendees godoc
// @Summary List event attendees
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.Envelope{data=[]domain.EventAttendee}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id}/attendees [get]
func (h *eventHandler) listAttendees(c *gin.Context) {
	eventID, ok := pathID(c)
	if !ok {
		return
	}

	attendees, err := h.eventService.ListAttendees(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Failed to list attendees")
		return
	}
	if attendees == nil {
		attendees = []domain.EventAttendee{}
	}
	respondData(c, http.StatusOK, attendees)
}

// toggleRSVP godoc
// @Summary Toggle RSVP
// @Description Adds the caller to the attendee list, or removes them if they already RSVPed.
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.Envelope{data=domain.RSVPResult}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Event is full"
// @Security BearerAuth
// @Router /events/{id}/rsvp [post]
func (h *eventHandler) toggleRSVP(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.eventService.ToggleRSVP(c.Request.Context(), identity, eventID)
	if err != nil {
		respondError(c, err, "Failed to toggle RSVP")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("RSVP toggled",
		slog.String("event_id", eventID),
		slog.Bool("attending", result.Attending))
	respondData(c, http.StatusOK, result)
}

// createEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param event body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.Envelope{data=domain.Event}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /events [post]
func (h *eventHandler) createEvent(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), identity, req)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}
	respondData(c, http.StatusCreated, event)
}

// updateEvent godoc
// @Summary Update an event
// @Description Capacity cannot drop below the current attendee count.
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param event body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=domain.Event}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *eventHandler) updateEvent(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), identity, eventID, req)
	if err != nil {
		respondError(c, err, "Failed to update event")
		return
	}
	respondData(c, http.StatusOK, event)
}

// deleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *eventHandler) deleteEvent(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), identity, eventID); err != nil {
		respondError(c, err, "Failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}
