package services

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
)

// EventReaderSvc defines read operations for events
type EventReaderSvc interface {
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	ListAttendees(ctx context.Context, eventID string) ([]domain.EventAttendee, error)
}

// EventWriterSvc defines write operations for events
type EventWriterSvc interface {
	CreateEvent(ctx context.Context, actor domain.Identity, req dto.CreateEventRequest) (*domain.Event, error)
	UpdateEvent(ctx context.Context, actor domain.Identity, eventID string, req dto.UpdateEventRequest) (*domain.Event, error)
	DeleteEvent(ctx context.Context, actor domain.Identity, eventID string) error

	// ToggleRSVP adds the caller to the attendee set, or removes them if already present.
	ToggleRSVP(ctx context.Context, actor domain.Identity, eventID string) (*domain.RSVPResult, error)
}

// EventSvcFacade combines all event-related service interfaces
type EventSvcFacade interface {
	EventReaderSvc
	EventWriterSvc
}

// AnnouncementSvc manages announcements.
type AnnouncementSvc interface {
	CreateAnnouncement(ctx context.Context, actor domain.Identity, req dto.CreateAnnouncementRequest) (*domain.Announcement, error)
	GetAnnouncement(ctx context.Context, actor domain.Identity, announcementID string) (*domain.Announcement, error)
	ListAnnouncements(ctx context.Context, actor domain.Identity, params dto.ListParams) ([]domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, actor domain.Identity, announcementID string, req dto.UpdateAnnouncementRequest) (*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, actor domain.Identity, announcementID string) error
}

// FeedbackSvc manages member feedback.
type FeedbackSvc interface {
	SubmitFeedback(ctx context.Context, actor domain.Identity, req dto.CreateFeedbackRequest) (*domain.Feedback, error)
	GetFeedback(ctx context.Context, actor domain.Identity, feedbackID string) (*domain.Feedback, error)

	// ListFeedback returns everything to admins and only the caller's own feedback to members.
	ListFeedback(ctx context.Context, actor domain.Identity, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	UpdateFeedbackStatus(ctx context.Context, actor domain.Identity, feedbackID string, req dto.UpdateFeedbackStatusRequest) (*domain.Feedback, error)
	DeleteFeedback(ctx context.Context, actor domain.Identity, feedbackID string) error
}
