package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
)

// EventReader defines read operations for event data
type EventReader interface {
	FindEventByID(ctx context.Context, eventID string) (*domain.Event, error)
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)

	// ListAttendees returns the members who RSVPed to the event, oldest RSVP first.
	ListAttendees(ctx context.Context, eventID string) ([]domain.EventAttendee, error)
}

// EventWriter defines write operations for event data
type EventWriter interface {
	SaveEvent(ctx context.Context, event domain.Event) error
	UpdateEvent(ctx context.Context, event domain.Event) error

	// DeleteEvent removes the event together with its RSVPs.
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventRSVPSupport defines the operations the RSVP toggle runs inside one unit of work.
type EventRSVPSupport interface {
	// FindEventByIDForUpdate selects the event and locks it until the transaction ends.
	FindEventByIDForUpdate(ctx context.Context, eventID string) (*domain.Event, error)

	// FindRSVP returns apperrors.ErrNotFound when the member has not RSVPed.
	FindRSVP(ctx context.Context, eventID, memberID string) (*domain.EventRSVP, error)
	SaveRSVP(ctx context.Context, rsvp domain.EventRSVP) error
	DeleteRSVP(ctx context.Context, eventID, memberID string) error

	// AdjustAttendeeCount adds delta to the counter, never taking it below zero.
	AdjustAttendeeCount(ctx context.Context, eventID string, delta int, memberID string, now time.Time) error
}

// EventRepositoryFacade combines all event-related repository interfaces
type EventRepositoryFacade interface {
	EventReader
	EventWriter
	EventRSVPSupport
}

// AnnouncementRepository stores announcements.
type AnnouncementRepository interface {
	SaveAnnouncement(ctx context.Context, announcement domain.Announcement) error
	FindAnnouncementByID(ctx context.Context, announcementID string) (*domain.Announcement, error)

	// ListAnnouncements returns pinned announcements first, then newest first.
	ListAnnouncements(ctx context.Context, filter domain.AnnouncementFilter) ([]domain.Announcement, error)
	UpdateAnnouncement(ctx context.Context, announcement domain.Announcement) error
	DeleteAnnouncement(ctx context.Context, announcementID string) error
}

// FeedbackRepository stores member feedback.
type FeedbackRepository interface {
	SaveFeedback(ctx context.Context, feedback domain.Feedback) error
	FindFeedbackByID(ctx context.Context, feedbackID string) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	UpdateFeedback(ctx context.Context, feedback domain.Feedback) error
	DeleteFeedback(ctx context.Context, feedbackID string) error
}
