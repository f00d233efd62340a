package dto

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
)

// CreateEventRequest defines the data needed to create an event.
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=5000"`
	Location    string     `json:"location" binding:"omitempty,max=200"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    int        `json:"capacity" binding:"min=0"`
}

// UpdateEventRequest defines the event fields that can be changed.
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
}

// ListEventsParams defines query parameters for listing events.
type ListEventsParams struct {
	ListParams
	Upcoming bool `form:"upcoming"`
}

// CreateAnnouncementRequest defines the data needed to publish an announcement.
type CreateAnnouncementRequest struct {
	Title    string          `json:"title" binding:"required,max=200"`
	Body     string          `json:"body" binding:"required,max=10000"`
	Audience domain.Audience `json:"audience" binding:"omitempty,oneof=ALL MEMBERS ADMINS"`
	Pinned   bool            `json:"pinned"`
}

// UpdateAnnouncementRequest defines the announcement fields that can be changed.
type UpdateAnnouncementRequest struct {
	Title    *string          `json:"title" binding:"omitempty,max=200"`
	Body     *string          `json:"body" binding:"omitempty,max=10000"`
	Audience *domain.Audience `json:"audience" binding:"omitempty,oneof=ALL MEMBERS ADMINS"`
	Pinned   *bool            `json:"pinned"`
}

// CreateFeedbackRequest is submitted by members.
type CreateFeedbackRequest struct {
	Subject   string `json:"subject" binding:"required,max=200"`
	Message   string `json:"message" binding:"required,max=5000"`
	Category  string `json:"category" binding:"omitempty,max=50"`
	Anonymous bool   `json:"anonymous"`
}

// UpdateFeedbackStatusRequest moves feedback through triage.
type UpdateFeedbackStatusRequest struct {
	Status   domain.FeedbackStatus `json:"status" binding:"required,oneof=REVIEWED RESOLVED"`
	Response string                `json:"response" binding:"omitempty,max=5000"`
}

// ListFeedbackParams defines query parameters for listing feedback.
type ListFeedbackParams struct {
	ListParams
	Status domain.FeedbackStatus `form:"status" binding:"omitempty,oneof=NEW REVIEWED RESOLVED"`
}
