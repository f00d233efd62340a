package domain

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
)

// Event is an association event members can RSVP to.
type Event struct {
	EventID       string     `json:"eventID"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	StartsAt      time.Time  `json:"startsAt"`
	EndsAt        *time.Time `json:"endsAt,omitempty"`
	Capacity      int        `json:"capacity"` // 0 means unlimited
	AttendeeCount int        `json:"attendeeCount"`
	AuditFields
}

// IsFull reports whether no further RSVPs can be accepted.
func (e Event) IsFull() bool {
	return e.Capacity > 0 && e.AttendeeCount >= e.Capacity
}

// ValidateSchedule checks that the event does not end before it starts.
func (e Event) ValidateSchedule() error {
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return apperrors.Newf(apperrors.ErrValidation, "event cannot end before it starts")
	}
	if e.Capacity < 0 {
		return apperrors.Newf(apperrors.ErrValidation, "capacity cannot be negative")
	}
	if e.Capacity > 0 && e.AttendeeCount > e.Capacity {
		return apperrors.Newf(apperrors.ErrConflict, "capacity %d is below current attendee count %d", e.Capacity, e.AttendeeCount)
	}
	return nil
}

// EventRSVP is the join record between an event and an attending member.
type EventRSVP struct {
	EventID   string    `json:"eventID"`
	MemberID  string    `json:"memberID"`
	CreatedAt time.Time `json:"createdAt"`
}

// EventAttendee is a member projected for an attendee list.
type EventAttendee struct {
	MemberID string    `json:"memberID"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	RSVPAt   time.Time `json:"rsvpAt"`
}

// RSVPResult is the outcome of toggling an RSVP.
type RSVPResult struct {
	Attending bool  `json:"attending"`
	Event     Event `json:"event"`
}
