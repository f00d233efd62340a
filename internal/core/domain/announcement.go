package domain

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
)

// Audience controls who may read an announcement.
type Audience string

const (
	AudienceAll     Audience = "ALL"
	AudienceMembers Audience = "MEMBERS"
	AudienceAdmins  Audience = "ADMINS"
)

// Announcement is a notice published to members.
type Announcement struct {
	AnnouncementID string    `json:"announcementID"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Audience       Audience  `json:"audience"`
	Pinned         bool      `json:"pinned"`
	PublishedAt    time.Time `json:"publishedAt"`
	AuditFields
}

// VisibleTo reports whether a caller with the given identity may read the announcement.
func (a Announcement) VisibleTo(actor Identity) bool {
	return a.Audience != AudienceAdmins || actor.IsAdmin()
}

// FeedbackStatus tracks triage of member feedback.
type FeedbackStatus string

const (
	FeedbackNew      FeedbackStatus = "NEW"
	FeedbackReviewed FeedbackStatus = "REVIEWED"
	FeedbackResolved FeedbackStatus = "RESOLVED"
)

var feedbackTransitions = map[FeedbackStatus][]FeedbackStatus{
	FeedbackNew:      {FeedbackReviewed, FeedbackResolved},
	FeedbackReviewed: {FeedbackResolved},
}

// CanTransitionTo reports whether feedback may move from s to next.
func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	for _, allowed := range feedbackTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Feedback is a message submitted by a member, optionally anonymously.
type Feedback struct {
	FeedbackID string         `json:"feedbackID"`
	MemberID   *string        `json:"memberID,omitempty"` // nil when anonymous
	Subject    string         `json:"subject"`
	Message    string         `json:"message"`
	Category   string         `json:"category"`
	Status     FeedbackStatus `json:"status"`
	Response   string         `json:"response,omitempty"`
	AuditFields
}

// TransitionTo moves the feedback to next, recording an optional response.
func (f *Feedback) TransitionTo(next FeedbackStatus, response string) error {
	if f.Status == next {
		return apperrors.Newf(apperrors.ErrConflict, "feedback is already %s", next)
	}
	if !f.Status.CanTransitionTo(next) {
		return apperrors.Newf(apperrors.ErrInvalidTransition, "feedback cannot move from %s to %s", f.Status, next)
	}
	f.Status = next
	if response != "" {
		f.Response = response
	}
	return nil
}

// IsOwnedBy reports whether memberID submitted this feedback non-anonymously.
func (f Feedback) IsOwnedBy(memberID string) bool {
	return f.MemberID != nil && *f.MemberID == memberID
}
