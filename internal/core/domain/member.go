package domain

import (
	"strings"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
)

// MemberRole is the authorization axis of a member, orthogonal to its status.
type MemberRole string

const (
	RoleMember MemberRole = "MEMBER"
	RoleAdmin  MemberRole = "ADMIN"
)

// MemberStatus is the membership lifecycle state.
type MemberStatus string

const (
	MemberPending   MemberStatus = "PENDING"
	MemberActive    MemberStatus = "ACTIVE"
	MemberSuspended MemberStatus = "SUSPENDED"
	MemberRejected  MemberStatus = "REJECTED"
)

var memberTransitions = map[MemberStatus][]MemberStatus{
	MemberPending:   {MemberActive, MemberRejected},
	MemberActive:    {MemberSuspended},
	MemberSuspended: {MemberActive},
}

// CanTransitionTo reports whether a member may move from s to next.
func (s MemberStatus) CanTransitionTo(next MemberStatus) bool {
	for _, allowed := range memberTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Member represents a registered member of the association.
type Member struct {
	MemberID     string       `json:"memberID"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	PasswordHash string       `json:"-"`
	Role         MemberRole   `json:"role"`
	Status       MemberStatus `json:"status"`
	Position     string       `json:"position"` // e.g. Treasurer, Secretary
	JoinedAt     *time.Time   `json:"joinedAt,omitempty"`
	AuditFields
}

// Identity returns the request identity carried for this member.
func (m Member) Identity() Identity {
	return Identity{MemberID: m.MemberID, Role: m.Role, Status: m.Status}
}

// TransitionTo moves the member to next, stamping joinedAt on first activation.
func (m *Member) TransitionTo(next MemberStatus, now time.Time) error {
	if m.Status == next {
		return apperrors.Newf(apperrors.ErrConflict, "member is already %s", strings.ToLower(string(next)))
	}
	if !m.Status.CanTransitionTo(next) {
		return apperrors.Newf(apperrors.ErrInvalidTransition, "member cannot move from %s to %s", m.Status, next)
	}
	m.Status = next
	if next == MemberActive && m.JoinedAt == nil {
		joined := now
		m.JoinedAt = &joined
	}
	return nil
}

// ChangeRole sets the member role, rejecting a no-op change.
func (m *Member) ChangeRole(role MemberRole) error {
	if m.Role == role {
		return apperrors.Newf(apperrors.ErrConflict, "member already has role %s", role)
	}
	m.Role = role
	return nil
}

// NormalizeEmail lower-cases and trims an e-mail address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemberDependents counts the records that reference a member.
type MemberDependents struct {
	Payments     int
	Invoices     int
	Expenses     int
	Transactions int
}

// CanDeleteMember allows a hard delete only when nothing references the member.
func CanDeleteMember(deps MemberDependents) error {
	if deps.Payments+deps.Invoices+deps.Expenses+deps.Transactions > 0 {
		return apperrors.Newf(apperrors.ErrConflict,
			"member has dependent records (payments=%d, invoices=%d, expenses=%d, transactions=%d); suspend instead",
			deps.Payments, deps.Invoices, deps.Expenses, deps.Transactions)
	}
	return nil
}

// LoginLog records a single authentication attempt.
type LoginLog struct {
	LoginLogID    string    `json:"loginLogID"`
	MemberID      *string   `json:"memberID,omitempty"`
	Email         string    `json:"email"`
	IPAddress     string    `json:"ipAddress"`
	UserAgent     string    `json:"userAgent"`
	Success       bool      `json:"success"`
	FailureReason string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
