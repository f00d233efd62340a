package dto

import (
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
)

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginMetadata describes where a login attempt came from.
type LoginMetadata struct {
	IPAddress string
	UserAgent string
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Member    MemberResponse `json:"member"`
}

// ChangePasswordRequest changes the caller's own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

// ListLoginLogsParams defines query parameters for listing login logs.
type ListLoginLogsParams struct {
	ListParams
	MemberID string `form:"memberId" binding:"omitempty,uuid"`
}

// CreateMemberRequest is used by admins to add a member directly.
type CreateMemberRequest struct {
	FullName string            `json:"fullName" binding:"required,min=2,max=120"`
	Email    string            `json:"email" binding:"required,email"`
	Phone    string            `json:"phone" binding:"omitempty,max=30"`
	Password string            `json:"password" binding:"required,min=8,max=72"`
	Role     domain.MemberRole `json:"role" binding:"omitempty,oneof=MEMBER ADMIN"`
	Position string            `json:"position" binding:"omitempty,max=60"`
}

// UpdateMemberRequest defines the profile fields that can be changed.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateMemberRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=2,max=120"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Position *string `json:"position" binding:"omitempty,max=60"` // admin only
}

// ListMembersParams defines query parameters for listing members.
type ListMembersParams struct {
	ListParams
	Status domain.MemberStatus `form:"status" binding:"omitempty,oneof=PENDING ACTIVE SUSPENDED REJECTED"`
	Role   domain.MemberRole   `form:"role" binding:"omitempty,oneof=MEMBER ADMIN"`
	Search string              `form:"search" binding:"omitempty,max=100"`
}

// ToFilter converts the query parameters to a repository filter.
func (p ListMembersParams) ToFilter() domain.MemberFilter {
	return domain.MemberFilter{Status: p.Status, Role: p.Role, Search: p.Search, Limit: p.Limit, Offset: p.Offset}
}

// MemberResponse is the public view of a member.
type MemberResponse struct {
	MemberID      string              `json:"memberID"`
	FullName      string              `json:"fullName"`
	Email         string              `json:"email"`
	Phone         string              `json:"phone"`
	Role          domain.MemberRole   `json:"role"`
	Status        domain.MemberStatus `json:"status"`
	Position      string              `json:"position"`
	JoinedAt      *time.Time          `json:"joinedAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID,
		FullName:      m.FullName,
		Email:         m.Email,
		Phone:         m.Phone,
		Role:          m.Role,
		Status:        m.Status,
		Position:      m.Position,
		JoinedAt:      m.JoinedAt,
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToMemberResponses converts a slice of members.
func ToMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i])
	}
	return out
}
