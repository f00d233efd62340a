package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a specific member by their ID.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberByEmail retrieves a member by normalized e-mail address.
	FindMemberByEmail(ctx context.Context, email string) (*domain.Member, error)

	// ListMembers retrieves a filtered, paginated list of members.
	ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error)

	// CountMemberDependents counts finance records referencing the member.
	CountMemberDependents(ctx context.Context, memberID string) (domain.MemberDependents, error)
}

// MemberWriter defines write operations for member data
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates an existing member's profile, role and status.
	UpdateMember(ctx context.Context, member domain.Member) error

	// DeleteMember physically removes a member.
	DeleteMember(ctx context.Context, memberID string) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}

// LoginLogRepository stores authentication attempts.
type LoginLogRepository interface {
	SaveLoginLog(ctx context.Context, entry domain.LoginLog) error
	ListLoginLogs(ctx context.Context, filter domain.LoginLogFilter) ([]domain.LoginLog, error)

	// DeleteLoginLogsBefore removes entries older than cutoff and returns how many were removed.
	DeleteLoginLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
