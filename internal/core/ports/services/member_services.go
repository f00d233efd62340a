package services

import (
	"context"

	"github.com/SscSPs/assoc_backend/internal/core/domain"
	"github.com/SscSPs/assoc_backend/internal/dto"
)

// AuthSvc handles credentials, tokens and the login audit trail.
type AuthSvc interface {
	// Register creates a PENDING member awaiting admin approval.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Member, error)

	// Login verifies credentials, records the attempt and issues a token.
	Login(ctx context.Context, req dto.LoginRequest, meta dto.LoginMetadata) (*dto.LoginResponse, error)

	// ResolveIdentity loads the current role and status of the member a token was issued to.
	ResolveIdentity(ctx context.Context, memberID string) (domain.Identity, error)

	// ChangePassword replaces the caller's password after checking the current one.
	ChangePassword(ctx context.Context, actor domain.Identity, req dto.ChangePasswordRequest) error

	ListLoginLogs(ctx context.Context, filter domain.LoginLogFilter) ([]domain.LoginLog, error)

	// PruneLoginLogs removes login logs older than the configured retention.
	PruneLoginLogs(ctx context.Context) (int64, error)
}

// MemberReaderSvc defines read operations for members
type MemberReaderSvc interface {
	GetMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)

	// ListMembers returns the active directory to members and any status to admins.
	ListMembers(ctx context.Context, actor domain.Identity, filter domain.MemberFilter) ([]domain.Member, error)
}

// MemberWriterSvc defines profile write operations for members
type MemberWriterSvc interface {
	CreateMember(ctx context.Context, actor domain.Identity, req dto.CreateMemberRequest) (*domain.Member, error)
	UpdateMember(ctx context.Context, actor domain.Identity, memberID string, req dto.UpdateMemberRequest) (*domain.Member, error)

	// DeleteMember hard-deletes a member with no dependent records.
	DeleteMember(ctx context.Context, actor domain.Identity, memberID string) error
}

// MemberLifecycleSvc defines status and role transitions
type MemberLifecycleSvc interface {
	ApproveMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
	RejectMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
	SuspendMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
	ReactivateMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
	PromoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
	DemoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error)
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
	MemberLifecycleSvc
}
