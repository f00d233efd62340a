package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/notify"
	"github.com/SscSPs/assoc_backend/internal/utils"
	"github.com/google/uuid"
)

// memberService implements the MemberSvcFacade interface
type memberService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	memberRepo portsrepo.MemberRepositoryFacade
	notifier   notify.Notifier
}

// NewMemberService creates a new member service. A nil notifier disables notifications.
func NewMemberService(txManager portsrepo.TransactionManager, memberRepo portsrepo.MemberRepositoryFacade, notifier notify.Notifier, opts ...Option) portssvc.MemberSvcFacade {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	svc := &memberService{
		txManager:  txManager,
		memberRepo: memberRepo,
		notifier:   notifier,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) GetMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	// The directory only exposes active members to non-admins.
	if !actor.IsAdmin() && member.MemberID != actor.MemberID && member.Status != domain.MemberActive {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "member %s not found", memberID)
	}
	return member, nil
}

func (s *memberService) ListMembers(ctx context.Context, actor domain.Identity, filter domain.MemberFilter) ([]domain.Member, error) {
	if !actor.IsAdmin() {
		filter.Status = domain.MemberActive
	}
	return s.memberRepo.ListMembers(ctx, filter)
}

func (s *memberService) CreateMember(ctx context.Context, actor domain.Identity, req dto.CreateMemberRequest) (*domain.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(req.Email)
	if err := ensureEmailAvailable(ctx, s.memberRepo, email); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	now := s.Now()
	joined := now
	member := domain.Member{
		MemberID:     uuid.NewString(),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         role,
		Status:       domain.MemberActive,
		Position:     strings.TrimSpace(req.Position),
		JoinedAt:     &joined,
		AuditFields:  domain.NewAuditFields(actor.MemberID, now),
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to create member", slog.String("email", email))
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.LogInfo(ctx, "Member created by admin",
		slog.String("member_id", member.MemberID),
		slog.String("created_by", actor.MemberID))
	return &member, nil
}

func (s *memberService) UpdateMember(ctx context.Context, actor domain.Identity, memberID string, req dto.UpdateMemberRequest) (*domain.Member, error) {
	if err := requireOwnerOrAdmin(actor, memberID); err != nil {
		return nil, err
	}
	if req.Position != nil && !actor.IsAdmin() {
		return nil, apperrors.Newf(apperrors.ErrForbidden, "only admins can change a member's position")
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, apperrors.Newf(apperrors.ErrValidation, "full name cannot be empty")
		}
		member.FullName = name
	}
	if req.Phone != nil {
		member.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Position != nil {
		member.Position = strings.TrimSpace(*req.Position)
	}

	member.Touch(actor.MemberID, s.Now())
	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update member", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return member, nil
}

func (s *memberService) DeleteMember(ctx context.Context, actor domain.Identity, memberID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := rejectSelfAction(actor, memberID, "delete"); err != nil {
		return err
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
			return err
		}
		deps, err := s.memberRepo.CountMemberDependents(ctx, memberID)
		if err != nil {
			return fmt.Errorf("failed to count member dependents: %w", err)
		}
		if err := domain.CanDeleteMember(deps); err != nil {
			return err
		}
		return s.memberRepo.DeleteMember(ctx, memberID)
	})
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Member deleted", slog.String("member_id", memberID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *memberService) ApproveMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return s.changeStatus(ctx, actor, memberID, domain.MemberActive, "")
}

func (s *memberService) RejectMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return s.changeStatus(ctx, actor, memberID, domain.MemberRejected, "reject")
}

func (s *memberService) SuspendMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return s.changeStatus(ctx, actor, memberID, domain.MemberSuspended, "suspend")
}

// ReactivateMember restores a SUSPENDED member. Approval of a PENDING member goes through ApproveMember.
func (s *memberService) ReactivateMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.Status == domain.MemberPending {
		return nil, apperrors.Newf(apperrors.ErrInvalidTransition, "pending members must be approved, not reactivated")
	}
	return s.applyStatus(ctx, actor, member, domain.MemberActive)
}

func (s *memberService) PromoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return s.changeRole(ctx, actor, memberID, domain.RoleAdmin, "")
}

func (s *memberService) DemoteMember(ctx context.Context, actor domain.Identity, memberID string) (*domain.Member, error) {
	return s.changeRole(ctx, actor, memberID, domain.RoleMember, "demote")
}

func (s *memberService) changeStatus(ctx context.Context, actor domain.Identity, memberID string, next domain.MemberStatus, selfGuard string) (*domain.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if selfGuard != "" {
		if err := rejectSelfAction(actor, memberID, selfGuard); err != nil {
			return nil, err
		}
	}
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return s.applyStatus(ctx, actor, member, next)
}

func (s *memberService) applyStatus(ctx context.Context, actor domain.Identity, member *domain.Member, next domain.MemberStatus) (*domain.Member, error) {
	previous := member.Status
	now := s.Now()
	if err := member.TransitionTo(next, now); err != nil {
		return nil, err
	}
	member.Touch(actor.MemberID, now)
	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update member status", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("failed to update member status: %w", err)
	}

	s.LogInfo(ctx, "Member status changed",
		slog.String("member_id", member.MemberID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)),
		slog.String("changed_by", actor.MemberID))

	if err := s.notifier.MembershipStatusChanged(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to queue membership notification", slog.String("member_id", member.MemberID))
	}
	return member, nil
}

func (s *memberService) changeRole(ctx context.Context, actor domain.Identity, memberID string, role domain.MemberRole, selfGuard string) (*domain.Member, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if selfGuard != "" {
		if err := rejectSelfAction(actor, memberID, selfGuard); err != nil {
			return nil, err
		}
	}
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := member.ChangeRole(role); err != nil {
		return nil, err
	}
	member.Touch(actor.MemberID, s.Now())
	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}
	s.LogInfo(ctx, "Member role changed",
		slog.String("member_id", memberID),
		slog.String("role", string(role)),
		slog.String("changed_by", actor.MemberID))
	return member, nil
}

func rejectSelfAction(actor domain.Identity, memberID, action string) error {
	if actor.MemberID == memberID {
		return apperrors.Newf(apperrors.ErrForbidden, "you cannot %s yourself", action)
	}
	return nil
}
