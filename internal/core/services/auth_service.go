package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/assoc_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/SscSPs/assoc_backend/internal/metrics"
	"github.com/SscSPs/assoc_backend/internal/platform/config"
	"github.com/SscSPs/assoc_backend/internal/utils"
	"github.com/google/uuid"
)

// Login failure reasons stored on the audit trail.
const (
	loginFailureUnknownEmail  = "unknown email"
	loginFailureWrongPassword = "wrong password"
)

var errInvalidCredentials = apperrors.Newf(apperrors.ErrUnauthorized, "invalid email or password")

// authService issues tokens for members and keeps the login audit trail.
type authService struct {
	BaseService
	memberRepo   portsrepo.MemberRepositoryFacade
	loginLogRepo portsrepo.LoginLogRepository

	jwtSecret    string
	jwtExpiry    time.Duration
	jwtIssuer    string
	logRetention time.Duration
}

// NewAuthService creates a new auth service using the token and retention settings from cfg.
func NewAuthService(cfg *config.Config, memberRepo portsrepo.MemberRepositoryFacade, loginLogRepo portsrepo.LoginLogRepository, opts ...Option) portssvc.AuthSvc {
	svc := &authService{
		memberRepo:   memberRepo,
		loginLogRepo: loginLogRepo,
		jwtSecret:    cfg.JWTSecret,
		jwtExpiry:    cfg.JWTExpiryDuration,
		jwtIssuer:    cfg.JWTIssuer,
		logRetention: cfg.LoginLogRetention,
	}
	svc.apply(opts)
	return svc
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Member, error) {
	email := domain.NormalizeEmail(req.Email)
	if err := ensureEmailAvailable(ctx, s.memberRepo, email); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	memberID := uuid.NewString()
	member := domain.Member{
		MemberID:     memberID,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         domain.RoleMember,
		Status:       domain.MemberPending,
		AuditFields:  domain.NewAuditFields(memberID, now),
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to save registered member", slog.String("email", email))
		return nil, fmt.Errorf("failed to register member: %w", err)
	}

	s.LogInfo(ctx, "Member registered", slog.String("member_id", memberID))
	return &member, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta dto.LoginMetadata) (*dto.LoginResponse, error) {
	now := s.Now()
	entry := domain.LoginLog{
		LoginLogID: uuid.NewString(),
		Email:      domain.NormalizeEmail(req.Email),
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		CreatedAt:  now,
	}

	member, err := s.memberRepo.FindMemberByEmail(ctx, entry.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.recordAttempt(ctx, entry, loginFailureUnknownEmail, "invalid_credentials")
			return nil, errInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up member for login")
		return nil, err
	}
	entry.MemberID = &member.MemberID

	if !utils.CheckPasswordHash(req.Password, member.PasswordHash) {
		s.recordAttempt(ctx, entry, loginFailureWrongPassword, "invalid_credentials")
		return nil, errInvalidCredentials
	}

	if !member.Identity().IsActive() {
		status := strings.ToLower(string(member.Status))
		s.recordAttempt(ctx, entry, "membership "+status, "inactive")
		return nil, apperrors.Newf(apperrors.ErrForbidden, "membership is %s", status)
	}

	token, expiresAt, err := utils.GenerateJWT(member.MemberID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign token", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.recordAttempt(ctx, entry, "", "success")
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Member:    dto.ToMemberResponse(member),
	}, nil
}

func (s *authService) ResolveIdentity(ctx context.Context, memberID string) (domain.Identity, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return domain.Identity{}, err
	}
	return member.Identity(), nil
}

// recordAttempt stores the login log entry. A storage failure is logged and
// does not change the outcome of the login.
func (s *authService) recordAttempt(ctx context.Context, entry domain.LoginLog, failureReason, outcome string) {
	entry.Success = failureReason == ""
	entry.FailureReason = failureReason
	metrics.RecordLoginAttempt(outcome)
	if err := s.loginLogRepo.SaveLoginLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to record login attempt", slog.String("email", entry.Email))
	}
}

func (s *authService) ChangePassword(ctx context.Context, actor domain.Identity, req dto.ChangePasswordRequest) error {
	member, err := s.memberRepo.FindMemberByID(ctx, actor.MemberID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, member.PasswordHash) {
		return apperrors.Newf(apperrors.ErrValidation, "current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return apperrors.Newf(apperrors.ErrValidation, "new password must differ from the current one")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	member.PasswordHash = hash
	member.Touch(actor.MemberID, s.Now())
	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update password", slog.String("member_id", actor.MemberID))
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.LogInfo(ctx, "Password changed", slog.String("member_id", actor.MemberID))
	return nil
}

func (s *authService) ListLoginLogs(ctx context.Context, filter domain.LoginLogFilter) ([]domain.LoginLog, error) {
	return s.loginLogRepo.ListLoginLogs(ctx, filter)
}

func (s *authService) PruneLoginLogs(ctx context.Context) (int64, error) {
	if s.logRetention <= 0 {
		return 0, nil
	}
	cutoff := s.Now().Add(-s.logRetention)
	removed, err := s.loginLogRepo.DeleteLoginLogsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune login logs: %w", err)
	}
	return removed, nil
}

// ensureEmailAvailable returns ErrDuplicate when a member already uses email.
func ensureEmailAvailable(ctx context.Context, repo portsrepo.MemberReader, email string) error {
	_, err := repo.FindMemberByEmail(ctx, email)
	switch {
	case err == nil:
		return apperrors.Newf(apperrors.ErrDuplicate, "a member with email %s already exists", email)
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check email: %w", err)
	}
}
