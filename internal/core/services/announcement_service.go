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
	"github.com/google/uuid"
)

type announcementService struct {
	BaseService
	announcementRepo portsrepo.AnnouncementRepository
}

// NewAnnouncementService creates a new announcement service.
func NewAnnouncementService(announcementRepo portsrepo.AnnouncementRepository, opts ...Option) portssvc.AnnouncementSvc {
	svc := &announcementService{announcementRepo: announcementRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.AnnouncementSvc = (*announcementService)(nil)

func (s *announcementService) CreateAnnouncement(ctx context.Context, actor domain.Identity, req dto.CreateAnnouncementRequest) (*domain.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	audience := req.Audience
	if audience == "" {
		audience = domain.AudienceAll
	}
	now := s.Now()
	announcement := domain.Announcement{
		AnnouncementID: uuid.NewString(),
		Title:          strings.TrimSpace(req.Title),
		Body:           req.Body,
		Audience:       audience,
		Pinned:         req.Pinned,
		PublishedAt:    now,
		AuditFields:    domain.NewAuditFields(actor.MemberID, now),
	}
	if err := s.announcementRepo.SaveAnnouncement(ctx, announcement); err != nil {
		s.LogError(ctx, err, "Failed to save announcement")
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}
	s.LogInfo(ctx, "Announcement published",
		slog.String("announcement_id", announcement.AnnouncementID),
		slog.String("audience", string(audience)))
	return &announcement, nil
}

func (s *announcementService) GetAnnouncement(ctx context.Context, actor domain.Identity, announcementID string) (*domain.Announcement, error) {
	announcement, err := s.announcementRepo.FindAnnouncementByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if !announcement.VisibleTo(actor) {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "announcement %s not found", announcementID)
	}
	return announcement, nil
}

func (s *announcementService) ListAnnouncements(ctx context.Context, actor domain.Identity, params dto.ListParams) ([]domain.Announcement, error) {
	return s.announcementRepo.ListAnnouncements(ctx, domain.AnnouncementFilter{
		IncludeAdminOnly: actor.IsAdmin(),
		Limit:            params.Limit,
		Offset:           params.Offset,
	})
}

func (s *announcementService) UpdateAnnouncement(ctx context.Context, actor domain.Identity, announcementID string, req dto.UpdateAnnouncementRequest) (*domain.Announcement, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	announcement, err := s.announcementRepo.FindAnnouncementByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		announcement.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		announcement.Body = *req.Body
	}
	if req.Audience != nil {
		announcement.Audience = *req.Audience
	}
	if req.Pinned != nil {
		announcement.Pinned = *req.Pinned
	}
	announcement.Touch(actor.MemberID, s.Now())
	if err := s.announcementRepo.UpdateAnnouncement(ctx, *announcement); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, actor domain.Identity, announcementID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.announcementRepo.DeleteAnnouncement(ctx, announcementID)
}
