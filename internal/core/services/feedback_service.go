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

type feedbackService struct {
	BaseService
	feedbackRepo portsrepo.FeedbackRepository
}

// NewFeedbackService creates a new feedback service.
func NewFeedbackService(feedbackRepo portsrepo.FeedbackRepository, opts ...Option) portssvc.FeedbackSvc {
	svc := &feedbackService{feedbackRepo: feedbackRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.FeedbackSvc = (*feedbackService)(nil)

func (s *feedbackService) SubmitFeedback(ctx context.Context, actor domain.Identity, req dto.CreateFeedbackRequest) (*domain.Feedback, error) {
	now := s.Now()
	feedback := domain.Feedback{
		FeedbackID:  uuid.NewString(),
		Subject:     strings.TrimSpace(req.Subject),
		Message:     req.Message,
		Category:    strings.TrimSpace(req.Category),
		Status:      domain.FeedbackNew,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}
	if req.Anonymous {
		// Nothing on the record may point back at the author.
		feedback.CreatedBy = ""
		feedback.LastUpdatedBy = ""
	} else {
		feedback.MemberID = domain.StringPtr(actor.MemberID)
	}

	if err := s.feedbackRepo.SaveFeedback(ctx, feedback); err != nil {
		s.LogError(ctx, err, "Failed to save feedback")
		return nil, fmt.Errorf("failed to submit feedback: %w", err)
	}
	s.LogInfo(ctx, "Feedback submitted",
		slog.String("feedback_id", feedback.FeedbackID),
		slog.Bool("anonymous", req.Anonymous))
	return &feedback, nil
}

func (s *feedbackService) GetFeedback(ctx context.Context, actor domain.Identity, feedbackID string) (*domain.Feedback, error) {
	feedback, err := s.feedbackRepo.FindFeedbackByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !feedback.IsOwnedBy(actor.MemberID) {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "feedback %s not found", feedbackID)
	}
	return feedback, nil
}

func (s *feedbackService) ListFeedback(ctx context.Context, actor domain.Identity, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	if !actor.IsAdmin() {
		filter.MemberID = actor.MemberID
	}
	return s.feedbackRepo.ListFeedback(ctx, filter)
}

func (s *feedbackService) UpdateFeedbackStatus(ctx context.Context, actor domain.Identity, feedbackID string, req dto.UpdateFeedbackStatusRequest) (*domain.Feedback, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	feedback, err := s.feedbackRepo.FindFeedbackByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if err := feedback.TransitionTo(req.Status, strings.TrimSpace(req.Response)); err != nil {
		return nil, err
	}
	feedback.Touch(actor.MemberID, s.Now())
	if err := s.feedbackRepo.UpdateFeedback(ctx, *feedback); err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return feedback, nil
}

func (s *feedbackService) DeleteFeedback(ctx context.Context, actor domain.Identity, feedbackID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.feedbackRepo.DeleteFeedback(ctx, feedbackID)
}
