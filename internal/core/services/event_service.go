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
	"github.com/google/uuid"
)

// eventService implements the EventSvcFacade interface
type eventService struct {
	BaseService
	txManager portsrepo.TransactionManager
	eventRepo portsrepo.EventRepositoryFacade
}

// NewEventService creates a new event service.
func NewEventService(txManager portsrepo.TransactionManager, eventRepo portsrepo.EventRepositoryFacade, opts ...Option) portssvc.EventSvcFacade {
	svc := &eventService{txManager: txManager, eventRepo: eventRepo}
	svc.apply(opts)
	return svc
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

func (s *eventService) CreateEvent(ctx context.Context, actor domain.Identity, req dto.CreateEventRequest) (*domain.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	now := s.Now()
	event := domain.Event{
		EventID:     uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      utcPtr(req.EndsAt),
		Capacity:    req.Capacity,
		AuditFields: domain.NewAuditFields(actor.MemberID, now),
	}
	if err := event.ValidateSchedule(); err != nil {
		return nil, err
	}
	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to save event", slog.String("title", event.Title))
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.LogInfo(ctx, "Event created", slog.String("event_id", event.EventID))
	return &event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.eventRepo.FindEventByID(ctx, eventID)
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	return s.eventRepo.ListEvents(ctx, filter)
}

func (s *eventService) ListAttendees(ctx context.Context, eventID string) ([]domain.EventAttendee, error) {
	if _, err := s.eventRepo.FindEventByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListAttendees(ctx, eventID)
}

func (s *eventService) UpdateEvent(ctx context.Context, actor domain.Identity, eventID string, req dto.UpdateEventRequest) (*domain.Event, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var updated *domain.Event
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		// Locked so a concurrent RSVP cannot push the count past a lowered capacity.
		event, err := s.eventRepo.FindEventByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if req.Title != nil {
			event.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Location != nil {
			event.Location = *req.Location
		}
		if req.StartsAt != nil {
			event.StartsAt = req.StartsAt.UTC()
		}
		if req.EndsAt != nil {
			event.EndsAt = utcPtr(req.EndsAt)
		}
		if req.Capacity != nil {
			event.Capacity = *req.Capacity
		}
		if err := event.ValidateSchedule(); err != nil {
			return err
		}
		event.Touch(actor.MemberID, s.Now())
		if err := s.eventRepo.UpdateEvent(ctx, *event); err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Identity, eventID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	s.LogInfo(ctx, "Event deleted", slog.String("event_id", eventID), slog.String("deleted_by", actor.MemberID))
	return nil
}

func (s *eventService) ToggleRSVP(ctx context.Context, actor domain.Identity, eventID string) (*domain.RSVPResult, error) {
	if !actor.IsActive() {
		return nil, apperrors.Newf(apperrors.ErrForbidden, "membership is not active")
	}

	var result domain.RSVPResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.FindEventByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		now := s.Now()

		_, err = s.eventRepo.FindRSVP(ctx, eventID, actor.MemberID)
		switch {
		case err == nil:
			if err := s.eventRepo.DeleteRSVP(ctx, eventID, actor.MemberID); err != nil {
				return fmt.Errorf("failed to remove rsvp: %w", err)
			}
			if err := s.eventRepo.AdjustAttendeeCount(ctx, eventID, -1, actor.MemberID, now); err != nil {
				return fmt.Errorf("failed to decrement attendee count: %w", err)
			}
			if event.AttendeeCount > 0 {
				event.AttendeeCount--
			}
			result.Attending = false
		case errors.Is(err, apperrors.ErrNotFound):
			if event.IsFull() {
				return apperrors.Newf(apperrors.ErrConflict, "event %s is full", event.Title)
			}
			if err := s.eventRepo.SaveRSVP(ctx, domain.EventRSVP{EventID: eventID, MemberID: actor.MemberID, CreatedAt: now}); err != nil {
				return fmt.Errorf("failed to save rsvp: %w", err)
			}
			if err := s.eventRepo.AdjustAttendeeCount(ctx, eventID, 1, actor.MemberID, now); err != nil {
				return fmt.Errorf("failed to increment attendee count: %w", err)
			}
			event.AttendeeCount++
			result.Attending = true
		default:
			return fmt.Errorf("failed to look up rsvp: %w", err)
		}
		event.Touch(actor.MemberID, now)
		result.Event = *event
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRSVPToggle(result.Attending)
	s.LogDebug(ctx, "RSVP toggled",
		slog.String("event_id", eventID),
		slog.Bool("attending", result.Attending),
		slog.Int("attendee_count", result.Event.AttendeeCount))
	return &result, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
