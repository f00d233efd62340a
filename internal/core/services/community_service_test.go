package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/assoc_backend/internal/apperrors"
	"github.com/SscSPs/assoc_backend/internal/core/domain"
	portssvc "github.com/SscSPs/assoc_backend/internal/core/ports/services"
	"github.com/SscSPs/assoc_backend/internal/core/services"
	"github.com/SscSPs/assoc_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CommunityServiceTestSuite struct {
	suite.Suite
	ctx context.Context

	eventRepo        *MockEventRepository
	announcementRepo *MockAnnouncementRepository
	feedbackRepo     *MockFeedbackRepository

	eventSvc        portssvc.EventSvcFacade
	announcementSvc portssvc.AnnouncementSvc
	feedbackSvc     portssvc.FeedbackSvc
}

func (s *CommunityServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.eventRepo = new(MockEventRepository)
	s.announcementRepo = new(MockAnnouncementRepository)
	s.feedbackRepo = new(MockFeedbackRepository)

	clock := services.WithClock(fixedClock)
	s.eventSvc = services.NewEventService(&PassThroughTxManager{}, s.eventRepo, clock)
	s.announcementSvc = services.NewAnnouncementService(s.announcementRepo, clock)
	s.feedbackSvc = services.NewFeedbackService(s.feedbackRepo, clock)
}

func notFound(what string) error {
	return apperrors.Newf(apperrors.ErrNotFound, "%s not found", what)
}

// --- Events ---

func (s *CommunityServiceTestSuite) TestCreateEvent_RejectsEndBeforeStart() {
	ends := fixedNow.Add(-1)
	_, err := s.eventSvc.CreateEvent(s.ctx, adminIdentity("admin-1"), dto.CreateEventRequest{
		Title:    "AGM",
		StartsAt: fixedNow,
		EndsAt:   &ends,
	})

	s.ErrorIs(err, apperrors.ErrValidation)
	s.eventRepo.AssertNotCalled(s.T(), "SaveEvent", mock.Anything, mock.Anything)
}

func (s *CommunityServiceTestSuite) TestCreateEvent_MembersForbidden() {
	_, err := s.eventSvc.CreateEvent(s.ctx, memberIdentity("member-1"), dto.CreateEventRequest{Title: "AGM", StartsAt: fixedNow})

	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *CommunityServiceTestSuite) TestToggleRSVP_TwiceRestoresCount() {
	first := &domain.Event{EventID: "evt-1", Title: "AGM", Capacity: 2, AttendeeCount: 1}
	second := &domain.Event{EventID: "evt-1", Title: "AGM", Capacity: 2, AttendeeCount: 2}
	s.eventRepo.On("FindEventByIDForUpdate", s.ctx, "evt-1").Return(first, nil).Once()
	s.eventRepo.On("FindEventByIDForUpdate", s.ctx, "evt-1").Return(second, nil).Once()
	s.eventRepo.On("FindRSVP", s.ctx, "evt-1", "member-1").Return(nil, notFound("rsvp")).Once()
	s.eventRepo.On("FindRSVP", s.ctx, "evt-1", "member-1").
		Return(&domain.EventRSVP{EventID: "evt-1", MemberID: "member-1"}, nil).Once()
	s.eventRepo.On("SaveRSVP", s.ctx, domain.EventRSVP{EventID: "evt-1", MemberID: "member-1", CreatedAt: fixedNow}).Return(nil).Once()
	s.eventRepo.On("AdjustAttendeeCount", s.ctx, "evt-1", 1, "member-1", fixedNow).Return(nil).Once()
	s.eventRepo.On("DeleteRSVP", s.ctx, "evt-1", "member-1").Return(nil).Once()
	s.eventRepo.On("AdjustAttendeeCount", s.ctx, "evt-1", -1, "member-1", fixedNow).Return(nil).Once()

	joined, err := s.eventSvc.ToggleRSVP(s.ctx, memberIdentity("member-1"), "evt-1")
	s.Require().NoError(err)
	s.True(joined.Attending)
	s.Equal(2, joined.Event.AttendeeCount)

	left, err := s.eventSvc.ToggleRSVP(s.ctx, memberIdentity("member-1"), "evt-1")
	s.Require().NoError(err)
	s.False(left.Attending)
	s.Equal(1, left.Event.AttendeeCount)
	s.eventRepo.AssertExpectations(s.T())
}

func (s *CommunityServiceTestSuite) TestToggleRSVP_FullEventConflicts() {
	s.eventRepo.On("FindEventByIDForUpdate", s.ctx, "evt-1").
		Return(&domain.Event{EventID: "evt-1", Title: "Dinner", Capacity: 1, AttendeeCount: 1}, nil).Once()
	s.eventRepo.On("FindRSVP", s.ctx, "evt-1", "member-2").Return(nil, notFound("rsvp")).Once()

	_, err := s.eventSvc.ToggleRSVP(s.ctx, memberIdentity("member-2"), "evt-1")

	s.ErrorIs(err, apperrors.ErrConflict)
	s.eventRepo.AssertNotCalled(s.T(), "SaveRSVP", mock.Anything, mock.Anything)
	s.eventRepo.AssertNotCalled(s.T(), "AdjustAttendeeCount", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CommunityServiceTestSuite) TestToggleRSVP_LeavingFullEventAllowed() {
	s.eventRepo.On("FindEventByIDForUpdate", s.ctx, "evt-1").
		Return(&domain.Event{EventID: "evt-1", Capacity: 1, AttendeeCount: 1}, nil).Once()
	s.eventRepo.On("FindRSVP", s.ctx, "evt-1", "member-1").
		Return(&domain.EventRSVP{EventID: "evt-1", MemberID: "member-1"}, nil).Once()
	s.eventRepo.On("DeleteRSVP", s.ctx, "evt-1", "member-1").Return(nil).Once()
	s.eventRepo.On("AdjustAttendeeCount", s.ctx, "evt-1", -1, "member-1", fixedNow).Return(nil).Once()

	result, err := s.eventSvc.ToggleRSVP(s.ctx, memberIdentity("member-1"), "evt-1")

	s.Require().NoError(err)
	s.False(result.Attending)
	s.Equal(0, result.Event.AttendeeCount)
}

func (s *CommunityServiceTestSuite) TestToggleRSVP_InactiveMemberForbidden() {
	actor := domain.Identity{MemberID: "member-1", Role: domain.RoleMember, Status: domain.MemberPending}

	_, err := s.eventSvc.ToggleRSVP(s.ctx, actor, "evt-1")

	s.ErrorIs(err, apperrors.ErrForbidden)
	s.eventRepo.AssertNotCalled(s.T(), "FindEventByIDForUpdate", mock.Anything, mock.Anything)
}

func (s *CommunityServiceTestSuite) TestUpdateEvent_CapacityBelowAttendeesConflicts() {
	s.eventRepo.On("FindEventByIDForUpdate", s.ctx, "evt-1").
		Return(&domain.Event{EventID: "evt-1", StartsAt: fixedNow, Capacity: 10, AttendeeCount: 5}, nil).Once()

	capacity := 3
	_, err := s.eventSvc.UpdateEvent(s.ctx, adminIdentity("admin-1"), "evt-1", dto.UpdateEventRequest{Capacity: &capacity})

	s.ErrorIs(err, apperrors.ErrConflict)
	s.eventRepo.AssertNotCalled(s.T(), "UpdateEvent", mock.Anything, mock.Anything)
}

func (s *CommunityServiceTestSuite) TestListAttendees_UnknownEvent() {
	s.eventRepo.On("FindEventByID", s.ctx, "evt-9").Return(nil, notFound("event")).Once()

	_, err := s.eventSvc.ListAttendees(s.ctx, "evt-9")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.eventRepo.AssertNotCalled(s.T(), "ListAttendees", mock.Anything, mock.Anything)
}

// --- Announcements ---

func (s *CommunityServiceTestSuite) TestCreateAnnouncement_DefaultsAudience() {
	s.announcementRepo.On("SaveAnnouncement", s.ctx, mock.MatchedBy(func(a domain.Announcement) bool {
		return a.Audience == domain.AudienceAll && a.PublishedAt.Equal(fixedNow)
	})).Return(nil).Once()

	announcement, err := s.announcementSvc.CreateAnnouncement(s.ctx, adminIdentity("admin-1"), dto.CreateAnnouncementRequest{
		Title: "Dues reminder",
		Body:  "Annual dues are due by March.",
	})

	s.Require().NoError(err)
	s.Equal(domain.AudienceAll, announcement.Audience)
	s.announcementRepo.AssertExpectations(s.T())
}

func (s *CommunityServiceTestSuite) TestGetAnnouncement_AdminOnlyHiddenFromMembers() {
	s.announcementRepo.On("FindAnnouncementByID", s.ctx, "ann-1").
		Return(&domain.Announcement{AnnouncementID: "ann-1", Audience: domain.AudienceAdmins}, nil)

	_, err := s.announcementSvc.GetAnnouncement(s.ctx, memberIdentity("member-1"), "ann-1")
	s.ErrorIs(err, apperrors.ErrNotFound)

	announcement, err := s.announcementSvc.GetAnnouncement(s.ctx, adminIdentity("admin-1"), "ann-1")
	s.Require().NoError(err)
	s.Equal("ann-1", announcement.AnnouncementID)
}

func (s *CommunityServiceTestSuite) TestListAnnouncements_FiltersByRole() {
	s.announcementRepo.On("ListAnnouncements", s.ctx, domain.AnnouncementFilter{IncludeAdminOnly: false, Limit: 20}).
		Return([]domain.Announcement{}, nil).Once()
	s.announcementRepo.On("ListAnnouncements", s.ctx, domain.AnnouncementFilter{IncludeAdminOnly: true, Limit: 20}).
		Return([]domain.Announcement{{AnnouncementID: "ann-1"}}, nil).Once()

	_, err := s.announcementSvc.ListAnnouncements(s.ctx, memberIdentity("member-1"), dto.ListParams{Limit: 20})
	s.Require().NoError(err)
	items, err := s.announcementSvc.ListAnnouncements(s.ctx, adminIdentity("admin-1"), dto.ListParams{Limit: 20})
	s.Require().NoError(err)
	s.Len(items, 1)
	s.announcementRepo.AssertExpectations(s.T())
}

// --- Feedback ---

func (s *CommunityServiceTestSuite) TestSubmitFeedback_AnonymousCarriesNoAuthor() {
	s.feedbackRepo.On("SaveFeedback", s.ctx, mock.MatchedBy(func(f domain.Feedback) bool {
		return f.MemberID == nil && f.CreatedBy == "" && f.LastUpdatedBy == "" && f.Status == domain.FeedbackNew
	})).Return(nil).Once()

	feedback, err := s.feedbackSvc.SubmitFeedback(s.ctx, memberIdentity("member-1"), dto.CreateFeedbackRequest{
		Subject:   "Meeting times",
		Message:   "Could meetings start later?",
		Anonymous: true,
	})

	s.Require().NoError(err)
	s.Nil(feedback.MemberID)
	s.feedbackRepo.AssertExpectations(s.T())
}

func (s *CommunityServiceTestSuite) TestSubmitFeedback_AttributedToMember() {
	s.feedbackRepo.On("SaveFeedback", s.ctx, mock.MatchedBy(func(f domain.Feedback) bool {
		return domain.StringValue(f.MemberID) == "member-1" && f.CreatedBy == "member-1"
	})).Return(nil).Once()

	_, err := s.feedbackSvc.SubmitFeedback(s.ctx, memberIdentity("member-1"), dto.CreateFeedbackRequest{
		Subject: "Website",
		Message: "The events page is great.",
	})

	s.Require().NoError(err)
	s.feedbackRepo.AssertExpectations(s.T())
}

func (s *CommunityServiceTestSuite) TestListFeedback_MembersSeeOwnOnly() {
	s.feedbackRepo.On("ListFeedback", s.ctx, domain.FeedbackFilter{MemberID: "member-1"}).
		Return([]domain.Feedback{}, nil).Once()

	_, err := s.feedbackSvc.ListFeedback(s.ctx, memberIdentity("member-1"), domain.FeedbackFilter{MemberID: "member-2"})

	s.Require().NoError(err)
	s.feedbackRepo.AssertExpectations(s.T())
}

func (s *CommunityServiceTestSuite) TestGetFeedback_OthersHidden() {
	s.feedbackRepo.On("FindFeedbackByID", s.ctx, "fb-1").
		Return(&domain.Feedback{FeedbackID: "fb-1", MemberID: domain.StringPtr("member-2")}, nil).Once()

	_, err := s.feedbackSvc.GetFeedback(s.ctx, memberIdentity("member-1"), "fb-1")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *CommunityServiceTestSuite) TestUpdateFeedbackStatus_ResolvedIsFinal() {
	s.feedbackRepo.On("FindFeedbackByID", s.ctx, "fb-1").
		Return(&domain.Feedback{FeedbackID: "fb-1", Status: domain.FeedbackResolved}, nil).Once()

	_, err := s.feedbackSvc.UpdateFeedbackStatus(s.ctx, adminIdentity("admin-1"), "fb-1", dto.UpdateFeedbackStatusRequest{Status: domain.FeedbackReviewed})

	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.feedbackRepo.AssertNotCalled(s.T(), "UpdateFeedback", mock.Anything, mock.Anything)
}

func (s *CommunityServiceTestSuite) TestUpdateFeedbackStatus_RecordsResponse() {
	s.feedbackRepo.On("FindFeedbackByID", s.ctx, "fb-1").
		Return(&domain.Feedback{FeedbackID: "fb-1", Status: domain.FeedbackNew}, nil).Once()
	s.feedbackRepo.On("UpdateFeedback", s.ctx, mock.MatchedBy(func(f domain.Feedback) bool {
		return f.Status == domain.FeedbackResolved && f.Response == "Moved to 7pm"
	})).Return(nil).Once()

	feedback, err := s.feedbackSvc.UpdateFeedbackStatus(s.ctx, adminIdentity("admin-1"), "fb-1", dto.UpdateFeedbackStatusRequest{
		Status:   domain.FeedbackResolved,
		Response: " Moved to 7pm ",
	})

	s.Require().NoError(err)
	s.Equal("Moved to 7pm", feedback.Response)
}

func TestCommunityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommunityServiceTestSuite))
}
