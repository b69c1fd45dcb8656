package services

import (
	"context"
	"fmt"
	"net/url"

	"escalas/internal/common"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// AssignmentInput names one member and the function they will serve.
type AssignmentInput struct {
	MemberID     uuid.UUID `json:"member_id"`
	FunctionName *string   `json:"function_name"`
}

// RecurrenceInput asks for a series of schedules instead of a single one.
type RecurrenceInput struct {
	Unit  string `json:"unit"`
	Count int    `json:"count"`
}

// ScheduleInput is the create/update payload for a schedule.
type ScheduleInput struct {
	MinistryID   uuid.UUID         `json:"ministry_id"`
	Title        string            `json:"title"`
	EventDate    string            `json:"event_date"`
	EventTime    string            `json:"event_time"`
	EventType    string            `json:"event_type"`
	Observations *string           `json:"observations"`
	Members      []AssignmentInput `json:"members"`
	Recurrence   *RecurrenceInput  `json:"recurrence,omitempty"`
}

// ScheduleResult carries the created or updated schedules plus the
// advisory conflict warnings for the roster. Warnings never block a save.
type ScheduleResult struct {
	Schedules []*models.Schedule         `json:"schedules"`
	Warnings  map[uuid.UUID]*MemberConflict `json:"warnings,omitempty"`
}

// RosterEntry is an assignment joined with its member and response for
// display purposes.
type RosterEntry struct {
	Assignment *models.ScheduleAssignment `json:"assignment"`
	Member     *models.Member             `json:"member"`
	Response   *models.ScheduleResponse   `json:"response,omitempty"`
}

// ScheduleDetail is a schedule with its full roster.
type ScheduleDetail struct {
	Schedule *models.Schedule `json:"schedule"`
	Roster   []*RosterEntry   `json:"roster"`
}

type ScheduleService interface {
	Create(ctx context.Context, churchID uuid.UUID, input *ScheduleInput) (*ScheduleResult, error)
	GetDetail(ctx context.Context, churchID, scheduleID uuid.UUID) (*ScheduleDetail, error)
	GetPublicDetail(ctx context.Context, scheduleID uuid.UUID) (*ScheduleDetail, error)
	Update(ctx context.Context, churchID, scheduleID uuid.UUID, input *ScheduleInput) (*ScheduleResult, error)
	Delete(ctx context.Context, churchID, scheduleID uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, filters *repositories.ScheduleFilters, limit, offset int) ([]*models.Schedule, error)
	CheckConflicts(ctx context.Context, churchID uuid.UUID, memberIDs []uuid.UUID, eventDate, eventTime string, excludeScheduleID *uuid.UUID) (map[uuid.UUID]*MemberConflict, error)
	ShareLink(ctx context.Context, churchID, scheduleID uuid.UUID) (string, error)
}

type scheduleService struct {
	scheduleRepo   repositories.ScheduleRepository
	assignmentRepo repositories.AssignmentRepository
	responseRepo   repositories.ResponseRepository
	memberRepo     repositories.MemberRepository
	ministryRepo   repositories.MinistryRepository
	conflictSvc    ConflictService
	publicBaseURL  string
}

func NewScheduleService(
	scheduleRepo repositories.ScheduleRepository,
	assignmentRepo repositories.AssignmentRepository,
	responseRepo repositories.ResponseRepository,
	memberRepo repositories.MemberRepository,
	ministryRepo repositories.MinistryRepository,
	conflictSvc ConflictService,
	publicBaseURL string,
) ScheduleService {
	return &scheduleService{
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		responseRepo:   responseRepo,
		memberRepo:     memberRepo,
		ministryRepo:   ministryRepo,
		conflictSvc:    conflictSvc,
		publicBaseURL:  publicBaseURL,
	}
}

// Create saves one schedule, or a whole series when recurrence is set.
// The roster is replicated onto every occurrence, each assignment with a
// fresh response token. Conflict warnings are computed for the first
// occurrence only and returned alongside; they never block the save.
func (s *scheduleService) Create(ctx context.Context, churchID uuid.UUID, input *ScheduleInput) (*ScheduleResult, error) {
	if err := s.validateInput(ctx, churchID, input); err != nil {
		return nil, err
	}
	eventTime, err := common.NormalizeTime(input.EventTime, "event_time")
	if err != nil {
		return nil, err
	}

	dates := []string{input.EventDate}
	if input.Recurrence != nil {
		dates, err = GenerateRecurrenceDates(input.EventDate, input.Recurrence.Unit, input.Recurrence.Count)
		if err != nil {
			return nil, err
		}
	}

	memberIDs := make([]uuid.UUID, 0, len(input.Members))
	for _, m := range input.Members {
		memberIDs = append(memberIDs, m.MemberID)
	}

	warnings, err := s.conflictSvc.CheckMembers(ctx, churchID, memberIDs, input.EventDate, eventTime, nil)
	if err != nil {
		return nil, err
	}

	result := &ScheduleResult{Warnings: warnings}
	for _, date := range dates {
		schedule := &models.Schedule{
			ID:           uuid.New(),
			ChurchID:     churchID,
			MinistryID:   input.MinistryID,
			Title:        input.Title,
			EventDate:    date,
			EventTime:    eventTime,
			EventType:    input.EventType,
			Observations: input.Observations,
		}
		if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
		if err := s.createAssignments(ctx, schedule.ID, input.Members); err != nil {
			return nil, err
		}
		result.Schedules = append(result.Schedules, schedule)
	}
	return result, nil
}

func (s *scheduleService) GetDetail(ctx context.Context, churchID, scheduleID uuid.UUID) (*ScheduleDetail, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, churchID, scheduleID)
	if err != nil {
		return nil, err
	}
	roster, err := s.loadRoster(ctx, churchID, schedule)
	if err != nil {
		return nil, err
	}
	return &ScheduleDetail{Schedule: schedule, Roster: roster}, nil
}

// GetPublicDetail serves the shared read-only page. The lookup is by
// schedule ID alone because viewers arrive via forwarded links with no
// session.
func (s *scheduleService) GetPublicDetail(ctx context.Context, scheduleID uuid.UUID) (*ScheduleDetail, error) {
	schedule, err := s.scheduleRepo.GetPublicByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	roster, err := s.loadRoster(ctx, schedule.ChurchID, schedule)
	if err != nil {
		return nil, err
	}
	return &ScheduleDetail{Schedule: schedule, Roster: roster}, nil
}

// Update rewrites the schedule fields and replaces the roster wholesale:
// old assignments are deleted and new ones inserted with fresh tokens, so
// previously shared response links stop working after an edit. Conflict
// checking excludes the schedule itself.
func (s *scheduleService) Update(ctx context.Context, churchID, scheduleID uuid.UUID, input *ScheduleInput) (*ScheduleResult, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, churchID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, churchID, input); err != nil {
		return nil, err
	}
	eventTime, err := common.NormalizeTime(input.EventTime, "event_time")
	if err != nil {
		return nil, err
	}

	memberIDs := make([]uuid.UUID, 0, len(input.Members))
	for _, m := range input.Members {
		memberIDs = append(memberIDs, m.MemberID)
	}
	warnings, err := s.conflictSvc.CheckMembers(ctx, churchID, memberIDs, input.EventDate, eventTime, &scheduleID)
	if err != nil {
		return nil, err
	}

	schedule.MinistryID = input.MinistryID
	schedule.Title = input.Title
	schedule.EventDate = input.EventDate
	schedule.EventTime = eventTime
	schedule.EventType = input.EventType
	schedule.Observations = input.Observations

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	if err := s.assignmentRepo.DeleteBySchedule(ctx, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := s.createAssignments(ctx, scheduleID, input.Members); err != nil {
		return nil, err
	}

	return &ScheduleResult{
		Schedules: []*models.Schedule{schedule},
		Warnings:  warnings,
	}, nil
}

func (s *scheduleService) Delete(ctx context.Context, churchID, scheduleID uuid.UUID) error {
	if _, err := s.scheduleRepo.GetByID(ctx, churchID, scheduleID); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(ctx, churchID, scheduleID)
}

func (s *scheduleService) List(ctx context.Context, churchID uuid.UUID, filters *repositories.ScheduleFilters, limit, offset int) ([]*models.Schedule, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.scheduleRepo.List(ctx, churchID, filters, limit, offset)
}

func (s *scheduleService) CheckConflicts(ctx context.Context, churchID uuid.UUID, memberIDs []uuid.UUID, eventDate, eventTime string, excludeScheduleID *uuid.UUID) (map[uuid.UUID]*MemberConflict, error) {
	normalized, err := common.NormalizeTime(eventTime, "event_time")
	if err != nil {
		return nil, err
	}
	return s.conflictSvc.CheckMembers(ctx, churchID, memberIDs, eventDate, normalized, excludeScheduleID)
}

// ShareLink builds a WhatsApp link carrying the public schedule page URL,
// ready to forward into a ministry group chat.
func (s *scheduleService) ShareLink(ctx context.Context, churchID, scheduleID uuid.UUID) (string, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, churchID, scheduleID)
	if err != nil {
		return "", err
	}

	pageURL := fmt.Sprintf("%s/public/schedules/%s", s.publicBaseURL, schedule.ID)
	text := fmt.Sprintf("%s - %s às %s\n%s", schedule.Title, schedule.EventDate, schedule.EventTime, pageURL)
	return "https://wa.me/?text=" + url.QueryEscape(text), nil
}

func (s *scheduleService) validateInput(ctx context.Context, churchID uuid.UUID, input *ScheduleInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := common.ValidateDate(input.EventDate, "event_date"); err != nil {
		return err
	}
	if !models.ValidEventType(input.EventType) {
		return fmt.Errorf("invalid event type %q", input.EventType)
	}
	if input.Recurrence != nil && !models.ValidRecurrence(input.Recurrence.Unit) {
		return fmt.Errorf("invalid recurrence unit %q", input.Recurrence.Unit)
	}
	// Ministry must belong to the caller's church.
	if _, err := s.ministryRepo.GetByID(ctx, churchID, input.MinistryID); err != nil {
		return fmt.Errorf("ministry not found: %w", err)
	}
	return nil
}

func (s *scheduleService) createAssignments(ctx context.Context, scheduleID uuid.UUID, members []AssignmentInput) error {
	if len(members) == 0 {
		return nil
	}
	assignments := make([]*models.ScheduleAssignment, 0, len(members))
	for _, m := range members {
		assignments = append(assignments, &models.ScheduleAssignment{
			ID:            uuid.New(),
			ScheduleID:    scheduleID,
			MemberID:      m.MemberID,
			FunctionName:  m.FunctionName,
			ResponseToken: uuid.New(),
		})
	}
	if err := s.assignmentRepo.CreateBatch(ctx, assignments); err != nil {
		return fmt.Errorf("failed to create assignments: %w", err)
	}
	return nil
}

func (s *scheduleService) loadRoster(ctx context.Context, churchID uuid.UUID, schedule *models.Schedule) ([]*RosterEntry, error) {
	assignments, err := s.assignmentRepo.ListBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}

	assignmentIDs := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}
	responses, err := s.responseRepo.ListByAssignments(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}
	responsesByAssignment := make(map[uuid.UUID]*models.ScheduleResponse, len(responses))
	for _, r := range responses {
		responsesByAssignment[r.ScheduleAssignmentID] = r
	}

	roster := make([]*RosterEntry, 0, len(assignments))
	for _, a := range assignments {
		member, err := s.memberRepo.GetByID(ctx, churchID, a.MemberID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, &RosterEntry{
			Assignment: a,
			Member:     member,
			Response:   responsesByAssignment[a.ID],
		})
	}
	return roster, nil
}
