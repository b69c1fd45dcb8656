package services

import (
	"context"
	"errors"
	"fmt"

	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInvalidResponseToken is returned when a response token does not
// resolve to an assignment. The public page shows it as an expired link;
// tokens are invalidated whenever a schedule's roster is rewritten.
var ErrInvalidResponseToken = errors.New("invalid or expired response link")

// ResponseContext is everything the public response page needs to render:
// who is being asked, for which service, and their current answer.
type ResponseContext struct {
	Assignment *models.ScheduleAssignment `json:"assignment"`
	Schedule   *models.Schedule           `json:"schedule"`
	Member     *models.Member             `json:"member"`
	Response   *models.ScheduleResponse   `json:"response,omitempty"`
}

// ResponseService handles confirm/decline answers submitted through
// unauthenticated token links.
type ResponseService interface {
	GetByToken(ctx context.Context, token uuid.UUID) (*ResponseContext, error)
	SubmitByToken(ctx context.Context, token uuid.UUID, status string, notes *string) (*models.ScheduleResponse, error)
}

type responseService struct {
	assignmentRepo repositories.AssignmentRepository
	responseRepo   repositories.ResponseRepository
	scheduleRepo   repositories.ScheduleRepository
	memberRepo     repositories.MemberRepository
}

func NewResponseService(
	assignmentRepo repositories.AssignmentRepository,
	responseRepo repositories.ResponseRepository,
	scheduleRepo repositories.ScheduleRepository,
	memberRepo repositories.MemberRepository,
) ResponseService {
	return &responseService{
		assignmentRepo: assignmentRepo,
		responseRepo:   responseRepo,
		scheduleRepo:   scheduleRepo,
		memberRepo:     memberRepo,
	}
}

func (s *responseService) GetByToken(ctx context.Context, token uuid.UUID) (*ResponseContext, error) {
	assignment, err := s.assignmentRepo.GetByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidResponseToken
	}
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetPublicByID(ctx, assignment.ScheduleID)
	if err != nil {
		return nil, err
	}
	member, err := s.memberRepo.GetByID(ctx, schedule.ChurchID, assignment.MemberID)
	if err != nil {
		return nil, err
	}
	response, err := s.responseRepo.GetByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}

	return &ResponseContext{
		Assignment: assignment,
		Schedule:   schedule,
		Member:     member,
		Response:   response,
	}, nil
}

// SubmitByToken records a confirm/decline answer. Answers upsert by
// assignment: the first submission inserts, later ones overwrite, so a
// member can change their mind until the service happens.
func (s *responseService) SubmitByToken(ctx context.Context, token uuid.UUID, status string, notes *string) (*models.ScheduleResponse, error) {
	if !models.ValidResponseStatus(status) {
		return nil, fmt.Errorf("invalid response status %q", status)
	}

	assignment, err := s.assignmentRepo.GetByToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidResponseToken
	}
	if err != nil {
		return nil, err
	}

	existing, err := s.responseRepo.GetByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.ResponseStatus = status
		existing.Notes = notes
		if err := s.responseRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update response: %w", err)
		}
		return existing, nil
	}

	response := &models.ScheduleResponse{
		ID:                   uuid.New(),
		ScheduleAssignmentID: assignment.ID,
		ResponseStatus:       status,
		Notes:                notes,
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to create response: %w", err)
	}
	return response, nil
}
