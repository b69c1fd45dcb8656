package services

import (
	"context"
	"fmt"
	"time"

	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// MemberConflict is the advisory verdict for one candidate member. Both
// flags can be set at once; the caller decides what to do with them.
type MemberConflict struct {
	MemberID      uuid.UUID `json:"member_id"`
	IsUnavailable bool      `json:"is_unavailable"`
	IsConflicting bool      `json:"is_conflicting"`
}

// ConflictService flags candidate members who are marked unavailable on a
// date or already assigned to another schedule at the same date and time.
// Detection is advisory: callers surface warnings, they never block saves.
type ConflictService interface {
	CheckMembers(ctx context.Context, churchID uuid.UUID, memberIDs []uuid.UUID, eventDate, eventTime string, excludeScheduleID *uuid.UUID) (map[uuid.UUID]*MemberConflict, error)
}

type conflictService struct {
	availabilityRepo repositories.AvailabilityRepository
	scheduleRepo     repositories.ScheduleRepository
	assignmentRepo   repositories.AssignmentRepository
}

func NewConflictService(
	availabilityRepo repositories.AvailabilityRepository,
	scheduleRepo repositories.ScheduleRepository,
	assignmentRepo repositories.AssignmentRepository,
) ConflictService {
	return &conflictService{
		availabilityRepo: availabilityRepo,
		scheduleRepo:     scheduleRepo,
		assignmentRepo:   assignmentRepo,
	}
}

// CheckMembers runs three queries: unavailability records on the date,
// schedules at the exact same date and time (excluding the schedule being
// edited, so its own roster never conflicts with itself), and assignments
// within those schedules. Times compare by exact string equality on the
// normalized HH:MM:SS form; a 19:00:00 schedule and a 19:30:00 schedule
// never conflict. Any query error aborts the whole check rather than
// returning a partial verdict.
func (s *conflictService) CheckMembers(ctx context.Context, churchID uuid.UUID, memberIDs []uuid.UUID, eventDate, eventTime string, excludeScheduleID *uuid.UUID) (map[uuid.UUID]*MemberConflict, error) {
	results := make(map[uuid.UUID]*MemberConflict, len(memberIDs))
	for _, memberID := range memberIDs {
		results[memberID] = &MemberConflict{MemberID: memberID}
	}
	if len(memberIDs) == 0 {
		return results, nil
	}

	date, err := time.Parse("2006-01-02", eventDate)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", eventDate, err)
	}

	unavailableIDs, err := s.availabilityRepo.ListUnavailableOnDate(ctx, memberIDs, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	for _, id := range unavailableIDs {
		if result, ok := results[id]; ok {
			result.IsUnavailable = true
		}
	}

	scheduleIDs, err := s.scheduleRepo.ListIDsAtDateTime(ctx, churchID, eventDate, eventTime, excludeScheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check schedules: %w", err)
	}

	conflictingIDs, err := s.assignmentRepo.ListMemberIDsInSchedules(ctx, scheduleIDs, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignments: %w", err)
	}
	for _, id := range conflictingIDs {
		if result, ok := results[id]; ok {
			result.IsConflicting = true
		}
	}

	return results, nil
}
