package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AssignmentRepository interface {
	CreateBatch(ctx context.Context, assignments []*models.ScheduleAssignment) error
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*models.ScheduleAssignment, error)
	DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) error
	GetByToken(ctx context.Context, token uuid.UUID) (*models.ScheduleAssignment, error)
	ListMemberIDsInSchedules(ctx context.Context, scheduleIDs, memberIDs []uuid.UUID) ([]uuid.UUID, error)
}

type assignmentRepo struct {
	db DB
}

func NewAssignmentRepo(db DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

const assignmentColumns = `id, schedule_id, member_id, function_name, response_token, created_at`

func (r *assignmentRepo) CreateBatch(ctx context.Context, assignments []*models.ScheduleAssignment) error {
	query := `
		INSERT INTO schedule_assignments (id, schedule_id, member_id, function_name, response_token, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	for _, assignment := range assignments {
		if _, err := r.db.Exec(ctx, query, assignment.ID, assignment.ScheduleID, assignment.MemberID, assignment.FunctionName, assignment.ResponseToken); err != nil {
			return err
		}
	}
	return nil
}

func (r *assignmentRepo) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*models.ScheduleAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM schedule_assignments WHERE schedule_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *assignmentRepo) DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) error {
	query := `DELETE FROM schedule_assignments WHERE schedule_id = $1`
	_, err := r.db.Exec(ctx, query, scheduleID)
	return err
}

// GetByToken resolves a response token to its assignment. The token is the
// only credential on the public response page, so an unknown token is a
// genuine error here, not an empty result.
func (r *assignmentRepo) GetByToken(ctx context.Context, token uuid.UUID) (*models.ScheduleAssignment, error) {
	assignment := &models.ScheduleAssignment{}
	query := `SELECT ` + assignmentColumns + ` FROM schedule_assignments WHERE response_token = $1`
	err := r.db.QueryRow(ctx, query, token).Scan(&assignment.ID, &assignment.ScheduleID, &assignment.MemberID, &assignment.FunctionName, &assignment.ResponseToken, &assignment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// ListMemberIDsInSchedules returns the subset of memberIDs already assigned
// to any of the given schedules.
func (r *assignmentRepo) ListMemberIDsInSchedules(ctx context.Context, scheduleIDs, memberIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(scheduleIDs) == 0 || len(memberIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT DISTINCT member_id
		FROM schedule_assignments
		WHERE schedule_id = ANY($1) AND member_id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, scheduleIDs, memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanAssignments(rows pgx.Rows) ([]*models.ScheduleAssignment, error) {
	var assignments []*models.ScheduleAssignment
	for rows.Next() {
		assignment := &models.ScheduleAssignment{}
		if err := rows.Scan(&assignment.ID, &assignment.ScheduleID, &assignment.MemberID, &assignment.FunctionName, &assignment.ResponseToken, &assignment.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}
