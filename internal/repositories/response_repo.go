package repositories

import (
	"context"
	"errors"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ResponseRepository interface {
	Create(ctx context.Context, response *models.ScheduleResponse) error
	GetByAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.ScheduleResponse, error)
	Update(ctx context.Context, response *models.ScheduleResponse) error
	ListByAssignments(ctx context.Context, assignmentIDs []uuid.UUID) ([]*models.ScheduleResponse, error)
	CountPendingForSchedules(ctx context.Context, scheduleIDs []uuid.UUID) (int, error)
}

type responseRepo struct {
	db DB
}

func NewResponseRepo(db DB) ResponseRepository {
	return &responseRepo{db: db}
}

const responseColumns = `id, schedule_assignment_id, response_status, notes, response_date, created_at`

func (r *responseRepo) Create(ctx context.Context, response *models.ScheduleResponse) error {
	query := `
		INSERT INTO schedule_responses (id, schedule_assignment_id, response_status, notes, response_date, created_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, response.ID, response.ScheduleAssignmentID, response.ResponseStatus, response.Notes)
	return err
}

// GetByAssignment returns nil when the member has not responded yet.
func (r *responseRepo) GetByAssignment(ctx context.Context, assignmentID uuid.UUID) (*models.ScheduleResponse, error) {
	response := &models.ScheduleResponse{}
	query := `SELECT ` + responseColumns + ` FROM schedule_responses WHERE schedule_assignment_id = $1`
	err := r.db.QueryRow(ctx, query, assignmentID).Scan(&response.ID, &response.ScheduleAssignmentID, &response.ResponseStatus, &response.Notes, &response.ResponseDate, &response.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (r *responseRepo) Update(ctx context.Context, response *models.ScheduleResponse) error {
	query := `
		UPDATE schedule_responses
		SET response_status = $1, notes = $2, response_date = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, response.ResponseStatus, response.Notes, response.ID)
	return err
}

func (r *responseRepo) ListByAssignments(ctx context.Context, assignmentIDs []uuid.UUID) ([]*models.ScheduleResponse, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + responseColumns + ` FROM schedule_responses WHERE schedule_assignment_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, assignmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*models.ScheduleResponse
	for rows.Next() {
		response := &models.ScheduleResponse{}
		if err := rows.Scan(&response.ID, &response.ScheduleAssignmentID, &response.ResponseStatus, &response.Notes, &response.ResponseDate, &response.CreatedAt); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

// CountPendingForSchedules counts assignments with no confirmed or declined
// response across the given schedules. An assignment with no response row at
// all counts as pending.
func (r *responseRepo) CountPendingForSchedules(ctx context.Context, scheduleIDs []uuid.UUID) (int, error) {
	if len(scheduleIDs) == 0 {
		return 0, nil
	}

	var count int
	query := `
		SELECT COUNT(*)
		FROM schedule_assignments a
		LEFT JOIN schedule_responses r ON r.schedule_assignment_id = a.id
		WHERE a.schedule_id = ANY($1) AND (r.id IS NULL OR r.response_status = 'pending')
	`
	err := r.db.QueryRow(ctx, query, scheduleIDs).Scan(&count)
	return count, err
}
