package repositories

import (
	"context"
	"strconv"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ScheduleFilters narrows schedule listings.
type ScheduleFilters struct {
	MinistryID *uuid.UUID
	FromDate   *string
	ToDate     *string
	EventType  *string
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Schedule, error)
	GetPublicByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error)
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, filters *ScheduleFilters, limit, offset int) ([]*models.Schedule, error)
	ListIDsAtDateTime(ctx context.Context, churchID uuid.UUID, eventDate, eventTime string, excludeID *uuid.UUID) ([]uuid.UUID, error)
	ListUpcoming(ctx context.Context, churchID uuid.UUID, fromDate, toDate string) ([]*models.Schedule, error)
	CountUpcoming(ctx context.Context, churchID uuid.UUID, fromDate string) (int, error)
}

type scheduleRepo struct {
	db DB
}

func NewScheduleRepo(db DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

const scheduleColumns = `id, church_id, ministry_id, title, event_date, event_time, event_type, observations, created_at, updated_at`

func (r *scheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	query := `
		INSERT INTO schedules (id, church_id, ministry_id, title, event_date, event_time, event_type, observations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, schedule.ID, schedule.ChurchID, schedule.MinistryID, schedule.Title, schedule.EventDate, schedule.EventTime, schedule.EventType, schedule.Observations)
	return err
}

func (r *scheduleRepo) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE church_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, churchID, id).Scan(&schedule.ID, &schedule.ChurchID, &schedule.MinistryID, &schedule.Title, &schedule.EventDate, &schedule.EventTime, &schedule.EventType, &schedule.Observations, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetPublicByID looks a schedule up without church scoping. It backs the
// unauthenticated public viewer, where the schedule ID itself is the
// shared reference.
func (r *scheduleRepo) GetPublicByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&schedule.ID, &schedule.ChurchID, &schedule.MinistryID, &schedule.Title, &schedule.EventDate, &schedule.EventTime, &schedule.EventType, &schedule.Observations, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func (r *scheduleRepo) Update(ctx context.Context, schedule *models.Schedule) error {
	query := `
		UPDATE schedules
		SET ministry_id = $1, title = $2, event_date = $3, event_time = $4, event_type = $5, observations = $6, updated_at = NOW()
		WHERE church_id = $7 AND id = $8
	`
	_, err := r.db.Exec(ctx, query, schedule.MinistryID, schedule.Title, schedule.EventDate, schedule.EventTime, schedule.EventType, schedule.Observations, schedule.ChurchID, schedule.ID)
	return err
}

func (r *scheduleRepo) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	query := `DELETE FROM schedules WHERE church_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}

func (r *scheduleRepo) List(ctx context.Context, churchID uuid.UUID, filters *ScheduleFilters, limit, offset int) ([]*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE church_id = $1`
	args := []interface{}{churchID}

	if filters != nil {
		if filters.MinistryID != nil {
			args = append(args, *filters.MinistryID)
			query += ` AND ministry_id = $` + strconv.Itoa(len(args))
		}
		if filters.FromDate != nil {
			args = append(args, *filters.FromDate)
			query += ` AND event_date >= $` + strconv.Itoa(len(args))
		}
		if filters.ToDate != nil {
			args = append(args, *filters.ToDate)
			query += ` AND event_date <= $` + strconv.Itoa(len(args))
		}
		if filters.EventType != nil {
			args = append(args, *filters.EventType)
			query += ` AND event_type = $` + strconv.Itoa(len(args))
		}
	}

	args = append(args, limit)
	query += ` ORDER BY event_date ASC, event_time ASC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// ListIDsAtDateTime returns schedules at the exact date and time string,
// optionally excluding the schedule being edited. Exact equality only;
// overlapping-but-unequal times never match.
func (r *scheduleRepo) ListIDsAtDateTime(ctx context.Context, churchID uuid.UUID, eventDate, eventTime string, excludeID *uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT id FROM schedules WHERE church_id = $1 AND event_date = $2 AND event_time = $3`
	args := []interface{}{churchID, eventDate, eventTime}
	if excludeID != nil {
		args = append(args, *excludeID)
		query += ` AND id != $4`
	}

	rows, err := r.db.Query(ctx, query, args...)
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

func (r *scheduleRepo) ListUpcoming(ctx context.Context, churchID uuid.UUID, fromDate, toDate string) ([]*models.Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM schedules
		WHERE church_id = $1 AND event_date >= $2 AND event_date <= $3
		ORDER BY event_date ASC, event_time ASC
	`
	rows, err := r.db.Query(ctx, query, churchID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSchedules(rows)
}

func (r *scheduleRepo) CountUpcoming(ctx context.Context, churchID uuid.UUID, fromDate string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM schedules WHERE church_id = $1 AND event_date >= $2`
	err := r.db.QueryRow(ctx, query, churchID, fromDate).Scan(&count)
	return count, err
}

func scanSchedules(rows pgx.Rows) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	for rows.Next() {
		schedule := &models.Schedule{}
		if err := rows.Scan(&schedule.ID, &schedule.ChurchID, &schedule.MinistryID, &schedule.Title, &schedule.EventDate, &schedule.EventTime, &schedule.EventType, &schedule.Observations, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

