package repositories

import (
	"context"
	"errors"
	"time"

	"escalas/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, availability *models.MemberAvailability) error
	GetByMemberAndDate(ctx context.Context, memberID uuid.UUID, date time.Time) (*models.MemberAvailability, error)
	Update(ctx context.Context, availability *models.MemberAvailability) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListUnavailableByMember(ctx context.Context, memberID uuid.UUID) ([]*models.MemberAvailability, error)
	ListUnavailableOnDate(ctx context.Context, memberIDs []uuid.UUID, date time.Time) ([]uuid.UUID, error)
}

type availabilityRepo struct {
	db DB
}

func NewAvailabilityRepo(db DB) AvailabilityRepository {
	return &availabilityRepo{db: db}
}

func (r *availabilityRepo) Create(ctx context.Context, availability *models.MemberAvailability) error {
	query := `
		INSERT INTO member_availability (id, member_id, date, available, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, availability.ID, availability.MemberID, availability.Date, availability.Available, availability.Notes)
	return err
}

// GetByMemberAndDate returns nil when no row exists for the member/date;
// absence of a row means the member is available.
func (r *availabilityRepo) GetByMemberAndDate(ctx context.Context, memberID uuid.UUID, date time.Time) (*models.MemberAvailability, error) {
	availability := &models.MemberAvailability{}
	query := `
		SELECT id, member_id, date, available, notes, created_at
		FROM member_availability
		WHERE member_id = $1 AND date = $2
	`
	err := r.db.QueryRow(ctx, query, memberID, date).Scan(&availability.ID, &availability.MemberID, &availability.Date, &availability.Available, &availability.Notes, &availability.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return availability, nil
}

func (r *availabilityRepo) Update(ctx context.Context, availability *models.MemberAvailability) error {
	query := `UPDATE member_availability SET available = $1, notes = $2 WHERE id = $3`
	_, err := r.db.Exec(ctx, query, availability.Available, availability.Notes, availability.ID)
	return err
}

func (r *availabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM member_availability WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *availabilityRepo) ListUnavailableByMember(ctx context.Context, memberID uuid.UUID) ([]*models.MemberAvailability, error) {
	query := `
		SELECT id, member_id, date, available, notes, created_at
		FROM member_availability
		WHERE member_id = $1 AND available = false
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.MemberAvailability
	for rows.Next() {
		availability := &models.MemberAvailability{}
		if err := rows.Scan(&availability.ID, &availability.MemberID, &availability.Date, &availability.Available, &availability.Notes, &availability.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, availability)
	}
	return records, rows.Err()
}

// ListUnavailableOnDate returns the subset of memberIDs with an explicit
// unavailability record on the given date.
func (r *availabilityRepo) ListUnavailableOnDate(ctx context.Context, memberIDs []uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT member_id
		FROM member_availability
		WHERE member_id = ANY($1) AND date = $2 AND available = false
	`
	rows, err := r.db.Query(ctx, query, memberIDs, date)
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
