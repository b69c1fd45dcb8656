package repositories

import (
	"context"

	"escalas/internal/models"

	"github.com/google/uuid"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *models.ScheduleTemplate) error
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.ScheduleTemplate, error)
	Update(ctx context.Context, template *models.ScheduleTemplate) error
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.ScheduleTemplate, error)
	CreateFunction(ctx context.Context, function *models.TemplateFunction) error
	ListFunctions(ctx context.Context, templateID uuid.UUID) ([]*models.TemplateFunction, error)
	DeleteFunctions(ctx context.Context, templateID uuid.UUID) error
}

type templateRepo struct {
	db DB
}

func NewTemplateRepo(db DB) TemplateRepository {
	return &templateRepo{db: db}
}

const templateColumns = `id, church_id, name, event_type, event_time, observations, created_at, updated_at`

func (r *templateRepo) Create(ctx context.Context, template *models.ScheduleTemplate) error {
	query := `
		INSERT INTO schedule_templates (id, church_id, name, event_type, event_time, observations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, template.ID, template.ChurchID, template.Name, template.EventType, template.EventTime, template.Observations)
	return err
}

func (r *templateRepo) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.ScheduleTemplate, error) {
	template := &models.ScheduleTemplate{}
	query := `SELECT ` + templateColumns + ` FROM schedule_templates WHERE church_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, churchID, id).Scan(&template.ID, &template.ChurchID, &template.Name, &template.EventType, &template.EventTime, &template.Observations, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (r *templateRepo) Update(ctx context.Context, template *models.ScheduleTemplate) error {
	query := `
		UPDATE schedule_templates
		SET name = $1, event_type = $2, event_time = $3, observations = $4, updated_at = NOW()
		WHERE church_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, template.Name, template.EventType, template.EventTime, template.Observations, template.ChurchID, template.ID)
	return err
}

func (r *templateRepo) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	query := `DELETE FROM schedule_templates WHERE church_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, churchID, id)
	return err
}

func (r *templateRepo) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.ScheduleTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM schedule_templates WHERE church_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, churchID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.ScheduleTemplate
	for rows.Next() {
		template := &models.ScheduleTemplate{}
		if err := rows.Scan(&template.ID, &template.ChurchID, &template.Name, &template.EventType, &template.EventTime, &template.Observations, &template.CreatedAt, &template.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, rows.Err()
}

func (r *templateRepo) CreateFunction(ctx context.Context, function *models.TemplateFunction) error {
	query := `
		INSERT INTO template_functions (id, template_id, function_name, required_count)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, function.ID, function.TemplateID, function.FunctionName, function.RequiredCount)
	return err
}

func (r *templateRepo) ListFunctions(ctx context.Context, templateID uuid.UUID) ([]*models.TemplateFunction, error) {
	query := `
		SELECT id, template_id, function_name, required_count
		FROM template_functions
		WHERE template_id = $1
		ORDER BY function_name ASC
	`
	rows, err := r.db.Query(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var functions []*models.TemplateFunction
	for rows.Next() {
		function := &models.TemplateFunction{}
		if err := rows.Scan(&function.ID, &function.TemplateID, &function.FunctionName, &function.RequiredCount); err != nil {
			return nil, err
		}
		functions = append(functions, function)
	}
	return functions, rows.Err()
}

func (r *templateRepo) DeleteFunctions(ctx context.Context, templateID uuid.UUID) error {
	query := `DELETE FROM template_functions WHERE template_id = $1`
	_, err := r.db.Exec(ctx, query, templateID)
	return err
}
