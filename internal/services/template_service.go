package services

import (
	"context"
	"fmt"

	"escalas/internal/common"
	"escalas/internal/models"
	"escalas/internal/repositories"

	"github.com/google/uuid"
)

// TemplateFunctionInput names one required function and how many members
// it needs.
type TemplateFunctionInput struct {
	FunctionName  string `json:"function_name"`
	RequiredCount int    `json:"required_count"`
}

// TemplateInput is the create/update payload for a schedule template.
type TemplateInput struct {
	Name         string                  `json:"name"`
	EventType    string                  `json:"event_type"`
	EventTime    string                  `json:"event_time"`
	Observations *string                 `json:"observations"`
	Functions    []TemplateFunctionInput `json:"functions"`
}

type TemplateService interface {
	Create(ctx context.Context, churchID uuid.UUID, input *TemplateInput) (*models.ScheduleTemplate, error)
	GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.ScheduleTemplate, error)
	Update(ctx context.Context, churchID, id uuid.UUID, input *TemplateInput) (*models.ScheduleTemplate, error)
	Delete(ctx context.Context, churchID, id uuid.UUID) error
	List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.ScheduleTemplate, error)
}

type templateService struct {
	templateRepo repositories.TemplateRepository
}

func NewTemplateService(templateRepo repositories.TemplateRepository) TemplateService {
	return &templateService{templateRepo: templateRepo}
}

func (s *templateService) Create(ctx context.Context, churchID uuid.UUID, input *TemplateInput) (*models.ScheduleTemplate, error) {
	eventTime, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	template := &models.ScheduleTemplate{
		ID:           uuid.New(),
		ChurchID:     churchID,
		Name:         input.Name,
		EventType:    input.EventType,
		EventTime:    eventTime,
		Observations: input.Observations,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	if err := s.replaceFunctions(ctx, template, input.Functions); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) GetByID(ctx context.Context, churchID, id uuid.UUID) (*models.ScheduleTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	functions, err := s.templateRepo.ListFunctions(ctx, template.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range functions {
		template.Functions = append(template.Functions, *f)
	}
	return template, nil
}

func (s *templateService) Update(ctx context.Context, churchID, id uuid.UUID, input *TemplateInput) (*models.ScheduleTemplate, error) {
	template, err := s.templateRepo.GetByID(ctx, churchID, id)
	if err != nil {
		return nil, err
	}
	eventTime, err := s.validateInput(input)
	if err != nil {
		return nil, err
	}

	template.Name = input.Name
	template.EventType = input.EventType
	template.EventTime = eventTime
	template.Observations = input.Observations
	if err := s.templateRepo.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	// Functions are replaced wholesale, same as schedule rosters.
	if err := s.templateRepo.DeleteFunctions(ctx, template.ID); err != nil {
		return nil, fmt.Errorf("failed to clear template functions: %w", err)
	}
	template.Functions = nil
	if err := s.replaceFunctions(ctx, template, input.Functions); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) Delete(ctx context.Context, churchID, id uuid.UUID) error {
	if _, err := s.templateRepo.GetByID(ctx, churchID, id); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, churchID, id)
}

func (s *templateService) List(ctx context.Context, churchID uuid.UUID, limit, offset int) ([]*models.ScheduleTemplate, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.templateRepo.List(ctx, churchID, limit, offset)
}

func (s *templateService) validateInput(input *TemplateInput) (string, error) {
	if input.Name == "" {
		return "", fmt.Errorf("template name is required")
	}
	if !models.ValidEventType(input.EventType) {
		return "", fmt.Errorf("invalid event type %q", input.EventType)
	}
	for _, f := range input.Functions {
		if f.FunctionName == "" {
			return "", fmt.Errorf("function name is required")
		}
		if f.RequiredCount < 1 {
			return "", fmt.Errorf("required count for %q must be at least 1", f.FunctionName)
		}
	}
	return common.NormalizeTime(input.EventTime, "event_time")
}

func (s *templateService) replaceFunctions(ctx context.Context, template *models.ScheduleTemplate, inputs []TemplateFunctionInput) error {
	for _, f := range inputs {
		function := &models.TemplateFunction{
			ID:            uuid.New(),
			TemplateID:    template.ID,
			FunctionName:  f.FunctionName,
			RequiredCount: f.RequiredCount,
		}
		if err := s.templateRepo.CreateFunction(ctx, function); err != nil {
			return fmt.Errorf("failed to create template function: %w", err)
		}
		template.Functions = append(template.Functions, *function)
	}
	return nil
}
