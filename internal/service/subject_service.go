package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/validation"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectService handles subject domain workflows.
type SubjectService struct {
	repo        subjectRepository
	performance performanceReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, performance performanceReader, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, performance: performance, validator: validate, logger: logger}
}

// List returns subjects ordered by code.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	subjects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Get returns subject by id.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create adds a new subject.
func (s *SubjectService) Create(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Teacher:     strings.TrimSpace(req.Teacher),
		Credits:     req.Credits,
		Semester:    strings.TrimSpace(req.Semester),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Duplicate(err, "code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	return subject, nil
}

// Update modifies subject fields. Omitted fields keep their values.
func (s *SubjectService) Update(ctx context.Context, id string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		subject.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Teacher != nil {
		subject.Teacher = strings.TrimSpace(*req.Teacher)
	}
	if req.Credits != nil {
		subject.Credits = *req.Credits
	}
	if req.Semester != nil {
		subject.Semester = strings.TrimSpace(*req.Semester)
	}
	if req.Description != nil {
		subject.Description = strings.TrimSpace(*req.Description)
	}
	if err := s.repo.Update(ctx, subject); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Duplicate(err, "code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes a subject together with its performance records and enrollment rows.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id))
	return nil
}

// Statistics summarises every performance record of a subject.
func (s *SubjectService) Statistics(ctx context.Context, id string) (*models.Subject, grading.SubjectStats, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, grading.SubjectStats{}, err
	}
	records, err := s.performance.List(ctx, models.PerformanceFilter{SubjectID: id})
	if err != nil {
		return nil, grading.SubjectStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject performance")
	}
	return subject, grading.SubjectStatistics(models.GradingRecords(records)), nil
}
