package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/validation"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student, subjectIDs []string) error
	Update(ctx context.Context, student *models.Student, subjectIDs *[]string) error
	Delete(ctx context.Context, id string) error
}

type subjectLookup interface {
	CountByIDs(ctx context.Context, ids []string) (int, error)
}

type performanceReader interface {
	List(ctx context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	subjects    subjectLookup
	performance performanceReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, subjects subjectLookup, performance performanceReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, subjects: subjects, performance: performance, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 10
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a student with enrolled subjects.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.checkSubjects(ctx, req.Subjects); err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:          strings.TrimSpace(req.Name),
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		Grade:         strings.TrimSpace(req.Grade),
		Semester:      strings.TrimSpace(req.Semester),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
	}
	if err := s.repo.Create(ctx, student, req.Subjects); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Duplicate(err, "studentId or email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return s.Get(ctx, student.ID)
}

// Update modifies an existing student. Omitted fields keep their values.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Subjects != nil {
		if err := s.checkSubjects(ctx, *req.Subjects); err != nil {
			return nil, err
		}
	}

	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	assign(&student.Name, req.Name)
	assign(&student.StudentNumber, req.StudentNumber)
	assign(&student.Grade, req.Grade)
	assign(&student.Semester, req.Semester)
	assign(&student.Email, req.Email)
	assign(&student.Phone, req.Phone)

	if err := s.repo.Update(ctx, student, req.Subjects); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Duplicate(err, "studentId or email")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.Get(ctx, id)
}

// Delete removes the student with its performance records and enrollment.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

// Performance returns every performance record of a student.
func (s *StudentService) Performance(ctx context.Context, id string) ([]models.PerformanceRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.performance.List(ctx, models.PerformanceFilter{StudentIDs: []string{id}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student performance")
	}
	return records, nil
}

func (s *StudentService) checkSubjects(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[string]struct{}, len(ids))
	list := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := unique[id]; ok {
			continue
		}
		unique[id] = struct{}{}
		list = append(list, id)
	}
	count, err := s.subjects.CountByIDs(ctx, list)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate subjects")
	}
	if count != len(list) {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	return nil
}
