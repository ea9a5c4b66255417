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

type performanceRepository interface {
	List(ctx context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error)
	FindByID(ctx context.Context, id string) (*models.PerformanceRecord, error)
	Create(ctx context.Context, record *models.PerformanceRecord) error
	Update(ctx context.Context, record *models.PerformanceRecord) error
	Delete(ctx context.Context, id string) error
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PerformanceService records results and keeps their derived fields consistent.
type PerformanceService struct {
	repo       performanceRepository
	students   studentFinder
	subjects   subjectFinder
	users      userFinder
	thresholds grading.Thresholds
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewPerformanceService constructs a PerformanceService.
func NewPerformanceService(repo performanceRepository, students studentFinder, subjects subjectFinder, users userFinder, thresholds grading.Thresholds, validate *validator.Validate, logger *zap.Logger) *PerformanceService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{
		repo:       repo,
		students:   students,
		subjects:   subjects,
		users:      users,
		thresholds: thresholds,
		validator:  validate,
		logger:     logger,
	}
}

// List returns records matching the filter.
func (s *PerformanceService) List(ctx context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list performance records")
	}
	return records, nil
}

// Get returns a record by id.
func (s *PerformanceService) Get(ctx context.Context, id string) (*models.PerformanceRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "performance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load performance record")
	}
	return record, nil
}

// Create records a result after checking that its student and subject exist.
func (s *PerformanceService) Create(ctx context.Context, req models.CreatePerformanceRequest) (*models.PerformanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid performance payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load student")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, notFoundOrInternal(err, "subject not found", "failed to load subject")
	}

	record := &models.PerformanceRecord{
		StudentID:    req.StudentID,
		SubjectID:    req.SubjectID,
		Semester:     strings.TrimSpace(req.Semester),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
	}
	record.Marks.Internal = *req.Marks.Internal
	record.Marks.Finals = *req.Marks.Finals
	record.Attendance.Present = *req.Attendance.Present
	record.Attendance.TotalDays = *req.Attendance.Total
	if err := s.derive(record); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, "performance record already exists for this student, subject and semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create performance record")
	}
	return s.Get(ctx, record.ID)
}

// Update merges the supplied changes and recomputes every derived field.
func (s *PerformanceService) Update(ctx context.Context, id string, req models.UpdatePerformanceRequest) (*models.PerformanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid performance payload")
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Marks != nil {
		if req.Marks.Internal != nil {
			record.Marks.Internal = *req.Marks.Internal
		}
		if req.Marks.Finals != nil {
			record.Marks.Finals = *req.Marks.Finals
		}
	}
	if req.Attendance != nil {
		if req.Attendance.Present != nil {
			record.Attendance.Present = *req.Attendance.Present
		}
		if req.Attendance.Total != nil {
			record.Attendance.TotalDays = *req.Attendance.Total
		}
	}
	if req.Semester != nil {
		record.Semester = strings.TrimSpace(*req.Semester)
	}
	if req.AcademicYear != nil {
		record.AcademicYear = strings.TrimSpace(*req.AcademicYear)
	}
	if err := s.derive(record); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if appErrors.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrDuplicate.Code, appErrors.ErrDuplicate.Status, "performance record already exists for this student, subject and semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update performance record")
	}
	return s.Get(ctx, id)
}

// Delete removes a record.
func (s *PerformanceService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete performance record")
	}
	return nil
}

// Overview summarises the records matching the filter.
func (s *PerformanceService) Overview(ctx context.Context, filter models.PerformanceFilter) (grading.Overview, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return grading.Overview{}, err
	}
	return grading.PerformanceOverview(models.GradingRecords(records), s.thresholds), nil
}

// ByStudent returns the records of one student, narrowed by the term fields of filter.
// Student callers may only read the student row linked to their own account by email or
// student code.
func (s *PerformanceService) ByStudent(ctx context.Context, requester *models.JWTClaims, studentID string, filter models.PerformanceFilter) ([]models.PerformanceRecord, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load student")
	}

	if requester != nil && requester.Role == models.RoleStudent {
		user, err := s.users.FindByID(ctx, requester.UserID)
		if err != nil {
			return nil, notFoundOrInternal(err, "user not found", "failed to load user")
		}
		ownsRow := strings.EqualFold(user.Email, student.Email) ||
			(user.StudentCode() != "" && user.StudentCode() == student.StudentNumber)
		if !ownsRow {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to view this student's performance")
		}
	}

	return s.List(ctx, models.PerformanceFilter{
		StudentIDs:   []string{student.ID},
		Semester:     filter.Semester,
		AcademicYear: filter.AcademicYear,
	})
}

func (s *PerformanceService) derive(record *models.PerformanceRecord) error {
	derived, err := grading.Compute(record.Input())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	record.Apply(derived)
	return nil
}

func notFoundOrInternal(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}
