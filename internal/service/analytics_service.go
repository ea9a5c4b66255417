package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

const noAnalyticsMessage = "No performance data found"

type studentCounter interface {
	Count(ctx context.Context, grade, semester string) (int, error)
}

type analyticsStudents interface {
	studentCounter
	studentResolver
}

// AnalyticsService aggregates class and per-student performance views. Every call reads a
// fresh snapshot; nothing is cached.
type AnalyticsService struct {
	students    analyticsStudents
	performance performanceReader
	users       userFinder
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(students analyticsStudents, performance performanceReader, users userFinder, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		students:    students,
		performance: performance,
		users:       users,
		metrics:     metrics,
		logger:      logger,
	}
}

// ClassAnalytics reduces the records of students in the given grade and semester. Empty
// filters select every student.
func (s *AnalyticsService) ClassAnalytics(ctx context.Context, grade, semester string) (*dto.ClassAnalyticsResponse, error) {
	filter := grading.ClassFilter{Grade: strings.TrimSpace(grade), Semester: strings.TrimSpace(semester)}

	start := time.Now()
	total, err := s.students.Count(ctx, filter.Grade, filter.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	records, err := s.performance.List(ctx, models.PerformanceFilter{StudentGrade: filter.Grade, StudentSemester: filter.Semester})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load performance records")
	}
	s.metrics.ObserveDBQuery("class_analytics", time.Since(start))

	if len(records) == 0 {
		return &dto.ClassAnalyticsResponse{Success: true, Data: []interface{}{}, Message: noAnalyticsMessage}, nil
	}

	report := grading.ClassAnalytics(filter, total, models.GradingRecords(records))
	return &dto.ClassAnalyticsResponse{
		Success:            true,
		Filter:             &report.Filter,
		Metrics:            &report.Metrics,
		GradeDistribution:  &report.GradeDistribution,
		SubjectPerformance: report.SubjectPerformance,
	}, nil
}

// MyPerformance returns the profile of the student linked to userID.
func (s *AnalyticsService) MyPerformance(ctx context.Context, userID string) (*dto.StudentPerformanceResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "user not found", "failed to load user")
	}
	return s.profile(ctx, user)
}

// SubjectPerformance returns the profile of the student account userID. Students may only
// request their own account; the target must hold the student role.
func (s *AnalyticsService) SubjectPerformance(ctx context.Context, requester *models.JWTClaims, userID string) (*dto.StudentPerformanceResponse, error) {
	if requester == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if requester.Role == models.RoleStudent && requester.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to view this student's performance")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load user")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return s.profile(ctx, user)
}

func (s *AnalyticsService) profile(ctx context.Context, user *models.User) (*dto.StudentPerformanceResponse, error) {
	records, err := linkedRecords(ctx, s.students, s.performance, user)
	if err != nil {
		return nil, err
	}
	resp := &dto.StudentPerformanceResponse{
		Success: true,
		Student: models.StudentRef{
			ID:            user.ID,
			Name:          user.Name,
			StudentNumber: user.StudentCode(),
			Email:         user.Email,
			Semester:      user.Semester,
		},
	}
	if len(records) == 0 {
		resp.Message = noRecordsMessage
		resp.Data = []interface{}{}
		return resp, nil
	}

	profile := grading.StudentProfile(models.GradingRecords(records))
	resp.Metrics = &profile.Metrics
	resp.SubjectData = profile.SubjectData
	resp.Strengths = profile.Strengths
	resp.Weaknesses = profile.Weaknesses
	return resp, nil
}
