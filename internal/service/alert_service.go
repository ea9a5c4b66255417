package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

const noRecordsMessage = "No performance records found"

type cohortLister interface {
	ListCohort(ctx context.Context) ([]grading.CohortStudent, error)
}

type studentResolver interface {
	FindByNumberOrEmail(ctx context.Context, number, email string) (*models.Student, error)
}

// AlertService derives per-student alerts and the at-risk roster from stored results.
type AlertService struct {
	users       userFinder
	cohort      cohortLister
	students    studentResolver
	performance performanceReader
	thresholds  grading.Thresholds
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewAlertService constructs an AlertService.
func NewAlertService(users userFinder, cohort cohortLister, students studentResolver, performance performanceReader, thresholds grading.Thresholds, metrics *MetricsService, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		users:       users,
		cohort:      cohort,
		students:    students,
		performance: performance,
		thresholds:  thresholds,
		metrics:     metrics,
		logger:      logger,
	}
}

// Thresholds returns the configured alert thresholds.
func (s *AlertService) Thresholds() grading.Thresholds {
	return s.thresholds
}

// MyAlerts builds the alert report of the student linked to userID.
func (s *AlertService) MyAlerts(ctx context.Context, userID string) (*dto.StudentAlertsResponse, error) {
	records, err := s.recordsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &dto.StudentAlertsResponse{Success: true, Alerts: []grading.StudentAlert{}, Message: noRecordsMessage}, nil
	}

	report := grading.StudentAlerts(models.GradingRecords(records), s.thresholds)
	for _, alert := range report.Alerts {
		s.metrics.RecordAlerts("student", string(alert.Type), 1)
	}

	metrics := grading.Metrics{
		AverageMarks:      grading.Round2(report.Metrics.AverageMarks),
		AverageAttendance: grading.Round2(report.Metrics.AverageAttendance),
		TotalSubjects:     report.Metrics.TotalSubjects,
	}
	thresholds := s.thresholds
	return &dto.StudentAlertsResponse{
		Success:    true,
		Count:      len(report.Alerts),
		Metrics:    &metrics,
		Thresholds: &thresholds,
		Alerts:     report.Alerts,
	}, nil
}

// AtRisk computes the roster of active students with at least one alert, critical first.
func (s *AlertService) AtRisk(ctx context.Context) ([]grading.AtRiskEntry, error) {
	start := time.Now()
	students, err := s.cohort.ListCohort(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	if len(students) > 0 {
		ids := make([]string, len(students))
		index := make(map[string]int, len(students))
		for i := range students {
			ids[i] = students[i].ID
			index[students[i].ID] = i
		}
		records, err := s.performance.List(ctx, models.PerformanceFilter{StudentIDs: ids})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load performance records")
		}
		for i := range records {
			if pos, ok := index[records[i].StudentID]; ok {
				students[pos].Records = append(students[pos].Records, records[i].GradingRecord())
			}
		}
	}
	s.metrics.ObserveDBQuery("at_risk_roster", time.Since(start))

	entries := grading.CohortRisk(students, s.thresholds)
	for i := range entries {
		for _, alert := range entries[i].Alerts {
			s.metrics.RecordAlerts("cohort", string(alert.Type), 1)
		}
	}
	s.metrics.SetAtRisk(len(entries))
	return entries, nil
}

// recordsForUser resolves the student row linked to an account. An account without a
// matching row has no records.
func (s *AlertService) recordsForUser(ctx context.Context, userID string) ([]models.PerformanceRecord, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal(err, "user not found", "failed to load user")
	}
	return linkedRecords(ctx, s.students, s.performance, user)
}

func linkedRecords(ctx context.Context, students studentResolver, performance performanceReader, user *models.User) ([]models.PerformanceRecord, error) {
	student, err := students.FindByNumberOrEmail(ctx, user.StudentCode(), user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	records, err := performance.List(ctx, models.PerformanceFilter{StudentIDs: []string{student.ID}})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load performance records")
	}
	return records, nil
}
