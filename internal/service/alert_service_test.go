package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type mockCohortLister struct {
	students []grading.CohortStudent
	err      error
}

func (m *mockCohortLister) ListCohort(ctx context.Context) ([]grading.CohortStudent, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]grading.CohortStudent, len(m.students))
	copy(out, m.students)
	return out, nil
}

func perfRecord(studentID, subject string, percentage float64, attendance int) models.PerformanceRecord {
	return models.PerformanceRecord{
		StudentID:  studentID,
		SubjectID:  subject,
		Percentage: percentage,
		Marks:      models.Marks{Total: percentage * 1.5},
		Attendance: models.Attendance{Percentage: attendance},
		Grade:      grading.GradeFor(percentage),
		Subject:    models.SubjectRef{ID: subject, Name: subject, Code: subject},
	}
}

func newAlertFixture(records ...models.PerformanceRecord) (*AlertService, *MetricsService) {
	code := "STU001"
	users := newMockAuthRepo(
		&models.User{ID: "u1", Email: "ana@example.com", Role: models.RoleStudent, StudentNumber: &code, Active: true},
		&models.User{ID: "u2", Email: "nobody@example.com", Role: models.RoleStudent, Active: true},
	)
	students := newMockStudentRepo(models.Student{ID: "s1", Name: "Ana", StudentNumber: "STU001", Email: "ana@example.com"})
	cohort := &mockCohortLister{students: []grading.CohortStudent{
		{ID: "s1", Name: "Ana", StudentNumber: "STU001"},
		{ID: "s2", Name: "Ben", StudentNumber: "STU002"},
		{ID: "s3", Name: "Cat", StudentNumber: "STU003"},
	}}
	metrics := NewMetricsService()
	svc := NewAlertService(users, cohort, students, &mockPerformanceReader{records: records}, grading.DefaultThresholds(), metrics, zap.NewNop())
	return svc, metrics
}

func TestAlertServiceMyAlerts(t *testing.T) {
	svc, metrics := newAlertFixture(perfRecord("s1", "MATH", 30, 60))

	resp, err := svc.MyAlerts(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Equal(t, 4, resp.Count)
	assert.Equal(t, grading.CategoryOverall, resp.Alerts[0].Category)
	assert.Equal(t, grading.CategoryAttendance, resp.Alerts[1].Category)
	assert.Equal(t, grading.CategorySubject, resp.Alerts[2].Category)
	assert.Equal(t, grading.CategorySubjectAttendance, resp.Alerts[3].Category)
	assert.Equal(t, 30.0, resp.Metrics.AverageMarks)
	assert.Equal(t, 40.0, resp.Thresholds.LowMarks)
	assert.Equal(t, uint64(4), metrics.Snapshot().AlertsGenerated)
}

func TestAlertServiceMyAlertsWithoutRecords(t *testing.T) {
	svc, _ := newAlertFixture()

	resp, err := svc.MyAlerts(context.Background(), "u2")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Alerts)
	assert.NotNil(t, resp.Alerts)
	assert.Equal(t, noRecordsMessage, resp.Message)
	assert.Nil(t, resp.Metrics)
}

func TestAlertServiceMyAlertsUnknownUser(t *testing.T) {
	svc, _ := newAlertFixture()
	_, err := svc.MyAlerts(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAlertServiceAtRiskOrdersCriticalFirst(t *testing.T) {
	svc, metrics := newAlertFixture(
		perfRecord("s1", "MATH", 38, 80),
		perfRecord("s2", "MATH", 20, 50),
		perfRecord("s2", "PHY", 25, 50),
	)

	entries, err := svc.AtRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "s2", entries[0].Student.ID)
	assert.Equal(t, grading.SeverityCritical, entries[0].AlertLevel)
	assert.Equal(t, 2, entries[0].Metrics.FailingSubjects)
	assert.Equal(t, "s1", entries[1].Student.ID)
	assert.Equal(t, grading.SeverityWarning, entries[1].AlertLevel)
	assert.Equal(t, int64(2), metrics.Snapshot().AtRiskStudents)
}

func TestAlertServiceAtRiskSkipsHealthyStudents(t *testing.T) {
	svc, _ := newAlertFixture(perfRecord("s1", "MATH", 85, 95))
	entries, err := svc.AtRisk(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAlertServiceAtRiskStoreFailure(t *testing.T) {
	svc, _ := newAlertFixture()
	svc.cohort = &mockCohortLister{err: errors.New("boom")}
	_, err := svc.AtRisk(context.Background())
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestAlertServiceAtRiskMetricsRounded(t *testing.T) {
	svc, _ := newAlertFixture(perfRecord("s1", "MATH", 30, 80), perfRecord("s1", "PHY", 30, 80), perfRecord("s1", "CHE", 31, 80))

	entries, err := svc.AtRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 30.33, entries[0].Metrics.AverageMarks)
	assert.Equal(t, 80.0, entries[0].Metrics.AverageAttendance)
}
