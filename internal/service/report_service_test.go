package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type stubAtRisk struct {
	entries []grading.AtRiskEntry
	err     error
}

func (s *stubAtRisk) AtRisk(ctx context.Context) ([]grading.AtRiskEntry, error) {
	return s.entries, s.err
}

type stubClassAnalytics struct {
	resp  *dto.ClassAnalyticsResponse
	grade string
}

func (s *stubClassAnalytics) ClassAnalytics(ctx context.Context, grade, semester string) (*dto.ClassAnalyticsResponse, error) {
	s.grade = grade
	return s.resp, nil
}

func newReportService(alerts atRiskSource, analytics classAnalyticsSource) *ReportService {
	svc := NewReportService(alerts, analytics, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }
	return svc
}

func TestReportServiceAtRiskCSV(t *testing.T) {
	alerts := &stubAtRisk{entries: []grading.AtRiskEntry{{
		Student:    grading.CohortStudent{Name: "Ana", StudentNumber: "STU001", Email: "ana@example.com"},
		Metrics:    grading.CohortMetrics{Metrics: grading.Metrics{AverageMarks: 30, AverageAttendance: 60.5}, FailingSubjects: 1},
		AlertLevel: grading.SeverityCritical,
		Alerts:     []grading.CohortAlert{{Message: "Critical: marks"}, {Message: "Failing in 1 subject(s)"}},
	}}}
	svc := newReportService(alerts, &stubClassAnalytics{})

	file, err := svc.AtRisk(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "at-risk-students_20240501_083000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Ana,STU001,ana@example.com,,,critical,30.00,60.50,1,Critical: marks; Failing in 1 subject(s)", lines[1])
}

func TestReportServiceRejectsFormat(t *testing.T) {
	svc := newReportService(&stubAtRisk{}, &stubClassAnalytics{})
	_, err := svc.AtRisk(context.Background(), "docx")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServicePropagatesSourceError(t *testing.T) {
	svc := newReportService(&stubAtRisk{err: appErrors.ErrInternal}, &stubClassAnalytics{})
	_, err := svc.AtRisk(context.Background(), "pdf")
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestReportServiceClassAnalyticsXLSX(t *testing.T) {
	analytics := &stubClassAnalytics{resp: &dto.ClassAnalyticsResponse{
		Success: true,
		SubjectPerformance: []grading.SubjectSummary{{
			Subject: "Physics", Code: "PHY101", AverageMarks: 71.5, TotalStudents: 2,
			TopPerformers: []grading.TopPerformer{{Name: "Ana", Marks: 90}},
		}},
	}}
	svc := newReportService(&stubAtRisk{}, analytics)

	file, err := svc.ClassAnalytics(context.Background(), "xlsx", "10", "1")
	require.NoError(t, err)
	assert.Equal(t, "10", analytics.grade)
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))
	assert.NotEmpty(t, file.Data)
}
