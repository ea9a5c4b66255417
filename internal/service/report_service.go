package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/export"
)

type atRiskSource interface {
	AtRisk(ctx context.Context) ([]grading.AtRiskEntry, error)
}

type classAnalyticsSource interface {
	ClassAnalytics(ctx context.Context, grade, semester string) (*dto.ClassAnalyticsResponse, error)
}

type datasetRenderer interface {
	Render(format export.Format, data export.Dataset) ([]byte, error)
}

// ReportFile is a rendered report ready to be streamed.
type ReportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportService renders the at-risk roster and class analytics as downloadable files.
type ReportService struct {
	alerts    atRiskSource
	analytics classAnalyticsSource
	renderer  datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs a ReportService. A nil renderer uses every built-in format.
func NewReportService(alerts atRiskSource, analytics classAnalyticsSource, renderer datasetRenderer, logger *zap.Logger) *ReportService {
	if renderer == nil {
		renderer = export.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{alerts: alerts, analytics: analytics, renderer: renderer, logger: logger, now: time.Now}
}

var atRiskHeaders = []string{"Name", "Student ID", "Email", "Grade", "Semester", "Alert Level", "Average Marks", "Average Attendance", "Failing Subjects", "Alerts"}

// AtRisk renders the current at-risk roster.
func (s *ReportService) AtRisk(ctx context.Context, format string) (*ReportFile, error) {
	f, err := parseReportFormat(format)
	if err != nil {
		return nil, err
	}
	entries, err := s.alerts.AtRisk(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: "At-risk students", Headers: atRiskHeaders}
	for _, e := range entries {
		messages := make([]string, 0, len(e.Alerts))
		for _, a := range e.Alerts {
			messages = append(messages, a.Message)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Name":               e.Student.Name,
			"Student ID":         e.Student.StudentNumber,
			"Email":              e.Student.Email,
			"Grade":              e.Student.Grade,
			"Semester":           e.Student.Semester,
			"Alert Level":        string(e.AlertLevel),
			"Average Marks":      formatFloat(e.Metrics.AverageMarks),
			"Average Attendance": formatFloat(e.Metrics.AverageAttendance),
			"Failing Subjects":   strconv.Itoa(e.Metrics.FailingSubjects),
			"Alerts":             strings.Join(messages, "; "),
		})
	}
	return s.render(f, "at-risk-students", data)
}

var classHeaders = []string{"Subject", "Code", "Average Marks", "Students", "Top Performers"}

// ClassAnalytics renders the per-subject block of the class report.
func (s *ReportService) ClassAnalytics(ctx context.Context, format, grade, semester string) (*ReportFile, error) {
	f, err := parseReportFormat(format)
	if err != nil {
		return nil, err
	}
	resp, err := s.analytics.ClassAnalytics(ctx, grade, semester)
	if err != nil {
		return nil, err
	}

	title := "Class analytics"
	if grade = strings.TrimSpace(grade); grade != "" {
		title += " grade " + grade
	}
	if semester = strings.TrimSpace(semester); semester != "" {
		title += " semester " + semester
	}
	data := export.Dataset{Title: title, Headers: classHeaders}
	for _, subject := range resp.SubjectPerformance {
		names := make([]string, 0, len(subject.TopPerformers))
		for _, p := range subject.TopPerformers {
			names = append(names, fmt.Sprintf("%s (%s%%)", p.Name, formatFloat(p.Marks)))
		}
		data.Rows = append(data.Rows, map[string]string{
			"Subject":        subject.Subject,
			"Code":           subject.Code,
			"Average Marks":  formatFloat(subject.AverageMarks),
			"Students":       strconv.Itoa(subject.TotalStudents),
			"Top Performers": strings.Join(names, ", "),
		})
	}
	return s.render(f, "class-analytics", data)
}

func (s *ReportService) render(format export.Format, name string, data export.Dataset) (*ReportFile, error) {
	body, err := s.renderer.Render(format, data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	s.logger.Debug("report rendered", zap.String("report", name), zap.String("format", string(format)), zap.Int("rows", len(data.Rows)))
	return &ReportFile{
		Filename:    fmt.Sprintf("%s_%s.%s", name, s.now().UTC().Format("20060102_150405"), format),
		ContentType: format.ContentType(),
		Data:        body,
	}, nil
}

func parseReportFormat(value string) (export.Format, error) {
	f, err := export.ParseFormat(value)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, xlsx")
	}
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
