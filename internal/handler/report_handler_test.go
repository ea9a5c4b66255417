package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/internal/service"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type fakeReportService struct {
	format          string
	grade, semester string
}

func (f *fakeReportService) AtRisk(_ context.Context, format string) (*service.ReportFile, error) {
	f.format = format
	if format == "docx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be one of csv, pdf, xlsx")
	}
	return &service.ReportFile{Filename: "at-risk-students_20240501_083000.csv", ContentType: "text/csv", Data: []byte("Name\nAna\n")}, nil
}

func (f *fakeReportService) ClassAnalytics(_ context.Context, format, grade, semester string) (*service.ReportFile, error) {
	f.format, f.grade, f.semester = format, grade, semester
	return &service.ReportFile{Filename: "class-analytics.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

func TestReportHandlerAtRiskStreamsAttachment(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/reports/at-risk?format=csv", "")

	NewReportHandler(&fakeReportService{}).AtRisk(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="at-risk-students_20240501_083000.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Name\nAna\n", rec.Body.String())
}

func TestReportHandlerAtRiskBadFormat(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/reports/at-risk?format=docx", "")
	NewReportHandler(&fakeReportService{}).AtRisk(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "format must be one of csv, pdf, xlsx", decodeEnvelope(t, rec).Error.Message)
}

func TestReportHandlerClassAnalyticsForwardsFilters(t *testing.T) {
	srv := &fakeReportService{}
	c, rec := newTestContext(http.MethodGet, "/api/reports/class-analytics?format=pdf&grade=11&semester=1", "")

	NewReportHandler(srv).ClassAnalytics(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pdf", srv.format)
	assert.Equal(t, "11", srv.grade)
	assert.Equal(t, "1", srv.semester)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}
