package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type fakePerformanceService struct {
	filter    models.PerformanceFilter
	overview  grading.Overview
	requester *models.JWTClaims
	created   models.CreatePerformanceRequest
	createErr error
	deleted   string
}

func (f *fakePerformanceService) List(_ context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error) {
	f.filter = filter
	return []models.PerformanceRecord{{ID: "p1"}}, nil
}

func (f *fakePerformanceService) Get(_ context.Context, id string) (*models.PerformanceRecord, error) {
	return &models.PerformanceRecord{ID: id}, nil
}

func (f *fakePerformanceService) Create(_ context.Context, req models.CreatePerformanceRequest) (*models.PerformanceRecord, error) {
	f.created = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.PerformanceRecord{ID: "p2", StudentID: req.StudentID}, nil
}

func (f *fakePerformanceService) Update(_ context.Context, id string, _ models.UpdatePerformanceRequest) (*models.PerformanceRecord, error) {
	return &models.PerformanceRecord{ID: id}, nil
}

func (f *fakePerformanceService) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func (f *fakePerformanceService) Overview(_ context.Context, filter models.PerformanceFilter) (grading.Overview, error) {
	f.filter = filter
	return f.overview, nil
}

func (f *fakePerformanceService) ByStudent(_ context.Context, requester *models.JWTClaims, studentID string, filter models.PerformanceFilter) ([]models.PerformanceRecord, error) {
	f.requester = requester
	f.filter = filter
	if requester != nil && requester.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to view this student's performance")
	}
	return nil, nil
}

func TestPerformanceHandlerListFilters(t *testing.T) {
	srv := &fakePerformanceService{}
	c, rec := newTestContext(http.MethodGet, "/api/performance?semester=1&academicYear=2024-2025&student=s1&subject=sub1", "")

	NewPerformanceHandler(srv).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"s1"}, srv.filter.StudentIDs)
	assert.Equal(t, "sub1", srv.filter.SubjectID)
	assert.Equal(t, "1", srv.filter.Semester)
	assert.Equal(t, "2024-2025", srv.filter.AcademicYear)
}

func TestPerformanceHandlerListWithoutStudentFilter(t *testing.T) {
	srv := &fakePerformanceService{}
	c, _ := newTestContext(http.MethodGet, "/api/performance", "")
	NewPerformanceHandler(srv).List(c)
	assert.Nil(t, srv.filter.StudentIDs)
}

func TestPerformanceHandlerOverviewEmpty(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/performance/analytics/overview?semester=2", "")
	srv := &fakePerformanceService{}

	NewPerformanceHandler(srv).Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", srv.filter.Semester)
	assert.Equal(t, "No performance data available", decodeMap(t, rec)["message"])
}

func TestPerformanceHandlerByStudentForbidden(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/performance/student/s2", "")
	c.AddParam("studentId", "s2")
	withClaims(c, "u1", models.RoleStudent)

	NewPerformanceHandler(&fakePerformanceService{}).ByStudent(c)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPerformanceHandlerByStudentEmptyList(t *testing.T) {
	srv := &fakePerformanceService{}
	c, rec := newTestContext(http.MethodGet, "/api/performance/student/s2", "")
	c.AddParam("studentId", "s2")
	withClaims(c, "t1", models.RoleTeacher)

	NewPerformanceHandler(srv).ByStudent(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", srv.requester.UserID)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

func TestPerformanceHandlerByStudentTermFilters(t *testing.T) {
	srv := &fakePerformanceService{}
	c, rec := newTestContext(http.MethodGet, "/api/performance/student/s2?semester=2&academicYear=%202024-2025%20", "")
	c.AddParam("studentId", "s2")
	withClaims(c, "t1", models.RoleTeacher)

	NewPerformanceHandler(srv).ByStudent(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", srv.filter.Semester)
	assert.Equal(t, "2024-2025", srv.filter.AcademicYear)
}

func TestPerformanceHandlerCreate(t *testing.T) {
	srv := &fakePerformanceService{}
	c, rec := newTestContext(http.MethodPost, "/api/performance", `{"student":"s1","subject":"sub1","semester":"1","academicYear":"2024-2025","marks":{"internal":40,"finals":80},"attendance":{"present":36,"total":40}}`)

	NewPerformanceHandler(srv).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "s1", srv.created.StudentID)
}

func TestPerformanceHandlerDelete(t *testing.T) {
	srv := &fakePerformanceService{}
	c, rec := newTestContext(http.MethodDelete, "/api/performance/p1", "")
	c.AddParam("id", "p1")

	NewPerformanceHandler(srv).Delete(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", srv.deleted)
	assert.Equal(t, "Performance record deleted successfully", decodeEnvelope(t, rec).Message)
}
