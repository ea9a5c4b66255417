package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type fakeStudentService struct {
	filter  models.StudentFilter
	created models.CreateStudentRequest
	deleted string
	getErr  error
	records []models.PerformanceRecord
}

func (f *fakeStudentService) List(_ context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	f.filter = filter
	return []models.Student{{ID: "s1", Name: "Ana"}}, models.NewPagination(filter.Page, filter.PageSize, 1), nil
}

func (f *fakeStudentService) Get(_ context.Context, id string) (*models.Student, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.Student{ID: id, Name: "Ana"}, nil
}

func (f *fakeStudentService) Create(_ context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	f.created = req
	return &models.Student{ID: "s9", Name: req.Name, StudentNumber: req.StudentNumber}, nil
}

func (f *fakeStudentService) Update(_ context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	return &models.Student{ID: id, Name: *req.Name}, nil
}

func (f *fakeStudentService) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func (f *fakeStudentService) Performance(context.Context, string) ([]models.PerformanceRecord, error) {
	return f.records, nil
}

func TestStudentHandlerListParsesQuery(t *testing.T) {
	srv := &fakeStudentService{}
	c, rec := newTestContext(http.MethodGet, "/api/students?search=ana&grade=10&semester=1&page=2&limit=5", "")

	NewStudentHandler(srv).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentFilter{Search: "ana", Grade: "10", Semester: "1", Page: 2, PageSize: 5}, srv.filter)
	assert.Contains(t, rec.Body.String(), `"pagination"`)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/students/missing", "")
	NewStudentHandler(&fakeStudentService{getErr: appErrors.Clone(appErrors.ErrNotFound, "student not found")}).Get(c)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "student not found", decodeEnvelope(t, rec).Error.Message)
}

func TestStudentHandlerCreate(t *testing.T) {
	srv := &fakeStudentService{}
	c, rec := newTestContext(http.MethodPost, "/api/students", `{"name":"Ana","studentId":"STU001","grade":"10","semester":"1","email":"ana@example.com"}`)

	NewStudentHandler(srv).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "STU001", srv.created.StudentNumber)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestStudentHandlerUpdate(t *testing.T) {
	c, rec := newTestContext(http.MethodPut, "/api/students/s1", `{"name":"Ana B"}`)
	c.AddParam("id", "s1")

	NewStudentHandler(&fakeStudentService{}).Update(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Ana B"`)
}

func TestStudentHandlerDelete(t *testing.T) {
	srv := &fakeStudentService{}
	c, rec := newTestContext(http.MethodDelete, "/api/students/s1", "")
	c.AddParam("id", "s1")

	NewStudentHandler(srv).Delete(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", srv.deleted)
	assert.Equal(t, "Student deleted successfully", decodeEnvelope(t, rec).Message)
}

func TestStudentHandlerPerformanceEmptyList(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/students/s1/performance", "")
	c.AddParam("id", "s1")

	NewStudentHandler(&fakeStudentService{}).Performance(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, 0, *envelope.Count)
	assert.JSONEq(t, `[]`, string(envelope.Data))
}
