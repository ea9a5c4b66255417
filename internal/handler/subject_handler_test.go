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

type fakeSubjectService struct {
	filter    models.SubjectFilter
	createErr error
	stats     grading.SubjectStats
	deleted   string
}

func (f *fakeSubjectService) List(_ context.Context, filter models.SubjectFilter) ([]models.Subject, error) {
	f.filter = filter
	return []models.Subject{{ID: "sub1", Code: "MATH"}}, nil
}

func (f *fakeSubjectService) Get(_ context.Context, id string) (*models.Subject, error) {
	return &models.Subject{ID: id, Code: "MATH"}, nil
}

func (f *fakeSubjectService) Create(_ context.Context, req models.CreateSubjectRequest) (*models.Subject, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Subject{ID: "sub2", Code: req.Code}, nil
}

func (f *fakeSubjectService) Update(_ context.Context, id string, _ models.UpdateSubjectRequest) (*models.Subject, error) {
	return &models.Subject{ID: id}, nil
}

func (f *fakeSubjectService) Delete(_ context.Context, id string) error {
	f.deleted = id
	return nil
}

func (f *fakeSubjectService) Statistics(_ context.Context, id string) (*models.Subject, grading.SubjectStats, error) {
	return &models.Subject{ID: id}, f.stats, nil
}

func TestSubjectHandlerList(t *testing.T) {
	srv := &fakeSubjectService{}
	c, rec := newTestContext(http.MethodGet, "/api/subjects?search=%20mat&semester=1", "")

	NewSubjectHandler(srv).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.SubjectFilter{Search: "mat", Semester: "1"}, srv.filter)
	assert.Equal(t, 1, *decodeEnvelope(t, rec).Count)
}

func TestSubjectHandlerCreateDuplicate(t *testing.T) {
	srv := &fakeSubjectService{createErr: appErrors.Clone(appErrors.ErrDuplicate, "Subject code already exists")}
	c, rec := newTestContext(http.MethodPost, "/api/subjects", `{"name":"Math","code":"MATH","teacher":"T","credits":4,"semester":"1"}`)

	NewSubjectHandler(srv).Create(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Subject code already exists", decodeEnvelope(t, rec).Error.Message)
}

func TestSubjectHandlerDelete(t *testing.T) {
	srv := &fakeSubjectService{}
	c, rec := newTestContext(http.MethodDelete, "/api/subjects/sub1", "")
	c.AddParam("id", "sub1")

	NewSubjectHandler(srv).Delete(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub1", srv.deleted)
	assert.Equal(t, "Subject deleted successfully", decodeEnvelope(t, rec).Message)
}

func TestSubjectHandlerStatistics(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/api/subjects/sub1/statistics", "")
	c.AddParam("id", "sub1")
	NewSubjectHandler(&fakeSubjectService{}).Statistics(c)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "No performance data available for this subject", body["message"])
	assert.Equal(t, float64(0), body["data"].(map[string]interface{})["totalStudents"])

	c, rec = newTestContext(http.MethodGet, "/api/subjects/sub1/statistics", "")
	c.AddParam("id", "sub1")
	NewSubjectHandler(&fakeSubjectService{stats: grading.SubjectStats{TotalStudents: 3, PassRate: 66.67}}).Statistics(c)

	body = decodeMap(t, rec)
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
	assert.Equal(t, 66.67, body["data"].(map[string]interface{})["passRate"])
}
