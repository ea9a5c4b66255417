package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, error)
	Get(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error)
	Update(ctx context.Context, id string, req models.UpdateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, id string) (*models.Subject, grading.SubjectStats, error)
}

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	subjects subjectService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects subjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param search query string false "Search by name or code"
// @Param semester query string false "Filter by semester"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjects.List(c.Request.Context(), models.SubjectFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Semester: strings.TrimSpace(c.Query("semester")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, subjects, len(subjects), nil)
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.subjects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateSubjectRequest true "Subject"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req models.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	subject, err := h.subjects.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Param payload body models.UpdateSubjectRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req models.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	subject, err := h.subjects.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject with its performance records
// @Tags Subjects
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	if err := h.subjects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Subject deleted successfully", nil)
}

// Statistics godoc
// @Summary Subject statistics
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.SubjectStatisticsResponse
// @Router /subjects/{id}/statistics [get]
func (h *SubjectHandler) Statistics(c *gin.Context) {
	_, stats, err := h.subjects.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.SubjectStatisticsResponse{Success: true, Data: stats}
	if stats.TotalStudents == 0 {
		resp.Message = "No performance data available for this subject"
	}
	response.Raw(c, http.StatusOK, resp)
}
