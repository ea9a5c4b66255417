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

type performanceService interface {
	List(ctx context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error)
	Get(ctx context.Context, id string) (*models.PerformanceRecord, error)
	Create(ctx context.Context, req models.CreatePerformanceRequest) (*models.PerformanceRecord, error)
	Update(ctx context.Context, id string, req models.UpdatePerformanceRequest) (*models.PerformanceRecord, error)
	Delete(ctx context.Context, id string) error
	Overview(ctx context.Context, filter models.PerformanceFilter) (grading.Overview, error)
	ByStudent(ctx context.Context, requester *models.JWTClaims, studentID string, filter models.PerformanceFilter) ([]models.PerformanceRecord, error)
}

// PerformanceHandler exposes performance record endpoints.
type PerformanceHandler struct {
	performance performanceService
}

// NewPerformanceHandler constructs PerformanceHandler.
func NewPerformanceHandler(performance performanceService) *PerformanceHandler {
	return &PerformanceHandler{performance: performance}
}

func performanceFilter(c *gin.Context) models.PerformanceFilter {
	filter := models.PerformanceFilter{
		SubjectID:    strings.TrimSpace(c.Query("subject")),
		Semester:     strings.TrimSpace(c.Query("semester")),
		AcademicYear: strings.TrimSpace(c.Query("academicYear")),
	}
	if student := strings.TrimSpace(c.Query("student")); student != "" {
		filter.StudentIDs = []string{student}
	}
	return filter
}

// List godoc
// @Summary List performance records
// @Tags Performance
// @Produce json
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Param student query string false "Student ID"
// @Param subject query string false "Subject ID"
// @Success 200 {object} response.Envelope
// @Router /performance [get]
func (h *PerformanceHandler) List(c *gin.Context) {
	records, err := h.performance.List(c.Request.Context(), performanceFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, nonNilRecords(records), len(records), nil)
}

// Overview godoc
// @Summary Performance overview
// @Tags Performance
// @Produce json
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Success 200 {object} dto.OverviewResponse
// @Router /performance/analytics/overview [get]
func (h *PerformanceHandler) Overview(c *gin.Context) {
	filter := models.PerformanceFilter{
		Semester:     strings.TrimSpace(c.Query("semester")),
		AcademicYear: strings.TrimSpace(c.Query("academicYear")),
	}
	overview, err := h.performance.Overview(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := dto.OverviewResponse{Success: true, Data: overview}
	if overview.TotalRecords == 0 {
		resp.Message = "No performance data available"
	}
	response.Raw(c, http.StatusOK, resp)
}

// Get godoc
// @Summary Get performance record
// @Tags Performance
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /performance/{id} [get]
func (h *PerformanceHandler) Get(c *gin.Context) {
	record, err := h.performance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ByStudent godoc
// @Summary Performance records of one student
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param semester query string false "Semester"
// @Param academicYear query string false "Academic year"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /performance/student/{studentId} [get]
func (h *PerformanceHandler) ByStudent(c *gin.Context) {
	filter := models.PerformanceFilter{
		Semester:     strings.TrimSpace(c.Query("semester")),
		AcademicYear: strings.TrimSpace(c.Query("academicYear")),
	}
	records, err := h.performance.ByStudent(c.Request.Context(), claimsFromContext(c), c.Param("studentId"), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, nonNilRecords(records), len(records), nil)
}

// Create godoc
// @Summary Record a result
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePerformanceRequest true "Result"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /performance [post]
func (h *PerformanceHandler) Create(c *gin.Context) {
	var req models.CreatePerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	record, err := h.performance.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update a result
// @Tags Performance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Param payload body models.UpdatePerformanceRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /performance/{id} [put]
func (h *PerformanceHandler) Update(c *gin.Context) {
	var req models.UpdatePerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	record, err := h.performance.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a result
// @Tags Performance
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Router /performance/{id} [delete]
func (h *PerformanceHandler) Delete(c *gin.Context) {
	if err := h.performance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Performance record deleted successfully", nil)
}
