package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/response"
)

type analyticsService interface {
	ClassAnalytics(ctx context.Context, grade, semester string) (*dto.ClassAnalyticsResponse, error)
	MyPerformance(ctx context.Context, userID string) (*dto.StudentPerformanceResponse, error)
	SubjectPerformance(ctx context.Context, requester *models.JWTClaims, userID string) (*dto.StudentPerformanceResponse, error)
}

// AnalyticsHandler exposes class and student analytics.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// ClassAnalytics godoc
// @Summary Class analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param grade query string false "Grade"
// @Param semester query string false "Semester"
// @Success 200 {object} dto.ClassAnalyticsResponse
// @Router /analytics/class-analytics [get]
func (h *AnalyticsHandler) ClassAnalytics(c *gin.Context) {
	resp, err := h.analytics.ClassAnalytics(c.Request.Context(), c.Query("grade"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}

// MyPerformance godoc
// @Summary Performance profile of the signed-in student
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentPerformanceResponse
// @Router /analytics/my-performance [get]
func (h *AnalyticsHandler) MyPerformance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.analytics.MyPerformance(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}

// SubjectPerformance godoc
// @Summary Performance profile of a student account
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "User ID of the student"
// @Success 200 {object} dto.StudentPerformanceResponse
// @Failure 403 {object} response.Envelope
// @Router /analytics/subject-performance/{studentId} [get]
func (h *AnalyticsHandler) SubjectPerformance(c *gin.Context) {
	resp, err := h.analytics.SubjectPerformance(c.Request.Context(), claimsFromContext(c), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}
