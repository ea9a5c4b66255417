package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/pkg/response"
)

type reportService interface {
	AtRisk(ctx context.Context, format string) (*service.ReportFile, error)
	ClassAnalytics(ctx context.Context, format, grade, semester string) (*service.ReportFile, error)
}

// ReportHandler streams rendered reports as file downloads.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// AtRisk godoc
// @Summary Download the at-risk roster
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/at-risk [get]
func (h *ReportHandler) AtRisk(c *gin.Context) {
	file, err := h.reports.AtRisk(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, file)
}

// ClassAnalytics godoc
// @Summary Download class analytics
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param grade query string false "Grade"
// @Param semester query string false "Semester"
// @Success 200 {file} binary
// @Router /reports/class-analytics [get]
func (h *ReportHandler) ClassAnalytics(c *gin.Context) {
	file, err := h.reports.ClassAnalytics(c.Request.Context(), c.Query("format"), c.Query("grade"), c.Query("semester"))
	if err != nil {
		response.Error(c, err)
		return
	}
	attachment(c, file)
}

func attachment(c *gin.Context, file *service.ReportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
