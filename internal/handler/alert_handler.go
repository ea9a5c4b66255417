package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/dto"
	"github.com/noah-isme/spms-api/internal/grading"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/response"
)

type alertService interface {
	Thresholds() grading.Thresholds
	MyAlerts(ctx context.Context, userID string) (*dto.StudentAlertsResponse, error)
	AtRisk(ctx context.Context) ([]grading.AtRiskEntry, error)
}

type alertNotifier interface {
	Notify(ctx context.Context) (*dto.NotifyResponse, error)
}

// AlertHandler exposes threshold based alert endpoints.
type AlertHandler struct {
	alerts   alertService
	notifier alertNotifier
}

// NewAlertHandler constructs AlertHandler. notifier may be nil when digests are disabled.
func NewAlertHandler(alerts alertService, notifier alertNotifier) *AlertHandler {
	return &AlertHandler{alerts: alerts, notifier: notifier}
}

// Thresholds godoc
// @Summary Active alert thresholds
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ThresholdsResponse
// @Router /alerts/thresholds [get]
func (h *AlertHandler) Thresholds(c *gin.Context) {
	response.Raw(c, http.StatusOK, dto.ThresholdsResponse{Success: true, Thresholds: h.alerts.Thresholds()})
}

// MyAlerts godoc
// @Summary Alerts for the signed-in student
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StudentAlertsResponse
// @Router /alerts/my-alerts [get]
func (h *AlertHandler) MyAlerts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	resp, err := h.alerts.MyAlerts(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, resp)
}

// AtRisk godoc
// @Summary At-risk student roster
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AtRiskResponse
// @Router /alerts/at-risk [get]
func (h *AlertHandler) AtRisk(c *gin.Context) {
	entries, err := h.alerts.AtRisk(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if entries == nil {
		entries = []grading.AtRiskEntry{}
	}
	response.Raw(c, http.StatusOK, dto.AtRiskResponse{
		Success:    true,
		Count:      len(entries),
		Thresholds: h.alerts.Thresholds(),
		Data:       entries,
	})
}

// Notify godoc
// @Summary Queue alert digest emails for the at-risk roster
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 202 {object} dto.NotifyResponse
// @Failure 503 {object} response.Envelope
// @Router /alerts/notify [post]
func (h *AlertHandler) Notify(c *gin.Context) {
	if h.notifier == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "alert digests are disabled"))
		return
	}
	resp, err := h.notifier.Notify(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusAccepted, resp)
}
