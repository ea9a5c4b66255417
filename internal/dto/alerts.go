package dto

import "github.com/noah-isme/spms-api/internal/grading"

// ThresholdsResponse is returned by GET /alerts/thresholds.
type ThresholdsResponse struct {
	Success    bool               `json:"success"`
	Thresholds grading.Thresholds `json:"thresholds"`
}

// StudentAlertsResponse is the student view of their own alerts.
type StudentAlertsResponse struct {
	Success    bool                   `json:"success"`
	Count      int                    `json:"count"`
	Message    string                 `json:"message,omitempty"`
	Metrics    *grading.Metrics       `json:"metrics,omitempty"`
	Thresholds *grading.Thresholds    `json:"thresholds,omitempty"`
	Alerts     []grading.StudentAlert `json:"alerts"`
}

// AtRiskResponse is the staff view of the at-risk roster.
type AtRiskResponse struct {
	Success    bool                  `json:"success"`
	Count      int                   `json:"count"`
	Thresholds grading.Thresholds    `json:"thresholds"`
	Data       []grading.AtRiskEntry `json:"data"`
}

// NotifyResponse reports how many digest emails were queued.
type NotifyResponse struct {
	Success bool `json:"success"`
	Queued  int  `json:"queued"`
	Skipped int  `json:"skipped"`
}
