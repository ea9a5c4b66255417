package dto

import (
	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
)

// ClassAnalyticsResponse is the staff view of a class. When no records match, only
// Success, Data and Message are set.
type ClassAnalyticsResponse struct {
	Success            bool                       `json:"success"`
	Message            string                     `json:"message,omitempty"`
	Data               interface{}                `json:"data,omitempty"`
	Filter             *grading.ClassFilter       `json:"filter,omitempty"`
	Metrics            *grading.ClassMetrics      `json:"metrics,omitempty"`
	GradeDistribution  *grading.GradeDistribution `json:"gradeDistribution,omitempty"`
	SubjectPerformance []grading.SubjectSummary   `json:"subjectPerformance,omitempty"`
}

// StudentPerformanceResponse is a single student's performance profile.
type StudentPerformanceResponse struct {
	Success     bool                    `json:"success"`
	Message     string                  `json:"message,omitempty"`
	Student     models.StudentRef       `json:"student"`
	Data        interface{}             `json:"data,omitempty"`
	Metrics     *grading.ProfileMetrics `json:"metrics,omitempty"`
	SubjectData []grading.SubjectPoint  `json:"subjectData,omitempty"`
	Strengths   []grading.StrengthPoint `json:"strengths,omitempty"`
	Weaknesses  []grading.StrengthPoint `json:"weaknesses,omitempty"`
}

// OverviewResponse wraps the performance overview.
type OverviewResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message,omitempty"`
	Data    grading.Overview `json:"data"`
}

// SubjectStatisticsResponse wraps per-subject statistics.
type SubjectStatisticsResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Data    grading.SubjectStats `json:"data"`
}
