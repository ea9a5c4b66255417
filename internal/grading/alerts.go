package grading

import (
	"fmt"
	"sort"
)

// Category groups alerts by the metric that triggered them.
type Category string

const (
	CategoryOverall           Category = "overall"
	CategoryMarks             Category = "marks"
	CategoryAttendance        Category = "attendance"
	CategorySubject           Category = "subject"
	CategorySubjectAttendance Category = "subject-attendance"
	CategorySubjects          Category = "subjects"
)

// Record is the subset of a performance record the aggregators read.
type Record struct {
	StudentID            string
	StudentName          string
	StudentNumber        string
	SubjectID            string
	SubjectName          string
	SubjectCode          string
	Credits              int
	Internal             float64
	Finals               float64
	Total                float64
	Percentage           float64
	AttendancePercentage int
	Grade                Grade
}

// Metrics are the unweighted averages across a student's records.
type Metrics struct {
	AverageMarks      float64 `json:"averageMarks"`
	AverageAttendance float64 `json:"averageAttendance"`
	TotalSubjects     int     `json:"totalSubjects"`
}

// SubjectRef names the subject an alert refers to.
type SubjectRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// StudentAlert is the student-facing alert shape.
type StudentAlert struct {
	Type           Severity    `json:"type"`
	Category       Category    `json:"category"`
	Title          string      `json:"title"`
	Message        string      `json:"message"`
	Subject        *SubjectRef `json:"subject,omitempty"`
	Recommendation string      `json:"recommendation"`
}

// StudentAlertReport is the result of StudentAlerts.
type StudentAlertReport struct {
	Metrics Metrics
	Alerts  []StudentAlert
}

// Average computes the unweighted mean percentage and attendance of records.
func Average(records []Record) Metrics {
	m := Metrics{TotalSubjects: len(records)}
	if len(records) == 0 {
		return m
	}
	var pct, att float64
	for _, r := range records {
		pct += r.Percentage
		att += float64(r.AttendancePercentage)
	}
	m.AverageMarks = pct / float64(len(records))
	m.AverageAttendance = att / float64(len(records))
	return m
}

// StudentAlerts builds the ordered alert list for a single student: overall, attendance,
// then per-record subject and subject-attendance alerts. An empty record set yields no alerts.
func StudentAlerts(records []Record, t Thresholds) StudentAlertReport {
	report := StudentAlertReport{Alerts: []StudentAlert{}}
	if len(records) == 0 {
		return report
	}

	m := Average(records)
	report.Metrics = m
	c := t.Classify(m.AverageMarks, m.AverageAttendance)

	switch c.Marks {
	case SeverityCritical:
		report.Alerts = append(report.Alerts, StudentAlert{
			Type:           SeverityCritical,
			Category:       CategoryOverall,
			Title:          "Critical: Low Overall Performance",
			Message:        fmt.Sprintf("Your average is %.2f%%. Immediate attention required!", m.AverageMarks),
			Recommendation: "Please contact your teachers and schedule extra study sessions.",
		})
	case SeverityWarning:
		report.Alerts = append(report.Alerts, StudentAlert{
			Type:           SeverityWarning,
			Category:       CategoryOverall,
			Title:          "Warning: Below Average Performance",
			Message:        fmt.Sprintf("Your average is %.2f%%. Focus on improvement.", m.AverageMarks),
			Recommendation: "Review your weak subjects and seek help from teachers.",
		})
	}

	switch c.Attendance {
	case SeverityCritical:
		report.Alerts = append(report.Alerts, StudentAlert{
			Type:           SeverityCritical,
			Category:       CategoryAttendance,
			Title:          "Critical: Low Attendance",
			Message:        fmt.Sprintf("Your attendance is %.2f%%. This may affect your eligibility!", m.AverageAttendance),
			Recommendation: fmt.Sprintf("Improve your attendance immediately. Minimum %g%% required.", t.LowAttendance),
		})
	case SeverityWarning:
		report.Alerts = append(report.Alerts, StudentAlert{
			Type:           SeverityWarning,
			Category:       CategoryAttendance,
			Title:          "Warning: Attendance Below Requirement",
			Message:        fmt.Sprintf("Your attendance is %.2f%%. Aim for %g%% minimum.", m.AverageAttendance, t.LowAttendance),
			Recommendation: "Attend classes regularly to meet the minimum requirement.",
		})
	}

	for _, r := range records {
		ref := &SubjectRef{Name: r.SubjectName, Code: r.SubjectCode}
		switch t.MarksSeverity(r.Percentage) {
		case SeverityCritical:
			report.Alerts = append(report.Alerts, StudentAlert{
				Type:           SeverityCritical,
				Category:       CategorySubject,
				Title:          "Critical: Failing in " + r.SubjectName,
				Message:        fmt.Sprintf("You scored %.2f%% in %s.", r.Percentage, r.SubjectName),
				Subject:        ref,
				Recommendation: "Schedule remedial classes and extra practice for this subject.",
			})
		case SeverityWarning:
			report.Alerts = append(report.Alerts, StudentAlert{
				Type:           SeverityWarning,
				Category:       CategorySubject,
				Title:          "Warning: Low Score in " + r.SubjectName,
				Message:        fmt.Sprintf("You scored %.2f%% in %s.", r.Percentage, r.SubjectName),
				Subject:        ref,
				Recommendation: "Focus more on this subject to improve your grade.",
			})
		}

		if float64(r.AttendancePercentage) < t.LowAttendance {
			report.Alerts = append(report.Alerts, StudentAlert{
				Type:           SeverityWarning,
				Category:       CategorySubjectAttendance,
				Title:          "Low Attendance in " + r.SubjectName,
				Message:        fmt.Sprintf("Your attendance in %s is %.2f%%.", r.SubjectName, float64(r.AttendancePercentage)),
				Subject:        ref,
				Recommendation: "Attend all classes for this subject.",
			})
		}
	}

	return report
}

// CohortStudent is one roster entry together with all of its records.
type CohortStudent struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	StudentNumber string   `json:"studentId"`
	Grade         string   `json:"grade"`
	Semester      string   `json:"semester"`
	Records       []Record `json:"-"`
}

// FailingSubject is a subject listed inside a cohort "subjects" alert.
type FailingSubject struct {
	Name       string  `json:"name"`
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

// CohortAlert is the staff-facing alert shape.
type CohortAlert struct {
	Type     Severity         `json:"type"`
	Category Category         `json:"category"`
	Message  string           `json:"message"`
	Subjects []FailingSubject `json:"subjects,omitempty"`
}

// CohortMetrics extends Metrics with the failing subject count.
type CohortMetrics struct {
	Metrics
	FailingSubjects int `json:"failingSubjects"`
}

// AtRiskEntry is one student in the at-risk roster.
type AtRiskEntry struct {
	Student    CohortStudent `json:"student"`
	Metrics    CohortMetrics `json:"metrics"`
	AlertLevel Severity      `json:"alertLevel"`
	Alerts     []CohortAlert `json:"alerts"`
}

// CohortRisk evaluates every student and returns those with at least one alert.
// Students without records are skipped. Critical entries come first; all other
// entries keep the order in which they were supplied.
func CohortRisk(students []CohortStudent, t Thresholds) []AtRiskEntry {
	entries := make([]AtRiskEntry, 0)
	for _, s := range students {
		if len(s.Records) == 0 {
			continue
		}

		m := Average(s.Records)
		c := t.Classify(m.AverageMarks, m.AverageAttendance)
		alerts := make([]CohortAlert, 0, 3)

		switch c.Marks {
		case SeverityCritical:
			alerts = append(alerts, CohortAlert{
				Type:     SeverityCritical,
				Category: CategoryMarks,
				Message:  fmt.Sprintf("Critical: Average marks %.2f%% (below %g%%)", m.AverageMarks, t.CriticalMarks),
			})
		case SeverityWarning:
			alerts = append(alerts, CohortAlert{
				Type:     SeverityWarning,
				Category: CategoryMarks,
				Message:  fmt.Sprintf("Warning: Average marks %.2f%% (below %g%%)", m.AverageMarks, t.LowMarks),
			})
		}

		switch c.Attendance {
		case SeverityCritical:
			alerts = append(alerts, CohortAlert{
				Type:     SeverityCritical,
				Category: CategoryAttendance,
				Message:  fmt.Sprintf("Critical: Average attendance %.2f%% (below %g%%)", m.AverageAttendance, t.CriticalAttendance),
			})
		case SeverityWarning:
			alerts = append(alerts, CohortAlert{
				Type:     SeverityWarning,
				Category: CategoryAttendance,
				Message:  fmt.Sprintf("Warning: Average attendance %.2f%% (below %g%%)", m.AverageAttendance, t.LowAttendance),
			})
		}

		var failing []FailingSubject
		for _, r := range s.Records {
			if IsFailing(r.Percentage) {
				failing = append(failing, FailingSubject{Name: r.SubjectName, Code: r.SubjectCode, Percentage: Round2(r.Percentage)})
			}
		}
		if len(failing) > 0 {
			alerts = append(alerts, CohortAlert{
				Type:     SeverityWarning,
				Category: CategorySubjects,
				Message:  fmt.Sprintf("Failing in %d subject(s)", len(failing)),
				Subjects: failing,
			})
		}

		if len(alerts) == 0 {
			continue
		}

		student := s
		student.Records = nil
		entries = append(entries, AtRiskEntry{
			Student: student,
			Metrics: CohortMetrics{
				Metrics: Metrics{
					AverageMarks:      Round2(m.AverageMarks),
					AverageAttendance: Round2(m.AverageAttendance),
					TotalSubjects:     m.TotalSubjects,
				},
				FailingSubjects: len(failing),
			},
			AlertLevel: c.Level,
			Alerts:     alerts,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AlertLevel == SeverityCritical && entries[j].AlertLevel != SeverityCritical
	})
	return entries
}
