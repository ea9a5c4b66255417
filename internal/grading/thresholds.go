package grading

import "fmt"

// Severity is the alert level attached to a metric or a student.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// FailingPercentage marks a single subject as failing regardless of thresholds.
const FailingPercentage = 40.0

// Thresholds are the percentage cut-offs used for every alert decision.
// Values are copied into each aggregator and never mutated after startup.
type Thresholds struct {
	LowMarks           float64 `json:"LOW_MARKS"`
	LowAttendance      float64 `json:"LOW_ATTENDANCE"`
	CriticalMarks      float64 `json:"CRITICAL_MARKS"`
	CriticalAttendance float64 `json:"CRITICAL_ATTENDANCE"`
}

// DefaultThresholds returns the standard 40/75/33/65 cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowMarks:           40,
		LowAttendance:      75,
		CriticalMarks:      33,
		CriticalAttendance: 65,
	}
}

// Validate rejects threshold sets where a critical cut-off sits above its warning cut-off.
func (t Thresholds) Validate() error {
	if t.CriticalMarks > t.LowMarks {
		return fmt.Errorf("critical marks threshold %.2f exceeds low marks threshold %.2f", t.CriticalMarks, t.LowMarks)
	}
	if t.CriticalAttendance > t.LowAttendance {
		return fmt.Errorf("critical attendance threshold %.2f exceeds low attendance threshold %.2f", t.CriticalAttendance, t.LowAttendance)
	}
	return nil
}

// MarksSeverity classifies an average percentage.
func (t Thresholds) MarksSeverity(avg float64) Severity {
	return classify(avg, t.CriticalMarks, t.LowMarks)
}

// AttendanceSeverity classifies an average attendance percentage.
func (t Thresholds) AttendanceSeverity(avg float64) Severity {
	return classify(avg, t.CriticalAttendance, t.LowAttendance)
}

// Classification is the result of checking both dimensions for one student.
type Classification struct {
	Marks      Severity
	Attendance Severity
	Level      Severity
}

// Classify combines marks and attendance severities: critical wins over warning wins over none.
func (t Thresholds) Classify(avgPercentage, avgAttendance float64) Classification {
	c := Classification{
		Marks:      t.MarksSeverity(avgPercentage),
		Attendance: t.AttendanceSeverity(avgAttendance),
	}
	c.Level = worst(c.Marks, c.Attendance)
	return c
}

// IsFailing reports whether a single record's percentage is a failing score.
func IsFailing(percentage float64) bool {
	return percentage < FailingPercentage
}

func classify(v, critical, low float64) Severity {
	switch {
	case v < critical:
		return SeverityCritical
	case v < low:
		return SeverityWarning
	default:
		return SeverityNone
	}
}

func rank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

func worst(a, b Severity) Severity {
	if rank(b) > rank(a) {
		return b
	}
	return a
}
