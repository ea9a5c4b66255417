// Package grading holds the pure computation layer: derived marks, threshold
// classification and the alert and analytics reductions built on top of them.
// Nothing in here touches storage or HTTP.
package grading

import (
	"errors"
	"fmt"
	"math"
)

// Grade is a letter grade derived from a record's percentage.
type Grade string

const (
	GradeAPlus      Grade = "A+"
	GradeA          Grade = "A"
	GradeBPlus      Grade = "B+"
	GradeB          Grade = "B"
	GradeCPlus      Grade = "C+"
	GradeC          Grade = "C"
	GradeD          Grade = "D"
	GradeF          Grade = "F"
	GradeIncomplete Grade = "I"
)

// Score limits for a single performance record.
const (
	MaxInternal = 50.0
	MaxFinals   = 100.0
	MaxTotal    = MaxInternal + MaxFinals
)

// ErrInvalidMarks is returned when marks or attendance fall outside their allowed range.
var ErrInvalidMarks = errors.New("invalid marks")

type breakpoint struct {
	min   float64
	grade Grade
}

var gradeTable = []breakpoint{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeBPlus},
	{60, GradeB},
	{50, GradeCPlus},
	{40, GradeC},
	{33, GradeD},
}

// MarksInput is the raw input recorded for one student in one subject.
type MarksInput struct {
	Internal  float64
	Finals    float64
	Present   int
	TotalDays int
}

// Derived holds every value computed from MarksInput.
type Derived struct {
	Total                float64
	AttendancePercentage int
	Percentage           float64
	Grade                Grade
}

// Compute validates in and derives total, attendance percentage, percentage and grade.
// The result depends only on in.
func Compute(in MarksInput) (Derived, error) {
	if err := validate(in); err != nil {
		return Derived{}, err
	}

	total := in.Internal + in.Finals
	percentage := total * 100 / MaxTotal

	return Derived{
		Total:                total,
		AttendancePercentage: AttendancePercentage(in.Present, in.TotalDays),
		Percentage:           percentage,
		Grade:                GradeFor(percentage),
	}, nil
}

// AttendancePercentage rounds present/total to a whole percent. Zero total days yields 0.
func AttendancePercentage(present, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// GradeFor maps a percentage to its letter grade.
func GradeFor(percentage float64) Grade {
	for _, bp := range gradeTable {
		if percentage >= bp.min {
			return bp.grade
		}
	}
	return GradeF
}

func validate(in MarksInput) error {
	switch {
	case in.Internal < 0 || in.Internal > MaxInternal:
		return fmt.Errorf("%w: internal marks must be between 0 and %.0f", ErrInvalidMarks, MaxInternal)
	case in.Finals < 0 || in.Finals > MaxFinals:
		return fmt.Errorf("%w: final marks must be between 0 and %.0f", ErrInvalidMarks, MaxFinals)
	case in.Present < 0 || in.TotalDays < 0:
		return fmt.Errorf("%w: attendance cannot be negative", ErrInvalidMarks)
	case in.Present > in.TotalDays:
		return fmt.Errorf("%w: present days cannot exceed total days", ErrInvalidMarks)
	}
	return nil
}

// Round2 rounds to two decimal places for presentation.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
