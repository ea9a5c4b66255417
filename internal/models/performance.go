package models

import (
	"time"

	"github.com/noah-isme/spms-api/internal/grading"
)

// Marks are the raw and derived scores of a record.
type Marks struct {
	Internal float64 `db:"marks_internal" json:"internal"`
	Finals   float64 `db:"marks_finals" json:"finals"`
	Total    float64 `db:"marks_total" json:"total"`
}

// Attendance holds the attended and scheduled days of a record.
type Attendance struct {
	Present    int `db:"attendance_present" json:"present"`
	TotalDays  int `db:"attendance_total" json:"total"`
	Percentage int `db:"attendance_percentage" json:"percentage"`
}

// PerformanceRecord is one student's result in one subject for one semester.
// Total, attendance percentage, percentage and grade are derived and recomputed on every write.
type PerformanceRecord struct {
	ID           string        `db:"id" json:"_id"`
	StudentID    string        `db:"student_id" json:"-"`
	SubjectID    string        `db:"subject_id" json:"-"`
	Marks        `json:"marks"`
	Attendance   `json:"attendance"`
	Percentage   float64       `db:"percentage" json:"percentage"`
	Grade        grading.Grade `db:"grade" json:"grade"`
	Semester     string        `db:"semester" json:"semester"`
	AcademicYear string        `db:"academic_year" json:"academicYear"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`

	Student StudentRef `db:"-" json:"student"`
	Subject SubjectRef `db:"-" json:"subject"`
}

// Apply stores derived values on the record.
func (p *PerformanceRecord) Apply(d grading.Derived) {
	p.Marks.Total = d.Total
	p.Attendance.Percentage = d.AttendancePercentage
	p.Percentage = d.Percentage
	p.Grade = d.Grade
}

// Input returns the raw values needed to recompute derived fields.
func (p *PerformanceRecord) Input() grading.MarksInput {
	return grading.MarksInput{
		Internal:  p.Marks.Internal,
		Finals:    p.Marks.Finals,
		Present:   p.Attendance.Present,
		TotalDays: p.Attendance.TotalDays,
	}
}

// GradingRecord converts the record into the aggregator input shape.
func (p *PerformanceRecord) GradingRecord() grading.Record {
	return grading.Record{
		StudentID:            p.StudentID,
		StudentName:          p.Student.Name,
		StudentNumber:        p.Student.StudentNumber,
		SubjectID:            p.SubjectID,
		SubjectName:          p.Subject.Name,
		SubjectCode:          p.Subject.Code,
		Credits:              p.Subject.Credits,
		Internal:             p.Marks.Internal,
		Finals:               p.Marks.Finals,
		Total:                p.Marks.Total,
		Percentage:           p.Percentage,
		AttendancePercentage: p.Attendance.Percentage,
		Grade:                p.Grade,
	}
}

// GradingRecords converts a slice of records.
func GradingRecords(records []PerformanceRecord) []grading.Record {
	out := make([]grading.Record, 0, len(records))
	for i := range records {
		out = append(out, records[i].GradingRecord())
	}
	return out
}

// PerformanceFilter narrows performance listings. Student grade and semester filter on the
// owning student's attributes.
type PerformanceFilter struct {
	StudentIDs      []string
	SubjectID       string
	Semester        string
	AcademicYear    string
	StudentGrade    string
	StudentSemester string
}

// MarksPayload carries the raw marks in requests.
type MarksPayload struct {
	Internal *float64 `json:"internal" validate:"required,gte=0,lte=50"`
	Finals   *float64 `json:"finals" validate:"required,gte=0,lte=100"`
}

// AttendancePayload carries the raw attendance in requests.
type AttendancePayload struct {
	Present *int `json:"present" validate:"required,gte=0"`
	Total   *int `json:"total" validate:"required,gte=0"`
}

// CreatePerformanceRequest is the payload for recording a result.
type CreatePerformanceRequest struct {
	StudentID    string            `json:"student" validate:"required"`
	SubjectID    string            `json:"subject" validate:"required"`
	Marks        MarksPayload      `json:"marks"`
	Attendance   AttendancePayload `json:"attendance"`
	Semester     string            `json:"semester" validate:"required,max=20"`
	AcademicYear string            `json:"academicYear" validate:"required,max=20"`
}

// PartialMarks carries optional mark changes.
type PartialMarks struct {
	Internal *float64 `json:"internal" validate:"omitempty,gte=0,lte=50"`
	Finals   *float64 `json:"finals" validate:"omitempty,gte=0,lte=100"`
}

// PartialAttendance carries optional attendance changes.
type PartialAttendance struct {
	Present *int `json:"present" validate:"omitempty,gte=0"`
	Total   *int `json:"total" validate:"omitempty,gte=0"`
}

// UpdatePerformanceRequest changes a result. Nil fields are unchanged; derived fields are
// always recomputed from the merged values.
type UpdatePerformanceRequest struct {
	Marks        *PartialMarks      `json:"marks"`
	Attendance   *PartialAttendance `json:"attendance"`
	Semester     *string            `json:"semester" validate:"omitempty,max=20"`
	AcademicYear *string            `json:"academicYear" validate:"omitempty,max=20"`
}
