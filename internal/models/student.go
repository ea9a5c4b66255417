package models

import "time"

// Student is an enrolled learner. StudentNumber is the school-issued code shared with
// the student's user account.
type Student struct {
	ID            string       `db:"id" json:"_id"`
	Name          string       `db:"name" json:"name"`
	StudentNumber string       `db:"student_number" json:"studentId"`
	Grade         string       `db:"grade" json:"grade"`
	Semester      string       `db:"semester" json:"semester"`
	Email         string       `db:"email" json:"email"`
	Phone         string       `db:"phone" json:"phone"`
	Subjects      []SubjectRef `db:"-" json:"subjects"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}

// StudentRef is the compact student shape embedded in other payloads.
type StudentRef struct {
	ID            string `json:"_id"`
	Name          string `json:"name,omitempty"`
	StudentNumber string `json:"studentId,omitempty"`
	Email         string `json:"email,omitempty"`
	Grade         string `json:"grade,omitempty"`
	Semester      string `json:"semester,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search   string
	Grade    string
	Semester string
	Page     int
	PageSize int
}

// CreateStudentRequest is the payload for creating a student.
type CreateStudentRequest struct {
	Name          string   `json:"name" validate:"required,max=100"`
	StudentNumber string   `json:"studentId" validate:"required,max=50"`
	Grade         string   `json:"grade" validate:"required,max=20"`
	Semester      string   `json:"semester" validate:"required,max=20"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Subjects      []string `json:"subjects" validate:"omitempty,dive,required"`
}

// UpdateStudentRequest is the payload for updating a student. Nil fields are unchanged.
type UpdateStudentRequest struct {
	Name          *string   `json:"name" validate:"omitempty,max=100"`
	StudentNumber *string   `json:"studentId" validate:"omitempty,max=50"`
	Grade         *string   `json:"grade" validate:"omitempty,max=20"`
	Semester      *string   `json:"semester" validate:"omitempty,max=20"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Phone         *string   `json:"phone" validate:"omitempty,max=20"`
	Subjects      *[]string `json:"subjects" validate:"omitempty"`
}
