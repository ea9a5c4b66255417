package models

import "time"

// Subject is a course students are graded in.
type Subject struct {
	ID          string    `db:"id" json:"_id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Teacher     string    `db:"teacher" json:"teacher"`
	Credits     int       `db:"credits" json:"credits"`
	Semester    string    `db:"semester" json:"semester"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectRef is the compact subject shape embedded in other payloads.
type SubjectRef struct {
	ID      string `db:"id" json:"_id"`
	Name    string `db:"name" json:"name"`
	Code    string `db:"code" json:"code"`
	Teacher string `db:"teacher" json:"teacher,omitempty"`
	Credits int    `db:"credits" json:"credits,omitempty"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	Search   string
	Semester string
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Code        string `json:"code" validate:"required,max=20"`
	Teacher     string `json:"teacher" validate:"required,max=100"`
	Credits     int    `json:"credits" validate:"required,min=1,max=10"`
	Semester    string `json:"semester" validate:"required,max=20"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateSubjectRequest is the payload for updating a subject. Nil fields are unchanged.
type UpdateSubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Teacher     *string `json:"teacher" validate:"omitempty,max=100"`
	Credits     *int    `json:"credits" validate:"omitempty,min=1,max=10"`
	Semester    *string `json:"semester" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
