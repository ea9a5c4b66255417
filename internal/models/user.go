package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

// IsStaff reports whether the role may manage academic data.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// User represents an application user stored in the users table.
type User struct {
	ID            string    `db:"id" json:"_id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Role          UserRole  `db:"role" json:"role"`
	StudentNumber *string   `db:"student_number" json:"studentId,omitempty"`
	Phone         string    `db:"phone" json:"phone,omitempty"`
	Semester      string    `db:"semester" json:"semester,omitempty"`
	Active        bool      `db:"active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// StudentCode returns the linked student number or an empty string.
func (u *User) StudentCode() string {
	if u == nil || u.StudentNumber == nil {
		return ""
	}
	return *u.StudentNumber
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"limit"`
	TotalCount int `json:"total"`
	TotalPages int `json:"pages"`
}

// NewPagination builds pagination metadata, normalising page and size.
func NewPagination(page, size, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = total
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return &Pagination{Page: page, PageSize: size, TotalCount: total, TotalPages: pages}
}
