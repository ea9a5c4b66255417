package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/spms-api/internal/models"
)

const performanceSelect = `SELECT p.id, p.student_id, p.subject_id, p.marks_internal, p.marks_finals, p.marks_total,
        p.attendance_present, p.attendance_total, p.attendance_percentage, p.percentage, p.grade, p.semester, p.academic_year,
        p.created_at, p.updated_at,
        s.name AS student_name, s.student_number AS student_number, s.email AS student_email, s.grade AS student_grade, s.semester AS student_semester,
        sub.name AS subject_name, sub.code AS subject_code, sub.teacher AS subject_teacher, sub.credits AS subject_credits
        FROM performance_records p
        JOIN students s ON s.id = p.student_id
        JOIN subjects sub ON sub.id = p.subject_id`

type performanceRow struct {
	models.PerformanceRecord
	StudentName     string `db:"student_name"`
	StudentNumber   string `db:"student_number"`
	StudentEmail    string `db:"student_email"`
	StudentGrade    string `db:"student_grade"`
	StudentSemester string `db:"student_semester"`
	SubjectName     string `db:"subject_name"`
	SubjectCode     string `db:"subject_code"`
	SubjectTeacher  string `db:"subject_teacher"`
	SubjectCredits  int    `db:"subject_credits"`
}

func (row performanceRow) toModel() models.PerformanceRecord {
	record := row.PerformanceRecord
	record.Student = models.StudentRef{
		ID:            record.StudentID,
		Name:          row.StudentName,
		StudentNumber: row.StudentNumber,
		Email:         row.StudentEmail,
		Grade:         row.StudentGrade,
		Semester:      row.StudentSemester,
	}
	record.Subject = models.SubjectRef{
		ID:      record.SubjectID,
		Name:    row.SubjectName,
		Code:    row.SubjectCode,
		Teacher: row.SubjectTeacher,
		Credits: row.SubjectCredits,
	}
	return record
}

// PerformanceRepository persists performance records and reads them joined with their
// student and subject.
type PerformanceRepository struct {
	db *sqlx.DB
}

// NewPerformanceRepository constructs a PerformanceRepository.
func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// List returns records matching the filter, newest first.
func (r *PerformanceRepository) List(ctx context.Context, filter models.PerformanceFilter) ([]models.PerformanceRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentIDs != nil {
		conditions = append(conditions, fmt.Sprintf("p.student_id = ANY($%d)", len(args)+1))
		args = append(args, pq.Array(filter.StudentIDs))
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("p.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Semester != "" {
		conditions = append(conditions, fmt.Sprintf("p.semester = $%d", len(args)+1))
		args = append(args, filter.Semester)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("p.academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.StudentGrade != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade = $%d", len(args)+1))
		args = append(args, filter.StudentGrade)
	}
	if filter.StudentSemester != "" {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, filter.StudentSemester)
	}

	query := performanceSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id ASC"

	var rows []performanceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}
	records := make([]models.PerformanceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

// FindByID returns a single record.
func (r *PerformanceRepository) FindByID(ctx context.Context, id string) (*models.PerformanceRecord, error) {
	var row performanceRow
	if err := r.db.GetContext(ctx, &row, performanceSelect+" WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	record := row.toModel()
	return &record, nil
}

// Create inserts a record. Derived fields must already be applied.
func (r *PerformanceRepository) Create(ctx context.Context, record *models.PerformanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO performance_records (id, student_id, subject_id, marks_internal, marks_finals, marks_total, attendance_present, attendance_total, attendance_percentage, percentage, grade, semester, academic_year, created_at, updated_at)
        VALUES (:id, :student_id, :subject_id, :marks_internal, :marks_finals, :marks_total, :attendance_present, :attendance_total, :attendance_percentage, :percentage, :grade, :semester, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create performance: %w", err)
	}
	return nil
}

// Update rewrites the raw and derived values of a record.
func (r *PerformanceRepository) Update(ctx context.Context, record *models.PerformanceRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE performance_records SET marks_internal = :marks_internal, marks_finals = :marks_finals, marks_total = :marks_total,
        attendance_present = :attendance_present, attendance_total = :attendance_total, attendance_percentage = :attendance_percentage,
        percentage = :percentage, grade = :grade, semester = :semester, academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update performance: %w", err)
	}
	return nil
}

// Delete removes a record.
func (r *PerformanceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM performance_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete performance: %w", err)
	}
	return nil
}
