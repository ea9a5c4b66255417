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

const studentColumns = "s.id, s.name, s.student_number, s.grade, s.semester, s.email, s.phone, s.created_at, s.updated_at"

// StudentRepository manages persistence for student records and their subject enrollment.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func studentConditions(grade, semester, search string) (string, []interface{}) {
	conditions := []string{"1=1"}
	var args []interface{}
	if grade != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade = $%d", len(args)+1))
		args = append(args, grade)
	}
	if semester != "" {
		conditions = append(conditions, fmt.Sprintf("s.semester = $%d", len(args)+1))
		args = append(args, semester)
	}
	if search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(s.student_number) LIKE $%d OR LOWER(s.email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	return "FROM students s WHERE " + strings.Join(conditions, " AND "), args
}

// List returns students matching the provided filters with their enrolled subjects.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base, args := studentConditions(filter.Grade, filter.Semester, filter.Search)

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.created_at DESC", studentColumns, base)
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	students := make([]models.Student, 0)
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	if err := r.attachSubjects(ctx, students); err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Count returns how many students match the grade and semester; empty values match all.
func (r *StudentRepository) Count(ctx context.Context, grade, semester string) (int, error) {
	base, args := studentConditions(grade, semester, "")
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// FindByID fetches a student with enrolled subjects.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students s WHERE s.id = $1"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	list := []models.Student{student}
	if err := r.attachSubjects(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// FindByNumberOrEmail resolves the student row linked to an account.
func (r *StudentRepository) FindByNumberOrEmail(ctx context.Context, number, email string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students s WHERE s.student_number = $1 OR s.email = $2 ORDER BY (s.student_number = $1) DESC LIMIT 1"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, number, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepository) attachSubjects(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, len(students))
	index := make(map[string]int, len(students))
	for i := range students {
		ids[i] = students[i].ID
		index[students[i].ID] = i
		students[i].Subjects = []models.SubjectRef{}
	}

	const query = `SELECT ss.student_id, sub.id, sub.name, sub.code, sub.teacher, sub.credits
        FROM student_subjects ss
        JOIN subjects sub ON sub.id = ss.subject_id
        WHERE ss.student_id = ANY($1)
        ORDER BY sub.code`
	var rows []struct {
		StudentID string `db:"student_id"`
		models.SubjectRef
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("list student subjects: %w", err)
	}
	for _, row := range rows {
		if i, ok := index[row.StudentID]; ok {
			students[i].Subjects = append(students[i].Subjects, row.SubjectRef)
		}
	}
	return nil
}

// Create inserts a student and its enrollment within a transaction.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, subjectIDs []string) (err error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	student.Email = strings.ToLower(student.Email)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO students (id, name, student_number, grade, semester, email, phone, created_at, updated_at)
        VALUES (:id, :name, :student_number, :grade, :semester, :email, :phone, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	if err = insertEnrollment(ctx, tx, student.ID, subjectIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create student: %w", err)
	}
	return nil
}

// Update modifies a student. A non-nil subjectIDs replaces the enrollment.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, subjectIDs *[]string) (err error) {
	student.UpdatedAt = time.Now().UTC()
	student.Email = strings.ToLower(student.Email)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE students SET name = :name, student_number = :student_number, grade = :grade, semester = :semester, email = :email, phone = :phone, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if subjectIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM student_subjects WHERE student_id = $1`, student.ID); err != nil {
			return fmt.Errorf("clear student subjects: %w", err)
		}
		if err = insertEnrollment(ctx, tx, student.ID, *subjectIDs); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	return nil
}

// Delete removes a student together with its performance records and enrollment.
func (r *StudentRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM performance_records WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student performance: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM student_subjects WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student subjects: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}

func insertEnrollment(ctx context.Context, tx *sqlx.Tx, studentID string, subjectIDs []string) error {
	seen := make(map[string]struct{}, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		if _, ok := seen[subjectID]; ok {
			continue
		}
		seen[subjectID] = struct{}{}
		if _, err := tx.ExecContext(ctx, `INSERT INTO student_subjects (student_id, subject_id) VALUES ($1, $2)`, studentID, subjectID); err != nil {
			return fmt.Errorf("insert student subject: %w", err)
		}
	}
	return nil
}
