package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/internal/grading"
	"github.com/noah-isme/spms-api/internal/models"
)

var performanceRowColumns = []string{
	"id", "student_id", "subject_id", "marks_internal", "marks_finals", "marks_total",
	"attendance_present", "attendance_total", "attendance_percentage", "percentage", "grade", "semester", "academic_year",
	"created_at", "updated_at",
	"student_name", "student_number", "student_email", "student_grade", "student_semester",
	"subject_name", "subject_code", "subject_teacher", "subject_credits",
}

func TestPerformanceRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(performanceRowColumns).
		AddRow("p1", "s1", "sub1", 45.0, 50.0, 95.0, 38, 40, 95, 63.333333, "B", "1", "2024-2025", now, now,
			"Ana", "STU001", "ana@example.com", "10", "1", "Physics", "PHY101", "Dr. X", 4)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.subject_id = $1 AND s.grade = $2 ORDER BY p.created_at DESC, p.id ASC")).
		WithArgs("sub1", "10").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.PerformanceFilter{SubjectID: "sub1", StudentGrade: "10"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, 95.0, record.Marks.Total)
	assert.Equal(t, 95, record.Attendance.Percentage)
	assert.Equal(t, grading.GradeB, record.Grade)
	assert.Equal(t, "Ana", record.Student.Name)
	assert.Equal(t, "s1", record.Student.ID)
	assert.Equal(t, 4, record.Subject.Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryListByStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.student_id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows(performanceRowColumns))

	records, err := repo.List(context.Background(), models.PerformanceFilter{StudentIDs: []string{"s1", "s2"}})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectExec("INSERT INTO performance_records").
		WithArgs(sqlmock.AnyArg(), "s1", "sub1", 20.0, 25.0, 45.0, 30, 40, 75, 30.0, grading.GradeF, "1", "2024-2025", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.PerformanceRecord{StudentID: "s1", SubjectID: "sub1", Semester: "1", AcademicYear: "2024-2025"}
	record.Marks.Internal = 20
	record.Marks.Finals = 25
	record.Attendance.Present = 30
	record.Attendance.TotalDays = 40
	derived, err := grading.Compute(record.Input())
	require.NoError(t, err)
	record.Apply(derived)

	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPerformanceRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPerformanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM performance_records WHERE id = $1")).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
