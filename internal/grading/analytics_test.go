package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classRec(student, subject string, pct float64) Record {
	r := rec(subject, pct, 90)
	r.StudentName = student
	r.StudentNumber = "S-" + student
	return r
}

func TestClassAnalyticsEmpty(t *testing.T) {
	report := ClassAnalytics(ClassFilter{Grade: "10"}, 4, nil)
	assert.Equal(t, 4, report.Metrics.TotalStudents)
	assert.Zero(t, report.Metrics.TotalPerformanceRecords)
	assert.Empty(t, report.SubjectPerformance)
}

func TestClassAnalyticsMetrics(t *testing.T) {
	records := []Record{
		classRec("Ana", "Physics", 90),
		classRec("Ben", "Physics", 70),
		classRec("Cy", "Physics", 90),
		classRec("Dee", "Physics", 95),
		classRec("Ana", "Biology", 20),
	}
	report := ClassAnalytics(ClassFilter{Semester: "3"}, 4, records)

	assert.Equal(t, 5, report.Metrics.TotalPerformanceRecords)
	assert.Equal(t, 73.0, report.Metrics.AverageClassPerformance)
	assert.Equal(t, 80.0, report.Metrics.PassRate)
	assert.Equal(t, 3, report.GradeDistribution.APlus)
	assert.Equal(t, 1, report.GradeDistribution.BPlus)
	assert.Equal(t, 1, report.GradeDistribution.F)

	require.Len(t, report.SubjectPerformance, 2)
	physics := report.SubjectPerformance[0]
	assert.Equal(t, "Physics", physics.Subject)
	assert.Equal(t, 86.25, physics.AverageMarks)
	assert.Equal(t, 4, physics.TotalStudents)
	require.Len(t, physics.TopPerformers, 3)
	assert.Equal(t, "Dee", physics.TopPerformers[0].Name)
	assert.Equal(t, "Ana", physics.TopPerformers[1].Name)
	assert.Equal(t, "Cy", physics.TopPerformers[2].Name)
}

func TestClassAnalyticsRanksOnUnroundedPercentage(t *testing.T) {
	report := ClassAnalytics(ClassFilter{}, 2, []Record{
		classRec("Low", "Physics", 90.001),
		classRec("High", "Physics", 90.004),
	})

	require.Len(t, report.SubjectPerformance, 1)
	top := report.SubjectPerformance[0].TopPerformers
	require.Len(t, top, 2)
	assert.Equal(t, "High", top[0].Name)
	assert.Equal(t, "Low", top[1].Name)
	assert.Equal(t, 90.0, top[0].Marks)
}

func TestPerformanceOverview(t *testing.T) {
	records := []Record{
		rec("Physics", 90, 95),
		rec("Chemistry", 35, 95),
		rec("Biology", 70, 60),
		rec("History", 10, 90),
	}
	o := PerformanceOverview(records, DefaultThresholds())
	assert.Equal(t, 4, o.TotalRecords)
	assert.Equal(t, 3, o.StudentsAtRisk)
	assert.Equal(t, 75.0, o.PassRate)
	assert.Equal(t, 1, o.GradeDistribution[GradeAPlus])
	assert.Equal(t, 1, o.GradeDistribution[GradeD])
	_, hasB := o.GradeDistribution[GradeB]
	assert.False(t, hasB)
	assert.Equal(t, 76.88, o.AverageMarks)
}

func TestSubjectStatisticsEmpty(t *testing.T) {
	s := SubjectStatistics(nil)
	assert.Equal(t, SubjectStats{}, s)
}

func TestStudentProfile(t *testing.T) {
	records := []Record{
		rec("Physics", 90, 95),
		rec("Chemistry", 35, 95),
		rec("Biology", 70, 60),
		rec("History", 55, 90),
	}
	records[0].Credits = 4
	records[1].Credits = 2
	records[2].Credits = 2
	records[3].Credits = 0

	p := StudentProfile(records)
	assert.Equal(t, 3, p.Metrics.PassedSubjects)
	assert.Equal(t, 1, p.Metrics.FailedSubjects)
	assert.Equal(t, 62.5, p.Metrics.AverageMarks)
	assert.Equal(t, 71.25, p.Metrics.WeightedScore)
	require.Len(t, p.SubjectData, 4)
	assert.Equal(t, MaxTotal, p.SubjectData[0].MaxMarks)

	require.Len(t, p.Strengths, 3)
	assert.Equal(t, "Physics", p.Strengths[0].Subject)
	assert.Equal(t, "History", p.Strengths[2].Subject)

	require.Len(t, p.Weaknesses, 3)
	assert.Equal(t, "Chemistry", p.Weaknesses[0].Subject)
	assert.True(t, *p.Weaknesses[0].NeedsImprovement)
	assert.Equal(t, "Biology", p.Weaknesses[2].Subject)
	assert.False(t, *p.Weaknesses[2].NeedsImprovement)
}

func TestStudentProfileWithoutCreditsUsesMean(t *testing.T) {
	records := []Record{rec("Physics", 80, 95), rec("Chemistry", 60, 95)}
	records[0].Credits = 0
	records[1].Credits = 0
	p := StudentProfile(records)
	assert.Equal(t, 70.0, p.Metrics.WeightedScore)
}
