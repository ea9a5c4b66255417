package grading

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeExamples(t *testing.T) {
	cases := []struct {
		name     string
		in       MarksInput
		total    float64
		attPct   int
		grade    Grade
		pctRound float64
	}{
		{name: "failing", in: MarksInput{Internal: 20, Finals: 25, Present: 30, TotalDays: 40}, total: 45, attPct: 75, grade: GradeF, pctRound: 30},
		{name: "b grade", in: MarksInput{Internal: 45, Finals: 50, Present: 38, TotalDays: 40}, total: 95, attPct: 95, grade: GradeB, pctRound: 63.33},
		{name: "perfect", in: MarksInput{Internal: 50, Finals: 100, Present: 10, TotalDays: 10}, total: 150, attPct: 100, grade: GradeAPlus, pctRound: 100},
		{name: "zero days", in: MarksInput{Internal: 10, Finals: 10, Present: 0, TotalDays: 0}, total: 20, attPct: 0, grade: GradeF, pctRound: 13.33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Compute(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.total, d.Total)
			assert.Equal(t, tc.attPct, d.AttendancePercentage)
			assert.Equal(t, tc.grade, d.Grade)
			assert.Equal(t, tc.pctRound, Round2(d.Percentage))
		})
	}
}

func TestComputeBoundaries(t *testing.T) {
	cases := []struct {
		total float64
		grade Grade
	}{
		{135, GradeAPlus},
		{134, GradeA},
		{120, GradeA},
		{119, GradeBPlus},
		{105, GradeBPlus},
		{104, GradeB},
		{90, GradeB},
		{89, GradeCPlus},
		{75, GradeCPlus},
		{74, GradeC},
		{60, GradeC},
		{59, GradeD},
		{49.5, GradeD},
		{49, GradeF},
		{0, GradeF},
	}
	for _, tc := range cases {
		finals := tc.total - 50
		internal := 50.0
		if finals < 0 {
			internal = tc.total
			finals = 0
		}
		d, err := Compute(MarksInput{Internal: internal, Finals: finals})
		require.NoError(t, err)
		assert.Equal(t, tc.grade, d.Grade, "total %.1f", tc.total)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	in := MarksInput{Internal: 33, Finals: 71, Present: 17, TotalDays: 23}
	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeRejectsOutOfRange(t *testing.T) {
	inputs := []MarksInput{
		{Internal: -1, Finals: 10},
		{Internal: 51, Finals: 10},
		{Internal: 10, Finals: 101},
		{Internal: 10, Finals: -5},
		{Internal: 10, Finals: 10, Present: -1, TotalDays: 5},
		{Internal: 10, Finals: 10, Present: 6, TotalDays: 5},
	}
	for _, in := range inputs {
		_, err := Compute(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMarks))
	}
}

func TestAttendancePercentageRoundsHalfUp(t *testing.T) {
	assert.Equal(t, 67, AttendancePercentage(2, 3))
	assert.Equal(t, 50, AttendancePercentage(1, 2))
	assert.Equal(t, 13, AttendancePercentage(1, 8))
	assert.Equal(t, 0, AttendancePercentage(5, 0))
}
