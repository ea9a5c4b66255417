package grading

import "sort"

// GradeDistribution counts records per computable grade in best-to-worst order.
type GradeDistribution struct {
	APlus int `json:"A+"`
	A     int `json:"A"`
	BPlus int `json:"B+"`
	B     int `json:"B"`
	CPlus int `json:"C+"`
	C     int `json:"C"`
	D     int `json:"D"`
	F     int `json:"F"`
}

func (d *GradeDistribution) add(g Grade) {
	switch g {
	case GradeAPlus:
		d.APlus++
	case GradeA:
		d.A++
	case GradeBPlus:
		d.BPlus++
	case GradeB:
		d.B++
	case GradeCPlus:
		d.CPlus++
	case GradeC:
		d.C++
	case GradeD:
		d.D++
	case GradeF:
		d.F++
	}
}

// ClassFilter is the optional grade/semester filter applied to the student set.
type ClassFilter struct {
	Grade    string `json:"grade,omitempty"`
	Semester string `json:"semester,omitempty"`
}

// ClassMetrics summarises a class.
type ClassMetrics struct {
	TotalStudents           int     `json:"totalStudents"`
	TotalPerformanceRecords int     `json:"totalPerformanceRecords"`
	AverageClassPerformance float64 `json:"averageClassPerformance"`
	PassRate                float64 `json:"passRate"`
}

// TopPerformer is one of the best three records for a subject.
type TopPerformer struct {
	Name          string  `json:"name"`
	StudentNumber string  `json:"studentId"`
	Marks         float64 `json:"marks"`
	Grade         Grade   `json:"grade"`
}

// SubjectSummary is the per-subject block of the class report.
type SubjectSummary struct {
	Subject       string         `json:"subject"`
	Code          string         `json:"code"`
	AverageMarks  float64        `json:"averageMarks"`
	TotalStudents int            `json:"totalStudents"`
	TopPerformers []TopPerformer `json:"topPerformers"`
}

// ClassReport is the result of ClassAnalytics.
type ClassReport struct {
	Filter             ClassFilter       `json:"filter"`
	Metrics            ClassMetrics      `json:"metrics"`
	GradeDistribution  GradeDistribution `json:"gradeDistribution"`
	SubjectPerformance []SubjectSummary  `json:"subjectPerformance"`
}

// ClassAnalytics reduces the records of the filtered student set. Subjects appear in
// first-seen order and top performers keep record order among equal marks.
func ClassAnalytics(filter ClassFilter, totalStudents int, records []Record) ClassReport {
	report := ClassReport{
		Filter:             filter,
		SubjectPerformance: []SubjectSummary{},
	}
	report.Metrics.TotalStudents = totalStudents
	report.Metrics.TotalPerformanceRecords = len(records)
	if len(records) == 0 {
		return report
	}

	type ranked struct {
		performer  TopPerformer
		percentage float64
	}
	type bucket struct {
		summary SubjectSummary
		sum     float64
		rows    []ranked
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	var sum float64
	passed := 0
	for _, r := range records {
		sum += r.Percentage
		if r.Grade != GradeF {
			passed++
		}
		report.GradeDistribution.add(r.Grade)

		b, ok := buckets[r.SubjectID]
		if !ok {
			b = &bucket{summary: SubjectSummary{Subject: r.SubjectName, Code: r.SubjectCode}}
			buckets[r.SubjectID] = b
			order = append(order, r.SubjectID)
		}
		b.sum += r.Percentage
		b.rows = append(b.rows, ranked{
			performer: TopPerformer{
				Name:          r.StudentName,
				StudentNumber: r.StudentNumber,
				Marks:         Round2(r.Percentage),
				Grade:         r.Grade,
			},
			percentage: r.Percentage,
		})
	}

	report.Metrics.AverageClassPerformance = Round2(sum / float64(len(records)))
	report.Metrics.PassRate = Round2(float64(passed) / float64(len(records)) * 100)

	for _, id := range order {
		b := buckets[id]
		rows := b.rows
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].percentage > rows[j].percentage })
		top := make([]TopPerformer, 0, 3)
		for i := 0; i < len(rows) && i < 3; i++ {
			top = append(top, rows[i].performer)
		}
		b.summary.AverageMarks = Round2(b.sum / float64(len(b.rows)))
		b.summary.TotalStudents = len(b.rows)
		b.summary.TopPerformers = top
		report.SubjectPerformance = append(report.SubjectPerformance, b.summary)
	}
	return report
}

// Overview summarises an arbitrary record set.
type Overview struct {
	TotalRecords      int           `json:"totalRecords"`
	AverageMarks      float64       `json:"averageMarks"`
	AverageAttendance float64       `json:"averageAttendance"`
	GradeDistribution map[Grade]int `json:"gradeDistribution"`
	StudentsAtRisk    int           `json:"studentsAtRisk"`
	PassRate          float64       `json:"passRate"`
}

// PerformanceOverview averages raw totals (out of 150) and counts records that are at risk
// through low attendance or a D/F grade.
func PerformanceOverview(records []Record, t Thresholds) Overview {
	o := Overview{TotalRecords: len(records), GradeDistribution: map[Grade]int{}}
	if len(records) == 0 {
		return o
	}
	var marks, att float64
	passed := 0
	for _, r := range records {
		marks += r.Total
		att += float64(r.AttendancePercentage)
		o.GradeDistribution[r.Grade]++
		if float64(r.AttendancePercentage) < t.LowAttendance || r.Grade == GradeF || r.Grade == GradeD {
			o.StudentsAtRisk++
		}
		if r.Grade != GradeF {
			passed++
		}
	}
	n := float64(len(records))
	o.AverageMarks = Round2(marks / n)
	o.AverageAttendance = Round2(att / n)
	o.PassRate = Round2(float64(passed) / n * 100)
	return o
}

// SubjectStats summarises the records of one subject.
type SubjectStats struct {
	TotalStudents     int     `json:"totalStudents"`
	AverageMarks      float64 `json:"averageMarks"`
	AverageAttendance float64 `json:"averageAttendance"`
	PassRate          float64 `json:"passRate"`
}

// SubjectStatistics reduces the records of a single subject.
func SubjectStatistics(records []Record) SubjectStats {
	o := PerformanceOverview(records, DefaultThresholds())
	return SubjectStats{
		TotalStudents:     o.TotalRecords,
		AverageMarks:      o.AverageMarks,
		AverageAttendance: o.AverageAttendance,
		PassRate:          o.PassRate,
	}
}

// SubjectPoint is one subject in a student's performance profile.
type SubjectPoint struct {
	Subject     string  `json:"subject"`
	SubjectCode string  `json:"subjectCode"`
	Marks       float64 `json:"marks"`
	Attendance  int     `json:"attendance"`
	Grade       Grade   `json:"grade"`
	Internal    float64 `json:"internal"`
	Finals      float64 `json:"finals"`
	TotalMarks  float64 `json:"totalMarks"`
	MaxMarks    float64 `json:"maxMarks"`
	Credits     int     `json:"credits"`
}

// StrengthPoint is a subject ranked among the best or worst of a student.
type StrengthPoint struct {
	Subject          string  `json:"subject"`
	Code             string  `json:"code"`
	Percentage       float64 `json:"percentage"`
	Grade            Grade   `json:"grade"`
	NeedsImprovement *bool   `json:"needsImprovement,omitempty"`
}

// ProfileMetrics are the aggregate figures of a student profile.
type ProfileMetrics struct {
	AverageMarks      float64 `json:"averageMarks"`
	AverageAttendance float64 `json:"averageAttendance"`
	TotalSubjects     int     `json:"totalSubjects"`
	PassedSubjects    int     `json:"passedSubjects"`
	FailedSubjects    int     `json:"failedSubjects"`
	WeightedScore     float64 `json:"weightedScore"`
}

// Profile is the per-student performance breakdown.
type Profile struct {
	Metrics     ProfileMetrics  `json:"metrics"`
	SubjectData []SubjectPoint  `json:"subjectData"`
	Strengths   []StrengthPoint `json:"strengths"`
	Weaknesses  []StrengthPoint `json:"weaknesses"`
}

// ImprovementPercentage is the line below which a weakness is flagged for improvement.
const ImprovementPercentage = 60.0

// StudentProfile builds subject points, the best three and worst three subjects, and a
// credit-weighted score. Records with zero credits fall back to the unweighted mean.
func StudentProfile(records []Record) Profile {
	p := Profile{
		SubjectData: make([]SubjectPoint, 0, len(records)),
		Strengths:   []StrengthPoint{},
		Weaknesses:  []StrengthPoint{},
	}
	if len(records) == 0 {
		return p
	}

	m := Average(records)
	var weighted float64
	credits := 0
	for _, r := range records {
		p.SubjectData = append(p.SubjectData, SubjectPoint{
			Subject:     r.SubjectName,
			SubjectCode: r.SubjectCode,
			Marks:       Round2(r.Percentage),
			Attendance:  r.AttendancePercentage,
			Grade:       r.Grade,
			Internal:    r.Internal,
			Finals:      r.Finals,
			TotalMarks:  r.Total,
			MaxMarks:    MaxTotal,
			Credits:     r.Credits,
		})
		if IsFailing(r.Percentage) {
			p.Metrics.FailedSubjects++
		} else {
			p.Metrics.PassedSubjects++
		}
		weighted += r.Percentage * float64(r.Credits)
		credits += r.Credits
	}

	p.Metrics.AverageMarks = Round2(m.AverageMarks)
	p.Metrics.AverageAttendance = Round2(m.AverageAttendance)
	p.Metrics.TotalSubjects = m.TotalSubjects
	if credits > 0 {
		p.Metrics.WeightedScore = Round2(weighted / float64(credits))
	} else {
		p.Metrics.WeightedScore = p.Metrics.AverageMarks
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Percentage > sorted[j].Percentage })

	for i := 0; i < len(sorted) && i < 3; i++ {
		r := sorted[i]
		p.Strengths = append(p.Strengths, StrengthPoint{Subject: r.SubjectName, Code: r.SubjectCode, Percentage: Round2(r.Percentage), Grade: r.Grade})
	}
	for i := len(sorted) - 1; i >= 0 && i >= len(sorted)-3; i-- {
		r := sorted[i]
		needs := r.Percentage < ImprovementPercentage
		p.Weaknesses = append(p.Weaknesses, StrengthPoint{Subject: r.SubjectName, Code: r.SubjectCode, Percentage: Round2(r.Percentage), Grade: r.Grade, NeedsImprovement: &needs})
	}
	return p
}
