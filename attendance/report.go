package attendance

import (
	"fmt"
	"math"
	"sort"

	"github.com/dev1mple/attendance-oop/models"
)

// CourseStat is the per-course aggregate of a filtered record set.
// Percentage counts late as attended; the late bucket is still reported
// separately.
type CourseStat struct {
	CourseID     uint    `json:"course_id"`
	CourseCode   string  `json:"course_code"`
	CourseName   string  `json:"course_name"`
	YearLevel    int     `json:"year_level"`
	Total        int     `json:"total"`
	PresentCount int     `json:"present_count"`
	LateCount    int     `json:"late_count"`
	AbsentCount  int     `json:"absent_count"`
	Percentage   float64 `json:"percentage"`
}

// DailyStat is one day of a course's attendance trend.
type DailyStat struct {
	Date         string  `json:"attendance_date"`
	Total        int     `json:"total"`
	PresentCount int     `json:"present_count"`
	LateCount    int     `json:"late_count"`
	AbsentCount  int     `json:"absent_count"`
	Percentage   float64 `json:"percentage"`
}

// StudentSummary is one roster student's totals for a course.
type StudentSummary struct {
	StudentID     uint    `json:"student_id"`
	StudentNumber string  `json:"student_number"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Total         int     `json:"total_records"`
	PresentCount  int     `json:"present_count"`
	LateCount     int     `json:"late_count"`
	AbsentCount   int     `json:"absent_count"`
	Percentage    float64 `json:"percentage"`
}

func punctualityLabel(status string) string {
	switch status {
	case models.StatusLate:
		return "Late"
	case models.StatusPresent:
		return "On Time"
	default:
		return "Absent"
	}
}

// Report returns the flat joined rows matching f, with punctuality labels
// filled in, ordered by year level, course name, student name, date.
func (e *Engine) Report(f Filter) ([]ReportRow, error) {
	rows, err := e.store.ReportRows(f)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Punctuality = punctualityLabel(rows[i].Status)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.YearLevel != b.YearLevel {
			return a.YearLevel < b.YearLevel
		}
		if a.CourseName != b.CourseName {
			return a.CourseName < b.CourseName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.AttendanceDate < b.AttendanceDate
	})
	return rows, nil
}

// Statistics groups the records matching f by course. Courses with no
// matching records are omitted, so the percentage never divides by zero.
// Ordered by year level ascending, then course name ascending.
func (e *Engine) Statistics(f Filter) ([]CourseStat, error) {
	rows, err := e.store.ReportRows(f)
	if err != nil {
		return nil, err
	}

	byCourse := make(map[uint]*CourseStat)
	for _, r := range rows {
		st, ok := byCourse[r.CourseID]
		if !ok {
			st = &CourseStat{
				CourseID:   r.CourseID,
				CourseCode: r.CourseCode,
				CourseName: r.CourseName,
				YearLevel:  r.YearLevel,
			}
			byCourse[r.CourseID] = st
		}
		st.Total++
		switch r.Status {
		case models.StatusPresent:
			st.PresentCount++
		case models.StatusLate:
			st.LateCount++
		case models.StatusAbsent:
			st.AbsentCount++
		}
	}

	out := make([]CourseStat, 0, len(byCourse))
	for _, st := range byCourse {
		st.Percentage = attendedPercentage(st.PresentCount, st.LateCount, st.Total)
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].YearLevel != out[j].YearLevel {
			return out[i].YearLevel < out[j].YearLevel
		}
		if out[i].CourseName != out[j].CourseName {
			return out[i].CourseName < out[j].CourseName
		}
		return out[i].CourseCode < out[j].CourseCode
	})
	return out, nil
}

// Trends buckets one course's records by day over [start, end].
func (e *Engine) Trends(courseID uint, start, end string) ([]DailyStat, error) {
	if courseID == 0 {
		return nil, fmt.Errorf("%w: course_id is required", ErrInvalid)
	}
	rows, err := e.store.ReportRows(Filter{CourseID: courseID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailyStat)
	for _, r := range rows {
		st, ok := byDate[r.AttendanceDate]
		if !ok {
			st = &DailyStat{Date: r.AttendanceDate}
			byDate[r.AttendanceDate] = st
		}
		st.Total++
		switch r.Status {
		case models.StatusPresent:
			st.PresentCount++
		case models.StatusLate:
			st.LateCount++
		case models.StatusAbsent:
			st.AbsentCount++
		}
	}

	out := make([]DailyStat, 0, len(byDate))
	for _, st := range byDate {
		st.Percentage = attendedPercentage(st.PresentCount, st.LateCount, st.Total)
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// CourseSummary reports per-student totals for one course roster. Roster
// students with no matching records are included with zeroed counts.
// Ordered by last name, then first name.
func (e *Engine) CourseSummary(courseID uint, start, end string) ([]StudentSummary, error) {
	if courseID == 0 {
		return nil, fmt.Errorf("%w: course_id is required", ErrInvalid)
	}
	roster, err := e.store.Roster(courseID)
	if err != nil {
		return nil, err
	}
	rows, err := e.store.ReportRows(Filter{CourseID: courseID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, err
	}

	byNumber := make(map[string]*StudentSummary, len(roster))
	out := make([]StudentSummary, len(roster))
	for i, st := range roster {
		out[i] = StudentSummary{
			StudentID:     st.StudentID,
			StudentNumber: st.StudentNumber,
			FirstName:     st.FirstName,
			LastName:      st.LastName,
		}
		byNumber[st.StudentNumber] = &out[i]
	}
	for _, r := range rows {
		st, ok := byNumber[r.StudentNumber]
		if !ok {
			continue // record owned by a student since moved off the roster
		}
		st.Total++
		switch r.Status {
		case models.StatusPresent:
			st.PresentCount++
		case models.StatusLate:
			st.LateCount++
		case models.StatusAbsent:
			st.AbsentCount++
		}
	}
	for i := range out {
		if out[i].Total > 0 {
			out[i].Percentage = attendedPercentage(out[i].PresentCount, out[i].LateCount, out[i].Total)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

// attendedPercentage is round(100*(present+late)/total, 2); 0 when total
// is 0 so no caller ever divides by zero.
func attendedPercentage(present, late, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present+late)/float64(total)*100*100) / 100
}
