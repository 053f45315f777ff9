package attendance

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Column order mirrors ReportRow / the report query.
var reportCSVHeader = []string{
	"course_name", "course_code", "year_level",
	"student_number", "first_name", "last_name",
	"attendance_date", "time_in", "time_out",
	"status", "punctuality_status", "notes",
}

// WriteReportCSV serializes report rows as CSV: a header row followed by
// one row per record, standard quoting. An empty row set writes nothing,
// header included. Pure formatting, no engine state.
func WriteReportCSV(w io.Writer, rows []ReportRow) error {
	if len(rows) == 0 {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(reportCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.CourseName, r.CourseCode, strconv.Itoa(r.YearLevel),
			r.StudentNumber, r.FirstName, r.LastName,
			r.AttendanceDate, r.TimeIn, r.TimeOut,
			r.Status, r.Punctuality, r.Notes,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
