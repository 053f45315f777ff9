package attendance_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev1mple/attendance-oop/attendance"
)

func TestWriteReportCSV(t *testing.T) {
	rows := []attendance.ReportRow{
		{
			CourseName:     "Algebra",
			CourseCode:     "MATH101",
			YearLevel:      1,
			StudentNumber:  "S-001",
			FirstName:      "Alice",
			LastName:       "Adams",
			AttendanceDate: "2026-01-05",
			TimeIn:         "08:03",
			Status:         "present",
			Punctuality:    "On Time",
			Notes:          `came in "early", sat front row`,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, attendance.WriteReportCSV(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"course_name,course_code,year_level,student_number,first_name,last_name,attendance_date,time_in,time_out,status,punctuality_status,notes",
		lines[0])
	// embedded quotes doubled, field quoted because of commas
	assert.Contains(t, lines[1], `"came in ""early"", sat front row"`)
}

func TestWriteReportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, attendance.WriteReportCSV(&buf, nil))
	assert.Zero(t, buf.Len(), "an empty row set writes nothing, header included")
}
