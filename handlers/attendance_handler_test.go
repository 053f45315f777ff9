package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/database/inmem"
	"github.com/dev1mple/attendance-oop/models"
)

func newTestSetup() (*echo.Echo, *attendance.Engine, *inmem.Store) {
	store := inmem.NewStore()
	store.AddCourse(models.Course{CourseID: 1, CourseCode: "MATH101", CourseName: "Algebra", YearLevel: 1})
	store.AddSchedule(models.ClassSchedule{ScheduleID: 1, CourseID: 1, DayOfWeek: "Monday", StartTime: "08:00"})
	for i := 1; i <= 3; i++ {
		uid := uint(10 + i)
		store.AddUser(models.User{UserID: uid, Role: models.RoleStudent, FirstName: "F", LastName: fmt.Sprintf("L%d", i)})
		store.AddStudent(models.Student{StudentID: uint(i), UserID: uid, StudentNumber: fmt.Sprintf("S-%03d", i), CourseID: 1, YearLevel: 1})
	}

	e := echo.New()
	e.Validator = NewValidator()
	return e, attendance.NewEngine(store), store
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(99))
	c.Set("role", models.RoleAdmin)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestMarkEndpointUpserts(t *testing.T) {
	e, engine, store := newTestSetup()
	h := NewAttendanceHandler(engine)

	// 2026-01-05 is a Monday; 08:07 is past the 5-minute threshold
	body := `{"student_id":1,"course_id":1,"date":"2026-01-05","time_in":"08:07"}`
	rec := doJSON(e, h.Mark, http.MethodPost, "/admin/attendance/mark", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	row, err := store.RecordFor(1, "2026-01-05")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, models.StatusLate, row.Status)
	assert.Equal(t, uint(99), row.MarkedBy)

	// marking again for the same day must not grow the table
	rec = doJSON(e, h.Mark, http.MethodPost, "/admin/attendance/mark",
		`{"student_id":1,"course_id":1,"date":"2026-01-05","status":"present"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.RecordCount())
}

func TestMarkEndpointRejectsMissingFields(t *testing.T) {
	e, engine, _ := newTestSetup()
	h := NewAttendanceHandler(engine)

	rec := doJSON(e, h.Mark, http.MethodPost, "/admin/attendance/mark", `{"student_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkEndpointRollsBack(t *testing.T) {
	e, engine, store := newTestSetup()
	h := NewAttendanceHandler(engine)

	body := `{"course_id":1,"date":"2026-01-05","entries":{"1":{"status":"present"},"42":{"status":"absent"}}}`
	rec := doJSON(e, h.BulkMark, http.MethodPost, "/admin/attendance/bulk", body)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	assert.Equal(t, 0, store.RecordCount())
}

func TestStatisticsEndpoint(t *testing.T) {
	e, engine, _ := newTestSetup()
	att := NewAttendanceHandler(engine)
	rep := NewReportHandler(engine)

	body := `{"course_id":1,"date":"2026-01-05","entries":{"1":{"status":"present"},"2":{"status":"late"},"3":{"status":"absent"}}}`
	rec := doJSON(e, att.BulkMark, http.MethodPost, "/admin/attendance/bulk", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, rep.Statistics, http.MethodGet, "/admin/reports/statistics?course_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats []attendance.CourseStat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 3, stats[0].Total)
	assert.Equal(t, 66.67, stats[0].Percentage)
}

func TestUnmarkedEndpoint(t *testing.T) {
	e, engine, _ := newTestSetup()
	att := NewAttendanceHandler(engine)

	rec := doJSON(e, att.Mark, http.MethodPost, "/admin/attendance/mark",
		`{"student_id":2,"course_id":1,"date":"2026-01-05","status":"present"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, att.Unmarked, http.MethodGet, "/admin/attendance/unmarked?course_id=1&date=2026-01-05", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var students []attendance.RosterStudent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	require.Len(t, students, 2)
	assert.Equal(t, "L1", students[0].LastName)
	assert.Equal(t, "L3", students[1].LastName)
}

func TestExportEndpointStreamsCSV(t *testing.T) {
	e, engine, _ := newTestSetup()
	att := NewAttendanceHandler(engine)
	rep := NewReportHandler(engine)

	rec := doJSON(e, att.Mark, http.MethodPost, "/admin/attendance/mark",
		`{"student_id":1,"course_id":1,"date":"2026-01-05","status":"present","time_in":"08:01"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, rep.Export, http.MethodGet, "/admin/reports/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "course_name,course_code,year_level"))
	assert.Contains(t, rec.Body.String(), "S-001")
}
