package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dev1mple/attendance-oop/attendance"
)

type AttendanceHandler struct {
	Engine *attendance.Engine
}

func NewAttendanceHandler(engine *attendance.Engine) *AttendanceHandler {
	return &AttendanceHandler{Engine: engine}
}

type markRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	CourseID  uint   `json:"course_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	TimeIn    string `json:"time_in"`
	TimeOut   string `json:"time_out"`
	Status    string `json:"status"` // empty with time_in set → auto-classified
	Notes     string `json:"notes"`
}

type bulkEntry struct {
	TimeIn  string `json:"time_in"`
	TimeOut string `json:"time_out"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

type bulkMarkRequest struct {
	CourseID uint               `json:"course_id" validate:"required"`
	Date     string             `json:"date" validate:"required"`
	Entries  map[uint]bulkEntry `json:"entries" validate:"required"`
}

// POST /admin/attendance/mark
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid, _ := currentUser(c)
	err := h.Engine.Upsert(attendance.Mark{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      strings.TrimSpace(req.Date),
		TimeIn:    strings.TrimSpace(req.TimeIn),
		TimeOut:   strings.TrimSpace(req.TimeOut),
		Status:    strings.TrimSpace(req.Status),
		Notes:     strings.TrimSpace(req.Notes),
		MarkedBy:  uid,
	})
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// POST /admin/attendance/bulk
// One roster submission, all-or-nothing.
func (h *AttendanceHandler) BulkMark(c echo.Context) error {
	var req bulkMarkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entries := make(map[uint]attendance.BulkEntry, len(req.Entries))
	for sid, e := range req.Entries {
		entries[sid] = attendance.BulkEntry{
			TimeIn:  strings.TrimSpace(e.TimeIn),
			TimeOut: strings.TrimSpace(e.TimeOut),
			Status:  strings.TrimSpace(e.Status),
			Notes:   strings.TrimSpace(e.Notes),
		}
	}

	uid, _ := currentUser(c)
	if err := h.Engine.MarkBulk(req.CourseID, strings.TrimSpace(req.Date), entries, uid); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "marked": len(entries)})
}

// GET /admin/attendance?course_id=&year_level=&status=&start_date=&end_date=
func (h *AttendanceHandler) List(c echo.Context) error {
	rows, err := h.Engine.Report(filterFromQuery(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/attendance/unmarked?course_id=&date=
func (h *AttendanceHandler) Unmarked(c echo.Context) error {
	courseID := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0)
	date := strings.TrimSpace(c.QueryParam("date"))
	students, err := h.Engine.Unmarked(courseID, date)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}

// filterFromQuery reads the optional report filter keys; absent or empty
// keys mean no filter on that dimension.
func filterFromQuery(c echo.Context) attendance.Filter {
	return attendance.Filter{
		CourseID:  atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0),
		YearLevel: atoiOr(strings.TrimSpace(c.QueryParam("year_level")), 0),
		Status:    strings.TrimSpace(c.QueryParam("status")),
		StartDate: strings.TrimSpace(c.QueryParam("start_date")),
		EndDate:   strings.TrimSpace(c.QueryParam("end_date")),
	}
}
