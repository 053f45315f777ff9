package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/models"
)

// CheckInHandler serves the student self-check-in path. Status is always
// derived from the course schedule here; students never supply it.
type CheckInHandler struct {
	DB     *gorm.DB
	Engine *attendance.Engine
}

func NewCheckInHandler(db *gorm.DB, engine *attendance.Engine) *CheckInHandler {
	return &CheckInHandler{DB: db, Engine: engine}
}

type checkInRequest struct {
	CourseID uint   `json:"course_id"` // defaults to the enrolled course
	Notes    string `json:"notes"`
}

// POST /student/checkin
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	uid, _ := currentUser(c)

	var st models.Student
	if err := h.DB.First(&st, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	courseID := req.CourseID
	if courseID == 0 {
		courseID = st.CourseID
	}

	now := time.Now()
	err := h.Engine.Upsert(attendance.Mark{
		StudentID: st.StudentID,
		CourseID:  courseID,
		Date:      now.Format("2006-01-02"),
		TimeIn:    now.Format("15:04"),
		Notes:     strings.TrimSpace(req.Notes),
		MarkedBy:  uid,
	})
	if err != nil {
		return engineError(c, err)
	}

	rec, err := h.Engine.DetermineStatus(courseID, now.Format("15:04"), now.Format("2006-01-02"))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"date":    now.Format("2006-01-02"),
		"time_in": now.Format("15:04"),
		"status":  rec,
	})
}

// GET /student/attendance?start_date=&end_date=
func (h *CheckInHandler) MyAttendance(c echo.Context) error {
	uid, _ := currentUser(c)

	var st models.Student
	if err := h.DB.First(&st, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	tx := h.DB.Model(&models.AttendanceRecord{}).Where("student_id = ?", st.StudentID)
	if v := strings.TrimSpace(c.QueryParam("start_date")); v != "" {
		tx = tx.Where("attendance_date >= ?", v)
	}
	if v := strings.TrimSpace(c.QueryParam("end_date")); v != "" {
		tx = tx.Where("attendance_date <= ?", v)
	}

	var rows []models.AttendanceRecord
	if err := tx.Order("attendance_date DESC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}
