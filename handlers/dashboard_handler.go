package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{DB: db} }

// GET /admin/dashboard/summary
// Headline counts plus today's attendance buckets.
func (h *DashboardHandler) Summary(c echo.Context) error {
	var (
		cntStudents int64
		cntCourses  int64
		cntPending  int64
	)
	h.DB.Model(&models.Student{}).Count(&cntStudents)
	h.DB.Model(&models.Course{}).Count(&cntCourses)
	h.DB.Model(&models.ExcuseLetter{}).Where("status = ?", models.ExcusePending).Count(&cntPending)

	today := time.Now().Format("2006-01-02")
	buckets := map[string]int64{}
	for _, status := range []string{models.StatusPresent, models.StatusLate, models.StatusAbsent} {
		var n int64
		h.DB.Model(&models.AttendanceRecord{}).
			Where("attendance_date = ? AND status = ?", today, status).Count(&n)
		buckets[status] = n
	}

	return c.JSON(http.StatusOK, map[string]any{
		"students":        cntStudents,
		"courses":         cntCourses,
		"pending_excuses": cntPending,
		"today":           buckets,
	})
}
