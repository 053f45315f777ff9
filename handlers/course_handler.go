package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/models"
)

// CourseHandler owns the course and class-schedule reference data the
// engine reads.
type CourseHandler struct {
	DB *gorm.DB
}

func NewCourseHandler(db *gorm.DB) *CourseHandler { return &CourseHandler{DB: db} }

type coursePayload struct {
	CourseCode  string `json:"course_code" validate:"required,max=20"`
	CourseName  string `json:"course_name" validate:"required,max=100"`
	YearLevel   int    `json:"year_level" validate:"required,min=1,max=12"`
	Description string `json:"description"`
}

type courseRow struct {
	models.Course
	StudentCount int64 `json:"student_count"`
}

// GET /admin/courses?year_level=
func (h *CourseHandler) List(c echo.Context) error {
	tx := h.DB.Table("courses AS c").
		Select("c.*, COUNT(s.student_id) AS student_count").
		Joins("LEFT JOIN students s ON s.course_id = c.course_id").
		Group("c.course_id")

	if yl := atoiOr(strings.TrimSpace(c.QueryParam("year_level")), 0); yl != 0 {
		tx = tx.Where("c.year_level = ?", yl)
	}

	var rows []courseRow
	if err := tx.Order("c.year_level ASC, c.course_name ASC").Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}

// publicCourse is the anonymous-facing projection: enough to pick a
// course at registration, nothing else.
type publicCourse struct {
	CourseID   uint   `json:"course_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	YearLevel  int    `json:"year_level"`
}

// GET /courses?year_level=
func (h *CourseHandler) ListPublic(c echo.Context) error {
	tx := h.DB.Model(&models.Course{}).
		Select("course_id, course_code, course_name, year_level")
	if yl := atoiOr(strings.TrimSpace(c.QueryParam("year_level")), 0); yl != 0 {
		tx = tx.Where("year_level = ?", yl)
	}

	var rows []publicCourse
	if err := tx.Order("year_level ASC, course_name ASC").Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/courses
func (h *CourseHandler) Create(c echo.Context) error {
	var req coursePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	uid, _ := currentUser(c)
	course := models.Course{
		CourseCode:  strings.TrimSpace(req.CourseCode),
		CourseName:  strings.TrimSpace(req.CourseName),
		YearLevel:   req.YearLevel,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   uid,
	}
	if err := h.DB.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "COURSE_CODE_EXISTS"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusCreated, course)
}

// PUT /admin/courses/:id
func (h *CourseHandler) Update(c echo.Context) error {
	var course models.Course
	if err := h.DB.First(&course, "course_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var req coursePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	course.CourseCode = strings.TrimSpace(req.CourseCode)
	course.CourseName = strings.TrimSpace(req.CourseName)
	course.YearLevel = req.YearLevel
	course.Description = strings.TrimSpace(req.Description)
	if err := h.DB.Save(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "COURSE_CODE_EXISTS"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, course)
}

// DELETE /admin/courses/:id
func (h *CourseHandler) Delete(c echo.Context) error {
	res := h.DB.Delete(&models.Course{}, "course_id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

/* ----- class schedules ----- */

type schedulePayload struct {
	CourseID  uint   `json:"course_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room" validate:"max=20"`
}

// GET /admin/schedules?course_id=
func (h *CourseHandler) ListSchedules(c echo.Context) error {
	tx := h.DB.Model(&models.ClassSchedule{})
	if id := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0); id != 0 {
		tx = tx.Where("course_id = ?", id)
	}

	var rows []models.ClassSchedule
	if err := tx.Order("course_id ASC, day_of_week ASC, start_time ASC").Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/schedules
func (h *CourseHandler) CreateSchedule(c echo.Context) error {
	var req schedulePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var course models.Course
	if err := h.DB.First(&course, "course_id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "COURSE_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	sched := models.ClassSchedule{
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Room:      strings.TrimSpace(req.Room),
	}
	if err := h.DB.Create(&sched).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusCreated, sched)
}

// PUT /admin/schedules/:id
func (h *CourseHandler) UpdateSchedule(c echo.Context) error {
	var sched models.ClassSchedule
	if err := h.DB.First(&sched, "schedule_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var req schedulePayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sched.CourseID = req.CourseID
	sched.DayOfWeek = req.DayOfWeek
	sched.StartTime = strings.TrimSpace(req.StartTime)
	sched.EndTime = strings.TrimSpace(req.EndTime)
	sched.Room = strings.TrimSpace(req.Room)
	if err := h.DB.Save(&sched).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, sched)
}

// DELETE /admin/schedules/:id
func (h *CourseHandler) DeleteSchedule(c echo.Context) error {
	res := h.DB.Delete(&models.ClassSchedule{}, "schedule_id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
