package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/models"
)

type StudentHandler struct {
	DB *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler { return &StudentHandler{DB: db} }

type studentPayload struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"omitempty,min=8"` // required on create
	FirstName     string `json:"first_name" validate:"required,max=50"`
	LastName      string `json:"last_name" validate:"required,max=50"`
	StudentNumber string `json:"student_number" validate:"required,max=20"`
	CourseID      uint   `json:"course_id" validate:"required"`
}

type studentRow struct {
	models.Student
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
}

// GET /admin/students?course_id=&year_level=&q=
func (h *StudentHandler) List(c echo.Context) error {
	tx := h.DB.Table("students AS s").
		Select("s.*, u.first_name, u.last_name, u.email, c.course_code, c.course_name").
		Joins("JOIN users u ON u.user_id = s.user_id").
		Joins("JOIN courses c ON c.course_id = s.course_id")

	if id := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0); id != 0 {
		tx = tx.Where("s.course_id = ?", id)
	}
	if yl := atoiOr(strings.TrimSpace(c.QueryParam("year_level")), 0); yl != 0 {
		tx = tx.Where("s.year_level = ?", yl)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(s.student_number) LIKE ? OR LOWER(u.first_name) LIKE ? OR LOWER(u.last_name) LIKE ?",
			like, like, like)
	}

	var rows []studentRow
	if err := tx.Order("u.last_name ASC, u.first_name ASC").Scan(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}

// POST /admin/students
// Admin-side registration: the user and student rows land together or
// not at all.
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Password) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "PASSWORD_REQUIRED"})
	}

	var course models.Course
	if err := h.DB.First(&course, "course_id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "COURSE_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}

	u := models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(strings.ToLower(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	st := models.Student{
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		CourseID:      course.CourseID,
		YearLevel:     course.YearLevel,
	}
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		st.UserID = u.UserID
		return tx.Create(&st).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusCreated, map[string]any{"user_id": u.UserID, "student_id": st.StudentID})
}

// PUT /admin/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	var st models.Student
	if err := h.DB.First(&st, "student_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var req studentPayload
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

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		st.StudentNumber = strings.TrimSpace(req.StudentNumber)
		st.CourseID = course.CourseID
		st.YearLevel = course.YearLevel
		if err := tx.Save(&st).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("user_id = ?", st.UserID).Updates(map[string]any{
			"username":   strings.TrimSpace(req.Username),
			"email":      strings.TrimSpace(strings.ToLower(req.Email)),
			"first_name": strings.TrimSpace(req.FirstName),
			"last_name":  strings.TrimSpace(req.LastName),
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.JSON(http.StatusConflict, map[string]any{"error": "DUPLICATE"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// DELETE /admin/students/:id
// Removes the student and their login together.
func (h *StudentHandler) Delete(c echo.Context) error {
	var st models.Student
	if err := h.DB.First(&st, "student_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Student{}, "student_id = ?", st.StudentID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "user_id = ?", st.UserID).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
