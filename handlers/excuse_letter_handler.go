package handlers

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/models"
)

type ExcuseLetterHandler struct {
	DB *gorm.DB
}

func NewExcuseLetterHandler(db *gorm.DB) *ExcuseLetterHandler {
	return &ExcuseLetterHandler{DB: db}
}

// GET /admin/excuse-letters?status=&course_id=&year_level=&start_date=&end_date=&q=&page=&size=
func (h *ExcuseLetterHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	courseID := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0)
	yearLevel := atoiOr(strings.TrimSpace(c.QueryParam("year_level")), 0)
	start := strings.TrimSpace(c.QueryParam("start_date"))
	end := strings.TrimSpace(c.QueryParam("end_date"))
	q := strings.TrimSpace(c.QueryParam("q")) // keyword in reason

	page := atoiOr(c.QueryParam("page"), 1)
	size := atoiOr(c.QueryParam("size"), 10)
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	tx := h.DB.Table("excuse_letters AS el").
		Select(`el.*, s.student_number, u.first_name, u.last_name,
			c.course_name, c.course_code, c.year_level`).
		Joins("JOIN students s ON s.student_id = el.student_id").
		Joins("JOIN users u ON u.user_id = s.user_id").
		Joins("LEFT JOIN courses c ON c.course_id = el.course_id")

	if status != "" {
		tx = tx.Where("el.status = ?", status)
	}
	if courseID != 0 {
		tx = tx.Where("el.course_id = ?", courseID)
	}
	if yearLevel != 0 {
		tx = tx.Where("c.year_level = ?", yearLevel)
	}
	if start != "" {
		tx = tx.Where("el.absence_date >= ?", start)
	}
	if end != "" {
		tx = tx.Where("el.absence_date <= ?", end)
	}
	if q != "" {
		tx = tx.Where("el.reason ILIKE ?", "%"+q+"%")
	}

	var rows []map[string]any
	offset := (page - 1) * size
	if err := tx.Order("el.created_at DESC, el.excuse_id DESC").Offset(offset).Limit(size).Find(&rows).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GET /admin/excuse-letters/pending-count
func (h *ExcuseLetterHandler) PendingCount(c echo.Context) error {
	var n int64
	if err := h.DB.Model(&models.ExcuseLetter{}).
		Where("status = ?", models.ExcusePending).Count(&n).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, map[string]any{"count": n})
}

type reviewRequest struct {
	Remarks string `json:"remarks"`
}

// POST /admin/excuse-letters/:id/approve
func (h *ExcuseLetterHandler) Approve(c echo.Context) error {
	var body reviewRequest
	_ = c.Bind(&body)
	return h.review(c, models.ExcuseApproved, body.Remarks)
}

// POST /admin/excuse-letters/:id/reject
func (h *ExcuseLetterHandler) Reject(c echo.Context) error {
	var body reviewRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if strings.TrimSpace(body.Remarks) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "REMARKS_REQUIRED"})
	}
	return h.review(c, models.ExcuseRejected, body.Remarks)
}

var errAlreadyDecided = errors.New("excuse letter already decided")

// applyReview moves a letter out of pending. A letter decided once stays
// decided; a second reviewer gets errAlreadyDecided instead of silently
// flipping the outcome.
func applyReview(letter *models.ExcuseLetter, decision, remarks string, reviewedBy uint, at time.Time) error {
	if letter.Status != models.ExcusePending {
		return errAlreadyDecided
	}
	letter.Status = decision
	letter.AdminRemarks = strings.TrimSpace(remarks)
	letter.DecidedAt = &at
	if reviewedBy > 0 {
		rb := reviewedBy
		letter.AdminReviewedBy = &rb
	}
	return nil
}

func (h *ExcuseLetterHandler) review(c echo.Context, decision, remarks string) error {
	var letter models.ExcuseLetter
	if err := h.DB.First(&letter, "excuse_id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	uid, _ := currentUser(c)
	if err := applyReview(&letter, decision, remarks, uid, time.Now()); err != nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "ALREADY_DECIDED"})
	}
	if err := h.DB.Save(&letter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

type submitExcuseRequest struct {
	CourseID       uint   `json:"course_id"` // optional
	AbsenceDate    string `json:"absence_date" validate:"required"`
	Reason         string `json:"reason" validate:"required"`
	AttachmentName string `json:"attachment_name"` // original filename, optional
}

// POST /student/excuse-letters
func (h *ExcuseLetterHandler) Submit(c echo.Context) error {
	uid, _ := currentUser(c)

	var st models.Student
	if err := h.DB.First(&st, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var req submitExcuseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", req.AbsenceDate); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "BAD_DATE"})
	}

	letter := models.ExcuseLetter{
		StudentID:   st.StudentID,
		AbsenceDate: req.AbsenceDate,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.ExcusePending,
	}
	if req.CourseID != 0 {
		id := req.CourseID
		letter.CourseID = &id
	}
	// stored name is opaque; the original filename only contributes its
	// extension
	if name := strings.TrimSpace(req.AttachmentName); name != "" {
		letter.AttachmentPath = "uploads/excuses/" + uuid.NewString() + path.Ext(name)
	}

	if err := h.DB.Create(&letter).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusCreated, letter)
}

// GET /student/excuse-letters
func (h *ExcuseLetterHandler) Mine(c echo.Context) error {
	uid, _ := currentUser(c)

	var st models.Student
	if err := h.DB.First(&st, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	var rows []map[string]any
	err := h.DB.Table("excuse_letters AS el").
		Select("el.*, c.course_name, c.course_code").
		Joins("LEFT JOIN courses c ON c.course_id = el.course_id").
		Where("el.student_id = ?", st.StudentID).
		Order("el.created_at DESC").
		Find(&rows).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, rows)
}
