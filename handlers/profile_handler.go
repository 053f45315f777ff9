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

type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler { return &ProfileHandler{DB: db} }

// GET /me
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, _ := currentUser(c)

	var u models.User
	if err := h.DB.First(&u, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	out := map[string]any{"user": u}
	if u.Role == models.RoleStudent {
		var st models.Student
		if err := h.DB.First(&st, "user_id = ?", uid).Error; err == nil {
			out["student"] = st
		}
	}
	return c.JSON(http.StatusOK, out)
}

type changePasswordRequest struct {
	Current string `json:"current" validate:"required"`
	Next    string `json:"next" validate:"required,min=8"`
}

// PUT /me/password
func (h *ProfileHandler) ChangePassword(c echo.Context) error {
	uid, _ := currentUser(c)

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Next) == req.Current {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "PASSWORD_UNCHANGED"})
	}

	var u models.User
	if err := h.DB.First(&u, "user_id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Current)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "WRONG_PASSWORD"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Next), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "HASH_FAILED"})
	}
	if err := h.DB.Model(&models.User{}).
		Where("user_id = ?", u.UserID).
		Update("password_hash", string(hash)).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
