package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/config"
	"github.com/dev1mple/attendance-oop/models"
)

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}
}

func (h *AuthHandler) signJWT(sub uint, role, name string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"name": name,
		"exp":  time.Now().Add(h.TokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8"`
	FirstName     string `json:"first_name" validate:"required,max=50"`
	LastName      string `json:"last_name" validate:"required,max=50"`
	StudentNumber string `json:"student_number" validate:"required,max=20"`
	CourseID      uint   `json:"course_id" validate:"required"`
}

// POST /auth/login
// One login for both roles; the capability table decides what the token
// can do afterwards.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ident := strings.TrimSpace(strings.ToLower(req.Username))
	var u models.User
	err := h.DB.Where("LOWER(username) = ? OR LOWER(email) = ?", ident, ident).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "INVALID_CREDENTIALS"})
	}

	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	token, err := h.signJWT(u.UserID, u.Role, name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "TOKEN_SIGNING_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user": map[string]any{
			"user_id":    u.UserID,
			"username":   u.Username,
			"role":       u.Role,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
		},
	})
}

// POST /auth/register
// Student self-registration: one user row plus one student row, created
// together or not at all.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	var dup models.User
	if err := h.DB.Where("username = ? OR email = ?", username, email).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{"error": "USER_EXISTS"})
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
		Username:     username,
		Email:        email,
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
			return c.JSON(http.StatusConflict, map[string]any{"error": "STUDENT_NUMBER_EXISTS"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user_id":    u.UserID,
		"student_id": st.StudentID,
	})
}
