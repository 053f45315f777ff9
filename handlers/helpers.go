package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dev1mple/attendance-oop/attendance"
)

// Validator adapts go-playground/validator to echo's Validator interface;
// wired in main so handlers can call c.Validate on bound DTOs.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator { return &Validator{validate: validator.New()} }

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "VALIDATION_FAILED",
			"detail": err.Error(),
		})
	}
	return nil
}

// currentUser reads the identity attached by the JWT middleware.
func currentUser(c echo.Context) (uid uint, role string) {
	role, _ = c.Get("role").(string)
	switch v := c.Get("user_id").(type) {
	case uint:
		uid = v
	case int:
		uid = uint(v)
	}
	return
}

// atoiOr converts s, falling back to def when empty or malformed.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func atouOr(s string, def uint) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return def
	}
	return uint(n)
}

// engineError maps engine failures onto JSON error responses. Store-level
// failures stay a 500: the request dies, the process does not.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, attendance.ErrInvalid):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "INVALID_INPUT", "detail": err.Error()})
	case errors.Is(err, attendance.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "detail": err.Error()})
	case errors.Is(err, attendance.ErrDuplicate):
		return c.JSON(http.StatusConflict, map[string]any{"error": "CONFLICT", "detail": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "STORE_FAILURE"})
	}
}
