package middlewares

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dev1mple/attendance-oop/models"
)

// RequirePermission gates a route on the role capability table. The role
// comes from the context set by RequireAuth.
func RequirePermission(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !models.RoleCan(role, action) {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}
