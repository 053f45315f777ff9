package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dev1mple/attendance-oop/attendance"
	"github.com/dev1mple/attendance-oop/config"
	"github.com/dev1mple/attendance-oop/database"
	"github.com/dev1mple/attendance-oop/handlers"
	"github.com/dev1mple/attendance-oop/middlewares"
	"github.com/dev1mple/attendance-oop/models"
)

// Register wires all HTTP routes. Everything is built from the injected
// db handle; handlers share one engine over one store.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	engine := attendance.NewEngine(database.NewStore(db))

	auth := handlers.NewAuthHandler(db, cfg)
	att := handlers.NewAttendanceHandler(engine)
	chk := handlers.NewCheckInHandler(db, engine)
	rep := handlers.NewReportHandler(engine)
	crs := handlers.NewCourseHandler(db)
	std := handlers.NewStudentHandler(db)
	exc := handlers.NewExcuseLetterHandler(db)
	prof := handlers.NewProfileHandler(db)
	dash := handlers.NewDashboardHandler(db)
	health := handlers.NewHealthHandler()

	// ===== Public =====
	e.GET("/healthz", health.Check)
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/register", auth.Register)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Admin =====
	admin := e.Group("/admin", authMW)

	attendanceGroup := admin.Group("/attendance", middlewares.RequirePermission(models.ActionMarkAttendance))
	attendanceGroup.GET("", att.List)
	attendanceGroup.POST("/mark", att.Mark)
	attendanceGroup.POST("/bulk", att.BulkMark)
	attendanceGroup.GET("/unmarked", att.Unmarked)

	reports := admin.Group("/reports", middlewares.RequirePermission(models.ActionViewReports))
	reports.GET("/statistics", rep.Statistics)
	reports.GET("/trends", rep.Trends)
	reports.GET("/summary", rep.Summary)
	reports.GET("/export", rep.Export)

	courses := admin.Group("/courses", middlewares.RequirePermission(models.ActionManageCourses))
	courses.GET("", crs.List)
	courses.POST("", crs.Create)
	courses.PUT("/:id", crs.Update)
	courses.DELETE("/:id", crs.Delete)

	schedules := admin.Group("/schedules", middlewares.RequirePermission(models.ActionManageCourses))
	schedules.GET("", crs.ListSchedules)
	schedules.POST("", crs.CreateSchedule)
	schedules.PUT("/:id", crs.UpdateSchedule)
	schedules.DELETE("/:id", crs.DeleteSchedule)

	students := admin.Group("/students", middlewares.RequirePermission(models.ActionManageStudents))
	students.GET("", std.List)
	students.POST("", std.Create)
	students.PUT("/:id", std.Update)
	students.DELETE("/:id", std.Delete)

	excuses := admin.Group("/excuse-letters", middlewares.RequirePermission(models.ActionReviewExcuses))
	excuses.GET("", exc.List)
	excuses.GET("/pending-count", exc.PendingCount)
	excuses.POST("/:id/approve", exc.Approve)
	excuses.POST("/:id/reject", exc.Reject)

	admin.GET("/dashboard/summary", dash.Summary, middlewares.RequirePermission(models.ActionViewReports))

	// public course listing so registration can offer choices; trimmed
	// projection, no enrollment counts or descriptions
	e.GET("/courses", crs.ListPublic)

	// ===== Student =====
	student := e.Group("/student", authMW)
	student.POST("/checkin", chk.CheckIn, middlewares.RequirePermission(models.ActionSelfCheckIn))
	student.GET("/attendance", chk.MyAttendance, middlewares.RequirePermission(models.ActionSelfCheckIn))
	student.POST("/excuse-letters", exc.Submit, middlewares.RequirePermission(models.ActionSubmitExcuse))
	student.GET("/excuse-letters", exc.Mine, middlewares.RequirePermission(models.ActionSubmitExcuse))

	// ===== Shared profile =====
	me := e.Group("/me", authMW)
	me.GET("", prof.Me)
	me.PUT("/password", prof.ChangePassword)
}
