package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dev1mple/attendance-oop/attendance"
)

type ReportHandler struct {
	Engine *attendance.Engine
}

func NewReportHandler(engine *attendance.Engine) *ReportHandler {
	return &ReportHandler{Engine: engine}
}

// GET /admin/reports/statistics?course_id=&year_level=&status=&start_date=&end_date=
func (h *ReportHandler) Statistics(c echo.Context) error {
	stats, err := h.Engine.Statistics(filterFromQuery(c))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GET /admin/reports/trends?course_id=&start_date=&end_date=
func (h *ReportHandler) Trends(c echo.Context) error {
	courseID := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0)
	trends, err := h.Engine.Trends(courseID,
		strings.TrimSpace(c.QueryParam("start_date")),
		strings.TrimSpace(c.QueryParam("end_date")))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, trends)
}

// GET /admin/reports/summary?course_id=&start_date=&end_date=
// Per-student totals for one course roster.
func (h *ReportHandler) Summary(c echo.Context) error {
	courseID := atouOr(strings.TrimSpace(c.QueryParam("course_id")), 0)
	summary, err := h.Engine.CourseSummary(courseID,
		strings.TrimSpace(c.QueryParam("start_date")),
		strings.TrimSpace(c.QueryParam("end_date")))
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// GET /admin/reports/export?course_id=&year_level=&status=&start_date=&end_date=
// Streams the filtered report as a CSV download.
func (h *ReportHandler) Export(c echo.Context) error {
	rows, err := h.Engine.Report(filterFromQuery(c))
	if err != nil {
		return engineError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="attendance_report.csv"`)
	res.WriteHeader(http.StatusOK)
	return attendance.WriteReportCSV(res, rows)
}
