package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/aggregate"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/service"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type statsService interface {
	Period(ctx context.Context, start, end string) ([]models.DailyTotal, error)
	Trend(ctx context.Context, start, end string) (models.WeekTrend, error)
	DeptSummary(ctx context.Context, start, end string) ([]aggregate.SummaryRow, error)
	WeeklyRoster(ctx context.Context, start, end string) (*service.WeeklyRosterView, error)
}

type reportExporter interface {
	PeriodReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error)
	DeptSummaryReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error)
	WeeklyRecordsReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error)
	PivotReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error)
}

// StatsHandler exposes aggregate views and their spreadsheet exports.
type StatsHandler struct {
	stats   statsService
	exports reportExporter
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(stats statsService, exports reportExporter) *StatsHandler {
	return &StatsHandler{stats: stats, exports: exports}
}

// Period godoc
// @Summary Daily totals in range
// @Tags Stats
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /admin/stats/period [get]
func (h *StatsHandler) Period(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	totals, err := h.stats.Period(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, totals, nil)
}

// WeekTrend godoc
// @Summary Daily totals as chart series
// @Tags Stats
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /admin/graph/week_trend [get]
func (h *StatsHandler) WeekTrend(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	trend, err := h.stats.Trend(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trend, nil)
}

// DeptSummary godoc
// @Summary Department and affiliation summary
// @Tags Stats
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /admin/stats/dept_summary [get]
func (h *StatsHandler) DeptSummary(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	rows, err := h.stats.DeptSummary(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// WeeklyDept godoc
// @Summary Weekly roster by department
// @Tags Stats
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /admin/stats/weekly_dept [get]
func (h *StatsHandler) WeeklyDept(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	view, err := h.stats.WeeklyRoster(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// PeriodExport godoc
// @Summary Export daily totals grouped by week
// @Tags Stats
// @Produce application/octet-stream
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /admin/stats/period/excel [get]
func (h *StatsHandler) PeriodExport(c *gin.Context) {
	h.export(c, h.exports.PeriodReport)
}

// DeptSummaryExport godoc
// @Summary Export the department summary
// @Tags Stats
// @Produce application/octet-stream
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /admin/stats/dept_summary/excel [get]
func (h *StatsHandler) DeptSummaryExport(c *gin.Context) {
	h.export(c, h.exports.DeptSummaryReport)
}

// WeeklyDeptExport godoc
// @Summary Export one row per booked meal
// @Tags Stats
// @Produce application/octet-stream
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /admin/stats/weekly_dept/excel [get]
func (h *StatsHandler) WeeklyDeptExport(c *gin.Context) {
	h.export(c, h.exports.WeeklyRecordsReport)
}

// PivotExport godoc
// @Summary Export the weekly roster pivot
// @Tags Stats
// @Produce application/octet-stream
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /admin/stats/pivot_excel [get]
func (h *StatsHandler) PivotExport(c *gin.Context) {
	h.export(c, h.exports.PivotReport)
}

func (h *StatsHandler) export(c *gin.Context, render func(ctx context.Context, start, end, format string) (*service.ExportDocument, error)) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	doc, err := render(c.Request.Context(), start, end, c.Query("format"))
	sendDocument(c, doc, err)
}
