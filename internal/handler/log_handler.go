package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/service"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type auditService interface {
	MealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error)
	VisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error)
}

type logExporter interface {
	MealLogReport(ctx context.Context, filter models.LogFilter, format string) (*service.ExportDocument, error)
	VisitorLogReport(ctx context.Context, filter models.LogFilter, format string) (*service.ExportDocument, error)
}

// LogHandler exposes the change log views and their downloads.
type LogHandler struct {
	audit   auditService
	exports logExporter
}

// NewLogHandler constructs the handler.
func NewLogHandler(audit auditService, exports logExporter) *LogHandler {
	return &LogHandler{audit: audit, exports: exports}
}

// MealLogs godoc
// @Summary Employee meal change log
// @Tags Logs
// @Produce json
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param name query string false "Name contains"
// @Param dept query string false "Department contains"
// @Success 200 {object} response.Envelope
// @Router /admin/logs [get]
func (h *LogHandler) MealLogs(c *gin.Context) {
	logs, err := h.audit.MealLogs(c.Request.Context(), logFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []models.MealChangeLogView{}
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// VisitorLogs godoc
// @Summary Visitor reservation change log
// @Tags Logs
// @Produce json
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param name query string false "Applicant name contains"
// @Param dept query string false "Department contains"
// @Param type query string false "VISITOR or CONTRACTOR"
// @Success 200 {object} response.Envelope
// @Router /admin/visitor_logs [get]
func (h *LogHandler) VisitorLogs(c *gin.Context) {
	logs, err := h.audit.VisitorLogs(c.Request.Context(), logFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []models.VisitorChangeLogView{}
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// DownloadMealLogs godoc
// @Summary Download the employee meal change log
// @Tags Logs
// @Produce application/octet-stream
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Router /admin/logs/download [get]
func (h *LogHandler) DownloadMealLogs(c *gin.Context) {
	doc, err := h.exports.MealLogReport(c.Request.Context(), logFilterFromQuery(c), c.Query("format"))
	sendDocument(c, doc, err)
}

// DownloadVisitorLogs godoc
// @Summary Download the visitor change log
// @Tags Logs
// @Produce application/octet-stream
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /admin/visitor_logs/download [get]
func (h *LogHandler) DownloadVisitorLogs(c *gin.Context) {
	doc, err := h.exports.VisitorLogReport(c.Request.Context(), logFilterFromQuery(c), c.Query("format"))
	sendDocument(c, doc, err)
}

func sendDocument(c *gin.Context, doc *service.ExportDocument, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Content)
}
