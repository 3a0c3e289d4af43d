package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type holidayService interface {
	List(ctx context.Context, year int) ([]models.Holiday, error)
	Create(ctx context.Context, req dto.HolidayRequest) (*models.Holiday, error)
	Delete(ctx context.Context, date string) (int64, error)
	Import(ctx context.Context, req dto.HolidayImportRequest) (*models.HolidaySync, error)
	LastSync(ctx context.Context, year int) (*models.HolidaySync, error)
}

// HolidayHandler exposes the holiday registry.
type HolidayHandler struct {
	service holidayService
}

// NewHolidayHandler constructs the handler.
func NewHolidayHandler(service holidayService) *HolidayHandler {
	return &HolidayHandler{service: service}
}

func yearQuery(c *gin.Context, required bool) (int, bool) {
	raw := c.Query("year")
	if raw == "" && !required {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return 0, false
	}
	return year, true
}

// List godoc
// @Summary List holidays
// @Tags Holidays
// @Produce json
// @Param year query int false "Calendar year"
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	year, ok := yearQuery(c, false)
	if !ok {
		return
	}
	holidays, err := h.service.List(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// Create godoc
// @Summary Register a holiday
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.HolidayRequest true "Holiday"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Create(c *gin.Context) {
	var req dto.HolidayRequest
	if !bindJSON(c, &req, "invalid holiday payload") {
		return
	}
	holiday, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// Delete godoc
// @Summary Remove a holiday
// @Tags Holidays
// @Produce json
// @Param date query string true "Holiday date"
// @Success 200 {object} response.Envelope
// @Router /holidays [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	n, err := h.service.Delete(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": n}, nil)
}

// Import godoc
// @Summary Replace a year's holidays
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.HolidayImportRequest true "Holiday calendar"
// @Success 200 {object} response.Envelope
// @Router /holidays/import [post]
func (h *HolidayHandler) Import(c *gin.Context) {
	var req dto.HolidayImportRequest
	if !bindJSON(c, &req, "invalid holiday import payload") {
		return
	}
	sync, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sync, nil)
}

// LastSync godoc
// @Summary Last holiday import of a year
// @Tags Holidays
// @Produce json
// @Param year query int true "Calendar year"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /holidays/sync [get]
func (h *HolidayHandler) LastSync(c *gin.Context) {
	year, ok := yearQuery(c, true)
	if !ok {
		return
	}
	sync, err := h.service.LastSync(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sync, nil)
}
