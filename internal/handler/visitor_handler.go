package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type visitorService interface {
	Apply(ctx context.Context, req dto.VisitorRequest) (*models.VisitorReservation, error)
	UpdateFields(ctx context.Context, id int64, req dto.VisitorUpdateRequest) (*models.VisitorReservation, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, applicantID, start, end string) ([]models.VisitorReservation, error)
	Weekly(ctx context.Context, start, end, applicantID string) ([]models.VisitorReservation, error)
	Check(ctx context.Context, applicantID, date, rawType string) (*dto.VisitorCheckResponse, error)
}

// VisitorHandler exposes visitor and contractor reservation endpoints.
type VisitorHandler struct {
	service visitorService
}

// NewVisitorHandler constructs the handler.
func NewVisitorHandler(service visitorService) *VisitorHandler {
	return &VisitorHandler{service: service}
}

// List godoc
// @Summary List an applicant's visitor reservations
// @Tags Visitors
// @Produce json
// @Param id query string true "Applicant ID"
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /visitors [get]
func (h *VisitorHandler) List(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	rows, err := h.service.List(c.Request.Context(), c.Query("id"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Weekly godoc
// @Summary List visitor reservations in range
// @Tags Visitors
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param id query string false "Applicant ID"
// @Success 200 {object} response.Envelope
// @Router /visitors/weekly [get]
func (h *VisitorHandler) Weekly(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	rows, err := h.service.Weekly(c.Request.Context(), start, end, c.Query("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Check godoc
// @Summary Check whether a visitor reservation exists
// @Tags Visitors
// @Produce json
// @Param id query string true "Applicant ID"
// @Param date query string true "Meal date"
// @Param type query string false "VISITOR or CONTRACTOR" default(VISITOR)
// @Success 200 {object} response.Envelope
// @Router /visitors/check [get]
func (h *VisitorHandler) Check(c *gin.Context) {
	res, err := h.service.Check(c.Request.Context(), c.Query("id"), c.Query("date"), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Create godoc
// @Summary Create or resubmit a visitor reservation
// @Description Slots past their deadline keep the stored value.
// @Tags Visitors
// @Accept json
// @Produce json
// @Param payload body dto.VisitorRequest true "Visitor reservation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /visitors [post]
func (h *VisitorHandler) Create(c *gin.Context) {
	var req dto.VisitorRequest
	if !bindJSON(c, &req, "invalid visitor payload") {
		return
	}
	record, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Update a visitor reservation
// @Tags Visitors
// @Accept json
// @Produce json
// @Param id path int true "Reservation ID"
// @Param payload body dto.VisitorUpdateRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /visitors/{id} [put]
func (h *VisitorHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VisitorUpdateRequest
	if !bindJSON(c, &req, "invalid visitor payload") {
		return
	}
	record, err := h.service.UpdateFields(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Delete godoc
// @Summary Delete a visitor reservation
// @Tags Visitors
// @Produce json
// @Param id path int true "Reservation ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /visitors/{id} [delete]
func (h *VisitorHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, message("visitor reservation deleted"), nil)
}
