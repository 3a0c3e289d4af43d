package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type selfCheckService interface {
	Get(ctx context.Context, userID, date string) (*dto.SelfCheckResponse, error)
	Set(ctx context.Context, req dto.SelfCheckRequest) (*dto.SelfCheckResponse, error)
	Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error)
}

// SelfCheckHandler exposes daily attestation endpoints.
type SelfCheckHandler struct {
	service selfCheckService
}

// NewSelfCheckHandler constructs the handler.
func NewSelfCheckHandler(service selfCheckService) *SelfCheckHandler {
	return &SelfCheckHandler{service: service}
}

// Get godoc
// @Summary Read an attestation
// @Tags SelfCheck
// @Produce json
// @Param user_id query string true "Employee ID"
// @Param date query string true "Date"
// @Success 200 {object} response.Envelope
// @Router /selfcheck [get]
func (h *SelfCheckHandler) Get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Query("user_id"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Set godoc
// @Summary Record an attestation
// @Tags SelfCheck
// @Accept json
// @Produce json
// @Param payload body dto.SelfCheckRequest true "Attestation"
// @Success 200 {object} response.Envelope
// @Router /selfcheck [post]
func (h *SelfCheckHandler) Set(c *gin.Context) {
	var req dto.SelfCheckRequest
	if !bindJSON(c, &req, "invalid selfcheck payload") {
		return
	}
	res, err := h.service.Set(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Summary godoc
// @Summary Attestation rollup per employee
// @Tags Admin
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Success 200 {object} response.Envelope
// @Router /admin/selfcheck [get]
func (h *SelfCheckHandler) Summary(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	rows, err := h.service.Summary(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
