package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

type mealService interface {
	Submit(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error)
	AdminEdit(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error)
	LegacyUpdate(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error)
	ListForUser(ctx context.Context, userID, start, end string) (map[string]dto.MealDay, error)
	AdminList(ctx context.Context, start, end, mode string) ([]models.MealReservationView, error)
}

// MealHandler exposes employee meal endpoints.
type MealHandler struct {
	service mealService
}

// NewMealHandler constructs the handler.
func NewMealHandler(service mealService) *MealHandler {
	return &MealHandler{service: service}
}

// List godoc
// @Summary Employee meal calendar
// @Tags Meals
// @Produce json
// @Param user_id query string true "Employee ID"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /meals [get]
func (h *MealHandler) List(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	days, err := h.service.ListForUser(c.Request.Context(), c.Query("user_id"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// Submit godoc
// @Summary Save employee meals
// @Description Every entry overwrites all three slots; absent slots are stored as 0.
// @Tags Meals
// @Accept json
// @Produce json
// @Param payload body dto.MealBatchRequest true "Meal batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /meals [post]
func (h *MealHandler) Submit(c *gin.Context) {
	h.batch(c, h.service.Submit)
}

// AdminEdit godoc
// @Summary Rewrite employee meals as admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.MealBatchRequest true "Meal batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/edit_meals [post]
func (h *MealHandler) AdminEdit(c *gin.Context) {
	h.batch(c, h.service.AdminEdit)
}

// LegacyUpdate godoc
// @Summary Save the admin meal grid without change logging
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body dto.MealBatchRequest true "Meal batch"
// @Success 201 {object} response.Envelope
// @Router /update_meals [post]
func (h *MealHandler) LegacyUpdate(c *gin.Context) {
	h.batch(c, h.service.LegacyUpdate)
}

func (h *MealHandler) batch(c *gin.Context, run func(context.Context, dto.MealBatchRequest) (*dto.MealBatchResult, error)) {
	var req dto.MealBatchRequest
	if !bindJSON(c, &req, "invalid meal payload") {
		return
	}
	if len(req.Meals) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no meal data provided"))
		return
	}
	result, err := run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	result.Message = fmt.Sprintf("%s: %d of %d", result.Message, result.Saved, result.Processed)
	response.Created(c, result)
}

// AdminList godoc
// @Summary List meals for administrators
// @Tags Admin
// @Produce json
// @Param start query string true "Start date"
// @Param end query string true "End date"
// @Param mode query string false "all or apply" default(apply)
// @Success 200 {object} response.Envelope
// @Router /admin/meals [get]
func (h *MealHandler) AdminList(c *gin.Context) {
	start, end, ok := requireRange(c)
	if !ok {
		return
	}
	rows, err := h.service.AdminList(c.Request.Context(), start, end, c.Query("mode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"count": len(rows)})
}
