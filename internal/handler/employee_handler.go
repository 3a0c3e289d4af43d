package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/export"
	"github.com/noah-isme/meal-reservation-api/pkg/response"
)

const maxUploadBytes = 10 << 20

type employeeService interface {
	List(ctx context.Context, name string) ([]models.Employee, error)
	Create(ctx context.Context, req dto.EmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, id string, req dto.EmployeeUpdateRequest) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, filename string, r io.Reader) (*dto.EmployeeUploadResult, error)
	Template() ([]byte, error)
	LoginCheck(ctx context.Context, id, name string) (*dto.LoginCheckResponse, error)
}

// EmployeeHandler exposes roster endpoints.
type EmployeeHandler struct {
	service employeeService
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(service employeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param name query string false "Exact name"
// @Success 200 {object} response.Envelope
// @Router /admin/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.service.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, nil)
}

// Create godoc
// @Summary Add an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param payload body dto.EmployeeRequest true "Employee"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req dto.EmployeeRequest
	if !bindJSON(c, &req, "invalid employee payload") {
		return
	}
	emp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, emp)
}

// Update godoc
// @Summary Update an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.EmployeeUpdateRequest true "Employee"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req dto.EmployeeUpdateRequest
	if !bindJSON(c, &req, "invalid employee payload") {
		return
	}
	emp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emp, nil)
}

// Delete godoc
// @Summary Remove an employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, message("employee deleted"), nil)
}

// Upload godoc
// @Summary Import a roster sheet
// @Tags Employees
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster (.csv or .xlsx)"
// @Success 200 {object} response.Envelope
// @Router /admin/employees/upload [post]
func (h *EmployeeHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	if header.Size > maxUploadBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is too large"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not open upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := h.service.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Template godoc
// @Summary Download the roster upload template
// @Tags Employees
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /admin/employees/template [get]
func (h *EmployeeHandler) Template(c *gin.Context) {
	content, err := h.service.Template()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "employee_template.xlsx", export.FormatXLSX.ContentType(), content)
}

// LoginCheck godoc
// @Summary Match an employee by id and name
// @Tags Employees
// @Produce json
// @Param id query string true "Employee ID"
// @Param name query string true "Employee name"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /login_check [get]
func (h *EmployeeHandler) LoginCheck(c *gin.Context) {
	res, err := h.service.LoginCheck(c.Request.Context(), c.Query("id"), c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnauthorized
	}
	response.JSON(c, status, res, nil)
}
