package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

type employeeServiceMock struct {
	employees    []models.Employee
	createErr    error
	uploadName   string
	uploadBody   string
	uploadResult *dto.EmployeeUploadResult
	login        *dto.LoginCheckResponse
}

func (m *employeeServiceMock) List(ctx context.Context, name string) ([]models.Employee, error) {
	return m.employees, nil
}

func (m *employeeServiceMock) Create(ctx context.Context, req dto.EmployeeRequest) (*models.Employee, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Employee{ID: req.ID, Name: req.Name, Dept: req.Dept, Type: models.AffiliationDirect}, nil
}

func (m *employeeServiceMock) Update(ctx context.Context, id string, req dto.EmployeeUpdateRequest) (*models.Employee, error) {
	return &models.Employee{ID: id, Name: req.Name, Dept: req.Dept}, nil
}

func (m *employeeServiceMock) Delete(ctx context.Context, id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
}

func (m *employeeServiceMock) Upload(ctx context.Context, filename string, r io.Reader) (*dto.EmployeeUploadResult, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.uploadName = filename
	m.uploadBody = string(body)
	return m.uploadResult, nil
}

func (m *employeeServiceMock) Template() ([]byte, error) {
	return []byte("PK-template"), nil
}

func (m *employeeServiceMock) LoginCheck(ctx context.Context, id, name string) (*dto.LoginCheckResponse, error) {
	return m.login, nil
}

func TestEmployeeHandlerCreateConflict(t *testing.T) {
	svc := &employeeServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "employee id already exists")}
	handler := NewEmployeeHandler(svc)
	c, w := newJSONContext(t, http.MethodPost, "/admin/employees", `{"id":"E1","name":"Kim","dept":"Ops"}`)

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEmployeeHandlerDeleteNotFound(t *testing.T) {
	handler := NewEmployeeHandler(&employeeServiceMock{})
	c, w := newJSONContext(t, http.MethodDelete, "/admin/employees/E9", nil)
	c.Params = gin.Params{{Key: "id", Value: "E9"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmployeeHandlerUpload(t *testing.T) {
	svc := &employeeServiceMock{uploadResult: &dto.EmployeeUploadResult{Processed: 1, Saved: 1}}
	handler := NewEmployeeHandler(svc)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "roster.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("id,name,dept\nE1,Kim,Ops\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/employees/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req

	handler.Upload(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "roster.csv", svc.uploadName)
	assert.Contains(t, svc.uploadBody, "E1,Kim,Ops")
}

func TestEmployeeHandlerUploadMissingFile(t *testing.T) {
	handler := NewEmployeeHandler(&employeeServiceMock{})
	c, w := newJSONContext(t, http.MethodPost, "/admin/employees/upload", nil)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmployeeHandlerTemplate(t *testing.T) {
	handler := NewEmployeeHandler(&employeeServiceMock{})
	c, w := newJSONContext(t, http.MethodGet, "/admin/employees/template", nil)

	handler.Template(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "employee_template.xlsx")
	assert.Equal(t, "PK-template", w.Body.String())
}

func TestEmployeeHandlerLoginCheck(t *testing.T) {
	svc := &employeeServiceMock{login: &dto.LoginCheckResponse{Valid: true, ID: "E1", Name: "Kim"}}
	handler := NewEmployeeHandler(svc)
	c, w := newJSONContext(t, http.MethodGet, "/login_check?id=E1&name=Kim", nil)

	handler.LoginCheck(c)
	require.Equal(t, http.StatusOK, w.Code)

	svc.login = &dto.LoginCheckResponse{Valid: false}
	c, w = newJSONContext(t, http.MethodGet, "/login_check?id=E1&name=Lee", nil)

	handler.LoginCheck(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["valid"])
}
