package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/repository"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/export"
)

var (
	rosterRequiredColumns = []string{"id", "name", "dept", "type", "region"}
	rosterTemplateColumns = []string{"id", "name", "dept", "rank", "type", "region"}
)

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	FindByIDAndName(ctx context.Context, id, name string) (*models.Employee, error)
	Create(ctx context.Context, emp *models.Employee) error
	Update(ctx context.Context, emp *models.Employee) error
	Upsert(ctx context.Context, emp *models.Employee) error
	Delete(ctx context.Context, id string) error
}

// EmployeeServiceConfig tunes roster defaults.
type EmployeeServiceConfig struct {
	PrimaryRegion string
}

// EmployeeService maintains the roster.
type EmployeeService struct {
	repo      employeeRepository
	template  export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       EmployeeServiceConfig
}

// NewEmployeeService constructs an EmployeeService. template renders the
// blank upload sheet.
func NewEmployeeService(repo employeeRepository, template export.Renderer, validate *validator.Validate, logger *zap.Logger, cfg EmployeeServiceConfig) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if template == nil {
		template = export.NewXLSXExporter()
	}
	return &EmployeeService{repo: repo, template: template, validator: registerValidations(validate), logger: logger, cfg: cfg}
}

// List returns the roster, optionally narrowed to an exact name.
func (s *EmployeeService) List(ctx context.Context, name string) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, models.EmployeeFilter{Name: strings.TrimSpace(name)})
	if err != nil {
		return nil, internalError(err, "failed to list employees")
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

// Get returns one roster entry.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "employee not found", "failed to load employee")
	}
	return emp, nil
}

// Create adds a roster entry; a taken id is a conflict.
func (s *EmployeeService) Create(ctx context.Context, req dto.EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid employee payload")
	}
	emp := s.build(req.ID, req.Name, req.Dept, req.Type, req.Region, req.Rank, req.Level)
	if err := s.repo.Create(ctx, emp); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("employee %s already exists", req.ID))
		}
		return nil, storageError(err, "employee not found", "failed to create employee")
	}
	return emp, nil
}

// Update replaces the mutable fields of employee id.
func (s *EmployeeService) Update(ctx context.Context, id string, req dto.EmployeeUpdateRequest) (*models.Employee, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid employee payload")
	}
	emp := s.build(id, req.Name, req.Dept, req.Type, req.Region, req.Rank, req.Level)
	if err := s.repo.Update(ctx, emp); err != nil {
		return nil, storageError(err, "employee not found", "failed to update employee")
	}
	return emp, nil
}

// Delete removes employee id. Reservations referencing it stay in place.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError(err, "employee not found", "failed to delete employee")
	}
	return nil
}

// Upload upserts every row of a roster sheet. Bad rows are reported and
// skipped; a sheet without the required columns is rejected outright.
func (s *EmployeeService) Upload(ctx context.Context, filename string, r io.Reader) (*dto.EmployeeUploadResult, error) {
	table, err := export.ReadTable(filename, r)
	if err != nil {
		return nil, invalid(err, "could not read roster file")
	}
	if !table.HasColumns(rosterRequiredColumns...) {
		return nil, invalid(nil, "roster file must contain columns: "+strings.Join(rosterRequiredColumns, ", "))
	}

	result := &dto.EmployeeUploadResult{Failed: []dto.UploadFailure{}}
	for i, row := range table.Rows {
		result.Processed++
		emp, reason := s.fromRow(row)
		if reason == "" {
			if err := s.repo.Upsert(ctx, emp); err != nil {
				s.logger.Warn("roster row not saved", zap.Int("row", i+1), zap.String("id", row["id"]), zap.Error(err))
				reason = "failed to save employee"
			}
		}
		if reason != "" {
			result.Failed = append(result.Failed, dto.UploadFailure{Row: i + 1, ID: row["id"], Reason: reason})
			continue
		}
		result.Saved++
	}

	employees, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	result.Employees = employees
	s.logger.Info("roster uploaded", zap.String("file", filename), zap.Int("saved", result.Saved), zap.Int("failed", len(result.Failed)))
	return result, nil
}

func (s *EmployeeService) fromRow(row map[string]string) (*models.Employee, string) {
	for _, col := range []string{"id", "name", "dept"} {
		if row[col] == "" {
			return nil, col + " is required"
		}
	}
	if row["type"] != "" {
		if _, ok := models.ParseAffiliation(row["type"]); !ok {
			return nil, fmt.Sprintf("unknown type %q", row["type"])
		}
	}
	return s.build(row["id"], row["name"], row["dept"], row["type"], row["region"], row["rank"], 0), ""
}

// Template renders an empty roster sheet.
func (s *EmployeeService) Template() ([]byte, error) {
	content, err := s.template.Render(export.Dataset{SheetName: "employees", Headers: rosterTemplateColumns})
	if err != nil {
		return nil, internalError(err, "failed to render roster template")
	}
	return content, nil
}

// LoginCheck matches an id and name against the roster. There are no
// credentials; an unknown pair yields Valid false.
func (s *EmployeeService) LoginCheck(ctx context.Context, id, name string) (*dto.LoginCheckResponse, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id and name are required")
	}
	emp, err := s.repo.FindByIDAndName(ctx, id, name)
	if errors.Is(err, sql.ErrNoRows) {
		return &dto.LoginCheckResponse{Valid: false}, nil
	}
	if err != nil {
		return nil, internalError(err, "failed to check login")
	}
	return &dto.LoginCheckResponse{
		Valid: true,
		ID:    emp.ID,
		Name:  emp.Name,
		Dept:  emp.Dept,
		Rank:  emp.Rank,
		Type:  string(emp.Type),
		Level: emp.Level,
	}, nil
}

func (s *EmployeeService) build(id, name, dept, rawType, region, rank string, level int) *models.Employee {
	t := models.AffiliationDirect
	if parsed, ok := models.ParseAffiliation(rawType); ok {
		t = parsed
	}
	region = strings.TrimSpace(region)
	if region == "" {
		region = s.cfg.PrimaryRegion
	}
	if level == 0 {
		level = models.LevelMember
	}
	return &models.Employee{
		ID:     strings.TrimSpace(id),
		Name:   strings.TrimSpace(name),
		Dept:   strings.TrimSpace(dept),
		Type:   t,
		Region: region,
		Rank:   strings.TrimSpace(rank),
		Level:  level,
	}
}
