package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/repository"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

const defaultHolidayDescription = "공휴일"

type holidayRepository interface {
	List(ctx context.Context, year int) ([]models.Holiday, error)
	Exists(ctx context.Context, date string) (bool, error)
	Create(ctx context.Context, h *models.Holiday) error
	Delete(ctx context.Context, date string) (int64, error)
	Import(ctx context.Context, year int, source string, holidays []models.Holiday, at time.Time) (*models.HolidaySync, error)
	LastSync(ctx context.Context, year int) (*models.HolidaySync, error)
}

// HolidayService maintains the holiday registry that closes visitor booking.
type HolidayService struct {
	repo      holidayRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewHolidayService constructs a HolidayService.
func NewHolidayService(repo holidayRepository, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{repo: repo, validator: registerValidations(validate), logger: logger, now: time.Now}
}

// List returns the holidays of year, or all of them when year is 0.
func (s *HolidayService) List(ctx context.Context, year int) ([]models.Holiday, error) {
	if year < 0 || year > 9999 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year is out of range")
	}
	holidays, err := s.repo.List(ctx, year)
	if err != nil {
		return nil, internalError(err, "failed to list holidays")
	}
	if holidays == nil {
		holidays = []models.Holiday{}
	}
	return holidays, nil
}

// IsHoliday reports whether date is registered.
func (s *HolidayService) IsHoliday(ctx context.Context, date string) (bool, error) {
	ok, err := s.repo.Exists(ctx, date)
	if err != nil {
		return false, internalError(err, "failed to check holidays")
	}
	return ok, nil
}

// Create registers a holiday; a taken date is a conflict.
func (s *HolidayService) Create(ctx context.Context, req dto.HolidayRequest) (*models.Holiday, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid holiday payload")
	}
	h := &models.Holiday{Date: req.Date, Description: describe(req.Description)}
	if err := s.repo.Create(ctx, h); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, fmt.Sprintf("%s is already registered", req.Date))
		}
		return nil, storageError(err, "holiday not found", "failed to create holiday")
	}
	return h, nil
}

// Delete removes the holiday on date and returns the number of rows removed.
// Removing an unknown date is not an error.
func (s *HolidayService) Delete(ctx context.Context, date string) (int64, error) {
	if date == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if err := checkRange(date, date); err != nil {
		return 0, err
	}
	n, err := s.repo.Delete(ctx, date)
	if err != nil {
		return 0, internalError(err, "failed to delete holiday")
	}
	return n, nil
}

// Import replaces the calendar of one year from an external source.
func (s *HolidayService) Import(ctx context.Context, req dto.HolidayImportRequest) (*models.HolidaySync, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid holiday import payload")
	}
	prefix := fmt.Sprintf("%04d-", req.Year)
	holidays := make([]models.Holiday, 0, len(req.Holidays))
	for _, h := range req.Holidays {
		if !strings.HasPrefix(h.Date, prefix) {
			return nil, invalid(nil, fmt.Sprintf("%s is outside %d", h.Date, req.Year))
		}
		holidays = append(holidays, models.Holiday{Date: h.Date, Description: describe(h.Description)})
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "manual"
	}
	sync, err := s.repo.Import(ctx, req.Year, source, holidays, s.now().UTC())
	if err != nil {
		return nil, storageError(err, "holiday not found", "failed to import holidays")
	}
	s.logger.Info("holidays imported", zap.Int("year", req.Year), zap.String("source", source), zap.Int("count", len(holidays)))
	return sync, nil
}

// LastSync returns the bookkeeping of the latest import for year.
func (s *HolidayService) LastSync(ctx context.Context, year int) (*models.HolidaySync, error) {
	sync, err := s.repo.LastSync(ctx, year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no import recorded for %d", year))
	}
	if err != nil {
		return nil, internalError(err, "failed to load holiday sync")
	}
	return sync, nil
}

func describe(description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return defaultHolidayDescription
}
