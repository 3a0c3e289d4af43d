package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

const (
	mealPathSelf      = "self"
	mealPathAdminEdit = "admin_edit"
	mealPathLegacy    = "legacy"
)

type mealRepository interface {
	Get(ctx context.Context, userID, date string) (*models.MealReservation, error)
	Upsert(ctx context.Context, m *models.MealReservation) error
	Replace(ctx context.Context, m *models.MealReservation) (*models.MealReservation, error)
	ListByUser(ctx context.Context, userID, start, end string) ([]models.MealReservationView, error)
	AdminList(ctx context.Context, start, end string, mode models.AdminMealMode) ([]models.MealReservationView, error)
}

type holidayLookup interface {
	Exists(ctx context.Context, date string) (bool, error)
}

type mealAuditor interface {
	RecordMealChange(ctx context.Context, userID, date string, before, after models.MealValues) int
}

// MealServiceConfig tunes employee meal submissions.
type MealServiceConfig struct {
	BlockHolidays bool
}

// MealService stores employee meal reservations. Employee submissions are not
// deadline gated; only the visitor path carries deadlines forward.
type MealService struct {
	repo      mealRepository
	holidays  holidayLookup
	audit     mealAuditor
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       MealServiceConfig
	now       func() time.Time
}

// NewMealService constructs a MealService.
func NewMealService(repo mealRepository, holidays holidayLookup, audit mealAuditor, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg MealServiceConfig) *MealService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealService{
		repo:      repo,
		holidays:  holidays,
		audit:     audit,
		metrics:   metrics,
		validator: registerValidations(validate),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Submit upserts every entry of the batch and logs changed slots.
func (s *MealService) Submit(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error) {
	return s.apply(ctx, req, mealPathSelf, "meals saved", s.upsert)
}

// AdminEdit rewrites every entry with delete-then-insert and logs the diff
// against the deleted row.
func (s *MealService) AdminEdit(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error) {
	return s.apply(ctx, req, mealPathAdminEdit, "meals edited", s.replace)
}

// LegacyUpdate saves the admin grid without touching the change log.
func (s *MealService) LegacyUpdate(ctx context.Context, req dto.MealBatchRequest) (*dto.MealBatchResult, error) {
	return s.apply(ctx, req, mealPathLegacy, "changes saved", func(ctx context.Context, m *models.MealReservation) (int, error) {
		if err := s.repo.Upsert(ctx, m); err != nil {
			return 0, err
		}
		return 0, nil
	})
}

type mealWriter func(ctx context.Context, m *models.MealReservation) (logged int, err error)

func (s *MealService) apply(ctx context.Context, req dto.MealBatchRequest, path, message string, write mealWriter) (*dto.MealBatchResult, error) {
	if len(req.Meals) == 0 {
		return nil, invalid(nil, "meals must not be empty")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid meal payload")
	}
	if err := s.checkHolidays(ctx, req.Meals); err != nil {
		return nil, err
	}

	result := &dto.MealBatchResult{Message: message, Failed: []dto.MealBatchFailure{}}
	for _, entry := range req.Meals {
		result.Processed++
		at := s.now().UTC()
		m := &models.MealReservation{
			UserID:     entry.UserID,
			Date:       entry.Date,
			MealValues: entry.Values(),
			CreatedAt:  at,
			UpdatedAt:  at,
		}
		logged, err := write(ctx, m)
		if err != nil {
			s.logger.Warn("meal reservation not saved",
				zap.String("path", path),
				zap.String("user_id", entry.UserID),
				zap.String("date", entry.Date),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, dto.MealBatchFailure{UserID: entry.UserID, Date: entry.Date, Reason: "failed to save reservation"})
			continue
		}
		result.Saved++
		result.Logged += logged
	}
	s.metrics.RecordReservationSaved(path, result.Saved)
	return result, nil
}

func (s *MealService) upsert(ctx context.Context, m *models.MealReservation) (int, error) {
	before, err := s.current(ctx, m.UserID, m.Date)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return 0, err
	}
	return s.audit.RecordMealChange(ctx, m.UserID, m.Date, before, m.MealValues), nil
}

func (s *MealService) replace(ctx context.Context, m *models.MealReservation) (int, error) {
	previous, err := s.repo.Replace(ctx, m)
	if err != nil {
		return 0, err
	}
	// corrections are only logged against a row that existed before
	if previous == nil {
		return 0, nil
	}
	return s.audit.RecordMealChange(ctx, m.UserID, m.Date, previous.MealValues, m.MealValues), nil
}

// current returns the stored triple, zeros when nothing is stored.
func (s *MealService) current(ctx context.Context, userID, date string) (models.MealValues, error) {
	existing, err := s.repo.Get(ctx, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MealValues{}, nil
	}
	if err != nil {
		return models.MealValues{}, err
	}
	return existing.MealValues, nil
}

func (s *MealService) checkHolidays(ctx context.Context, entries []dto.MealEntry) error {
	if !s.cfg.BlockHolidays || s.holidays == nil {
		return nil
	}
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.Date] {
			continue
		}
		seen[entry.Date] = true
		holiday, err := s.holidays.Exists(ctx, entry.Date)
		if err != nil {
			return internalError(err, "failed to check holidays")
		}
		if holiday {
			return invalid(nil, fmt.Sprintf("%s is a holiday", entry.Date))
		}
	}
	return nil
}

// ListForUser returns an employee's calendar keyed by date.
func (s *MealService) ListForUser(ctx context.Context, userID, start, end string) (map[string]dto.MealDay, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, userID, start, end)
	if err != nil {
		return nil, internalError(err, "failed to list meals")
	}
	days := make(map[string]dto.MealDay, len(rows))
	for _, row := range rows {
		if row.Date == nil {
			continue
		}
		days[*row.Date] = dto.MealDay{
			Breakfast: row.Breakfast == 1,
			Lunch:     row.Lunch == 1,
			Dinner:    row.Dinner == 1,
			Name:      row.Name,
			Dept:      row.Dept,
			Rank:      row.Rank,
		}
	}
	return days, nil
}

// AdminList returns reservations in range. An empty mode means apply.
func (s *MealService) AdminList(ctx context.Context, start, end, mode string) ([]models.MealReservationView, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	m := models.AdminMealMode(mode)
	switch m {
	case "":
		m = models.AdminMealModeApply
	case models.AdminMealModeAll, models.AdminMealModeApply:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode must be all or apply")
	}
	rows, err := s.repo.AdminList(ctx, start, end, m)
	if err != nil {
		return nil, internalError(err, "failed to list meals")
	}
	if rows == nil {
		rows = []models.MealReservationView{}
	}
	return rows, nil
}
