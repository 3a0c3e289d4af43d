package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

type selfCheckRepository interface {
	Get(ctx context.Context, userID, date string) (*models.SelfCheck, error)
	Upsert(ctx context.Context, sc *models.SelfCheck, force bool) error
	Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error)
}

// SelfCheckService records daily attestations. They are never deadline gated.
type SelfCheckService struct {
	repo      selfCheckRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSelfCheckService constructs a SelfCheckService.
func NewSelfCheckService(repo selfCheckRepository, validate *validator.Validate, logger *zap.Logger) *SelfCheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelfCheckService{repo: repo, validator: registerValidations(validate), logger: logger, now: time.Now}
}

// Get returns the attestation of userID on date; a missing row reads as
// unchecked.
func (s *SelfCheckService) Get(ctx context.Context, userID, date string) (*dto.SelfCheckResponse, error) {
	if userID == "" || date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id and date are required")
	}
	if err := checkRange(date, date); err != nil {
		return nil, err
	}
	sc, err := s.repo.Get(ctx, userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return &dto.SelfCheckResponse{UserID: userID, Date: date}, nil
	}
	if err != nil {
		return nil, internalError(err, "failed to load selfcheck")
	}
	return toSelfCheckResponse(sc), nil
}

// Set stores the flag. Without ForceUpdate the first creation timestamp
// survives.
func (s *SelfCheckService) Set(ctx context.Context, req dto.SelfCheckRequest) (*dto.SelfCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid selfcheck payload")
	}
	at := s.now().UTC()
	sc := &models.SelfCheck{UserID: req.UserID, Date: req.Date, Checked: req.Checked, CreatedAt: at, UpdatedAt: at}
	if err := s.repo.Upsert(ctx, sc, req.ForceUpdate); err != nil {
		return nil, storageError(err, "selfcheck not found", "failed to save selfcheck")
	}
	stored, err := s.repo.Get(ctx, req.UserID, req.Date)
	if err != nil {
		return nil, internalError(err, "failed to load selfcheck")
	}
	return toSelfCheckResponse(stored), nil
}

// Summary lists every roster member with their highest flag in range.
func (s *SelfCheckService) Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	rows, err := s.repo.Summary(ctx, start, end)
	if err != nil {
		return nil, internalError(err, "failed to summarise selfchecks")
	}
	if rows == nil {
		rows = []models.SelfCheckSummary{}
	}
	return rows, nil
}

func toSelfCheckResponse(sc *models.SelfCheck) *dto.SelfCheckResponse {
	created, updated := sc.CreatedAt, sc.UpdatedAt
	return &dto.SelfCheckResponse{
		UserID:    sc.UserID,
		Date:      sc.Date,
		Checked:   sc.Checked,
		Exists:    true,
		CreatedAt: &created,
		UpdatedAt: &updated,
	}
}
