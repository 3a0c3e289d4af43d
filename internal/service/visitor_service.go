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

	"github.com/noah-isme/meal-reservation-api/internal/deadline"
	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

const mealPathVisitor = "visitor"

type visitorRepository interface {
	FindByID(ctx context.Context, id int64) (*models.VisitorReservation, error)
	FindByKey(ctx context.Context, applicantID, date string, t models.Affiliation) (*models.VisitorReservation, error)
	Save(ctx context.Context, v *models.VisitorReservation) error
	Update(ctx context.Context, v *models.VisitorReservation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.VisitorFilter) ([]models.VisitorReservation, error)
}

type visitorAuditor interface {
	RecordVisitorChange(ctx context.Context, after *models.VisitorReservation, before models.MealValues) bool
	RecordVisitorDeletion(ctx context.Context, removed *models.VisitorReservation) bool
}

// VisitorService manages guest and contractor reservations. Requested slot
// values arriving after their deadline are dropped in favour of the stored
// value instead of failing the request.
type VisitorService struct {
	repo      visitorRepository
	holidays  holidayLookup
	audit     visitorAuditor
	policy    *deadline.Policy
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewVisitorService constructs a VisitorService.
func NewVisitorService(repo visitorRepository, holidays holidayLookup, audit visitorAuditor, policy *deadline.Policy, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *VisitorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisitorService{
		repo:      repo,
		holidays:  holidays,
		audit:     audit,
		policy:    policy,
		metrics:   metrics,
		validator: registerValidations(validate),
		logger:    logger,
		now:       time.Now,
	}
}

// Apply creates or resubmits the reservation keyed by applicant, date and type.
func (s *VisitorService) Apply(ctx context.Context, req dto.VisitorRequest) (*models.VisitorReservation, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	req.ApplicantID = strings.TrimSpace(req.ApplicantID)
	req.ApplicantName = strings.TrimSpace(req.ApplicantName)
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid visitor payload")
	}
	vtype := models.AffiliationVisitor
	if req.Type != "" {
		vtype, _ = models.ParseAffiliation(req.Type)
	}

	existing, err := s.repo.FindByKey(ctx, req.ApplicantID, req.Date, vtype)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, internalError(err, "failed to load visitor reservation")
	}
	if errors.Is(err, sql.ErrNoRows) {
		existing = nil
	}

	holiday, err := s.holidays.Exists(ctx, req.Date)
	if err != nil {
		return nil, internalError(err, "failed to check holidays")
	}
	holidayClosed := invalid(nil, fmt.Sprintf("%s is a holiday; reservations are closed", req.Date))
	if holiday && existing == nil {
		return nil, holidayClosed
	}

	// deadlines only hold back edits of a stored row; a first booking keeps
	// what was submitted
	var before models.MealValues
	final := req.MealFields.Values()
	if existing != nil {
		before = existing.MealValues
		if err := requirePositiveTotal(req.MealFields, before); err != nil {
			return nil, err
		}
		if final, err = s.carryForward(req.Date, before, req.MealFields, req.RequestedByAdmin); err != nil {
			return nil, err
		}
		if holiday && raisesAny(before, final) {
			return nil, holidayClosed
		}
	} else if final.Total() <= 0 {
		return nil, invalid(nil, "at least one meal must be reserved")
	}

	at := s.now().UTC()
	record := &models.VisitorReservation{
		ApplicantID:   req.ApplicantID,
		ApplicantName: req.ApplicantName,
		Date:          req.Date,
		Type:          vtype,
		MealValues:    final,
		Reason:        req.Reason,
		CreatedAt:     at,
		LastModified:  at,
	}
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, storageError(err, "visitor reservation not found", "failed to save visitor reservation")
	}
	s.metrics.RecordReservationSaved(mealPathVisitor, 1)
	s.audit.RecordVisitorChange(ctx, record, before)
	return record, nil
}

// UpdateFields edits the supplied fields of reservation id.
func (s *VisitorService) UpdateFields(ctx context.Context, id int64, req dto.VisitorUpdateRequest) (*models.VisitorReservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid visitor payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "visitor reservation not found", "failed to load visitor reservation")
	}

	updated := *existing
	if req.Reason != nil {
		reason := strings.TrimSpace(*req.Reason)
		if reason == "" {
			return nil, invalid(nil, "reason must not be empty")
		}
		updated.Reason = reason
	}
	if err := requirePositiveTotal(req.MealFields, existing.MealValues); err != nil {
		return nil, err
	}
	final, err := s.carryForward(existing.Date, existing.MealValues, req.MealFields, req.RequestedByAdmin)
	if err != nil {
		return nil, err
	}
	updated.MealValues = final
	updated.LastModified = s.now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, storageError(err, "visitor reservation not found", "failed to update visitor reservation")
	}
	s.metrics.RecordReservationSaved(mealPathVisitor, 1)
	s.audit.RecordVisitorChange(ctx, &updated, existing.MealValues)
	return &updated, nil
}

// Delete removes reservation id and records a terminal log entry.
func (s *VisitorService) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storageError(err, "visitor reservation not found", "failed to load visitor reservation")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storageError(err, "visitor reservation not found", "failed to delete visitor reservation")
	}
	s.audit.RecordVisitorDeletion(ctx, existing)
	return nil
}

// List returns one applicant's reservations in range ordered by date.
func (s *VisitorService) List(ctx context.Context, applicantID, start, end string) ([]models.VisitorReservation, error) {
	if applicantID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id is required")
	}
	return s.list(ctx, models.VisitorFilter{ApplicantID: applicantID, Start: start, End: end})
}

// Weekly returns every reservation in range, optionally for one applicant.
func (s *VisitorService) Weekly(ctx context.Context, start, end, applicantID string) ([]models.VisitorReservation, error) {
	return s.list(ctx, models.VisitorFilter{ApplicantID: applicantID, Start: start, End: end})
}

func (s *VisitorService) list(ctx context.Context, filter models.VisitorFilter) ([]models.VisitorReservation, error) {
	if err := checkRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list visitor reservations")
	}
	if rows == nil {
		rows = []models.VisitorReservation{}
	}
	return rows, nil
}

// Check reports whether the key is already booked.
func (s *VisitorService) Check(ctx context.Context, applicantID, date, rawType string) (*dto.VisitorCheckResponse, error) {
	if applicantID == "" || date == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "id and date are required")
	}
	if _, err := s.policy.ParseDate(date); err != nil {
		return nil, err
	}
	vtype := models.AffiliationVisitor
	if rawType != "" {
		parsed, ok := models.ParseAffiliation(rawType)
		if !ok || !models.ValidVisitorType(parsed) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "type must be VISITOR or CONTRACTOR")
		}
		vtype = parsed
	}
	existing, err := s.repo.FindByKey(ctx, applicantID, date, vtype)
	if errors.Is(err, sql.ErrNoRows) {
		return &dto.VisitorCheckResponse{Exists: false}, nil
	}
	if err != nil {
		return nil, internalError(err, "failed to load visitor reservation")
	}
	values := existing.MealValues
	return &dto.VisitorCheckResponse{Exists: true, Record: &values}, nil
}

// carryForward overlays supplied values on base, keeping base for every slot
// that is locked for the caller's role.
func (s *VisitorService) carryForward(date string, base models.MealValues, fields dto.MealFields, isAdmin bool) (models.MealValues, error) {
	out := base
	now := s.now()
	for _, slot := range models.MealSlots {
		requested := fields.Get(slot)
		if requested == nil {
			continue
		}
		locked, err := s.policy.IsLocked(slot, date, now, isAdmin)
		if err != nil {
			return models.MealValues{}, err
		}
		if locked {
			if *requested != base.Get(slot) {
				s.metrics.RecordCarryForward(slot)
				s.logger.Debug("slot locked, keeping stored value",
					zap.String("date", date),
					zap.String("slot", string(slot)),
					zap.Int("requested", *requested),
					zap.Int("kept", base.Get(slot)),
				)
			}
			continue
		}
		out.Set(slot, *requested)
	}
	return out, nil
}

func raisesAny(before, after models.MealValues) bool {
	for _, slot := range models.MealSlots {
		if after.Get(slot) > before.Get(slot) {
			return true
		}
	}
	return false
}

// requirePositiveTotal rejects a request whose supplied meals would leave
// nothing reserved. Requests without meal fields pass.
func requirePositiveTotal(fields dto.MealFields, base models.MealValues) error {
	if !fields.Present() {
		return nil
	}
	if fields.Merge(base).Total() <= 0 {
		return invalid(nil, "at least one meal must be reserved")
	}
	return nil
}
