package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/deadline"
	"github.com/noah-isme/meal-reservation-api/internal/models"
)

type auditLogRepository interface {
	InsertMealLogs(ctx context.Context, entries []models.MealChangeLog) error
	InsertVisitorLog(ctx context.Context, entry *models.VisitorChangeLog) error
	ListMealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error)
	ListVisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error)
}

// AuditService appends change log rows for reservations dated in the current
// working week and serves the log views.
type AuditService struct {
	repo    auditLogRepository
	policy  *deadline.Policy
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditLogRepository, policy *deadline.Policy, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, policy: policy, metrics: metrics, logger: logger, now: time.Now}
}

func (s *AuditService) inWindow(date string) bool {
	ok, err := s.policy.InCurrentWeek(date, s.now())
	if err != nil {
		s.logger.Warn("audit window check failed", zap.String("date", date), zap.Error(err))
		return false
	}
	return ok
}

// RecordMealChange writes one row per changed slot and returns how many rows
// were written. Failures are logged; the reservation is already stored.
func (s *AuditService) RecordMealChange(ctx context.Context, userID, date string, before, after models.MealValues) int {
	changed := before.ChangedSlots(after)
	if len(changed) == 0 || !s.inWindow(date) {
		return 0
	}
	at := s.now().UTC()
	entries := make([]models.MealChangeLog, 0, len(changed))
	for _, slot := range changed {
		entries = append(entries, models.MealChangeLog{
			EmpID:        userID,
			Date:         date,
			MealType:     slot,
			BeforeStatus: before.Get(slot),
			AfterStatus:  after.Get(slot),
			ChangedAt:    at,
		})
	}
	if err := s.repo.InsertMealLogs(ctx, entries); err != nil {
		s.logger.Error("failed to write meal change log", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return 0
	}
	s.metrics.RecordAuditEntries("meal_logs", len(entries))
	return len(entries)
}

// RecordVisitorChange snapshots the whole triple when any slot differs.
func (s *AuditService) RecordVisitorChange(ctx context.Context, after *models.VisitorReservation, before models.MealValues) bool {
	if after == nil || len(before.ChangedSlots(after.MealValues)) == 0 || !s.inWindow(after.Date) {
		return false
	}
	entry := visitorLogEntry(after, before, s.now().UTC())
	entry.Breakfast = models.Qty(after.Breakfast)
	entry.Lunch = models.Qty(after.Lunch)
	entry.Dinner = models.Qty(after.Dinner)
	return s.writeVisitorLog(ctx, entry)
}

// RecordVisitorDeletion writes the terminal entry of a removed reservation.
func (s *AuditService) RecordVisitorDeletion(ctx context.Context, removed *models.VisitorReservation) bool {
	if removed == nil || !s.inWindow(removed.Date) {
		return false
	}
	entry := visitorLogEntry(removed, removed.MealValues, s.now().UTC())
	entry.Breakfast = models.DeletedValue
	entry.Lunch = models.DeletedValue
	entry.Dinner = models.DeletedValue
	return s.writeVisitorLog(ctx, entry)
}

func visitorLogEntry(v *models.VisitorReservation, before models.MealValues, at time.Time) *models.VisitorChangeLog {
	return &models.VisitorChangeLog{
		ApplicantID:     v.ApplicantID,
		ApplicantName:   v.ApplicantName,
		Date:            v.Date,
		Reason:          v.Reason,
		Type:            v.Type,
		BeforeBreakfast: before.Breakfast,
		BeforeLunch:     before.Lunch,
		BeforeDinner:    before.Dinner,
		UpdatedAt:       at,
	}
}

func (s *AuditService) writeVisitorLog(ctx context.Context, entry *models.VisitorChangeLog) bool {
	if err := s.repo.InsertVisitorLog(ctx, entry); err != nil {
		s.logger.Error("failed to write visitor change log",
			zap.String("applicant_id", entry.ApplicantID),
			zap.String("date", entry.Date),
			zap.Error(err),
		)
		return false
	}
	s.metrics.RecordAuditEntries("visitor_logs", 1)
	return true
}

// MealLogs lists employee meal changes matching filter.
func (s *AuditService) MealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error) {
	if err := checkOptionalRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	logs, err := s.repo.ListMealLogs(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list meal logs")
	}
	return logs, nil
}

// VisitorLogs lists visitor reservation changes matching filter.
func (s *AuditService) VisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error) {
	if err := checkOptionalRange(filter.Start, filter.End); err != nil {
		return nil, err
	}
	if filter.Type != "" && !models.ValidVisitorType(filter.Type) {
		return nil, invalid(nil, "type must be VISITOR or CONTRACTOR")
	}
	logs, err := s.repo.ListVisitorLogs(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list visitor logs")
	}
	return logs, nil
}

// checkOptionalRange validates whichever bounds are present.
func checkOptionalRange(start, end string) error {
	switch {
	case start != "" && end != "":
		return checkRange(start, end)
	case start != "":
		return checkRange(start, start)
	case end != "":
		return checkRange(end, end)
	}
	return nil
}
