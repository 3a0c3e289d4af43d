package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/aggregate"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

// maxReportDays bounds the per-date views, which allocate one column per day.
const maxReportDays = 366

type statsRepository interface {
	DailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error)
	EmployeeMealRecords(ctx context.Context, start, end string) ([]models.EmployeeMealRecord, error)
	VisitorMealRecords(ctx context.Context, start, end string) ([]models.VisitorMealRecord, error)
}

type rosterReader interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
}

// WeeklyRosterView is the named roster over a date range.
type WeeklyRosterView struct {
	Dates   []string           `json:"dates"`
	Buckets []aggregate.Bucket `json:"buckets"`
}

// StatsServiceConfig tunes aggregation.
type StatsServiceConfig struct {
	PrimaryRegion string
}

// StatsService reads reservations and the roster to build report structures.
// Each report issues several queries without a wrapping transaction.
type StatsService struct {
	repo   statsRepository
	roster rosterReader
	logger *zap.Logger
	cfg    StatsServiceConfig
}

// NewStatsService constructs a StatsService.
func NewStatsService(repo statsRepository, roster rosterReader, logger *zap.Logger, cfg StatsServiceConfig) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, roster: roster, logger: logger, cfg: cfg}
}

// Period returns combined daily totals annotated with weekday labels.
func (s *StatsService) Period(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	totals, err := s.repo.DailyTotals(ctx, start, end)
	if err != nil {
		return nil, internalError(err, "failed to load daily totals")
	}
	if totals == nil {
		totals = []models.DailyTotal{}
	}
	if err := aggregate.AnnotateWeekdays(totals); err != nil {
		return nil, internalError(err, "failed to annotate daily totals")
	}
	return totals, nil
}

// Trend returns daily totals as chart series.
func (s *StatsService) Trend(ctx context.Context, start, end string) (models.WeekTrend, error) {
	totals, err := s.Period(ctx, start, end)
	if err != nil {
		return models.WeekTrend{}, err
	}
	return aggregate.Trend(totals), nil
}

// DeptSummary groups reservations by department and affiliation.
func (s *StatsService) DeptSummary(ctx context.Context, start, end string) ([]aggregate.SummaryRow, error) {
	meals, visitors, err := s.records(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.DepartmentSummary(aggregate.SummaryEntries(meals, visitors)), nil
}

// WeeklyRoster lists who eats what per department and day.
func (s *StatsService) WeeklyRoster(ctx context.Context, start, end string) (*WeeklyRosterView, error) {
	dates, err := reportDates(start, end)
	if err != nil {
		return nil, err
	}
	members, err := s.roster.List(ctx, models.EmployeeFilter{})
	if err != nil {
		return nil, internalError(err, "failed to load roster")
	}
	meals, visitors, err := s.records(ctx, start, end)
	if err != nil {
		return nil, err
	}
	buckets := aggregate.WeeklyRoster(aggregate.RosterInput{
		Members:       members,
		Meals:         meals,
		Visitors:      visitors,
		PrimaryRegion: s.cfg.PrimaryRegion,
	})
	if buckets == nil {
		buckets = []aggregate.Bucket{}
	}
	return &WeeklyRosterView{Dates: dates, Buckets: buckets}, nil
}

// Pivot flattens the weekly roster into a (bucket × date, slot) grid.
func (s *StatsService) Pivot(ctx context.Context, start, end string) (aggregate.Pivot, error) {
	view, err := s.WeeklyRoster(ctx, start, end)
	if err != nil {
		return aggregate.Pivot{}, err
	}
	return aggregate.BuildPivot(view.Buckets, view.Dates), nil
}

// Records lists one row per booked slot for the raw export.
func (s *StatsService) Records(ctx context.Context, start, end string) ([]aggregate.MealRecordRow, error) {
	meals, visitors, err := s.records(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return aggregate.FlattenRecords(meals, visitors), nil
}

func (s *StatsService) records(ctx context.Context, start, end string) ([]models.EmployeeMealRecord, []models.VisitorMealRecord, error) {
	if err := checkRange(start, end); err != nil {
		return nil, nil, err
	}
	meals, err := s.repo.EmployeeMealRecords(ctx, start, end)
	if err != nil {
		return nil, nil, internalError(err, "failed to load meal records")
	}
	visitors, err := s.repo.VisitorMealRecords(ctx, start, end)
	if err != nil {
		return nil, nil, internalError(err, "failed to load visitor records")
	}
	return meals, visitors, nil
}

func reportDates(start, end string) ([]string, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	dates, err := aggregate.DateRange(start, end)
	if err != nil {
		return nil, invalid(err, "invalid date range")
	}
	if len(dates) > maxReportDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range must not exceed one year")
	}
	return dates, nil
}
