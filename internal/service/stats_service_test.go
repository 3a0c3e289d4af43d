package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/aggregate"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

type statsRepoStub struct {
	totals   []models.DailyTotal
	meals    []models.EmployeeMealRecord
	visitors []models.VisitorMealRecord
}

func (s statsRepoStub) DailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	out := make([]models.DailyTotal, len(s.totals))
	copy(out, s.totals)
	return out, nil
}

func (s statsRepoStub) EmployeeMealRecords(ctx context.Context, start, end string) ([]models.EmployeeMealRecord, error) {
	return s.meals, nil
}

func (s statsRepoStub) VisitorMealRecords(ctx context.Context, start, end string) ([]models.VisitorMealRecord, error) {
	return s.visitors, nil
}

type rosterStub []models.Employee

func (r rosterStub) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	return r, nil
}

func sampleStatsRepo() statsRepoStub {
	return statsRepoStub{
		totals: []models.DailyTotal{
			{Date: "2025-03-05", MealValues: values(3, 4, 1)},
			{Date: "2025-03-06", MealValues: values(0, 2, 0)},
		},
		meals: []models.EmployeeMealRecord{
			{UserID: "E1", Name: "Kim", Dept: "Ops", Type: models.AffiliationDirect, Region: "EcoCenter", Date: "2025-03-05", MealValues: values(1, 1, 0)},
			{UserID: "E2", Name: "Park", Dept: "Ops", Type: models.AffiliationContractor, Region: "EcoCenter", Date: "2025-03-05", MealValues: values(0, 1, 0)},
		},
		visitors: []models.VisitorMealRecord{
			{ApplicantID: "E1", ApplicantName: "Kim", Name: "Kim", Dept: "Ops", InRoster: true, Type: models.AffiliationVisitor, Date: "2025-03-06", MealValues: values(0, 2, 0)},
			{ApplicantID: "X9", ApplicantName: "Gone", InRoster: false, Type: models.AffiliationVisitor, Date: "2025-03-06", MealValues: values(0, 1, 0)},
		},
	}
}

func TestStatsPeriodAnnotatesWeekdays(t *testing.T) {
	svc := NewStatsService(sampleStatsRepo(), rosterStub{}, nil, StatsServiceConfig{})

	totals, err := svc.Period(context.Background(), "2025-03-05", "2025-03-06")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "수", totals[0].Day)
	assert.Equal(t, "목", totals[1].Day)

	trend, err := svc.Trend(context.Background(), "2025-03-05", "2025-03-06")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-05", "2025-03-06"}, trend.Labels)
	assert.Equal(t, []int{4, 2}, trend.Lunch)
}

func TestStatsDeptSummarySkipsApplicantsOutsideRoster(t *testing.T) {
	svc := NewStatsService(sampleStatsRepo(), rosterStub{}, nil, StatsServiceConfig{})

	rows, err := svc.DeptSummary(context.Background(), "2025-03-03", "2025-03-07")
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	last := rows[len(rows)-1]
	assert.Equal(t, aggregate.RowTotal, last.Kind)
	assert.Equal(t, values(1, 4, 0), last.MealValues)
}

func TestStatsRecordsKeepVisitorsOutsideRoster(t *testing.T) {
	svc := NewStatsService(sampleStatsRepo(), rosterStub{}, nil, StatsServiceConfig{})

	rows, err := svc.Records(context.Background(), "2025-03-03", "2025-03-07")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestStatsPivotCoversEveryDateAndSlot(t *testing.T) {
	roster := rosterStub{
		{ID: "E1", Name: "Kim", Dept: "Ops", Type: models.AffiliationDirect, Region: "EcoCenter"},
		{ID: "E2", Name: "Park", Dept: "Ops", Type: models.AffiliationContractor, Region: "EcoCenter"},
	}
	svc := NewStatsService(sampleStatsRepo(), roster, nil, StatsServiceConfig{PrimaryRegion: "EcoCenter"})

	pivot, err := svc.Pivot(context.Background(), "2025-03-03", "2025-03-07")
	require.NoError(t, err)
	assert.Len(t, pivot.Columns, 15)
	require.NotEmpty(t, pivot.Rows)
	assert.Equal(t, aggregate.RowTotal, pivot.Rows[len(pivot.Rows)-1].Kind)
}

func TestStatsRejectsBadRanges(t *testing.T) {
	svc := NewStatsService(sampleStatsRepo(), rosterStub{}, nil, StatsServiceConfig{})

	_, err := svc.Period(context.Background(), "2025-03-07", "2025-03-03")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.WeeklyRoster(context.Background(), "2024-01-01", "2025-06-30")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
