package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestStatsRepositoryDailyTotalsSumBothSources(t *testing.T) {
	db := newSQLiteDB(t)
	seedEmployees(t, db, models.Employee{ID: "1", Name: "가", Dept: "A", Type: models.AffiliationDirect, Region: "EcoCenter"})
	ctx := context.Background()

	meals := NewMealRepository(db)
	visitors := NewVisitorRepository(db)
	for _, m := range []*models.MealReservation{
		{UserID: "1", Date: "2025-03-04", MealValues: mv(1, 1, 0)},
		{UserID: "2", Date: "2025-03-04", MealValues: mv(0, 1, 1)},
		{UserID: "1", Date: "2025-03-05", MealValues: mv(0, 0, 1)},
	} {
		m.CreatedAt, m.UpdatedAt = fixedNow, fixedNow
		require.NoError(t, meals.Upsert(ctx, m))
	}
	require.NoError(t, visitors.Save(ctx, newVisitor("1", "2025-03-04", models.AffiliationVisitor, mv(0, 3, 0))))
	require.NoError(t, visitors.Save(ctx, newVisitor("9", "2025-03-05", models.AffiliationContractor, mv(2, 0, 0))))

	repo := NewStatsRepository(db)
	totals, err := repo.DailyTotals(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "2025-03-04", totals[0].Date)
	assert.Equal(t, mv(1, 5, 1), totals[0].MealValues)
	assert.Equal(t, mv(2, 0, 1), totals[1].MealValues)

	records, err := repo.EmployeeMealRecords(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, records, 2, "reservations without roster entry are excluded")
	assert.Equal(t, "EcoCenter", records[0].Region)

	vrecords, err := repo.VisitorMealRecords(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, vrecords, 2)
	assert.True(t, vrecords[0].InRoster)
	assert.Equal(t, "A", vrecords[0].Dept)
	assert.False(t, vrecords[1].InRoster)
	assert.Equal(t, "홍길동", vrecords[1].DisplayName())
}
