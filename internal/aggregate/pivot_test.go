package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestBuildPivot(t *testing.T) {
	in := rosterFixture()
	in.Meals = []models.EmployeeMealRecord{
		{UserID: "1", Name: "김철수", Dept: "생산팀", Type: models.AffiliationDirect, Region: primary, Date: "2025-03-04", MealValues: mv(1, 1, 0)},
		{UserID: "2", Name: "이영희", Dept: "생산팀", Type: models.AffiliationDirect, Region: primary, Date: "2025-03-04", MealValues: mv(0, 1, 0)},
	}
	in.Visitors = []models.VisitorMealRecord{
		{ApplicantID: "5", Name: "정다은", Dept: "외주팀", InRoster: true, Type: models.AffiliationContractor, Date: "2025-03-05", MealValues: mv(0, 4, 0)},
	}
	buckets := WeeklyRoster(in)
	pivot := BuildPivot(buckets, []string{"2025-03-04", "2025-03-05"})

	require.Len(t, pivot.Columns, 6)
	assert.Equal(t, PivotColumn{Date: "2025-03-05", Slot: models.SlotLunch}, pivot.Columns[4])

	labels := make([]string, len(pivot.Rows))
	for i, r := range pivot.Rows {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"경영팀", "생산팀", "직영 소계", "외주팀", "협력사 소계", "총계"}, labels)

	production := pivot.Rows[1]
	assert.Equal(t, []int{1, 2, 0, 0, 0, 0}, production.Cells)
	assert.Equal(t, 3, production.Total)
	assert.Equal(t, 2, production.Headcount)

	direct := pivot.Rows[2]
	assert.Equal(t, RowSubtotal, direct.Kind)
	assert.Equal(t, 3, direct.Headcount)

	grand := pivot.Rows[len(pivot.Rows)-1]
	assert.Equal(t, RowTotal, grand.Kind)
	assert.Equal(t, []int{1, 2, 0, 0, 4, 0}, grand.Cells)
	assert.Equal(t, 7, grand.Total)
}

func TestBuildPivotWithoutBuckets(t *testing.T) {
	pivot := BuildPivot(nil, []string{"2025-03-04"})
	require.Len(t, pivot.Rows, 1)
	assert.Equal(t, []int{0, 0, 0}, pivot.Rows[0].Cells)
}
