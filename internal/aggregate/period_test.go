package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestGroupByISOWeek(t *testing.T) {
	totals := []models.DailyTotal{
		{Date: "2025-03-06", MealValues: mv(3, 4, 1)},
		{Date: "2025-03-07", MealValues: mv(0, 0, 0)},
		{Date: "2025-03-09", MealValues: mv(0, 1, 0)},
		{Date: "2025-03-10", MealValues: mv(2, 2, 2)},
	}
	blocks, sum, err := GroupByISOWeek(totals)
	require.NoError(t, err)

	require.Len(t, blocks, 2)
	assert.Equal(t, "2025-10주차", blocks[0].Key)
	require.Len(t, blocks[0].Days, 2)
	assert.Equal(t, "목", blocks[0].Days[0].Day)
	assert.Equal(t, "일", blocks[0].Days[1].Day)
	assert.Equal(t, "2025-11주차", blocks[1].Key)
	assert.Equal(t, mv(5, 7, 3), sum)
}

func TestGroupByISOWeekRejectsBadDate(t *testing.T) {
	_, _, err := GroupByISOWeek([]models.DailyTotal{{Date: "x", MealValues: mv(1, 0, 0)}})
	require.Error(t, err)
}

func TestAnnotateWeekdaysAndTrend(t *testing.T) {
	totals := []models.DailyTotal{
		{Date: "2025-03-03", MealValues: mv(1, 2, 3)},
		{Date: "2025-03-04", MealValues: mv(4, 5, 6)},
	}
	require.NoError(t, AnnotateWeekdays(totals))
	assert.Equal(t, "월", totals[0].Day)
	assert.Equal(t, "화", totals[1].Day)

	trend := Trend(totals)
	assert.Equal(t, []string{"2025-03-03", "2025-03-04"}, trend.Labels)
	assert.Equal(t, []int{1, 4}, trend.Breakfast)
	assert.Equal(t, []int{2, 5}, trend.Lunch)
	assert.Equal(t, []int{3, 6}, trend.Dinner)
}

func TestTrendOfNothingIsEmptySeries(t *testing.T) {
	trend := Trend(nil)
	assert.NotNil(t, trend.Labels)
	assert.Empty(t, trend.Labels)
}
