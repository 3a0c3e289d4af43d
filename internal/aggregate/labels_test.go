package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestDeptLabel(t *testing.T) {
	assert.Equal(t, "생산(방문자)", DeptLabel("생산기술팀", models.AffiliationVisitor))
	assert.Equal(t, "QA(방문자)", DeptLabel("QA", models.AffiliationVisitor))
	assert.Equal(t, "생산기술팀", DeptLabel("생산기술팀", models.AffiliationContractor))
	assert.Equal(t, "생산기술팀", DeptLabel("생산기술팀", models.AffiliationDirect))
}

func TestTravelLabelCountsCharactersNotBytes(t *testing.T) {
	assert.Equal(t, "설비보전(출장)", TravelLabel("설비보전1팀"))
	assert.Equal(t, "IT(출장)", TravelLabel("IT"))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, "월", Weekday(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
	day, err := WeekdayOf("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, "일", day)

	_, err = WeekdayOf("2025-3-9")
	require.Error(t, err)
}

func TestDateRange(t *testing.T) {
	dates, err := DateRange("2025-02-27", "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}, dates)

	_, err = DateRange("2025-03-02", "2025-03-01")
	require.Error(t, err)
}
