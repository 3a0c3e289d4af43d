package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

var kst = time.FixedZone("UTC+9", 9*3600)

func newPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(kst, DefaultRules())
	require.NoError(t, err)
	return p
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, kst)
}

func TestIsLocked(t *testing.T) {
	p := newPolicy(t)
	cases := []struct {
		name    string
		slot    models.MealSlot
		date    string
		asOf    time.Time
		isAdmin bool
		locked  bool
	}{
		{"breakfast before prior-day self cut-off", models.SlotBreakfast, "2025-03-05", at(4, 14, 59), false, false},
		{"breakfast exactly at cut-off is open", models.SlotBreakfast, "2025-03-05", at(4, 15, 0), false, false},
		{"breakfast after self cut-off", models.SlotBreakfast, "2025-03-05", at(4, 15, 1), false, true},
		{"breakfast admin still open in the evening", models.SlotBreakfast, "2025-03-05", at(4, 19, 59), true, false},
		{"breakfast admin locked after 20h", models.SlotBreakfast, "2025-03-05", at(4, 20, 1), true, true},
		{"lunch self open at 9h", models.SlotLunch, "2025-03-05", at(5, 9, 0), false, false},
		{"lunch self locked at 10h01", models.SlotLunch, "2025-03-05", at(5, 10, 1), false, true},
		{"lunch admin open at 11h", models.SlotLunch, "2025-03-05", at(5, 11, 0), true, false},
		{"dinner admin locked after 17h", models.SlotDinner, "2025-03-05", at(5, 17, 1), true, true},
		{"future date never locked", models.SlotDinner, "2025-03-20", at(5, 23, 0), false, false},
		{"past date always locked", models.SlotLunch, "2025-03-01", at(5, 0, 0), true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			locked, err := p.IsLocked(tc.slot, tc.date, tc.asOf, tc.isAdmin)
			require.NoError(t, err)
			assert.Equal(t, tc.locked, locked)
		})
	}
}

func TestIsLockedUsesOrganisationTimezone(t *testing.T) {
	p := newPolicy(t)
	// 00:30 UTC is 09:30 in UTC+9, before the lunch cut-off
	asOf := time.Date(2025, 3, 5, 0, 30, 0, 0, time.UTC)
	locked, err := p.IsLocked(models.SlotLunch, "2025-03-05", asOf, false)
	require.NoError(t, err)
	assert.False(t, locked)

	// 01:30 UTC is 10:30 in UTC+9
	locked, err = p.IsLocked(models.SlotLunch, "2025-03-05", asOf.Add(time.Hour), false)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestIsLockedRejectsMalformedDate(t *testing.T) {
	p := newPolicy(t)
	for _, raw := range []string{"", "2025/03/05", "2025-02-30", "tomorrow"} {
		_, err := p.IsLocked(models.SlotLunch, raw, at(5, 0, 0), false)
		require.Error(t, err, raw)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), raw)
	}
}

func TestIsLockedRejectsUnknownSlot(t *testing.T) {
	p := newPolicy(t)
	_, err := p.IsLocked(models.MealSlot("brunch"), "2025-03-05", at(5, 0, 0), false)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAdminDeadlineNeverPrecedesSelf(t *testing.T) {
	p := newPolicy(t)
	for _, slot := range models.MealSlots {
		self, err := p.Deadline(slot, "2025-03-05", false)
		require.NoError(t, err)
		admin, err := p.Deadline(slot, "2025-03-05", true)
		require.NoError(t, err)
		assert.False(t, admin.Before(self), slot)
	}
}

func TestNewPolicyValidatesRules(t *testing.T) {
	rules := DefaultRules()
	rules[models.SlotLunch] = Rule{SelfHour: 12, AdminHour: 10}
	_, err := NewPolicy(kst, rules)
	require.Error(t, err)

	delete(rules, models.SlotLunch)
	_, err = NewPolicy(kst, rules)
	require.Error(t, err)

	_, err = NewPolicy(nil, DefaultRules())
	require.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	p, err := FromConfig(config.OrgConfig{UTCOffsetHours: 9}, config.DeadlineConfig{
		Breakfast: config.SlotDeadline{DayOffset: -1, SelfHour: 14, AdminHour: 21},
		Lunch:     config.SlotDeadline{SelfHour: 10, AdminHour: 12},
		Dinner:    config.SlotDeadline{SelfHour: 15, AdminHour: 17},
	})
	require.NoError(t, err)
	d, err := p.Deadline(models.SlotBreakfast, "2025-03-05", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 21, 0, 0, 0, kst).Unix(), d.Unix())
}

func TestLockedSlots(t *testing.T) {
	p := newPolicy(t)
	locked, err := p.LockedSlots("2025-03-05", at(5, 11, 0), false)
	require.NoError(t, err)
	assert.Equal(t, map[models.MealSlot]bool{
		models.SlotBreakfast: true,
		models.SlotLunch:     true,
		models.SlotDinner:    false,
	}, locked)
}
