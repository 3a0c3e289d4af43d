package aggregate

import (
	"sort"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// MealRecordRow is one eaten meal of one person, the unit of the raw
// weekly export.
type MealRecordRow struct {
	Type models.Affiliation
	Date string
	Name string
	Dept string
	Slot models.MealSlot
}

// FlattenRecords expands reservations into one row per booked slot, ordered
// by date, department, name and slot. Visitor bookings use the name captured
// at booking time and keep rows whose applicant left the roster.
func FlattenRecords(meals []models.EmployeeMealRecord, visitors []models.VisitorMealRecord) []MealRecordRow {
	var rows []MealRecordRow
	for _, m := range meals {
		for _, slot := range models.MealSlots {
			if m.Get(slot) > 0 {
				rows = append(rows, MealRecordRow{Type: m.Type, Date: m.Date, Name: m.Name, Dept: m.Dept, Slot: slot})
			}
		}
	}
	for _, v := range visitors {
		for _, slot := range models.MealSlots {
			if v.Get(slot) > 0 {
				rows = append(rows, MealRecordRow{Type: v.Type, Date: v.Date, Name: v.ApplicantName, Dept: v.Dept, Slot: slot})
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Dept != b.Dept {
			return a.Dept < b.Dept
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Slot.Rank() < b.Slot.Rank()
	})
	return rows
}
