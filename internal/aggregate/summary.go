package aggregate

import (
	"sort"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// RowKind distinguishes data rows from computed total rows.
type RowKind string

const (
	RowGroup    RowKind = "group"
	RowSubtotal RowKind = "subtotal"
	RowTotal    RowKind = "total"
)

const grandTotalLabel = "총계"

// SummaryEntry is one reservation reduced to its grouping keys.
type SummaryEntry struct {
	Dept string
	Type models.Affiliation
	models.MealValues
}

// SummaryRow is one line of the department/type summary.
type SummaryRow struct {
	Dept string             `json:"dept"`
	Type models.Affiliation `json:"type"`
	Kind RowKind            `json:"kind"`
	models.MealValues
	Total int `json:"total"`
}

func newSummaryRow(dept string, t models.Affiliation, kind RowKind, v models.MealValues) SummaryRow {
	return SummaryRow{Dept: dept, Type: t, Kind: kind, MealValues: v, Total: v.Total()}
}

// SummaryEntries flattens employee and visitor records. Employee rows are
// classified by the roster affiliation, visitor rows by the booking type.
// Visitor rows without a roster match are skipped.
func SummaryEntries(meals []models.EmployeeMealRecord, visitors []models.VisitorMealRecord) []SummaryEntry {
	entries := make([]SummaryEntry, 0, len(meals)+len(visitors))
	for _, m := range meals {
		entries = append(entries, SummaryEntry{Dept: m.Dept, Type: m.Type, MealValues: m.MealValues})
	}
	for _, v := range visitors {
		if !v.InRoster {
			continue
		}
		entries = append(entries, SummaryEntry{Dept: v.Dept, Type: v.Type, MealValues: v.MealValues})
	}
	return entries
}

// DepartmentSummary groups entries by (label, affiliation) and lays them out
// tier by tier: Direct, Contractor and Visitor groups each followed by a
// subtotal, then the grand total. Groups are sorted by label within a tier.
// Entries with an unknown affiliation are ignored.
func DepartmentSummary(entries []SummaryEntry) []SummaryRow {
	type key struct {
		dept string
		t    models.Affiliation
	}
	sums := make(map[key]models.MealValues)
	for _, e := range entries {
		if !e.Type.Valid() {
			continue
		}
		k := key{dept: DeptLabel(e.Dept, e.Type), t: e.Type}
		sums[k] = sums[k].Add(e.MealValues)
	}

	tiers := []models.Affiliation{models.AffiliationDirect, models.AffiliationContractor, models.AffiliationVisitor}
	grouped := make(map[models.Affiliation][]SummaryRow, len(tiers))
	for k, v := range sums {
		grouped[k.t] = append(grouped[k.t], newSummaryRow(k.dept, k.t, RowGroup, v))
	}

	var (
		rows  []SummaryRow
		grand models.MealValues
	)
	for _, tier := range tiers {
		group := grouped[tier]
		sort.Slice(group, func(i, j int) bool { return group[i].Dept < group[j].Dept })
		var subtotal models.MealValues
		for _, r := range group {
			subtotal = subtotal.Add(r.MealValues)
		}
		rows = append(rows, group...)
		rows = append(rows, newSummaryRow(tier.Label()+" 소계", tier, RowSubtotal, subtotal))
		grand = grand.Add(subtotal)
	}
	rows = append(rows, newSummaryRow(grandTotalLabel, "", RowTotal, grand))
	return rows
}
