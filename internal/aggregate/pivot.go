package aggregate

import "github.com/noah-isme/meal-reservation-api/internal/models"

// PivotColumn is one (date, slot) cell header.
type PivotColumn struct {
	Date string
	Slot models.MealSlot
}

// PivotRow holds headcounts of one bucket or total line.
type PivotRow struct {
	Label     string
	Type      models.Affiliation
	Kind      RowKind
	Headcount int
	Cells     []int
	Total     int
}

// Pivot is the weekly roster flattened to a grid.
type Pivot struct {
	Columns []PivotColumn
	Rows    []PivotRow
}

// BuildPivot lays buckets out as rows against every (date, slot) in dates.
// Each affiliation tier present is closed by a subtotal, and the grid ends
// with a grand total row.
func BuildPivot(buckets []Bucket, dates []string) Pivot {
	columns := make([]PivotColumn, 0, len(dates)*len(models.MealSlots))
	for _, date := range dates {
		for _, slot := range models.MealSlots {
			columns = append(columns, PivotColumn{Date: date, Slot: slot})
		}
	}

	newRow := func(label string, t models.Affiliation, kind RowKind) PivotRow {
		return PivotRow{Label: label, Type: t, Kind: kind, Cells: make([]int, len(columns))}
	}
	accumulate := func(dst *PivotRow, src PivotRow) {
		dst.Headcount += src.Headcount
		for i, c := range src.Cells {
			dst.Cells[i] += c
		}
		dst.Total += src.Total
	}

	var rows []PivotRow
	grand := newRow(grandTotalLabel, "", RowTotal)
	var subtotal *PivotRow
	flush := func() {
		if subtotal != nil {
			rows = append(rows, *subtotal)
			accumulate(&grand, *subtotal)
			subtotal = nil
		}
	}

	for _, b := range buckets {
		if subtotal != nil && subtotal.Type != b.Type {
			flush()
		}
		if subtotal == nil {
			st := newRow(b.Type.Label()+" 소계", b.Type, RowSubtotal)
			subtotal = &st
		}
		row := newRow(b.DisplayDept, b.Type, RowGroup)
		row.Headcount = b.Total
		for i, col := range columns {
			if day, ok := b.Days[col.Date]; ok {
				row.Cells[i] = day.Count.Get(col.Slot)
				row.Total += row.Cells[i]
			}
		}
		rows = append(rows, row)
		accumulate(subtotal, row)
	}
	flush()
	rows = append(rows, grand)
	return Pivot{Columns: columns, Rows: rows}
}
