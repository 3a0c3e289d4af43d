package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// StatsRepository reads the raw rows behind the reports. Each method is a
// single query; callers combining several accept that writes may land in
// between.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs the repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// DailyTotals sums employee and visitor reservations per date in [start, end].
func (r *StatsRepository) DailyTotals(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	query := r.db.Rebind(`SELECT date, SUM(breakfast) AS breakfast, SUM(lunch) AS lunch, SUM(dinner) AS dinner
FROM (
    SELECT date, breakfast, lunch, dinner FROM meals
    UNION ALL
    SELECT date, breakfast, lunch, dinner FROM visitors
) AS combined
WHERE date BETWEEN ? AND ?
GROUP BY date
ORDER BY date ASC`)
	var rows []models.DailyTotal
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	return rows, nil
}

// EmployeeMealRecords returns employee reservations in range with the
// reserving employee's roster attributes.
func (r *StatsRepository) EmployeeMealRecords(ctx context.Context, start, end string) ([]models.EmployeeMealRecord, error) {
	query := r.db.Rebind(`SELECT m.user_id, e.name, e.dept, e.type, e.region, m.date, m.breakfast, m.lunch, m.dinner
FROM meals m
JOIN employees e ON e.id = m.user_id
WHERE m.date BETWEEN ? AND ?
ORDER BY m.date ASC, e.dept ASC, e.name ASC`)
	var rows []models.EmployeeMealRecord
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("employee meal records: %w", err)
	}
	return rows, nil
}

// VisitorMealRecords returns visitor reservations in range. Applicants no
// longer on the roster come back with InRoster false.
func (r *StatsRepository) VisitorMealRecords(ctx context.Context, start, end string) ([]models.VisitorMealRecord, error) {
	query := r.db.Rebind(`SELECT v.applicant_id, v.applicant_name, COALESCE(e.name, '') AS name, COALESCE(e.dept, '') AS dept,
       CASE WHEN e.id IS NULL THEN 0 ELSE 1 END AS in_roster,
       v.type, v.date, v.breakfast, v.lunch, v.dinner
FROM visitors v
LEFT JOIN employees e ON e.id = v.applicant_id
WHERE v.date BETWEEN ? AND ?
ORDER BY v.date ASC, v.applicant_name ASC`)
	var rows []models.VisitorMealRecord
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("visitor meal records: %w", err)
	}
	return rows, nil
}
