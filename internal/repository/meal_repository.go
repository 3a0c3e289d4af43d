package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

const mealColumns = `id, user_id, date, breakfast, lunch, dinner, created_at, updated_at`

// MealRepository persists employee meal reservations.
type MealRepository struct {
	db *sqlx.DB
}

// NewMealRepository constructs the repository.
func NewMealRepository(db *sqlx.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Get returns the reservation of one employee on one date.
func (r *MealRepository) Get(ctx context.Context, userID, date string) (*models.MealReservation, error) {
	query := r.db.Rebind("SELECT " + mealColumns + " FROM meals WHERE user_id = ? AND date = ?")
	var m models.MealReservation
	if err := r.db.GetContext(ctx, &m, query, userID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get meal reservation: %w", err)
	}
	return &m, nil
}

// Upsert writes all three slots of a reservation. An existing row keeps its
// creation timestamp.
func (r *MealRepository) Upsert(ctx context.Context, m *models.MealReservation) error {
	const query = `INSERT INTO meals (user_id, date, breakfast, lunch, dinner, created_at, updated_at)
VALUES (:user_id, :date, :breakfast, :lunch, :dinner, :created_at, :updated_at)
ON CONFLICT (user_id, date)
DO UPDATE SET breakfast = excluded.breakfast, lunch = excluded.lunch, dinner = excluded.dinner,
              updated_at = excluded.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return classify("upsert meal reservation", err)
	}
	return nil
}

// Replace deletes the reservation for (user, date) and inserts m in its
// place within one transaction. It returns the deleted row, or nil when
// there was none. The original creation timestamp survives the rewrite.
func (r *MealRepository) Replace(ctx context.Context, m *models.MealReservation) (*models.MealReservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace meal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var previous *models.MealReservation
	var existing models.MealReservation
	err = tx.GetContext(ctx, &existing, tx.Rebind("SELECT "+mealColumns+" FROM meals WHERE user_id = ? AND date = ?"), m.UserID, m.Date)
	switch {
	case err == nil:
		previous = &existing
		m.CreatedAt = existing.CreatedAt
	case err == sql.ErrNoRows:
	default:
		return nil, fmt.Errorf("load meal reservation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM meals WHERE user_id = ? AND date = ?`), m.UserID, m.Date); err != nil {
		return nil, fmt.Errorf("delete meal reservation: %w", err)
	}
	const insert = `INSERT INTO meals (user_id, date, breakfast, lunch, dinner, created_at, updated_at)
VALUES (:user_id, :date, :breakfast, :lunch, :dinner, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insert, m); err != nil {
		return nil, classify("insert meal reservation", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace meal tx: %w", err)
	}
	return previous, nil
}

// ListByUser returns one employee's reservations in [start, end] joined
// with the roster entry.
func (r *MealRepository) ListByUser(ctx context.Context, userID, start, end string) ([]models.MealReservationView, error) {
	query := r.db.Rebind(`SELECT m.user_id, e.name, e.dept, e.rank, m.date, m.breakfast, m.lunch, m.dinner
FROM meals m
JOIN employees e ON e.id = m.user_id
WHERE m.user_id = ? AND m.date BETWEEN ? AND ?
ORDER BY m.date ASC`)
	var rows []models.MealReservationView
	if err := r.db.SelectContext(ctx, &rows, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("list meals by user: %w", err)
	}
	return rows, nil
}

// AdminList returns reservations in [start, end] ordered by department,
// name and date. ModeAll lists every Direct employee, zero-filled and with
// a nil date when nothing was reserved; ModeApply only existing rows.
func (r *MealRepository) AdminList(ctx context.Context, start, end string, mode models.AdminMealMode) ([]models.MealReservationView, error) {
	var (
		query string
		args  []interface{}
	)
	if mode == models.AdminMealModeAll {
		query = `SELECT e.id AS user_id, e.name, e.dept, e.rank, m.date,
       COALESCE(m.breakfast, 0) AS breakfast, COALESCE(m.lunch, 0) AS lunch, COALESCE(m.dinner, 0) AS dinner
FROM employees e
LEFT JOIN meals m ON m.user_id = e.id AND m.date BETWEEN ? AND ?
WHERE e.type = ?
ORDER BY e.dept ASC, e.name ASC, m.date ASC`
		args = []interface{}{start, end, models.AffiliationDirect}
	} else {
		query = `SELECT m.user_id, e.name, e.dept, e.rank, m.date, m.breakfast, m.lunch, m.dinner
FROM meals m
JOIN employees e ON e.id = m.user_id
WHERE m.date BETWEEN ? AND ?
ORDER BY e.dept ASC, e.name ASC, m.date ASC`
		args = []interface{}{start, end}
	}
	var rows []models.MealReservationView
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("admin list meals: %w", err)
	}
	return rows, nil
}
