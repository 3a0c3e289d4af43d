package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// SelfCheckRepository persists attestation rows.
type SelfCheckRepository struct {
	db *sqlx.DB
}

// NewSelfCheckRepository constructs the repository.
func NewSelfCheckRepository(db *sqlx.DB) *SelfCheckRepository {
	return &SelfCheckRepository{db: db}
}

// Get returns the attestation of one employee on one date.
func (r *SelfCheckRepository) Get(ctx context.Context, userID, date string) (*models.SelfCheck, error) {
	query := r.db.Rebind(`SELECT id, user_id, date, checked, created_at, updated_at FROM selfchecks WHERE user_id = ? AND date = ?`)
	var sc models.SelfCheck
	if err := r.db.GetContext(ctx, &sc, query, userID, date); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get selfcheck: %w", err)
	}
	return &sc, nil
}

// Upsert stores the checked flag. The first write fixes created_at; later
// writes keep it unless force is set.
func (r *SelfCheckRepository) Upsert(ctx context.Context, sc *models.SelfCheck, force bool) error {
	query := `INSERT INTO selfchecks (user_id, date, checked, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, date)
DO UPDATE SET checked = excluded.checked, updated_at = excluded.updated_at`
	if force {
		query += `, created_at = excluded.created_at`
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), sc.UserID, sc.Date, boolToInt(sc.Checked), sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return classify("upsert selfcheck", err)
	}
	return nil
}

// Summary returns every roster member with the highest checked flag seen in
// [start, end], zero when none.
func (r *SelfCheckRepository) Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error) {
	query := r.db.Rebind(`SELECT e.id AS user_id, e.name, e.dept, e.type, COALESCE(MAX(s.checked), 0) AS checked
FROM employees e
LEFT JOIN selfchecks s ON s.user_id = e.id AND s.date BETWEEN ? AND ?
GROUP BY e.id, e.name, e.dept, e.type
ORDER BY e.dept ASC, e.name ASC`)
	var rows []models.SelfCheckSummary
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("selfcheck summary: %w", err)
	}
	return rows, nil
}
