package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

const visitorColumns = `id, applicant_id, applicant_name, date, type, breakfast, lunch, dinner, reason, created_at, last_modified`

// VisitorRepository persists visitor and contractor reservations.
type VisitorRepository struct {
	db *sqlx.DB
}

// NewVisitorRepository constructs the repository.
func NewVisitorRepository(db *sqlx.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

// FindByID returns a reservation by its surrogate id.
func (r *VisitorRepository) FindByID(ctx context.Context, id int64) (*models.VisitorReservation, error) {
	query := r.db.Rebind("SELECT " + visitorColumns + " FROM visitors WHERE id = ?")
	var v models.VisitorReservation
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find visitor reservation: %w", err)
	}
	return &v, nil
}

// FindByKey returns the reservation identified by (applicant, date, type).
func (r *VisitorRepository) FindByKey(ctx context.Context, applicantID, date string, t models.Affiliation) (*models.VisitorReservation, error) {
	query := r.db.Rebind("SELECT " + visitorColumns + " FROM visitors WHERE applicant_id = ? AND date = ? AND type = ?")
	var v models.VisitorReservation
	if err := r.db.GetContext(ctx, &v, query, applicantID, date, t); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find visitor reservation by key: %w", err)
	}
	return &v, nil
}

// Save upserts by (applicant, date, type) and sets v.ID. An existing row
// keeps its creation timestamp.
func (r *VisitorRepository) Save(ctx context.Context, v *models.VisitorReservation) error {
	query := r.db.Rebind(`INSERT INTO visitors (applicant_id, applicant_name, date, type, breakfast, lunch, dinner, reason, created_at, last_modified)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (applicant_id, date, type)
DO UPDATE SET applicant_name = excluded.applicant_name, breakfast = excluded.breakfast, lunch = excluded.lunch,
              dinner = excluded.dinner, reason = excluded.reason, last_modified = excluded.last_modified
RETURNING id`)
	err := r.db.QueryRowxContext(ctx, query,
		v.ApplicantID, v.ApplicantName, v.Date, v.Type, v.Breakfast, v.Lunch, v.Dinner, v.Reason, v.CreatedAt, v.LastModified,
	).Scan(&v.ID)
	if err != nil {
		return classify("save visitor reservation", err)
	}
	return nil
}

// Update overwrites meal quantities and reason of the row with v.ID.
func (r *VisitorRepository) Update(ctx context.Context, v *models.VisitorReservation) error {
	const query = `UPDATE visitors SET breakfast = :breakfast, lunch = :lunch, dinner = :dinner, reason = :reason,
       last_modified = :last_modified
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return classify("update visitor reservation", err)
	}
	return requireAffected(res, "update visitor reservation")
}

// Delete removes the row with id.
func (r *VisitorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM visitors WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete visitor reservation: %w", err)
	}
	return requireAffected(res, "delete visitor reservation")
}

// List returns reservations ordered by date, then id.
func (r *VisitorRepository) List(ctx context.Context, filter models.VisitorFilter) ([]models.VisitorReservation, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.ApplicantID != "" {
		conditions = append(conditions, "applicant_id = ?")
		args = append(args, filter.ApplicantID)
	}
	if filter.Start != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.End)
	}
	query := "SELECT " + visitorColumns + " FROM visitors"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC, id ASC"

	var rows []models.VisitorReservation
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list visitor reservations: %w", err)
	}
	return rows, nil
}
