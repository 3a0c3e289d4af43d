package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// HolidayRepository persists the holiday registry.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns holidays of year ordered by date; year 0 lists all.
func (r *HolidayRepository) List(ctx context.Context, year int) ([]models.Holiday, error) {
	query := `SELECT id, date, description FROM holidays`
	var args []interface{}
	if year > 0 {
		query += ` WHERE date LIKE ?`
		args = append(args, fmt.Sprintf("%04d-%%", year))
	}
	query += ` ORDER BY date ASC`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Exists reports whether date is a registered holiday.
func (r *HolidayRepository) Exists(ctx context.Context, date string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(`SELECT COUNT(*) FROM holidays WHERE date = ?`), date); err != nil {
		return false, fmt.Errorf("check holiday: %w", err)
	}
	return count > 0, nil
}

// Create registers a holiday. A taken date yields ErrDuplicate.
func (r *HolidayRepository) Create(ctx context.Context, h *models.Holiday) error {
	query := r.db.Rebind(`INSERT INTO holidays (date, description) VALUES (?, ?) RETURNING id`)
	if err := r.db.QueryRowxContext(ctx, query, h.Date, h.Description).Scan(&h.ID); err != nil {
		return classify("create holiday", err)
	}
	return nil
}

// Delete removes the holiday on date and reports how many rows went away.
func (r *HolidayRepository) Delete(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM holidays WHERE date = ?`), date)
	if err != nil {
		return 0, fmt.Errorf("delete holiday: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete holiday rows affected: %w", err)
	}
	return n, nil
}

// Import upserts a batch of holidays for one year and records the sync in
// holiday_syncs, all in one transaction.
func (r *HolidayRepository) Import(ctx context.Context, year int, source string, holidays []models.Holiday, at time.Time) (*models.HolidaySync, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin holiday import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert := tx.Rebind(`INSERT INTO holidays (date, description) VALUES (?, ?)
ON CONFLICT (date) DO UPDATE SET description = excluded.description`)
	for _, h := range holidays {
		if _, err := tx.ExecContext(ctx, insert, h.Date, h.Description); err != nil {
			return nil, classify("import holiday", err)
		}
	}

	sync := &models.HolidaySync{Year: year, Source: source, Imported: len(holidays), SyncedAt: at}
	const upsertSync = `INSERT INTO holiday_syncs (year, source, imported, synced_at)
VALUES (:year, :source, :imported, :synced_at)
ON CONFLICT (year)
DO UPDATE SET source = excluded.source, imported = excluded.imported, synced_at = excluded.synced_at`
	if _, err := tx.NamedExecContext(ctx, upsertSync, sync); err != nil {
		return nil, fmt.Errorf("record holiday sync: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit holiday import tx: %w", err)
	}
	return sync, nil
}

// LastSync returns the bookkeeping row of year.
func (r *HolidayRepository) LastSync(ctx context.Context, year int) (*models.HolidaySync, error) {
	var sync models.HolidaySync
	query := r.db.Rebind(`SELECT year, source, imported, synced_at FROM holiday_syncs WHERE year = ?`)
	if err := r.db.GetContext(ctx, &sync, query, year); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get holiday sync: %w", err)
	}
	return &sync, nil
}
