package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

// LogRepository appends and reads the reservation change logs. Rows are
// never updated or deleted.
type LogRepository struct {
	db *sqlx.DB
}

// NewLogRepository constructs the repository.
func NewLogRepository(db *sqlx.DB) *LogRepository {
	return &LogRepository{db: db}
}

// InsertMealLogs appends employee slot transitions in one transaction.
func (r *LogRepository) InsertMealLogs(ctx context.Context, entries []models.MealChangeLog) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin meal log tx: %w", err)
	}
	const query = `INSERT INTO meal_logs (emp_id, date, meal_type, before_status, after_status, changed_at)
VALUES (:emp_id, :date, :meal_type, :before_status, :after_status, :changed_at)`
	for i := range entries {
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert meal log: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit meal log tx: %w", err)
	}
	return nil
}

// InsertVisitorLog appends one visitor reservation snapshot.
func (r *LogRepository) InsertVisitorLog(ctx context.Context, entry *models.VisitorChangeLog) error {
	query := r.db.Rebind(`INSERT INTO visitor_logs (applicant_id, applicant_name, date, reason, type,
    before_breakfast, before_lunch, before_dinner, breakfast, lunch, dinner, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		entry.ApplicantID, entry.ApplicantName, entry.Date, entry.Reason, entry.Type,
		entry.BeforeBreakfast, entry.BeforeLunch, entry.BeforeDinner,
		entry.Breakfast, entry.Lunch, entry.Dinner, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert visitor log: %w", err)
	}
	return nil
}

// ListMealLogs returns employee log rows joined with the roster, ordered by
// date, slot, department, name and most recent change first.
func (r *LogRepository) ListMealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error) {
	conditions, args := dateConditions("l.date", filter)
	if filter.Name != "" {
		conditions = append(conditions, "e.name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Dept != "" {
		conditions = append(conditions, "e.dept LIKE ?")
		args = append(args, "%"+filter.Dept+"%")
	}
	query := `SELECT l.id, l.emp_id, l.date, l.meal_type, l.before_status, l.after_status, l.changed_at, e.name, e.dept
FROM meal_logs l
JOIN employees e ON e.id = l.emp_id` + where(conditions) + `
ORDER BY l.date ASC,
         CASE l.meal_type WHEN 'breakfast' THEN 1 WHEN 'lunch' THEN 2 WHEN 'dinner' THEN 3 ELSE 4 END,
         e.dept ASC, e.name ASC, l.changed_at DESC`

	var rows []models.MealChangeLogView
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	return rows, nil
}

// ListVisitorLogs returns visitor log rows with the applicant's current
// department, blank when the applicant left the roster.
func (r *LogRepository) ListVisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error) {
	conditions, args := dateConditions("l.date", filter)
	if filter.Name != "" {
		conditions = append(conditions, "l.applicant_name LIKE ?")
		args = append(args, "%"+filter.Name+"%")
	}
	if filter.Dept != "" {
		conditions = append(conditions, "COALESCE(e.dept, '') LIKE ?")
		args = append(args, "%"+filter.Dept+"%")
	}
	if filter.Type != "" {
		conditions = append(conditions, "l.type = ?")
		args = append(args, filter.Type)
	}
	query := `SELECT l.id, l.applicant_id, l.applicant_name, l.date, l.reason, l.type,
       l.before_breakfast, l.before_lunch, l.before_dinner, l.breakfast, l.lunch, l.dinner, l.updated_at,
       COALESCE(e.dept, '') AS dept
FROM visitor_logs l
LEFT JOIN employees e ON e.id = l.applicant_id` + where(conditions) + `
ORDER BY l.date ASC, COALESCE(e.dept, '') ASC, l.applicant_name ASC, l.updated_at DESC`

	var rows []models.VisitorChangeLogView
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list visitor logs: %w", err)
	}
	return rows, nil
}

func dateConditions(column string, filter models.LogFilter) ([]string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Start != "" {
		conditions = append(conditions, column+" >= ?")
		args = append(args, filter.Start)
	}
	if filter.End != "" {
		conditions = append(conditions, column+" <= ?")
		args = append(args, filter.End)
	}
	return conditions, args
}

func where(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return "\nWHERE " + strings.Join(conditions, " AND ")
}
