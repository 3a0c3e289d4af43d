package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

const employeeColumns = `id, name, type, dept, rank, region, level`

// EmployeeRepository provides database access for the roster.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new instance of EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns roster entries ordered by department and name.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Name != "" {
		conditions = append(conditions, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	query := "SELECT " + employeeColumns + " FROM employees"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY dept ASC, name ASC, id ASC"

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// FindByID returns a roster entry by identifier.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := r.db.Rebind("SELECT " + employeeColumns + " FROM employees WHERE id = ?")
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find employee by id: %w", err)
	}
	return &emp, nil
}

// FindByIDAndName matches an identifier and name pair.
func (r *EmployeeRepository) FindByIDAndName(ctx context.Context, id, name string) (*models.Employee, error) {
	query := r.db.Rebind("SELECT " + employeeColumns + " FROM employees WHERE id = ? AND name = ?")
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find employee by id and name: %w", err)
	}
	return &emp, nil
}

// Create inserts a roster entry. A taken id yields ErrDuplicate.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	const query = `INSERT INTO employees (id, name, type, dept, rank, region, level)
VALUES (:id, :name, :type, :dept, :rank, :region, :level)`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return classify("create employee", err)
	}
	return nil
}

// Update replaces the mutable fields of a roster entry.
func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	const query = `UPDATE employees SET name = :name, type = :type, dept = :dept, rank = :rank, region = :region, level = :level
WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, emp)
	if err != nil {
		return classify("update employee", err)
	}
	return requireAffected(res, "update employee")
}

// Upsert inserts a roster entry or overwrites the one with the same id.
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *models.Employee) error {
	const query = `INSERT INTO employees (id, name, type, dept, rank, region, level)
VALUES (:id, :name, :type, :dept, :rank, :region, :level)
ON CONFLICT (id)
DO UPDATE SET name = excluded.name, type = excluded.type, dept = excluded.dept,
              rank = excluded.rank, region = excluded.region`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return classify("upsert employee", err)
	}
	return nil
}

// Delete removes a roster entry. Reservations referencing it are kept.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM employees WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return requireAffected(res, "delete employee")
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
