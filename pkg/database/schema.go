package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/meal-reservation-api/pkg/config"
)

// tables lists the DDL shared by both dialects. {{pk}} expands to the
// dialect's auto-increment key and {{ref:...}} to an advisory roster
// reference which only the embedded store declares.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'DIRECT',
		dept TEXT NOT NULL,
		rank TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS meals (
		id {{pk}},
		user_id TEXT NOT NULL {{ref:employees(id)}},
		date TEXT NOT NULL,
		breakfast INTEGER NOT NULL DEFAULT 0,
		lunch INTEGER NOT NULL DEFAULT 0,
		dinner INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id {{pk}},
		applicant_id TEXT NOT NULL,
		applicant_name TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		breakfast INTEGER NOT NULL DEFAULT 0,
		lunch INTEGER NOT NULL DEFAULT 0,
		dinner INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		last_modified TIMESTAMP NOT NULL,
		UNIQUE (applicant_id, date, type)
	)`,
	`CREATE TABLE IF NOT EXISTS selfchecks (
		id {{pk}},
		user_id TEXT NOT NULL {{ref:employees(id)}},
		date TEXT NOT NULL,
		checked INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id {{pk}},
		date TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS holiday_syncs (
		year INTEGER PRIMARY KEY,
		source TEXT NOT NULL DEFAULT '',
		imported INTEGER NOT NULL DEFAULT 0,
		synced_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS meal_logs (
		id {{pk}},
		emp_id TEXT NOT NULL,
		date TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		before_status INTEGER NOT NULL,
		after_status INTEGER NOT NULL,
		changed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS visitor_logs (
		id {{pk}},
		applicant_id TEXT NOT NULL,
		applicant_name TEXT NOT NULL,
		date TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		before_breakfast INTEGER NOT NULL,
		before_lunch INTEGER NOT NULL,
		before_dinner INTEGER NOT NULL,
		breakfast TEXT NOT NULL,
		lunch TEXT NOT NULL,
		dinner TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_meals_date ON meals (date)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_date ON visitors (date)`,
	`CREATE INDEX IF NOT EXISTS idx_selfchecks_date ON selfchecks (date)`,
	`CREATE INDEX IF NOT EXISTS idx_meal_logs_date ON meal_logs (date)`,
	`CREATE INDEX IF NOT EXISTS idx_visitor_logs_date ON visitor_logs (date)`,
}

// Migrate creates every table and index that is missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Statements(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// Statements renders the schema for the given driver.
func Statements(driver string) []string {
	out := make([]string, 0, len(tables))
	for _, stmt := range tables {
		out = append(out, render(stmt, driver))
	}
	return out
}

func render(stmt, driver string) string {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == config.DriverPostgres {
		pk = "BIGSERIAL PRIMARY KEY"
		stmt = strings.ReplaceAll(stmt, "TIMESTAMP", "TIMESTAMPTZ")
	}
	stmt = strings.ReplaceAll(stmt, "{{pk}}", pk)
	for {
		start := strings.Index(stmt, "{{ref:")
		if start < 0 {
			break
		}
		end := strings.Index(stmt[start:], "}}") + start
		target := stmt[start+len("{{ref:") : end]
		replacement := ""
		if driver != config.DriverPostgres {
			replacement = "REFERENCES " + target
		}
		stmt = stmt[:start] + replacement + stmt[end+2:]
	}
	return stmt
}
