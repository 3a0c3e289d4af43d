package database

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/noah-isme/meal-reservation-api/pkg/config"
)

// MemoryPath opens a private in-memory database; used by tests.
const MemoryPath = ":memory:"

// NewSQLite opens the embedded single-file store. Foreign keys stay disabled:
// reservations reference the roster without cascading or enforcement.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	path := cfg.Path
	if path == "" {
		path = "db.sqlite"
	}
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	params := url.Values{}
	params.Set("_busy_timeout", fmt.Sprintf("%d", busy.Milliseconds()))
	params.Set("_foreign_keys", "off")
	if path != MemoryPath {
		params.Set("_journal_mode", "WAL")
	}

	db, err := sqlx.Open(config.DriverSQLite, fmt.Sprintf("file:%s?%s", path, params.Encode()))
	if err != nil {
		return nil, err
	}

	if path == MemoryPath {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		db.SetConnMaxIdleTime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Checkpoint folds the write-ahead log back into the main database file and
// truncates it, so a plain file copy holds every committed transaction.
func Checkpoint(ctx context.Context, db sqlx.QueryerContext) error {
	var busy, logFrames, checkpointed int
	row := db.QueryRowxContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`)
	if err := row.Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("checkpoint database: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("checkpoint database: blocked by an active reader or writer")
	}
	return nil
}
