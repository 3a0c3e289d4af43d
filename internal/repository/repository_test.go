package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	"github.com/noah-isme/meal-reservation-api/pkg/database"
)

func newRepoMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, driver)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlxDB.Close()
	})
	return sqlxDB, mock
}

func newSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.NewSQLite(config.DatabaseConfig{Path: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func seedEmployees(t *testing.T, db *sqlx.DB, employees ...models.Employee) {
	t.Helper()
	repo := NewEmployeeRepository(db)
	for i := range employees {
		if employees[i].Level == 0 {
			employees[i].Level = models.LevelMember
		}
		require.NoError(t, repo.Create(context.Background(), &employees[i]))
	}
}

var fixedNow = time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

func mv(b, l, d int) models.MealValues {
	return models.MealValues{Breakfast: b, Lunch: l, Dinner: d}
}
