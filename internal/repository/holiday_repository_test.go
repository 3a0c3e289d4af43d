package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestHolidayRepositoryCreateListDelete(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewHolidayRepository(db)
	ctx := context.Background()

	h := &models.Holiday{Date: "2025-05-05", Description: "어린이날"}
	require.NoError(t, repo.Create(ctx, h))
	assert.NotZero(t, h.ID)
	require.NoError(t, repo.Create(ctx, &models.Holiday{Date: "2026-01-01", Description: "신정"}))

	err := repo.Create(ctx, &models.Holiday{Date: "2025-05-05", Description: "dup"})
	assert.True(t, errors.Is(err, ErrDuplicate))

	list, err := repo.List(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "어린이날", list[0].Description)

	all, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	exists, err := repo.Exists(ctx, "2025-05-05")
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.Delete(ctx, "2025-05-05")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.Delete(ctx, "2025-05-05")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHolidayRepositoryImport(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewHolidayRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Holiday{Date: "2025-03-01", Description: "공휴일"}))
	sync, err := repo.Import(ctx, 2025, "data.go.kr", []models.Holiday{
		{Date: "2025-03-01", Description: "삼일절"},
		{Date: "2025-05-06", Description: "대체공휴일"},
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, sync.Imported)

	list, err := repo.List(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "삼일절", list[0].Description)

	last, err := repo.LastSync(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, "data.go.kr", last.Source)
	assert.True(t, last.SyncedAt.Equal(fixedNow))

	_, err = repo.LastSync(ctx, 2024)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestHolidayRepositoryListRebindsForPostgres(t *testing.T) {
	db, mock := newRepoMock(t, "postgres")
	repo := NewHolidayRepository(db)

	mock.ExpectQuery(`SELECT id, date, description FROM holidays WHERE date LIKE \$1 ORDER BY date ASC`).
		WithArgs("2025-%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "description"}).AddRow(1, "2025-05-05", "어린이날"))

	list, err := repo.List(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
