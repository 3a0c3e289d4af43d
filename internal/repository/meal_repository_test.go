package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestMealRepositoryUpsertIsIdempotent(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewMealRepository(db)
	ctx := context.Background()

	first := &models.MealReservation{UserID: "1001", Date: "2025-03-05", MealValues: mv(1, 1, 0), CreatedAt: fixedNow, UpdatedAt: fixedNow}
	require.NoError(t, repo.Upsert(ctx, first))

	later := fixedNow.Add(time.Hour)
	second := &models.MealReservation{UserID: "1001", Date: "2025-03-05", MealValues: mv(0, 1, 1), CreatedAt: later, UpdatedAt: later}
	require.NoError(t, repo.Upsert(ctx, second))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM meals`))
	assert.Equal(t, 1, count)

	got, err := repo.Get(ctx, "1001", "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, mv(0, 1, 1), got.MealValues)
	assert.True(t, got.CreatedAt.Equal(fixedNow))
	assert.True(t, got.UpdatedAt.Equal(later))
}

func TestMealRepositoryReplaceReturnsPrevious(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewMealRepository(db)
	ctx := context.Background()

	fresh := &models.MealReservation{UserID: "1001", Date: "2025-03-05", MealValues: mv(1, 0, 0), CreatedAt: fixedNow, UpdatedAt: fixedNow}
	previous, err := repo.Replace(ctx, fresh)
	require.NoError(t, err)
	assert.Nil(t, previous)

	later := fixedNow.Add(2 * time.Hour)
	edit := &models.MealReservation{UserID: "1001", Date: "2025-03-05", MealValues: mv(0, 0, 1), CreatedAt: later, UpdatedAt: later}
	previous, err = repo.Replace(ctx, edit)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, mv(1, 0, 0), previous.MealValues)

	got, err := repo.Get(ctx, "1001", "2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, mv(0, 0, 1), got.MealValues)
	assert.True(t, got.CreatedAt.Equal(fixedNow))

	_, err = repo.Get(ctx, "1001", "2025-03-06")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMealRepositoryAdminListModes(t *testing.T) {
	db := newSQLiteDB(t)
	seedEmployees(t, db,
		models.Employee{ID: "1", Name: "나", Dept: "A", Type: models.AffiliationDirect},
		models.Employee{ID: "2", Name: "가", Dept: "A", Type: models.AffiliationDirect},
		models.Employee{ID: "3", Name: "다", Dept: "B", Type: models.AffiliationContractor},
	)
	repo := NewMealRepository(db)
	ctx := context.Background()
	for _, m := range []*models.MealReservation{
		{UserID: "1", Date: "2025-03-05", MealValues: mv(1, 1, 1)},
		{UserID: "1", Date: "2025-03-04", MealValues: mv(0, 1, 0)},
		{UserID: "3", Date: "2025-03-04", MealValues: mv(0, 1, 0)},
		{UserID: "1", Date: "2025-04-01", MealValues: mv(1, 0, 0)},
	} {
		m.CreatedAt, m.UpdatedAt = fixedNow, fixedNow
		require.NoError(t, repo.Upsert(ctx, m))
	}

	all, err := repo.AdminList(ctx, "2025-03-01", "2025-03-31", models.AdminMealModeAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2", all[0].UserID)
	assert.Nil(t, all[0].Date)
	assert.Equal(t, models.MealValues{}, all[0].MealValues)
	require.NotNil(t, all[1].Date)
	assert.Equal(t, "2025-03-04", *all[1].Date)
	assert.Equal(t, "2025-03-05", *all[2].Date)

	applied, err := repo.AdminList(ctx, "2025-03-01", "2025-03-31", models.AdminMealModeApply)
	require.NoError(t, err)
	require.Len(t, applied, 3)
	assert.Equal(t, "1", applied[0].UserID)
	assert.Equal(t, "3", applied[2].UserID)

	mine, err := repo.ListByUser(ctx, "1", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "나", mine[0].Name)
}

func TestMealRepositoryReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newRepoMock(t, "sqlite3")
	repo := NewMealRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, user_id, date`).
		WithArgs("1001", "2025-03-05").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`DELETE FROM meals WHERE user_id = \? AND date = \?`).
		WithArgs("1001", "2025-03-05").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO meals`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Replace(context.Background(), &models.MealReservation{UserID: "1001", Date: "2025-03-05"})
	require.Error(t, err)
}
