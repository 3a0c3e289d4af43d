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

func TestEmployeeRepositoryListFiltersByExactName(t *testing.T) {
	db, mock := newRepoMock(t, "postgres")
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "type", "dept", "rank", "region", "level"}).
		AddRow("1001", "홍길동", "DIRECT", "영업부", "대리", "EcoCenter", 1)
	mock.ExpectQuery(`SELECT id, name, type, dept, rank, region, level FROM employees WHERE name = \$1 ORDER BY dept`).
		WithArgs("홍길동").
		WillReturnRows(rows)

	result, err := repo.List(context.Background(), models.EmployeeFilter{Name: "홍길동"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, models.AffiliationDirect, result[0].Type)
}

func TestEmployeeRepositoryCreateDuplicate(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	emp := models.Employee{ID: "1001", Name: "홍길동", Type: models.AffiliationDirect, Dept: "영업부", Region: "EcoCenter", Level: 1}
	require.NoError(t, repo.Create(ctx, &emp))
	err := repo.Create(ctx, &emp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestEmployeeRepositoryUpdateAndDelete(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	missing := models.Employee{ID: "nope", Name: "x", Type: models.AffiliationDirect, Dept: "x", Level: 1}
	assert.ErrorIs(t, repo.Update(ctx, &missing), sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), sql.ErrNoRows)

	seedEmployees(t, db, models.Employee{ID: "1001", Name: "홍길동", Type: models.AffiliationDirect, Dept: "영업부", Region: "EcoCenter"})
	updated := models.Employee{ID: "1001", Name: "홍길동", Type: models.AffiliationDirect, Dept: "설계부", Region: "TechCenter", Level: 3}
	require.NoError(t, repo.Update(ctx, &updated))

	got, err := repo.FindByIDAndName(ctx, "1001", "홍길동")
	require.NoError(t, err)
	assert.Equal(t, "설계부", got.Dept)
	assert.Equal(t, 3, got.Level)

	_, err = repo.FindByIDAndName(ctx, "1001", "김철수")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.Delete(ctx, "1001"))
	_, err = repo.FindByID(ctx, "1001")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestEmployeeRepositoryUpsertKeepsLevel(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewEmployeeRepository(db)
	ctx := context.Background()

	seedEmployees(t, db, models.Employee{ID: "1001", Name: "홍길동", Type: models.AffiliationDirect, Dept: "영업부", Level: models.LevelAdmin})
	require.NoError(t, repo.Upsert(ctx, &models.Employee{ID: "1001", Name: "홍길동", Type: models.AffiliationContractor, Dept: "외주", Level: 1}))
	require.NoError(t, repo.Upsert(ctx, &models.Employee{ID: "1002", Name: "김철수", Type: models.AffiliationDirect, Dept: "설계부", Level: 1}))

	all, err := repo.List(ctx, models.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "설계부", all[0].Dept)
	assert.Equal(t, models.AffiliationContractor, all[1].Type)
	assert.Equal(t, models.LevelAdmin, all[1].Level)
}
