package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/models"
)

func TestSelfCheckRepositoryKeepsEarliestCreatedAt(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewSelfCheckRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.SelfCheck{UserID: "1001", Date: "2025-03-05", Checked: true, CreatedAt: fixedNow, UpdatedAt: fixedNow}, false))

	later := fixedNow.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &models.SelfCheck{UserID: "1001", Date: "2025-03-05", Checked: false, CreatedAt: later, UpdatedAt: later}, false))

	got, err := repo.Get(ctx, "1001", "2025-03-05")
	require.NoError(t, err)
	assert.False(t, got.Checked)
	assert.True(t, got.CreatedAt.Equal(fixedNow))

	forced := fixedNow.Add(2 * time.Hour)
	require.NoError(t, repo.Upsert(ctx, &models.SelfCheck{UserID: "1001", Date: "2025-03-05", Checked: true, CreatedAt: forced, UpdatedAt: forced}, true))

	got, err = repo.Get(ctx, "1001", "2025-03-05")
	require.NoError(t, err)
	assert.True(t, got.Checked)
	assert.True(t, got.CreatedAt.Equal(forced))
}

func TestSelfCheckRepositorySummary(t *testing.T) {
	db := newSQLiteDB(t)
	seedEmployees(t, db,
		models.Employee{ID: "1", Name: "가", Dept: "A", Type: models.AffiliationDirect},
		models.Employee{ID: "2", Name: "나", Dept: "A", Type: models.AffiliationDirect},
	)
	repo := NewSelfCheckRepository(db)
	ctx := context.Background()
	for _, sc := range []models.SelfCheck{
		{UserID: "1", Date: "2025-03-04", Checked: false},
		{UserID: "1", Date: "2025-03-05", Checked: true},
		{UserID: "2", Date: "2025-04-01", Checked: true},
	} {
		sc.CreatedAt, sc.UpdatedAt = fixedNow, fixedNow
		require.NoError(t, repo.Upsert(ctx, &sc, false))
	}

	rows, err := repo.Summary(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Checked)
	assert.Equal(t, 0, rows[1].Checked)
}
