package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

type selfCheckRepoStub struct {
	rows    map[mealKey]models.SelfCheck
	summary []models.SelfCheckSummary
}

func (s *selfCheckRepoStub) Get(ctx context.Context, userID, date string) (*models.SelfCheck, error) {
	sc, ok := s.rows[mealKey{userID, date}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sc, nil
}

func (s *selfCheckRepoStub) Upsert(ctx context.Context, sc *models.SelfCheck, force bool) error {
	key := mealKey{sc.UserID, sc.Date}
	if prev, ok := s.rows[key]; ok && !force {
		sc.CreatedAt = prev.CreatedAt
	}
	s.rows[key] = *sc
	return nil
}

func (s *selfCheckRepoStub) Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error) {
	return s.summary, nil
}

func TestSelfCheckMissingRowReadsUnchecked(t *testing.T) {
	svc := NewSelfCheckService(&selfCheckRepoStub{rows: map[mealKey]models.SelfCheck{}}, nil, nil)

	res, err := svc.Get(context.Background(), "E1", "2025-03-05")
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.False(t, res.Checked)
	assert.Nil(t, res.CreatedAt)

	_, err = svc.Get(context.Background(), "E1", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSelfCheckSetKeepsCreationUnlessForced(t *testing.T) {
	repo := &selfCheckRepoStub{rows: map[mealKey]models.SelfCheck{}}
	svc := NewSelfCheckService(repo, nil, nil)
	first := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	later := first.Add(3 * time.Hour)

	svc.now = fixedClock(first)
	_, err := svc.Set(context.Background(), dto.SelfCheckRequest{UserID: "E1", Date: "2025-03-05", Checked: true})
	require.NoError(t, err)

	svc.now = fixedClock(later)
	res, err := svc.Set(context.Background(), dto.SelfCheckRequest{UserID: "E1", Date: "2025-03-05", Checked: false})
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.False(t, res.Checked)
	assert.Equal(t, first, *res.CreatedAt)
	assert.Equal(t, later, *res.UpdatedAt)

	res, err = svc.Set(context.Background(), dto.SelfCheckRequest{UserID: "E1", Date: "2025-03-05", Checked: true, ForceUpdate: true})
	require.NoError(t, err)
	assert.Equal(t, later, *res.CreatedAt)
}

func TestSelfCheckSetValidatesPayload(t *testing.T) {
	svc := NewSelfCheckService(&selfCheckRepoStub{rows: map[mealKey]models.SelfCheck{}}, nil, nil)

	_, err := svc.Set(context.Background(), dto.SelfCheckRequest{UserID: "E1", Date: "March 5"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSelfCheckSummary(t *testing.T) {
	svc := NewSelfCheckService(&selfCheckRepoStub{}, nil, nil)

	rows, err := svc.Summary(context.Background(), "2025-03-03", "2025-03-07")
	require.NoError(t, err)
	assert.NotNil(t, rows)

	_, err = svc.Summary(context.Background(), "2025-03-07", "2025-03-03")
	require.Error(t, err)
}
