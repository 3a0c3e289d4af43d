package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/repository"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
)

type holidayRepoStub struct {
	byDate   map[string]models.Holiday
	imported []models.Holiday
	syncs    map[int]models.HolidaySync
	year     int
}

func newHolidayRepoStub() *holidayRepoStub {
	return &holidayRepoStub{byDate: map[string]models.Holiday{}, syncs: map[int]models.HolidaySync{}}
}

func (s *holidayRepoStub) List(ctx context.Context, year int) ([]models.Holiday, error) {
	s.year = year
	return nil, nil
}

func (s *holidayRepoStub) Exists(ctx context.Context, date string) (bool, error) {
	_, ok := s.byDate[date]
	return ok, nil
}

func (s *holidayRepoStub) Create(ctx context.Context, h *models.Holiday) error {
	if _, ok := s.byDate[h.Date]; ok {
		return fmt.Errorf("create holiday: %w", repository.ErrDuplicate)
	}
	h.ID = int64(len(s.byDate) + 1)
	s.byDate[h.Date] = *h
	return nil
}

func (s *holidayRepoStub) Delete(ctx context.Context, date string) (int64, error) {
	if _, ok := s.byDate[date]; !ok {
		return 0, nil
	}
	delete(s.byDate, date)
	return 1, nil
}

func (s *holidayRepoStub) Import(ctx context.Context, year int, source string, holidays []models.Holiday, at time.Time) (*models.HolidaySync, error) {
	s.imported = holidays
	sync := models.HolidaySync{Year: year, Source: source, Imported: len(holidays), SyncedAt: at}
	s.syncs[year] = sync
	return &sync, nil
}

func (s *holidayRepoStub) LastSync(ctx context.Context, year int) (*models.HolidaySync, error) {
	sync, ok := s.syncs[year]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &sync, nil
}

func TestHolidayCreateDefaultsDescriptionAndRejectsDuplicates(t *testing.T) {
	repo := newHolidayRepoStub()
	svc := NewHolidayService(repo, nil, nil)

	h, err := svc.Create(context.Background(), dto.HolidayRequest{Date: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "공휴일", h.Description)

	_, err = svc.Create(context.Background(), dto.HolidayRequest{Date: "2025-03-01", Description: "삼일절"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "2025-03-01")

	ok, err := svc.IsHoliday(context.Background(), "2025-03-01")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHolidayDeleteIsIdempotent(t *testing.T) {
	repo := newHolidayRepoStub()
	repo.byDate["2025-05-05"] = models.Holiday{Date: "2025-05-05"}
	svc := NewHolidayService(repo, nil, nil)

	n, err := svc.Delete(context.Background(), "2025-05-05")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete(context.Background(), "2025-05-05")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Delete(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHolidayImport(t *testing.T) {
	repo := newHolidayRepoStub()
	svc := NewHolidayService(repo, nil, nil)
	at := time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)
	svc.now = fixedClock(at)

	sync, err := svc.Import(context.Background(), dto.HolidayImportRequest{Year: 2025, Holidays: []dto.HolidayRequest{
		{Date: "2025-01-01", Description: "신정"},
		{Date: "2025-03-01"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "manual", sync.Source)
	assert.Equal(t, 2, sync.Imported)
	assert.Equal(t, at, sync.SyncedAt)
	assert.Equal(t, "공휴일", repo.imported[1].Description)

	last, err := svc.LastSync(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, last.Year)

	_, err = svc.Import(context.Background(), dto.HolidayImportRequest{Year: 2025, Holidays: []dto.HolidayRequest{{Date: "2026-01-01"}}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHolidayLastSyncMissingIsNotFound(t *testing.T) {
	svc := NewHolidayService(newHolidayRepoStub(), nil, nil)

	_, err := svc.LastSync(context.Background(), 2030)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestHolidayListValidatesYear(t *testing.T) {
	repo := newHolidayRepoStub()
	svc := NewHolidayService(repo, nil, nil)

	holidays, err := svc.List(context.Background(), 2025)
	require.NoError(t, err)
	assert.NotNil(t, holidays)
	assert.Equal(t, 2025, repo.year)

	_, err = svc.List(context.Background(), -1)
	require.Error(t, err)
}
