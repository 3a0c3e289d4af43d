package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/deadline"
	"github.com/noah-isme/meal-reservation-api/internal/models"
)

var kst = time.FixedZone("UTC+9", 9*3600)

// wednesday is 2025-03-05 09:00 KST; the current week runs 03-03..03-07.
var wednesday = time.Date(2025, 3, 5, 9, 0, 0, 0, kst)

func testPolicy(t *testing.T) *deadline.Policy {
	t.Helper()
	p, err := deadline.NewPolicy(kst, deadline.DefaultRules())
	require.NoError(t, err)
	return p
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func values(b, l, d int) models.MealValues {
	return models.MealValues{Breakfast: b, Lunch: l, Dinner: d}
}

type logRepoStub struct {
	meal      []models.MealChangeLog
	visitor   []models.VisitorChangeLog
	mealViews []models.MealChangeLogView
	visViews  []models.VisitorChangeLogView
	err       error
	filter    models.LogFilter
}

func (s *logRepoStub) InsertMealLogs(ctx context.Context, entries []models.MealChangeLog) error {
	if s.err != nil {
		return s.err
	}
	s.meal = append(s.meal, entries...)
	return nil
}

func (s *logRepoStub) InsertVisitorLog(ctx context.Context, entry *models.VisitorChangeLog) error {
	if s.err != nil {
		return s.err
	}
	s.visitor = append(s.visitor, *entry)
	return nil
}

func (s *logRepoStub) ListMealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error) {
	s.filter = filter
	return s.mealViews, s.err
}

func (s *logRepoStub) ListVisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error) {
	s.filter = filter
	return s.visViews, s.err
}

func newTestAudit(t *testing.T, repo *logRepoStub, now time.Time) *AuditService {
	t.Helper()
	svc := NewAuditService(repo, testPolicy(t), nil, nil)
	svc.now = fixedClock(now)
	return svc
}

type mealKey struct{ user, date string }

type mealRepoStub struct {
	rows     map[mealKey]models.MealReservation
	failFor  string
	upserts  int
	replaces int
	views    []models.MealReservationView
	mode     models.AdminMealMode
}

func newMealRepoStub() *mealRepoStub {
	return &mealRepoStub{rows: map[mealKey]models.MealReservation{}}
}

func (s *mealRepoStub) Get(ctx context.Context, userID, date string) (*models.MealReservation, error) {
	m, ok := s.rows[mealKey{userID, date}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &m, nil
}

func (s *mealRepoStub) Upsert(ctx context.Context, m *models.MealReservation) error {
	if m.UserID == s.failFor {
		return errors.New("disk full")
	}
	s.upserts++
	key := mealKey{m.UserID, m.Date}
	if prev, ok := s.rows[key]; ok {
		m.CreatedAt = prev.CreatedAt
	}
	s.rows[key] = *m
	return nil
}

func (s *mealRepoStub) Replace(ctx context.Context, m *models.MealReservation) (*models.MealReservation, error) {
	if m.UserID == s.failFor {
		return nil, errors.New("disk full")
	}
	s.replaces++
	key := mealKey{m.UserID, m.Date}
	var previous *models.MealReservation
	if prev, ok := s.rows[key]; ok {
		previous = &prev
		m.CreatedAt = prev.CreatedAt
	}
	s.rows[key] = *m
	return previous, nil
}

func (s *mealRepoStub) ListByUser(ctx context.Context, userID, start, end string) ([]models.MealReservationView, error) {
	return s.views, nil
}

func (s *mealRepoStub) AdminList(ctx context.Context, start, end string, mode models.AdminMealMode) ([]models.MealReservationView, error) {
	s.mode = mode
	return s.views, nil
}

type holidayStub struct {
	dates map[string]bool
	err   error
}

func (s holidayStub) Exists(ctx context.Context, date string) (bool, error) {
	return s.dates[date], s.err
}

type visitorKey struct {
	applicant, date string
	t               models.Affiliation
}

type visitorRepoStub struct {
	byID   map[int64]*models.VisitorReservation
	nextID int64
	list   []models.VisitorReservation
	filter models.VisitorFilter
}

func newVisitorRepoStub(existing ...models.VisitorReservation) *visitorRepoStub {
	s := &visitorRepoStub{byID: map[int64]*models.VisitorReservation{}}
	for i := range existing {
		v := existing[i]
		s.nextID++
		v.ID = s.nextID
		s.byID[v.ID] = &v
	}
	return s
}

func (s *visitorRepoStub) FindByID(ctx context.Context, id int64) (*models.VisitorReservation, error) {
	v, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *v
	return &cp, nil
}

func (s *visitorRepoStub) FindByKey(ctx context.Context, applicantID, date string, t models.Affiliation) (*models.VisitorReservation, error) {
	for _, v := range s.byID {
		if (visitorKey{v.ApplicantID, v.Date, v.Type}) == (visitorKey{applicantID, date, t}) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *visitorRepoStub) Save(ctx context.Context, v *models.VisitorReservation) error {
	if existing, err := s.FindByKey(ctx, v.ApplicantID, v.Date, v.Type); err == nil {
		v.ID = existing.ID
	} else {
		s.nextID++
		v.ID = s.nextID
	}
	cp := *v
	s.byID[v.ID] = &cp
	return nil
}

func (s *visitorRepoStub) Update(ctx context.Context, v *models.VisitorReservation) error {
	if _, ok := s.byID[v.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *v
	s.byID[v.ID] = &cp
	return nil
}

func (s *visitorRepoStub) Delete(ctx context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.byID, id)
	return nil
}

func (s *visitorRepoStub) List(ctx context.Context, filter models.VisitorFilter) ([]models.VisitorReservation, error) {
	s.filter = filter
	return s.list, nil
}
