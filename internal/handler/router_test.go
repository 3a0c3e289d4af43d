package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/meal-reservation-api/internal/aggregate"
	"github.com/noah-isme/meal-reservation-api/internal/dto"
	internalmiddleware "github.com/noah-isme/meal-reservation-api/internal/middleware"
	"github.com/noah-isme/meal-reservation-api/internal/models"
	"github.com/noah-isme/meal-reservation-api/internal/service"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/storage"
)

type statsServiceMock struct{}

func (statsServiceMock) Period(ctx context.Context, start, end string) ([]models.DailyTotal, error) {
	return []models.DailyTotal{{Date: "2025-03-05", Day: "수", MealValues: models.MealValues{Lunch: 3}}}, nil
}

func (statsServiceMock) Trend(ctx context.Context, start, end string) (models.WeekTrend, error) {
	return models.WeekTrend{Labels: []string{"03-05(수)"}, Breakfast: []int{0}, Lunch: []int{3}, Dinner: []int{0}}, nil
}

func (statsServiceMock) DeptSummary(ctx context.Context, start, end string) ([]aggregate.SummaryRow, error) {
	return nil, nil
}

func (statsServiceMock) WeeklyRoster(ctx context.Context, start, end string) (*service.WeeklyRosterView, error) {
	return &service.WeeklyRosterView{}, nil
}

type exportServiceMock struct {
	lastFormat string
	lastFilter models.LogFilter
}

func (m *exportServiceMock) doc(name, format string) (*service.ExportDocument, error) {
	m.lastFormat = format
	if format == "doc" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportDocument{Filename: name + ".csv", ContentType: "text/csv; charset=utf-8", Content: []byte("a,b\n")}, nil
}

func (m *exportServiceMock) PeriodReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error) {
	return m.doc("meal_stats_period", format)
}

func (m *exportServiceMock) DeptSummaryReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error) {
	return m.doc("dept_summary", format)
}

func (m *exportServiceMock) WeeklyRecordsReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error) {
	return m.doc("weekly_dept", format)
}

func (m *exportServiceMock) PivotReport(ctx context.Context, start, end, format string) (*service.ExportDocument, error) {
	return m.doc("pivot", format)
}

func (m *exportServiceMock) MealLogReport(ctx context.Context, filter models.LogFilter, format string) (*service.ExportDocument, error) {
	m.lastFilter = filter
	return m.doc("meal_logs", format)
}

func (m *exportServiceMock) VisitorLogReport(ctx context.Context, filter models.LogFilter, format string) (*service.ExportDocument, error) {
	m.lastFilter = filter
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no visitor log entries in range")
}

type auditServiceMock struct {
	filter models.LogFilter
}

func (m *auditServiceMock) MealLogs(ctx context.Context, filter models.LogFilter) ([]models.MealChangeLogView, error) {
	m.filter = filter
	return nil, nil
}

func (m *auditServiceMock) VisitorLogs(ctx context.Context, filter models.LogFilter) ([]models.VisitorChangeLogView, error) {
	m.filter = filter
	return nil, nil
}

type backupServiceMock struct {
	dbPath string
	runs   int
}

func (m *backupServiceMock) Run(ctx context.Context) (*dto.BackupResult, error) {
	m.runs++
	return &dto.BackupResult{File: "backup_2025-03-05_09-00.db"}, nil
}

func (m *backupServiceMock) List() ([]storage.FileInfo, error) {
	return []storage.FileInfo{{Name: "backup_2025-03-05_09-00.db", Size: 4}}, nil
}

func (m *backupServiceMock) DatabasePath(ctx context.Context) (string, error) {
	if m.dbPath == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "database file not found")
	}
	return m.dbPath, nil
}

type selfCheckServiceMock struct{}

func (selfCheckServiceMock) Get(ctx context.Context, userID, date string) (*dto.SelfCheckResponse, error) {
	return &dto.SelfCheckResponse{UserID: userID, Date: date}, nil
}

func (selfCheckServiceMock) Set(ctx context.Context, req dto.SelfCheckRequest) (*dto.SelfCheckResponse, error) {
	return &dto.SelfCheckResponse{UserID: req.UserID, Date: req.Date, Checked: req.Checked}, nil
}

func (selfCheckServiceMock) Summary(ctx context.Context, start, end string) ([]models.SelfCheckSummary, error) {
	return nil, nil
}

type holidayServiceMock struct{}

func (holidayServiceMock) List(ctx context.Context, year int) ([]models.Holiday, error) {
	return []models.Holiday{{ID: 1, Date: "2025-03-01", Description: "삼일절"}}, nil
}

func (holidayServiceMock) Create(ctx context.Context, req dto.HolidayRequest) (*models.Holiday, error) {
	return nil, appErrors.Clone(appErrors.ErrConflict, "holiday already registered")
}

func (holidayServiceMock) Delete(ctx context.Context, date string) (int64, error) {
	if date == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	return 1, nil
}

func (holidayServiceMock) Import(ctx context.Context, req dto.HolidayImportRequest) (*models.HolidaySync, error) {
	return &models.HolidaySync{Year: req.Year, Imported: len(req.Holidays)}, nil
}

func (holidayServiceMock) LastSync(ctx context.Context, year int) (*models.HolidaySync, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no sync recorded")
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

type routerFixture struct {
	router  *gin.Engine
	exports *exportServiceMock
	audit   *auditServiceMock
	backup  *backupServiceMock
	metrics *service.MetricsService
}

func buildRouter(t *testing.T, db Pinger) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &routerFixture{
		exports: &exportServiceMock{},
		audit:   &auditServiceMock{},
		backup:  &backupServiceMock{},
		metrics: service.NewMetricsService(),
	}
	r := gin.New()
	r.Use(internalmiddleware.Metrics(f.metrics))
	Register(r, Handlers{
		Meal:      NewMealHandler(&mealServiceMock{}),
		Visitor:   NewVisitorHandler(&visitorServiceMock{record: sampleVisitor()}),
		SelfCheck: NewSelfCheckHandler(selfCheckServiceMock{}),
		Holiday:   NewHolidayHandler(holidayServiceMock{}),
		Employee:  NewEmployeeHandler(&employeeServiceMock{}),
		Logs:      NewLogHandler(f.audit, f.exports),
		Stats:     NewStatsHandler(statsServiceMock{}, f.exports),
		Backup:    NewBackupHandler(f.backup),
		Metrics:   NewMetricsHandler(f.metrics, db),
	}, true)
	f.router = r
	return f
}

func performRequest(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, target, nil)
	return performRequest(r, req)
}

func TestRouterOperationalEndpoints(t *testing.T) {
	f := buildRouter(t, pingerStub{})

	resp := get(f.router, "/ping")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "pong", resp.Body.String())

	resp = get(f.router, "/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)

	resp = get(f.router, "/ready")
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = get(f.router, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `http_requests_total{method="GET",path="/ping",status="200"} 1`)
}

func TestRouterReadyFailsWhenStorageDown(t *testing.T) {
	f := buildRouter(t, pingerStub{err: errors.New("database is locked")})

	resp := get(f.router, "/ready")

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NotContains(t, resp.Body.String(), "database is locked")
}

func TestRouterStatsExports(t *testing.T) {
	f := buildRouter(t, nil)

	for _, target := range []string{
		"/admin/stats/period/excel",
		"/admin/stats/dept_summary/excel",
		"/admin/stats/weekly_dept/excel",
		"/admin/stats/pivot_excel",
	} {
		t.Run(target, func(t *testing.T) {
			resp := get(f.router, target+"?start=2025-03-03&end=2025-03-07&format=csv")
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, "csv", f.exports.lastFormat)
			assert.True(t, strings.HasPrefix(resp.Header().Get("Content-Disposition"), "attachment;"))
			assert.Equal(t, "a,b\n", resp.Body.String())
		})
	}

	resp := get(f.router, "/admin/stats/pivot_excel?start=2025-03-03")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = get(f.router, "/admin/stats/period/excel?start=2025-03-03&end=2025-03-07&format=doc")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRouterStatsJSON(t *testing.T) {
	f := buildRouter(t, nil)

	resp := get(f.router, "/admin/graph/week_trend?start=2025-03-03&end=2025-03-07")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"lunch":[3]`)

	resp = get(f.router, "/admin/stats/period?start=2025-03-03&end=2025-03-07")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"day":"수"`)
}

func TestRouterLogs(t *testing.T) {
	f := buildRouter(t, nil)

	resp := get(f.router, "/admin/visitor_logs?start=2025-03-03&end=2025-03-07&type=contractor&name=%20Kim%20")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, models.AffiliationContractor, f.audit.filter.Type)
	assert.Equal(t, "Kim", f.audit.filter.Name)
	assert.Contains(t, resp.Body.String(), `"data":[]`)

	resp = get(f.router, "/admin/logs/download?start=2025-03-03&end=2025-03-07&dept=Ops")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Ops", f.exports.lastFilter.Dept)
	assert.Equal(t, "", f.exports.lastFormat)

	resp = get(f.router, "/admin/visitor_logs/download?start=2025-03-03&end=2025-03-07")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouterBackups(t *testing.T) {
	f := buildRouter(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/admin/backups", nil)
	resp := performRequest(f.router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, 1, f.backup.runs)
	assert.Contains(t, resp.Body.String(), "backup_2025-03-05_09-00.db")

	resp = get(f.router, "/admin/db/download")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	dbPath := filepath.Join(t.TempDir(), "db.sqlite")
	require.NoError(t, os.WriteFile(dbPath, []byte("SQLite"), 0o600))
	f.backup.dbPath = dbPath

	resp = get(f.router, "/admin/db/download")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "db.sqlite")
	assert.Equal(t, "SQLite", resp.Body.String())
}

func TestRouterHolidays(t *testing.T) {
	f := buildRouter(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/holidays", strings.NewReader(`{"date":"2025-03-01"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(f.router, req)
	assert.Equal(t, http.StatusConflict, resp.Code)

	req, _ = http.NewRequest(http.MethodDelete, "/holidays", nil)
	resp = performRequest(f.router, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req, _ = http.NewRequest(http.MethodDelete, "/holidays?date=2025-03-01", nil)
	resp = performRequest(f.router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deleted":1`)

	resp = get(f.router, "/holidays?year=abc")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = get(f.router, "/holidays/sync?year=2025")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRouterSelfCheck(t *testing.T) {
	f := buildRouter(t, nil)

	req, _ := http.NewRequest(http.MethodPost, "/selfcheck", strings.NewReader(`{"user_id":"E1","date":"2025-03-05","checked":true}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(f.router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"checked":true`)
}
