package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/deadline"
	"github.com/noah-isme/meal-reservation-api/internal/handler"
	internalmiddleware "github.com/noah-isme/meal-reservation-api/internal/middleware"
	"github.com/noah-isme/meal-reservation-api/internal/repository"
	"github.com/noah-isme/meal-reservation-api/internal/service"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	"github.com/noah-isme/meal-reservation-api/pkg/database"
	"github.com/noah-isme/meal-reservation-api/pkg/export"
	"github.com/noah-isme/meal-reservation-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/meal-reservation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/meal-reservation-api/pkg/middleware/requestid"
	"github.com/noah-isme/meal-reservation-api/pkg/notify"
	"github.com/noah-isme/meal-reservation-api/pkg/storage"
)

// App owns the process-wide resources: the database handle, the HTTP server
// and the backup schedule.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
	engine *gin.Engine
	server *http.Server
	backup *service.BackupService
}

// New opens storage, applies the schema and wires every component.
func New(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*App, error) {
	if logr == nil {
		logr = zap.NewNop()
	}
	policy, err := deadline.FromConfig(cfg.Org, cfg.Deadline)
	if err != nil {
		return nil, fmt.Errorf("deadline policy: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	backup, err := newBackupService(cfg, logr, db, metrics)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{cfg: cfg, logger: logr, db: db, backup: backup}
	a.engine = a.buildRouter(policy, metrics)
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: a.engine,
	}
	return a, nil
}

func newBackupService(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, metrics *service.MetricsService) (*service.BackupService, error) {
	store, err := storage.NewLocalStorage(cfg.Backup.Dir)
	if err != nil {
		return nil, fmt.Errorf("backup storage: %w", err)
	}
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Backup.DiscordToken != "" && cfg.Backup.DiscordChannelID != "" {
		notifier, err = notify.NewDiscordNotifier(cfg.Backup.DiscordToken, cfg.Backup.DiscordChannelID, logr)
		if err != nil {
			logr.Warn("discord notifier disabled", zap.Error(err))
			notifier = notify.Nop{}
		}
	}
	return service.NewBackupService(store, notifier, metrics, logr, service.BackupServiceConfig{
		Enabled:    cfg.Backup.Enabled,
		Driver:     cfg.Database.Driver,
		SourcePath: cfg.Database.Path,
		Retention:  cfg.Backup.Retention,
		Hour:       cfg.Backup.Hour,
		Minute:     cfg.Backup.Minute,
		Retries:    cfg.Backup.Retries,
		Location:   cfg.Org.Location(),
		Checkpoint: func(ctx context.Context) error {
			return database.Checkpoint(ctx, db)
		},
	}), nil
}

func (a *App) buildRouter(policy *deadline.Policy, metrics *service.MetricsService) *gin.Engine {
	cfg, logr := a.cfg, a.logger

	mealRepo := repository.NewMealRepository(a.db)
	visitorRepo := repository.NewVisitorRepository(a.db)
	selfCheckRepo := repository.NewSelfCheckRepository(a.db)
	holidayRepo := repository.NewHolidayRepository(a.db)
	employeeRepo := repository.NewEmployeeRepository(a.db)
	logRepo := repository.NewLogRepository(a.db)
	statsRepo := repository.NewStatsRepository(a.db)

	audit := service.NewAuditService(logRepo, policy, metrics, logr)
	meals := service.NewMealService(mealRepo, holidayRepo, audit, metrics, nil, logr, service.MealServiceConfig{
		BlockHolidays: cfg.Org.HolidayBlocksEmployeeMeals,
	})
	visitors := service.NewVisitorService(visitorRepo, holidayRepo, audit, policy, metrics, nil, logr)
	selfChecks := service.NewSelfCheckService(selfCheckRepo, nil, logr)
	holidays := service.NewHolidayService(holidayRepo, nil, logr)
	xlsx := export.NewXLSXExporter()
	employees := service.NewEmployeeService(employeeRepo, xlsx, nil, logr, service.EmployeeServiceConfig{
		PrimaryRegion: cfg.Org.PrimaryRegion,
	})
	stats := service.NewStatsService(statsRepo, employeeRepo, logr, service.StatsServiceConfig{
		PrimaryRegion: cfg.Org.PrimaryRegion,
	})
	exports := service.NewExportService(stats, audit, map[export.Format]export.Renderer{
		export.FormatXLSX: xlsx,
		export.FormatCSV:  export.NewCSVExporter(),
		export.FormatPDF:  export.NewPDFExporter(cfg.Export.PDFFont),
	}, service.ExportConfig{Location: policy.Location()}, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var root gin.IRouter = r
	if cfg.APIPrefix != "" {
		root = r.Group(cfg.APIPrefix)
	}
	handler.Register(root, handler.Handlers{
		Meal:      handler.NewMealHandler(meals),
		Visitor:   handler.NewVisitorHandler(visitors),
		SelfCheck: handler.NewSelfCheckHandler(selfChecks),
		Holiday:   handler.NewHolidayHandler(holidays),
		Employee:  handler.NewEmployeeHandler(employees),
		Logs:      handler.NewLogHandler(audit, exports),
		Stats:     handler.NewStatsHandler(stats, exports),
		Backup:    handler.NewBackupHandler(a.backup),
		Metrics:   handler.NewMetricsHandler(metrics, a.db),
	}, metrics != nil)
	return r
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run starts the backup schedule and serves HTTP until ctx is cancelled,
// then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	a.backup.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", a.server.Addr), zap.String("env", a.cfg.Env))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)
	return nil
}

// Shutdown stops the schedule, drains the backup queue and closes the
// server and database.
func (a *App) Shutdown(ctx context.Context) {
	a.backup.Stop()
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Warn("server shutdown", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("database close", zap.Error(err))
	}
	a.logger.Info("server stopped")
}
