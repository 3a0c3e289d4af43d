package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/meal-reservation-api/internal/dto"
	"github.com/noah-isme/meal-reservation-api/pkg/config"
	"github.com/noah-isme/meal-reservation-api/pkg/database"
	appErrors "github.com/noah-isme/meal-reservation-api/pkg/errors"
	"github.com/noah-isme/meal-reservation-api/pkg/jobs"
	"github.com/noah-isme/meal-reservation-api/pkg/notify"
	"github.com/noah-isme/meal-reservation-api/pkg/storage"
)

const (
	backupJobType   = "database_backup"
	backupExtension = ".db"
	backupLayout    = "2006-01-02_15-04"
)

type backupStore interface {
	CopyFrom(srcPath, name string) (storage.FileInfo, error)
	List(ext string) ([]storage.FileInfo, error)
	CleanupOlderThan(ttl time.Duration, ext string) ([]string, error)
}

// BackupServiceConfig configures the snapshot task.
type BackupServiceConfig struct {
	Enabled    bool
	Driver     string
	SourcePath string
	Retention  time.Duration
	Hour       int
	Minute     int
	Retries    int
	Location   *time.Location
	// Checkpoint flushes pending writes into SourcePath before it is copied.
	Checkpoint func(context.Context) error
}

// BackupService copies the embedded database file on a daily schedule and
// on demand. The write-ahead log is checkpointed first; writes committed
// during the copy itself may be missed.
type BackupService struct {
	store     backupStore
	notifier  notify.Notifier
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       BackupServiceConfig
	queue     *jobs.Queue
	scheduler *jobs.Scheduler
	now       func() time.Time

	mu sync.Mutex
}

// NewBackupService constructs a BackupService with its queue and scheduler.
func NewBackupService(store backupStore, notifier notify.Notifier, metrics *MetricsService, logger *zap.Logger, cfg BackupServiceConfig) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	s := &BackupService{store: store, notifier: notifier, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
	s.queue = jobs.NewQueue("backup", s.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 2,
		MaxRetries: cfg.Retries,
		RetryDelay: 30 * time.Second,
		OnFailure:  s.onFailure,
		Logger:     logger,
	})
	s.scheduler = jobs.NewScheduler("backup", jobs.DailySchedule{Hour: cfg.Hour, Minute: cfg.Minute, Location: cfg.Location}, s.trigger, logger)
	return s
}

// Supported reports whether the configured store is a file that can be copied.
func (s *BackupService) Supported() bool {
	return s.cfg.Driver == config.DriverSQLite && s.cfg.SourcePath != "" && s.cfg.SourcePath != database.MemoryPath
}

// Start arms the daily schedule. It is a no-op when backups are disabled or
// unsupported.
func (s *BackupService) Start(ctx context.Context) {
	if !s.cfg.Enabled || !s.Supported() {
		s.logger.Info("scheduled backups disabled", zap.Bool("enabled", s.cfg.Enabled), zap.String("driver", s.cfg.Driver))
		return
	}
	s.queue.Start(ctx)
	if err := s.scheduler.Start(ctx); err != nil {
		s.logger.Error("backup schedule not armed", zap.Error(err))
	}
}

// Stop disarms the schedule and waits for a running backup to finish.
func (s *BackupService) Stop() {
	s.scheduler.Stop()
	s.queue.Stop()
}

func (s *BackupService) trigger(ctx context.Context) {
	id, err := s.queue.Enqueue(jobs.Job{Type: backupJobType})
	if err != nil {
		s.logger.Warn("failed to enqueue backup", zap.Error(err))
		return
	}
	s.logger.Info("backup enqueued", zap.String("job_id", id))
}

func (s *BackupService) handle(ctx context.Context, job jobs.Job) error {
	_, err := s.Run(ctx)
	return err
}

func (s *BackupService) onFailure(job jobs.Job, err error) {
	msg := fmt.Sprintf("database backup failed after %d attempts: %v", job.Attempt, err)
	if nerr := s.notifier.Notify(context.Background(), msg); nerr != nil {
		s.logger.Warn("backup failure notification not sent", zap.Error(nerr))
	}
}

// Run copies the database now and prunes expired snapshots.
func (s *BackupService) Run(ctx context.Context) (*dto.BackupResult, error) {
	if !s.Supported() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "backups are only available for the embedded sqlite store")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().In(s.cfg.Location)
	name := "backup_" + at.Format(backupLayout) + backupExtension
	var info storage.FileInfo
	err := s.checkpoint(ctx)
	if err == nil {
		info, err = s.store.CopyFrom(s.cfg.SourcePath, name)
	}
	s.metrics.RecordBackup(err)
	if err != nil {
		s.logger.Error("database backup failed", zap.String("file", name), zap.Error(err))
		return nil, internalError(err, "failed to back up database")
	}

	pruned, err := s.store.CleanupOlderThan(s.cfg.Retention, backupExtension)
	if err != nil {
		s.logger.Warn("failed to prune old backups", zap.Error(err))
	}
	if pruned == nil {
		pruned = []string{}
	}
	s.logger.Info("database backup completed", zap.String("file", info.Name), zap.Int64("size", info.Size), zap.Strings("pruned", pruned))

	if err := s.notifier.Notify(ctx, fmt.Sprintf("database backup completed: %s (%d bytes)", info.Name, info.Size)); err != nil {
		s.logger.Warn("backup notification not sent", zap.Error(err))
	}
	return &dto.BackupResult{File: info.Name, Size: info.Size, CreatedAt: at, Pruned: pruned}, nil
}

// List returns the stored snapshots, newest first.
func (s *BackupService) List() ([]storage.FileInfo, error) {
	files, err := s.store.List(backupExtension)
	if err != nil {
		return nil, internalError(err, "failed to list backups")
	}
	if files == nil {
		files = []storage.FileInfo{}
	}
	return files, nil
}

func (s *BackupService) checkpoint(ctx context.Context) error {
	if s.cfg.Checkpoint == nil {
		return nil
	}
	return s.cfg.Checkpoint(ctx)
}

// DatabasePath checkpoints the live database and returns its file for download.
func (s *BackupService) DatabasePath(ctx context.Context) (string, error) {
	if !s.Supported() {
		return "", appErrors.Clone(appErrors.ErrNotFound, "database file is not available")
	}
	if _, err := os.Stat(s.cfg.SourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "database file is not available")
		}
		return "", internalError(err, "failed to inspect database file")
	}
	if err := s.checkpoint(ctx); err != nil {
		s.logger.Warn("database checkpoint before download failed", zap.Error(err))
	}
	return s.cfg.SourcePath, nil
}
