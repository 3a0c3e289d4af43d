package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DailySchedule fires once a day at Hour:Minute in Location.
type DailySchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Spec renders the schedule as a standard five-field cron expression.
func (s DailySchedule) Spec() string {
	return fmt.Sprintf("%d %d * * *", s.Minute, s.Hour)
}

func (s DailySchedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Next returns the first firing instant strictly after t, expressed in
// the schedule's location.
func (s DailySchedule) Next(t time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(s.Spec())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule %q: %w", s.Spec(), err)
	}
	return sched.Next(t.In(s.location())), nil
}

// Scheduler invokes a callback on a cron schedule until stopped.
type Scheduler struct {
	name     string
	spec     string
	location *time.Location
	fire     func(context.Context)
	logger   *zap.Logger

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// NewScheduler builds a scheduler for a daily schedule; call Start to arm it.
func NewScheduler(name string, schedule DailySchedule, fire func(context.Context), logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		name:     name,
		spec:     schedule.Spec(),
		location: schedule.location(),
		fire:     fire,
		logger:   logger,
	}
}

// Start registers the callback and starts the cron runner once; later
// calls are no-ops. The callback receives a context cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	cronLog := cron.PrintfLogger(zap.NewStdLog(s.logger.Named("cron")))
	c := cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	runCtx, cancel := context.WithCancel(ctx)
	id, err := c.AddFunc(s.spec, func() { s.fire(runCtx) })
	if err != nil {
		cancel()
		return fmt.Errorf("schedule %s: %w", s.name, err)
	}
	c.Start()
	s.cron, s.cancel = c, cancel

	next := c.Entry(id).Schedule.Next(time.Now().In(s.location))
	s.logger.Sugar().Infow("scheduler started", "scheduler", s.name, "spec", s.spec, "next", next.Format(time.RFC3339))
	return nil
}

// Stop halts the cron runner and waits for a running callback to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cron == nil {
		s.mu.Unlock()
		return
	}
	stopped := s.cron.Stop()
	cancel := s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	cancel()
	<-stopped.Done()
}
