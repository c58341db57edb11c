package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/robfig/cron/v3"
)

type State string

const (
	StateIdle   State = "idle"
	StateFiring State = "firing"
)

type Runner interface {
	Run(ctx context.Context) notify.BatchResult
}

// Scheduler fires the reminder pass on a cron schedule. A fire that is still
// running when the next one is due makes the next one skip.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
	logger *slog.Logger

	entry  cron.EntryID
	firing atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewScheduler(cfg internal.ReminderConfig, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid reminder timezone %q: %w", cfg.Timezone, err)
	}

	cronLogger := slogCronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		runner: runner,
		spec:   cfg.CronSpec(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	s.entry, err = s.cron.AddFunc(s.spec, s.fire)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", s.spec, err)
	}
	return s, nil
}

func (s *Scheduler) fire() {
	s.firing.Store(true)
	defer s.firing.Store(false)

	s.logger.Info("reminder fire started", "schedule", s.spec)
	s.runner.Run(s.ctx)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started", "schedule", s.spec, "next", s.Next())
}

// Stop prevents further fires and cancels an in-flight pass, then waits for
// it to return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	var stopped context.Context
	s.once.Do(func() {
		stopped = s.cron.Stop()
		s.cancel()
	})
	if stopped == nil {
		return nil
	}

	select {
	case <-stopped.Done():
		s.logger.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) State() State {
	if s.firing.Load() {
		return StateFiring
	}
	return StateIdle
}

func (s *Scheduler) Spec() string {
	return s.spec
}

// Next is the next fire time, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

type slogCronLogger struct {
	logger *slog.Logger
}

func (l slogCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
