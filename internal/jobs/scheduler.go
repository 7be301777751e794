package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/barbershop-booking/internal/lock"
)

// Scheduler runs named jobs on cron specs. A job never overlaps itself:
// locally through SkipIfStillRunning, across replicas through the locker.
// Panics and errors are logged and the job simply runs again next tick.
type Scheduler struct {
	cron   *cron.Cron
	locker lock.Locker
	logger *slog.Logger
}

func NewScheduler(loc *time.Location, locker lock.Locker, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = lock.NewLocal()
	}

	cl := cronLogger{logger: logger.With("component", "cron")}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(
				cron.Recover(cl),
				cron.SkipIfStillRunning(cl),
			),
		),
		locker: locker,
		logger: logger,
	}
}

// Register schedules fn under spec. timeout bounds a single run and the
// lifetime of its distributed lock.
func (s *Scheduler) Register(name, spec string, timeout time.Duration, fn func(ctx context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, timeout, fn)
	})
	return err
}

func (s *Scheduler) run(name string, timeout time.Duration, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	release, err := s.locker.Acquire(ctx, "job:"+name, timeout)
	if errors.Is(err, lock.ErrNotAcquired) {
		s.logger.Debug("job already running elsewhere", "job", name)
		return
	}
	if err != nil {
		s.logger.Error("job lock failed", "job", name, "error", err)
		return
	}
	defer release()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.logger.Error("job failed",
			"job", name,
			"duration", time.Since(start),
			"error", err,
		)
		return
	}

	s.logger.Debug("job finished", "job", name, "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and returns a context done once running jobs end.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
