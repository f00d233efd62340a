// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/assoc_backend/internal/metrics"
	"github.com/robfig/cron/v3"
)

// JobFunc is one run of a scheduled job.
type JobFunc func(ctx context.Context) error

// Scheduler wraps a cron runner with logging, timeouts and metrics.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler creates a stopped scheduler. Each run is bounded by timeout.
func NewScheduler(logger *slog.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		logger:  logger,
		timeout: timeout,
	}
}

// Register schedules fn under name using a standard cron spec or descriptor (e.g. "@daily").
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, fn) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %s (%q): %w", name, spec, err)
	}
	s.logger.Info("Scheduled job", slog.String("job", name), slog.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger := s.logger.With(slog.String("job", name))
	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)
	metrics.RecordMaintenanceRun(name, duration, err == nil)

	if err != nil {
		logger.Error("Job failed", slog.String("error", err.Error()), slog.Duration("duration", duration))
		return
	}
	logger.Info("Job completed", slog.Duration("duration", duration))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
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
