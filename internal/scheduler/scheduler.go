// Package scheduler wires up the cron job that keeps the company filter
// options cached in Redis.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

// Refresher recomputes and stores the company options.
type Refresher interface {
	Refresh(ctx context.Context) ([]listing.CompanyOption, error)
}

// Scheduler wraps robfig/cron and runs the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 5m"
	timeout   time.Duration
	log       *logging.Logger
}

// New creates a Scheduler that refreshes on spec.
func New(refresher Refresher, spec string, log *logging.Logger) *Scheduler {
	log = log.With("component", "scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cronLogger{log}), cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		)),
		refresher: refresher,
		spec:      spec,
		timeout:   30 * time.Second,
		log:       log,
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is warm without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info("cron started", "spec", s.spec)

	go s.RunOnce(ctx)
	return nil
}

// Shutdown stops the scheduler and waits for a running refresh, or until ctx
// is done. It satisfies shutdown.Stoppable.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("cron stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce refreshes the company options once. Errors are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	opts, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.log.Error("company cache refresh failed", "err", err)
		return
	}
	s.log.Info("company cache refreshed", "companies", len(opts), "duration_ms", time.Since(start).Milliseconds())
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
