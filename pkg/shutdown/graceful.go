// Package shutdown blocks until a termination signal and then stops every
// registered server within a shared deadline.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"jobmate/directory-service/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// StopFunc adapts a plain function to Stoppable.
type StopFunc func(ctx context.Context) error

func (f StopFunc) Shutdown(ctx context.Context) error { return f(ctx) }

// Graceful waits for one of signals (or parent cancellation) and shuts down
// each Stoppable in order. Errors are logged, not returned.
func Graceful(parent context.Context, signals []os.Signal, timeout time.Duration, log *logging.Logger, targets ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(parent, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, t := range targets {
		if err := t.Shutdown(ctx); err != nil {
			log.Warn("graceful shutdown completed with error", "err", err)
		}
	}
	log.Info("graceful shutdown completed")
}
