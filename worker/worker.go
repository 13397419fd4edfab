package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
)

// Worker background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a job repeatedly until the context is done.
// A job returning an error waits Delay before the next round, a successful
// job runs again right away.
type TickWorker struct {
	Delay time.Duration
}

// StartTick run f until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, f func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	log := logger.FromContext(ctx)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := f(ctx); err != nil {
				if err != ErrIdle {
					log.WithError(err).Debugln("tick")
				}
				timer.Reset(delay)
			} else {
				timer.Reset(0)
			}
		}
	}
}
