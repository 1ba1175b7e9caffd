package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSweeper runs fn on a fixed interval until the returned stop
// function is called. The schedule is deployment policy; fn itself must
// stay idempotent so cadence never affects correctness.
func StartSweeper(name string, interval time.Duration, log *zap.Logger, fn func(ctx context.Context) SweepResult) (stop func()) {
	if log == nil {
		log = zap.NewNop()
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				res := fn(context.Background())
				SweepRuns.WithLabelValues(name).Inc()
				SweepAffected.WithLabelValues(name).Add(float64(res.Affected))
				SweepFailures.WithLabelValues(name).Add(float64(res.Failed))
			case <-done:
				log.Info("sweeper stopped", zap.String("sweep", name))
				return
			}
		}
	}()

	return func() { close(done) }
}
