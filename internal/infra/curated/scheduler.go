package curated

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/karimmaktouf/QUANTUM-MIND/internal/infra/telemetry"
)

// Scheduler refreshes a Table on a fixed interval.
type Scheduler struct {
	table    *Table
	interval time.Duration
	logger   *zap.Logger
	health   *telemetry.HealthTracker
}

func NewScheduler(table *Table, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{table: table, interval: interval, logger: logger.Named("curated-scheduler")}
}

// Monitor reports loop liveness to health under the "curated_refresh" check.
func (s *Scheduler) Monitor(health *telemetry.HealthTracker) {
	s.health = health
}

// Enabled reports whether the interval allows a background loop.
func (s *Scheduler) Enabled() bool {
	return s != nil && s.interval > 0
}

// Run force-refreshes immediately, then after every interval, until ctx is
// done. It returns at once when the interval is not positive.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Debug("curated refresh scheduler disabled")
		return
	}
	s.logger.Info("curated refresh scheduler started", zap.Duration("interval", s.interval))
	beat := s.health.Register("curated_refresh", s.interval*3)
	defer beat.Stop()

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		status := s.table.Refresh(ctx, true)
		if status.Error != "" {
			s.logger.Warn("curated auto-refresh failed", zap.String("error", status.Error))
		} else {
			s.logger.Debug("curated auto-refresh done", zap.Int("entries", status.Count))
		}
		beat.Beat()
		timer.Reset(s.interval)
	}
}
