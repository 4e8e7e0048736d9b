// Package scheduler drives collection cycles on a fixed interval. At most
// one cycle runs at a time; a tick arriving while a cycle is in flight is
// skipped, never queued.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/exilewatch/exilewatch/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scheduler states.
const (
	stateIdle int32 = iota
	stateRunningCycle
)

// CycleFunc is one full collection cycle: resolve the active league, ingest
// every category. Errors are reported per category inside the cycle; the
// returned error covers cycle-level failures such as league resolution.
type CycleFunc func(ctx context.Context) error

// Scheduler runs cycles at a fixed interval with an atomic overlap guard.
type Scheduler struct {
	run      CycleFunc
	interval time.Duration
	metrics  *metrics.Registry
	log      *zap.Logger

	state atomic.Int32
}

// New creates a Scheduler.
func New(run CycleFunc, interval time.Duration, m *metrics.Registry, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		run:      run,
		interval: interval,
		metrics:  m,
		log:      log,
	}
}

// Start runs an immediate first cycle, then one per interval tick, until ctx
// is cancelled. It blocks; run it in its own goroutine when needed.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))

	s.TryCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.TryCycle(ctx)
		}
	}
}

// TryCycle runs one cycle unless one is already in flight, in which case the
// tick is skipped and false returned.
func (s *Scheduler) TryCycle(ctx context.Context) bool {
	if !s.state.CompareAndSwap(stateIdle, stateRunningCycle) {
		s.metrics.RecordCycleSkipped()
		s.log.Warn("cycle still running, tick skipped")
		return false
	}
	defer s.state.Store(stateIdle)

	cycleID := uuid.NewString()
	log := s.log.With(zap.String("cycle_id", cycleID))
	log.Info("cycle started")

	start := time.Now()
	err := s.run(ctx)
	elapsed := time.Since(start)

	s.metrics.RecordCycle(elapsed.Seconds())
	if err != nil {
		log.Error("cycle failed", zap.Duration("elapsed", elapsed), zap.Error(err))
	} else {
		log.Info("cycle finished", zap.Duration("elapsed", elapsed))
	}
	return true
}
