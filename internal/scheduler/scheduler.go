// Package scheduler wires up the cron job that periodically triggers a
// matching run.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps robfig/cron and fires the provided run function on each
// tick. A tick is skipped when the previous run is still executing.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	logger *zap.Logger
	run    func(ctx context.Context)
	busy   sync.Mutex
}

func New(spec string, logger *zap.Logger, run func(ctx context.Context)) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		logger: logger,
		run:    run,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.fire(ctx)
	})
	if err != nil {
		return fmt.Errorf("register cron job %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) fire(ctx context.Context) {
	if !s.busy.TryLock() {
		s.logger.Warn("previous matching run still in progress, skipping tick")
		return
	}
	defer s.busy.Unlock()

	s.run(ctx)
}
