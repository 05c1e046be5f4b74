package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"CopperAnalytics/internal/logger"
)

// RunFunc performs one pipeline run.
type RunFunc func(ctx context.Context) error

// Scheduler triggers runs on a cron schedule. A tick that arrives while a
// run is still in flight is skipped.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context

	run     RunFunc
	running atomic.Bool
	skipped atomic.Int64
	log     *logger.Entry
}

// NewScheduler creates a scheduler with a seconds field in its cron spec.
func NewScheduler(ctx context.Context, run RunFunc) *Scheduler {
	return &Scheduler{
		Cron: cron.New(cron.WithSeconds()),
		Ctx:  ctx,
		run:  run,
		log:  logger.GetLogger().WithComponent("scheduler"),
	}
}

// Register adds the analysis job.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	s.log.WithField("cron", spec).Info("analysis task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow runs immediately, subject to the same overlap guard. It reports
// whether the run actually started.
func (s *Scheduler) RunNow() bool {
	return s.trigger("manual")
}

// Skipped returns how many triggers were dropped because a run was active.
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }

func (s *Scheduler) tick() {
	s.trigger("cron")
}

func (s *Scheduler) trigger(source string) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.log.WithField("trigger", source).Warn("previous run still active, skipping")
		return false
	}
	defer s.running.Store(false)

	s.log.WithField("trigger", source).Info("running analysis task")
	if err := s.run(s.Ctx); err != nil {
		s.log.WithError(err).WithField("trigger", source).Error("analysis task failed")
	}
	return true
}
