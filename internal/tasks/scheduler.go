package tasks

import (
	"fmt"

	"fineops/internal/config"
	"fineops/internal/utils/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the in-process periodic jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  logger.New("scheduler"),
	}
}

// RegisterDaily schedules job at the given wall-clock time every day.
func (s *Scheduler) RegisterDaily(at config.TimeOfDay, job func()) error {
	if _, err := s.cron.AddFunc(at.CronSpec(), job); err != nil {
		return fmt.Errorf("register daily job: %w", err)
	}
	s.log.Info("registered daily job at %s", at)
	return nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("task scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("task scheduler stopped")
}
