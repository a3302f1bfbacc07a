package scheduler

import (
	"fmt"

	"github.com/aaraalto/money-manager/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the nightly level recompute. Levels depend on runway and
// burn, which drift as time passes even when nobody edits a snapshot.
type Scheduler struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
}

// New creates a scheduler with the standard job set registered.
func New(svc *service.Service, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.recomputeLevels); err != nil {
		return nil, fmt.Errorf("failed to register level recompute job: %w", err)
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop halts the cron loop, letting running jobs finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) recomputeLevels() {
	if err := s.svc.RecomputeAllLevels(); err != nil {
		s.log.Errorf("Nightly level recompute failed: %v", err)
	}
}
