package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs a Backup on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	backup  *Backup
	timeout time.Duration
	logger  zerolog.Logger
}

// NewScheduler creates a scheduler for b. Schedules use the standard
// five-field cron syntax plus descriptors such as "@daily".
func NewScheduler(b *Backup, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		backup:  b,
		timeout: 2 * time.Minute,
		logger:  logger,
	}
}

// Validate checks a cron expression without scheduling anything.
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return nil
}

// Start schedules the backup and starts the cron loop in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	s.logger.Info().Str("schedule", spec).Msg("starting backup scheduler")
	s.cron.Start()
	return nil
}

// Next returns the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	s.logger.Info().Msg("stopping backup scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.backup.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
	}
}
