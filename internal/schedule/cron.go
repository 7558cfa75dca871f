package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cron runs the analysis callback on a fixed schedule
type Cron struct {
	c      *cron.Cron
	logger *zap.Logger
}

// New creates a schedule from a five-field cron spec evaluated in the
// given timezone
func New(spec, timezone string, job func(), logger *zap.Logger) (*Cron, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", timezone, err)
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithLocation(loc), cron.WithParser(parser))
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("failed to register schedule %q: %w", spec, err)
	}

	logger.Info("analysis schedule registered",
		zap.String("spec", spec),
		zap.String("timezone", timezone))

	return &Cron{c: c, logger: logger}, nil
}

// Start begins evaluating the schedule in its own goroutine
func (s *Cron) Start() {
	s.c.Start()
}

// Stop stops the scheduler. A job already running is not interrupted.
func (s *Cron) Stop() {
	s.c.Stop()
}
