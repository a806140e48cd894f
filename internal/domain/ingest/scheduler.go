package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/honeycarbs/jobboard/pkg/logging"
)

const runTimeout = 10 * time.Minute

// Scheduler runs an Ingestor on a cron schedule
type Scheduler struct {
	ingestor *Ingestor
	query    Query
	cron     *cron.Cron
	logger   *logging.Logger
}

// NewScheduler creates a scheduler for a fixed query
func NewScheduler(ingestor *Ingestor, query Query, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scheduler{
		ingestor: ingestor,
		query:    query,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the schedule (standard five-field cron or a descriptor such
// as "@hourly") and starts the cron runner
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return fmt.Errorf("ingest: invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("ingestion scheduler started", "schedule", schedule, "keywords", s.query.Keywords)

	return nil
}

// Shutdown stops the scheduler and waits for a running ingestion to finish
func (s *Scheduler) Shutdown(ctx context.Context) error {
	stopped := s.cron.Stop()

	select {
	case <-stopped.Done():
		s.logger.Info("ingestion scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.ingestor.Run(ctx, s.query); err != nil {
		s.logger.Error("scheduled ingestion failed", "err", err)
	}
}
