package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/killallgit/mask-editor-api/internal/logging"
)

// JobCleaner removes hand-off jobs past their retention window
type JobCleaner interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// Service periodically prunes finished hand-off jobs
type Service struct {
	jobs            JobCleaner
	retentionDays   int
	cleanupInterval time.Duration
	logger          *slog.Logger
}

// NewService creates a new cleanup service
func NewService(jobs JobCleaner, retentionDays int, cleanupInterval time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Service{
		jobs:            jobs,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          logging.WithComponent(logger, "cleanup"),
	}
}

// Run prunes once immediately and then on every interval until ctx is done.
// A non-positive retention disables pruning.
func (s *Service) Run(ctx context.Context) error {
	if s.retentionDays <= 0 {
		s.logger.Info("job retention disabled")
		return nil
	}

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	s.logger.Info("cleanup service started", "interval", s.cleanupInterval, "retention_days", s.retentionDays)
	s.cleanup(ctx)

	for {
		select {
		case <-ticker.C:
			s.cleanup(ctx)
		case <-ctx.Done():
			s.logger.Info("cleanup service stopped")
			return nil
		}
	}
}

func (s *Service) cleanup(ctx context.Context) {
	if _, err := s.jobs.CleanupOldJobs(ctx, s.retentionDays); err != nil && ctx.Err() == nil {
		s.logger.Error("job cleanup failed", "error", err)
	}
}
