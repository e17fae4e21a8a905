package jobs

import (
	"context"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Service defines the business logic interface for the processing hand-off
type Service interface {
	// Enqueue operations
	EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error)
	EnqueueMaskJob(ctx context.Context, req MaskJobRequest, opts ...JobOption) (*models.Job, error)

	// Status and retrieval
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error)

	// Maintenance
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// MaskJobRequest is a submitted mask set plus the context the runner needs
// to map it onto the source video.
type MaskJobRequest struct {
	SessionID     string
	VideoURL      string
	Surface       geometry.Size
	Native        geometry.Size
	Duration      float64
	Masks         []models.Mask
	InpaintMethod string
}

// ListFilter narrows a job listing
type ListFilter struct {
	CreatedBy string
	SessionID string
	Status    models.JobStatus
	Limit     int
}

// JobOption is a functional option for configuring jobs
type JobOption func(*jobConfig)

// jobConfig holds configuration for a job
type jobConfig struct {
	MaxRetries int
	CreatedBy  string
}

// WithMaxRetries sets the maximum number of retries for a job
func WithMaxRetries(retries int) JobOption {
	return func(cfg *jobConfig) {
		cfg.MaxRetries = retries
	}
}

// WithCreatedBy sets who created the job
func WithCreatedBy(createdBy string) JobOption {
	return func(cfg *jobConfig) {
		cfg.CreatedBy = createdBy
	}
}
