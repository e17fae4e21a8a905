package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/killallgit/mask-editor-api/internal/logging"
	"github.com/killallgit/mask-editor-api/internal/models"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
)

const (
	DefaultMaxRetries = 3
	DefaultListLimit  = 50
)

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &service{
		repo:   repo,
		logger: logging.WithComponent(logger, "jobs"),
	}
}

func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error) {
	job := &models.Job{
		Type:    jobType,
		Status:  models.JobStatusPending,
		Payload: payload,
	}
	return s.enqueue(ctx, job, opts)
}

// EnqueueMaskJob records a submitted mask set as a pending watermark removal job
func (s *service) EnqueueMaskJob(ctx context.Context, req MaskJobRequest, opts ...JobOption) (*models.Job, error) {
	if req.VideoURL == "" {
		return nil, apperrors.MissingFieldError("videoUrl")
	}
	if req.Surface.IsZero() {
		return nil, apperrors.ValidationError("surface", "overlay size is not known yet")
	}
	for i, m := range req.Masks {
		if err := m.Validate(req.Duration); err != nil {
			return nil, apperrors.ValidationError(fmt.Sprintf("masks[%d]", i), err.Error())
		}
	}

	method := req.InpaintMethod
	if method == "" {
		method = models.DefaultInpaintMethod
	}
	masks := req.Masks
	if masks == nil {
		masks = []models.Mask{}
	}

	payload := models.JobPayload{
		"session_id":     req.SessionID,
		"video_url":      req.VideoURL,
		"inpaint_method": method,
		"surface_width":  req.Surface.Width,
		"surface_height": req.Surface.Height,
		"duration":       req.Duration,
		"masks":          masks,
	}
	if !req.Native.IsZero() {
		payload["native_width"] = req.Native.Width
		payload["native_height"] = req.Native.Height
	}

	job := &models.Job{
		Type:          models.JobTypeWatermarkRemoval,
		Status:        models.JobStatusPending,
		Payload:       payload,
		SessionID:     req.SessionID,
		VideoURL:      req.VideoURL,
		Filename:      filenameFromURL(req.VideoURL),
		InpaintMethod: method,
		MaskCount:     len(masks),
	}
	return s.enqueue(ctx, job, opts)
}

func (s *service) enqueue(ctx context.Context, job *models.Job, opts []JobOption) (*models.Job, error) {
	cfg := &jobConfig{
		MaxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	job.MaxRetries = cfg.MaxRetries
	job.CreatedBy = cfg.CreatedBy

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, apperrors.DatabaseError("create job", err)
	}

	logging.WithJobID(s.logger, job.ID).Info("enqueued job",
		"type", job.Type, "session_id", job.SessionID, "masks", job.MaskCount)

	return job, nil
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, apperrors.NotFound("job", jobID)
		}
		return nil, apperrors.DatabaseError("get job", err)
	}
	return job, nil
}

func (s *service) ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	jobs, err := s.repo.ListJobs(ctx, filter)
	if err != nil {
		return nil, apperrors.DatabaseError("list jobs", err)
	}
	return jobs, nil
}

func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive")
	}

	cutoffTime := time.Now().UTC().AddDate(0, 0, -retentionDays)

	deleted, err := s.repo.DeleteOldJobs(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("cleaning up old jobs: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("deleted old jobs", "count", deleted, "retention_days", retentionDays)
	}

	return deleted, nil
}

func filenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
