package sessions

import (
	"context"
	"time"

	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/internal/services/jobs"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Service owns the live editor sessions
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)

	// Resize syncs the editor to a new container and native size
	Resize(ctx context.Context, id string, container, native geometry.Size) error

	// Do runs fn with exclusive access to the session's editor
	Do(ctx context.Context, id string, fn func(ed *editor.Editor) error) error

	// Process hands the session's mask set to the job hand-off
	Process(ctx context.Context, id string, inpaintMethod string) (*models.Job, error)

	Close(ctx context.Context, id string) error
	Count() int
	Stop()
}

// Handoff receives submitted mask sets
type Handoff interface {
	EnqueueMaskJob(ctx context.Context, req jobs.MaskJobRequest, opts ...jobs.JobOption) (*models.Job, error)
}

// CreateParams opens a new editing session
type CreateParams struct {
	VideoURL  string
	Duration  float64
	Container geometry.Size
	Native    geometry.Size
	OwnerID   string
}

// Options tunes the session store
type Options struct {
	TTL            time.Duration
	MaxSessions    int
	SweepInterval  time.Duration
	DefaultSurface geometry.Size
	MaxSurface     float64 // longest accepted container or native side, in pixels
	JobMaxRetries  int
}
