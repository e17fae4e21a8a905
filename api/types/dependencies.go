package types

import (
	"context"
	"log/slog"

	"github.com/killallgit/mask-editor-api/internal/database"
	"github.com/killallgit/mask-editor-api/internal/services/jobs"
	"github.com/killallgit/mask-editor-api/internal/services/sessions"
	"github.com/killallgit/mask-editor-api/pkg/config"
	"github.com/killallgit/mask-editor-api/pkg/ffmpeg"
)

// MetadataProber reads a video's duration and intrinsic size
type MetadataProber interface {
	Probe(ctx context.Context, input string) (*ffmpeg.VideoMetadata, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB             *database.DB
	Config         *config.Config
	Logger         *slog.Logger
	SessionService sessions.Service
	JobService     jobs.Service
	Prober         MetadataProber // nil disables server-side probing
	Version        string
}
