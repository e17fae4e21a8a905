package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/killallgit/mask-editor-api/api"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/database"
	"github.com/killallgit/mask-editor-api/internal/services/auth"
	"github.com/killallgit/mask-editor-api/internal/services/cleanup"
	"github.com/killallgit/mask-editor-api/internal/services/jobs"
	"github.com/killallgit/mask-editor-api/internal/services/sessions"
	"github.com/killallgit/mask-editor-api/pkg/config"
	"github.com/killallgit/mask-editor-api/pkg/ffmpeg"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Mask Editor API server with the configured settings.

The server listens for HTTP requests from editor clients, keeps the open
editing sessions in memory and records submitted mask sets as jobs.

Example:
  mask-editor-api serve
  mask-editor-api serve --port 9090
  mask-editor-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

// app is everything serve starts and stops
type app struct {
	db       *database.DB
	server   *api.Server
	sessions sessions.Service
	cleanup  *cleanup.Service
	logger   *slog.Logger
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Flags win over config
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := newLogger(cmd, cfg.Logging)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return a.run(ctx, cfg.Server.ShutdownTimeout)
}

// newApp opens the database and wires the services behind the HTTP server
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	jobService := jobs.NewService(jobs.NewRepository(db.DB), logger)
	sessionService := sessions.NewService(jobService, sessions.Options{
		TTL:           cfg.Editor.SessionTTL,
		MaxSessions:   cfg.Editor.MaxSessions,
		SweepInterval: cfg.Editor.SweepInterval,
		DefaultSurface: geometry.Size{
			Width:  cfg.Editor.DefaultSurfaceWidth,
			Height: cfg.Editor.DefaultSurfaceHeight,
		},
		MaxSurface:    cfg.Editor.MaxSurface,
		JobMaxRetries: cfg.Jobs.MaxRetries,
	}, logger)

	deps := &types.Dependencies{
		DB:             db,
		Config:         cfg,
		Logger:         logger,
		SessionService: sessionService,
		JobService:     jobService,
		Version:        Version,
	}

	if cfg.Editor.ProbeMetadata {
		prober := ffmpeg.New(cfg.Editor.FFprobePath, cfg.Editor.ProbeTimeout)
		if err := prober.ValidateBinaries(); err != nil {
			logger.Warn("video probing disabled", "error", err)
		} else {
			deps.Prober = prober
		}
	}

	server := api.NewServer(cfg.Server, logger)
	if cfg.Security.EnableCORS {
		server.EnableCORS(cfg.Security.CORSOrigins)
	}
	server.SetDependencies(deps)

	if cfg.Auth.Enabled {
		validator, err := auth.NewService(ctx, auth.Config{
			JWKSURL:  cfg.Auth.JWKSURL,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
			DevToken: cfg.Auth.DevToken,
		}, logger)
		if err != nil {
			sessionService.Stop()
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize auth: %w", err)
		}
		server.SetAuth(validator)
	}

	if err := server.Initialize(); err != nil {
		sessionService.Stop()
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return &app{
		db:       db,
		server:   server,
		sessions: sessionService,
		cleanup:  cleanup.NewService(jobService, cfg.Jobs.RetentionDays, cfg.Jobs.CleanupInterval, logger),
		logger:   logger,
	}, nil
}

// run serves until ctx is cancelled or the listener fails, then shuts
// everything down in reverse order
func (a *app) run(ctx context.Context, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.cleanup.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()

	a.sessions.Stop()
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close database", "error", cerr)
	}
	if err == nil {
		a.logger.Info("server gracefully stopped")
	}
	return err
}
