package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/killallgit/mask-editor-api/internal/logging"
	"github.com/killallgit/mask-editor-api/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mask-editor-api",
	Short: "Mask Editor API server",
	Long: `Mask Editor API - interactive rectangular mask editing for video inpainting

The server keeps one editor session per open video. A thin browser client
forwards pointer and playback events, draws the returned overlay commands,
and submits the finished mask set for processing.

Features:
  • Draw, move and resize time-bounded masks over a playing video
  • Overlay render commands as JSON or PNG
  • Structured per-mask field editing
  • Mask set hand-off as persisted processing jobs
  • Offline mask file validation and coordinate conversion`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Add persistent flags for logging configuration
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error), overrides config")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs, overrides config")
}

// loadConfig loads the configuration for commands that need it.
// version, help and the offline masks tools never call it.
func loadConfig() (*config.Config, error) {
	if err := config.Init(); err != nil {
		return nil, fmt.Errorf("error initializing config: %w", err)
	}
	return config.GetConfig()
}

// newLogger builds the process logger, letting the persistent flags win over config
func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) *slog.Logger {
	level := cfg.Level
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		level = v
	}
	jsonLogs := cfg.JSON()
	if cmd.Flags().Changed("json-logs") {
		jsonLogs, _ = cmd.Flags().GetBool("json-logs")
	}
	return logging.New(cmd.ErrOrStderr(), level, jsonLogs)
}
