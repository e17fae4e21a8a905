package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MASKEDITOR_SERVER_PORT
const EnvPrefix = "MASKEDITOR"

// DefaultConfigFile is read when present
const DefaultConfigFile = "./config/settings.yaml"

var (
	once        sync.Once
	initErr     error
	initialized bool
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load(DefaultConfigFile)
		initialized = initErr == nil
	})

	return initErr
}

// IsInitialized reports whether Init has completed successfully
func IsInitialized() bool {
	return initialized
}

func load(configFile string) error {
	// Set default values
	setDefaults()

	// Set up environment variable reading for overrides
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Load config from fixed location (cleaned for safety)
	configPath := filepath.Clean(configFile)
	viper.SetConfigFile(configPath)

	// Try to read the config file
	if err := viper.ReadInConfig(); err != nil {
		// If the config file doesn't exist, just use defaults and env vars
		if !os.IsNotExist(err) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	// Validate the configuration
	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"
	if viper.GetBool("auth.enabled") && viper.GetString("auth.jwks_url") == "" && viper.GetString("auth.dev_token") == "" {
		return fmt.Errorf("auth is enabled but neither auth.jwks_url nor auth.dev_token is set")
	}
	if isProduction && viper.GetString("auth.dev_token") != "" {
		return fmt.Errorf("auth.dev_token cannot be used in production")
	}

	// Auto-correct invalid editor limits
	if viper.GetInt("editor.max_sessions") <= 0 {
		viper.Set("editor.max_sessions", 1000)
	}
	if viper.GetDuration("editor.session_ttl") <= 0 {
		viper.Set("editor.session_ttl", 30*time.Minute)
	}
	if s := viper.GetFloat64("editor.max_surface"); s <= 0 || s > 8192 {
		viper.Set("editor.max_surface", 8192)
	}

	return nil
}

// Validate validates a Config struct and fills sane editor defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Editor.DefaultSurfaceWidth <= 0 || c.Editor.DefaultSurfaceHeight <= 0 {
		c.Editor.DefaultSurfaceWidth = 1280
		c.Editor.DefaultSurfaceHeight = 720
	}

	if c.Editor.MaxSessions <= 0 {
		c.Editor.MaxSessions = 1000
	}

	if c.Editor.SessionTTL <= 0 {
		c.Editor.SessionTTL = 30 * time.Minute
	}

	if c.Editor.MaxSurface <= 0 || c.Editor.MaxSurface > 8192 {
		c.Editor.MaxSurface = 8192
	}

	if c.Jobs.MaxRetries < 0 {
		c.Jobs.MaxRetries = 0
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Environment defaults
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/mask-editor.db")
	viper.SetDefault("database.verbose", false)

	// Editor defaults
	viper.SetDefault("editor.default_surface_width", 1280)
	viper.SetDefault("editor.default_surface_height", 720)
	viper.SetDefault("editor.session_ttl", 30*time.Minute)
	viper.SetDefault("editor.sweep_interval", 1*time.Minute)
	viper.SetDefault("editor.max_sessions", 1000)
	viper.SetDefault("editor.max_surface", 8192)
	viper.SetDefault("editor.probe_metadata", false)
	viper.SetDefault("editor.ffprobe_path", "ffprobe")
	viper.SetDefault("editor.probe_timeout", 10*time.Second)

	// Auth defaults
	viper.SetDefault("auth.enabled", false)
	viper.SetDefault("auth.jwks_url", "")
	viper.SetDefault("auth.issuer", "")
	viper.SetDefault("auth.audience", "authenticated")
	viper.SetDefault("auth.dev_token", "")

	// Jobs defaults
	viper.SetDefault("jobs.retention_days", 30)
	viper.SetDefault("jobs.cleanup_interval", 1*time.Hour)
	viper.SetDefault("jobs.max_retries", 3)
	viper.SetDefault("jobs.inpaint_method", "opencv")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	// requests per second per client; burst is twice the rate
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"pointer": 60,
		"render":  30,
		"process": 1,
		"default": 20,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}
