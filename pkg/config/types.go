package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Editor       EditorConfig    `mapstructure:"editor"`
	Auth         AuthConfig      `mapstructure:"auth"`
	Jobs         JobsConfig      `mapstructure:"jobs"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// EditorConfig contains editing session settings
type EditorConfig struct {
	DefaultSurfaceWidth  float64       `mapstructure:"default_surface_width"`
	DefaultSurfaceHeight float64       `mapstructure:"default_surface_height"`
	SessionTTL           time.Duration `mapstructure:"session_ttl"`
	SweepInterval        time.Duration `mapstructure:"sweep_interval"`
	MaxSessions          int           `mapstructure:"max_sessions"`
	MaxSurface           float64       `mapstructure:"max_surface"` // longest surface side in pixels

	// ffprobe fills in duration and native size the client did not send
	ProbeMetadata bool          `mapstructure:"probe_metadata"`
	FFprobePath   string        `mapstructure:"ffprobe_path"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
}

// AuthConfig contains bearer token settings
type AuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	JWKSURL  string `mapstructure:"jwks_url"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
	DevToken string `mapstructure:"dev_token"`
}

// JobsConfig contains processing hand-off settings
type JobsConfig struct {
	RetentionDays   int           `mapstructure:"retention_days"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxRetries      int           `mapstructure:"max_retries"`
	InpaintMethod   string        `mapstructure:"inpaint_method"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JSON reports whether logs should be written as JSON
func (l LoggingConfig) JSON() bool {
	return l.Format != "text"
}
