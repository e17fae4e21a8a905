package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/internal/logging"
	"github.com/killallgit/mask-editor-api/pkg/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		Database:    config.DatabaseConfig{Path: ":memory:"},
		Editor: config.EditorConfig{
			DefaultSurfaceWidth:  1280,
			DefaultSurfaceHeight: 720,
			SessionTTL:           time.Minute,
			SweepInterval:        time.Minute,
			MaxSessions:          10,
		},
		Jobs: config.JobsConfig{InpaintMethod: "opencv"},
		RateLimiting: config.RateLimitConfig{
			Enabled:   true,
			Endpoints: map[string]int{"pointer": 100, "render": 100, "process": 5, "default": 50},
		},
		Security: config.SecurityConfig{EnableCORS: true, CORSOrigins: []string{"*"}},
	}
	return cfg
}

func TestServeCommand(t *testing.T) {
	out, err := execute(t, "serve", "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Start the Mask Editor API server") {
		t.Errorf("Expected help text, got %q", out)
	}

	if _, err := execute(t, "serve", "--port", "invalid"); err == nil {
		t.Error("Expected an error for a non-numeric port")
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Failed to find serve command: %v", err)
	}

	// Test port flag
	portFlag := serveCmd.Flags().Lookup("port")
	if portFlag == nil {
		t.Error("Expected port flag to be registered")
	}

	// Test host flag
	hostFlag := serveCmd.Flags().Lookup("host")
	if hostFlag == nil {
		t.Error("Expected host flag to be registered")
	}
}

func TestNewApp_Wiring(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := newApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() {
		a.sessions.Stop()
		_ = a.db.Close()
	})

	engine := a.server.Engine()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(`{"videoUrl":"https://example.com/a.mp4","width":640,"height":360}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, a.sessions.Count())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewApp_AuthMisconfigured(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = true

	_, err := newApp(context.Background(), cfg, logging.Discard())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
