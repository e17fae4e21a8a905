package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/internal/logging"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		expectedStatus int
		expectedOrigin string
	}{
		{name: "preflight request", origins: []string{"*"}, method: http.MethodOptions, origin: "https://example.com", expectedStatus: http.StatusNoContent, expectedOrigin: "*"},
		{name: "regular GET request", origins: []string{"*"}, method: http.MethodGet, origin: "https://example.com", expectedStatus: http.StatusOK, expectedOrigin: "*"},
		{name: "listed origin echoed", origins: []string{"https://editor.example.com"}, method: http.MethodGet, origin: "https://editor.example.com", expectedStatus: http.StatusOK, expectedOrigin: "https://editor.example.com"},
		{name: "unlisted origin", origins: []string{"https://editor.example.com"}, method: http.MethodGet, origin: "https://evil.example.com", expectedStatus: http.StatusOK, expectedOrigin: ""},
		{name: "no origins configured", method: http.MethodPost, expectedStatus: http.StatusOK, expectedOrigin: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.origins))
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
		})
	}
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		bodySize       int
		expectedStatus int
	}{
		{name: "small request under limit", bodySize: 100, expectedStatus: http.StatusOK},
		{name: "request at limit", bodySize: 512, expectedStatus: http.StatusOK},
		{name: "request over limit", bodySize: 513, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimitWithSize(512))
			router.POST("/test", func(c *gin.Context) {
				body, err := io.ReadAll(c.Request.Body)
				if err != nil {
					c.Status(http.StatusRequestEntityTooLarge)
					return
				}
				c.JSON(http.StatusOK, gin.H{"received": len(body)})
			})

			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	incoming := "7f0c3b52-2f5e-4c1e-8d0e-4f6f0a1b2c3d"
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nforged")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\nforged", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logging.New(&buf, "info", true)))
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.POST("/api/v1/sessions/x/pointer", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"path":"/boom"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"request_id"`)

	// pointer traffic is below info
	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sessions/x/pointer", nil))
	assert.Empty(t, buf.String())
}

func TestPerClientRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		requestCount      int
		requestsPerSecond int
		burstSize         int
		expectSomeBlocked bool
		waitBetween       time.Duration
	}{
		{name: "requests under rate limit", requestCount: 3, requestsPerSecond: 10, burstSize: 5},
		{name: "burst requests", requestCount: 6, requestsPerSecond: 2, burstSize: 3, expectSomeBlocked: true},
		{name: "spaced requests", requestCount: 5, requestsPerSecond: 10, burstSize: 2, waitBetween: 150 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiters := NewRateLimiters()
			defer limiters.Stop()

			router := gin.New()
			router.Use(limiters.PerClientRateLimit("test", tt.requestsPerSecond, tt.burstSize))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			successCount, blockedCount := 0, 0
			for i := 0; i < tt.requestCount; i++ {
				if tt.waitBetween > 0 && i > 0 {
					time.Sleep(tt.waitBetween)
				}
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				router.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					blockedCount++
				}
			}

			if tt.expectSomeBlocked {
				assert.Greater(t, blockedCount, 0, "Expected some requests to be blocked")
			} else {
				assert.Equal(t, 0, blockedCount, "Expected no requests to be blocked")
				assert.Equal(t, tt.requestCount, successCount)
			}
		})
	}
}

func TestPerClientRateLimit_Isolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiters := NewRateLimiters()
	defer limiters.Stop()

	router := gin.New()
	router.GET("/a", limiters.PerClientRateLimit("a", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", limiters.PerClientRateLimit("b", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(path, addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, call("/a", "127.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, call("/a", "127.0.0.1:1"))
	// another client
	assert.Equal(t, http.StatusOK, call("/a", "192.168.1.1:2"))
	// another scope
	assert.Equal(t, http.StatusOK, call("/b", "127.0.0.1:1"))
}

func TestRateLimiters_RemoveIdle(t *testing.T) {
	limiters := NewRateLimiters()
	defer limiters.Stop()

	fresh := newClientLimiter(1, 1)
	stale := newClientLimiter(1, 1)
	stale.lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())
	limiters.clients.Store("fresh", fresh)
	limiters.clients.Store("stale", stale)

	assert.Equal(t, 1, limiters.removeIdle(time.Now()))
	_, ok := limiters.clients.Load("fresh")
	assert.True(t, ok)
	_, ok = limiters.clients.Load("stale")
	assert.False(t, ok)
}
