package api

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/killallgit/mask-editor-api/api/types"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
)

// DefaultMaxBodyBytes caps request bodies
const DefaultMaxBodyBytes = 1024 * 1024

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// CORS allows the listed origins; "*" allows any
func CORS(origins []string) gin.HandlerFunc {
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case anyOrigin:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(DefaultMaxBodyBytes)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Request body too large",
					Error:   string(apperrors.ErrCodeInvalidInput),
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestID tags each request with an id, reusing a valid incoming one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case strings.HasSuffix(path, "/pointer") || strings.HasSuffix(path, "/cursor") || path == "/health":
			// pointer traffic is per-frame
			level = slog.LevelDebug
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if id := c.GetString("request_id"); id != "" {
			attrs = append(attrs, "request_id", id)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiters keeps one token bucket per client and scope
type RateLimiters struct {
	clients   sync.Map
	stop      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	idle      time.Duration
	interval  time.Duration
}

// NewRateLimiters creates an empty limiter registry
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		stop:     make(chan struct{}),
		idle:     10 * time.Minute,
		interval: 5 * time.Minute,
	}
}

// PerClientRateLimit limits each client IP to rps requests per second with the
// given burst. Limits are tracked separately per scope.
func (r *RateLimiters) PerClientRateLimit(scope string, rps int, burst int) gin.HandlerFunc {
	r.startOnce.Do(func() {
		go r.cleanupOldRateLimiters()
	})
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	return func(c *gin.Context) {
		key := scope + "|" + c.ClientIP()

		v, _ := r.clients.LoadOrStore(key, newClientLimiter(rps, burst))
		cl := v.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Rate limit exceeded. Please slow down your requests.",
				Error:   string(apperrors.ErrCodeAPIRateLimit),
			})
			return
		}
		c.Next()
	}
}

func newClientLimiter(rps, burst int) *clientLimiter {
	cl := &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	cl.lastSeen.Store(time.Now().UnixNano())
	return cl
}

// Stop ends the idle limiter cleanup
func (r *RateLimiters) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *RateLimiters) cleanupOldRateLimiters() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.removeIdle(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiters) removeIdle(now time.Time) int {
	removed := 0
	r.clients.Range(func(key, value interface{}) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > r.idle {
			r.clients.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
