package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	apiauth "github.com/killallgit/mask-editor-api/api/auth"
	"github.com/killallgit/mask-editor-api/api/health"
	"github.com/killallgit/mask-editor-api/api/jobs"
	"github.com/killallgit/mask-editor-api/api/sessions"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/api/version"
	_ "github.com/killallgit/mask-editor-api/docs/swagger"
	"github.com/killallgit/mask-editor-api/internal/services/auth"
)

// Fallback per-client limits (requests per second) when none are configured
var defaultLimits = map[string]int{
	"pointer": 60,
	"render":  30,
	"process": 1,
	"default": 20,
}

// RegisterRoutes registers all API routes. authHandler may be nil, in which
// case the API is open.
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiters, authHandler *apiauth.Handler) {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	// API v1 routes
	v1 := engine.Group("/api/v1")

	var readAccess, writeAccess gin.HandlerFunc
	if authHandler != nil {
		v1.Use(authHandler.AuthMiddleware())
		v1.GET("/me", authHandler.Me)
		readAccess = authHandler.RequirePermission(auth.PermissionRead, auth.PermissionWrite, auth.PermissionAdmin)
		writeAccess = authHandler.RequirePermission(auth.PermissionWrite, auth.PermissionAdmin)
	}

	limit := rateLimit(deps, limiters)

	// Editor sessions: pointer input gets a high budget, processing a low one.
	// Limiters are per route so a pointer burst never drains the default bucket.
	sessionGroup := v1.Group("/sessions")
	use(sessionGroup, writeAccess)
	sessions.RegisterRoutes(sessionGroup, deps, sessions.Limits{
		Default: limit("default"),
		Pointer: limit("pointer"),
		Render:  limit("render"),
		Process: limit("process"),
	})

	// Hand-off job lookups
	jobGroup := v1.Group("/jobs")
	use(jobGroup, readAccess, limit("default"))
	jobs.RegisterRoutes(jobGroup, deps)
}

// rateLimit returns a per-scope limiter factory; it yields nil handlers when
// rate limiting is off
func rateLimit(deps *types.Dependencies, limiters *RateLimiters) func(scope string) gin.HandlerFunc {
	enabled := limiters != nil
	limits := defaultLimits
	if deps != nil && deps.Config != nil {
		enabled = enabled && deps.Config.RateLimiting.Enabled
		if len(deps.Config.RateLimiting.Endpoints) > 0 {
			limits = deps.Config.RateLimiting.Endpoints
		}
	}

	return func(scope string) gin.HandlerFunc {
		if !enabled {
			return nil
		}
		rps, ok := limits[scope]
		if !ok {
			rps = limits["default"]
		}
		if rps <= 0 {
			rps = defaultLimits[scope]
		}
		return limiters.PerClientRateLimit(scope, rps, 2*rps)
	}
}

func use(group *gin.RouterGroup, handlers ...gin.HandlerFunc) {
	for _, h := range handlers {
		if h != nil {
			group.Use(h)
		}
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
