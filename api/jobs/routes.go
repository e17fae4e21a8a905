package jobs

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
)

// RegisterRoutes registers hand-off job lookup routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/jobs - List recent jobs
	router.GET("", List(deps))

	// GET /api/v1/jobs/:id - Get a single job
	router.GET("/:id", Get(deps))
}
