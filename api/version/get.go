package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
)

// Get handles version requests
// @Summary Service information
// @Tags version
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := "dev"
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Mask Editor API",
			"version":     version,
			"description": "Interactive video mask editing sessions with processing hand-off",
			"status":      "running",
		})
	}
}
