package sessions

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
)

// Limits are the per-route-class middlewares. Each route gets exactly one.
type Limits struct {
	Default gin.HandlerFunc
	Pointer gin.HandlerFunc
	Render  gin.HandlerFunc
	Process gin.HandlerFunc
}

// RegisterRoutes registers editor session routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, limits Limits) {
	def := orPass(limits.Default)
	pointer := orPass(limits.Pointer)
	render := orPass(limits.Render)
	process := orPass(limits.Process)

	// Session lifecycle
	router.POST("", def, Create(deps))
	router.GET("/:id", def, Get(deps))
	router.DELETE("/:id", def, Close(deps))

	// High-frequency input from the overlay
	router.POST("/:id/pointer", pointer, Pointer(deps))
	router.GET("/:id/cursor", pointer, Cursor(deps))
	router.PUT("/:id/playback", pointer, Playback(deps))
	router.PUT("/:id/surface", pointer, Surface(deps))

	// Control panel
	router.POST("/:id/masks", def, AddMask(deps))
	router.DELETE("/:id/masks", def, DeleteAllMasks(deps))
	router.PATCH("/:id/masks/:maskId", def, UpdateMask(deps))
	router.DELETE("/:id/masks/:maskId", def, DeleteMask(deps))
	router.POST("/:id/masks/:maskId/duplicate", def, DuplicateMask(deps))
	router.POST("/:id/masks/:maskId/nudge", def, NudgeMask(deps))
	router.PUT("/:id/selection", def, Select(deps))

	// Overlay drawing
	router.GET("/:id/render", render, Render(deps))
	router.GET("/:id/render.png", render, RenderPNG(deps))

	// Hand-off
	router.POST("/:id/process", process, Process(deps))
}

func orPass(h gin.HandlerFunc) gin.HandlerFunc {
	if h != nil {
		return h
	}
	return func(c *gin.Context) { c.Next() }
}
