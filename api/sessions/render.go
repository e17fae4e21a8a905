package sessions

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/internal/render"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Render returns the overlay draw commands for the current playhead
// @Summary Get overlay draw commands
// @Description Commands are in paint order, starting with a clear. Only masks visible at the playhead are drawn.
// @Tags render
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.RenderResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/render [get]
func Render(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, cmds, ok := scene(c, deps)
		if !ok {
			return
		}
		if cmds == nil {
			cmds = []editor.DrawCommand{}
		}
		types.SendSuccess(c, types.RenderResponse{Surface: size, Commands: cmds})
	}
}

// RenderPNG rasterises the overlay to a transparent PNG
// @Summary Get overlay as PNG
// @Tags render
// @Produce png
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Overlay has no size yet"
// @Router /api/v1/sessions/{id}/render.png [get]
func RenderPNG(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		size, cmds, ok := scene(c, deps)
		if !ok {
			return
		}
		if size.IsZero() {
			types.SendError(c, errNoSurface)
			return
		}

		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, size, cmds); err != nil {
			if deps.Logger != nil {
				deps.Logger.Error("render overlay", "session_id", c.Param("id"), "error", err)
			}
			types.SendInternalError(c, "Failed to render overlay")
			return
		}

		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	}
}

// scene captures the surface size and draw commands under the session lock
func scene(c *gin.Context, deps *types.Dependencies) (geometry.Size, []editor.DrawCommand, bool) {
	var (
		size geometry.Size
		cmds []editor.DrawCommand
	)
	err := deps.SessionService.Do(c.Request.Context(), c.Param("id"), func(ed *editor.Editor) error {
		size = ed.Surface()
		cmds = ed.Render()
		return nil
	})
	if err != nil {
		types.SendError(c, err)
		return size, nil, false
	}
	return size, cmds, true
}
