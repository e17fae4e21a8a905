package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Pointer feeds one pointer event to the interaction state machine
// @Summary Send a pointer event
// @Description Pointer coordinates are overlay (surface) pixels. "leave" behaves like "up".
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body types.PointerRequest true "Pointer event"
// @Success 200 {object} types.PointerResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/pointer [post]
func Pointer(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.PointerRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		p := geometry.Point{X: req.X, Y: req.Y}
		var resp types.PointerResponse
		err := deps.SessionService.Do(c.Request.Context(), c.Param("id"), func(ed *editor.Editor) error {
			switch req.Type {
			case "down":
				ed.PointerDown(p)
			case "move":
				ed.PointerMove(p)
			case "up":
				ed.PointerUp()
			case "leave":
				ed.PointerLeave()
			}
			resp.Cursor = ed.Cursor(p)
			resp.State = ed.State()
			return nil
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		resp.Status = types.StatusOK
		c.JSON(http.StatusOK, resp)
	}
}

// Cursor reports the cursor for a hover position
// @Summary Get hover cursor
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param x query number true "Overlay x"
// @Param y query number true "Overlay y"
// @Success 200 {object} types.CursorResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/cursor [get]
func Cursor(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		x, ok := types.ParseFloatQuery(c, "x")
		if !ok {
			return
		}
		y, ok := types.ParseFloatQuery(c, "y")
		if !ok {
			return
		}

		var cursor geometry.Cursor
		err := deps.SessionService.Do(c.Request.Context(), c.Param("id"), func(ed *editor.Editor) error {
			cursor = ed.Cursor(geometry.Point{X: x, Y: y})
			return nil
		})
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.CursorResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Cursor:       cursor,
		})
	}
}

// Playback follows the video's duration and playback position
// @Summary Update playback
// @Description Reports metadata (duration) and time updates. Set seek when the time came from the seek bar.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body types.PlaybackRequest true "Playback update"
// @Success 200 {object} types.SessionResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/playback [put]
func Playback(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.PlaybackRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		withEditor(c, deps, func(ed *editor.Editor) error {
			if req.Duration != nil {
				ed.SetDuration(*req.Duration)
			}
			if req.CurrentTime != nil {
				if req.Seek {
					ed.Seek(*req.CurrentTime)
				} else {
					ed.SetCurrentTime(*req.CurrentTime)
				}
			}
			return nil
		})
	}
}

// Surface refits the overlay to a new container size
// @Summary Resize the overlay
// @Description Masks are rescaled proportionally when the overlay changes by more than a pixel.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body types.SurfaceRequest true "Container and native size"
// @Success 200 {object} types.SessionResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/surface [put]
func Surface(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SurfaceRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		err := deps.SessionService.Resize(c.Request.Context(), c.Param("id"),
			geometry.Size{Width: req.Width, Height: req.Height},
			geometry.Size{Width: req.NativeWidth, Height: req.NativeHeight},
		)
		if err != nil {
			types.SendError(c, err)
			return
		}
		withEditor(c, deps, nil)
	}
}
