package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apiauth "github.com/killallgit/mask-editor-api/api/auth"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/editor"
	sessionsvc "github.com/killallgit/mask-editor-api/internal/services/sessions"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
	"github.com/killallgit/mask-editor-api/pkg/ffmpeg"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Create opens an editor session for a video
// @Summary Open an editing session
// @Description Opens a mask editor for a video. The overlay is fitted to the container size
// @Description (or the configured default) keeping the video's aspect ratio when the native size is known.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body types.CreateSessionRequest true "Video and container"
// @Success 201 {object} types.SessionResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse "Session limit reached"
// @Router /api/v1/sessions [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateSessionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		if err := ffmpeg.ValidateInput(req.VideoURL); err != nil {
			types.SendError(c, apperrors.ValidationError("videoUrl", "must be an http or https URL"))
			return
		}

		params := sessionsvc.CreateParams{
			VideoURL:  req.VideoURL,
			Duration:  req.Duration,
			Container: geometry.Size{Width: req.Width, Height: req.Height},
			Native:    geometry.Size{Width: req.NativeWidth, Height: req.NativeHeight},
			OwnerID:   apiauth.UserID(c),
		}
		probeMissing(c, deps, &params)

		sess, err := deps.SessionService.Create(c.Request.Context(), params)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendCreated(c, types.SessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			ID:           sess.ID,
			State:        sess.State(),
		})
	}
}

// probeMissing fills duration and native size the client left out. A failed
// probe is not fatal; the client reports both later through playback and surface.
func probeMissing(c *gin.Context, deps *types.Dependencies, params *sessionsvc.CreateParams) {
	if deps.Prober == nil || (params.Duration > 0 && !params.Native.IsZero()) {
		return
	}

	meta, err := deps.Prober.Probe(c.Request.Context(), params.VideoURL)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("video probe failed", "video_url", params.VideoURL, "error", err)
		}
		return
	}
	if params.Duration <= 0 {
		params.Duration = meta.Duration
	}
	if params.Native.IsZero() {
		params.Native = geometry.Size{Width: meta.Width, Height: meta.Height}
	}
}

// Get returns a session's state
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		withEditor(c, deps, nil)
	}
}

// Close discards a session and its masks
// @Summary Close a session
// @Description Discards the session. Unsubmitted masks are lost.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.BaseResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func Close(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.SessionService.Close(c.Request.Context(), c.Param("id")); err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Session closed"})
	}
}

// withEditor runs fn (if any) against the session's editor and answers with
// the resulting state
func withEditor(c *gin.Context, deps *types.Dependencies, fn func(ed *editor.Editor) error) {
	id := c.Param("id")
	var state editor.State
	err := deps.SessionService.Do(c.Request.Context(), id, func(ed *editor.Editor) error {
		if fn != nil {
			if err := fn(ed); err != nil {
				return err
			}
		}
		state = ed.State()
		return nil
	})
	if err != nil {
		types.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.SessionResponse{
		BaseResponse: types.BaseResponse{Status: types.StatusOK},
		ID:           id,
		State:        state,
	})
}
