package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
)

// Process submits the session's mask set to the processing hand-off
// @Summary Submit masks for processing
// @Description Hands the full ordered mask set, in overlay pixels, to the job hand-off together with the
// @Description overlay and native video sizes. The session stays open.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body types.ProcessRequest false "Processing options"
// @Success 202 {object} types.JobResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/process [post]
func Process(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ProcessRequest
		if c.Request.ContentLength > 0 && !types.BindJSONOrError(c, &req) {
			return
		}
		if req.InpaintMethod == "" && deps.Config != nil {
			req.InpaintMethod = deps.Config.Jobs.InpaintMethod
		}

		job, err := deps.SessionService.Process(c.Request.Context(), c.Param("id"), req.InpaintMethod)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusAccepted, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Mask set submitted"},
			Job:          job,
		})
	}
}
