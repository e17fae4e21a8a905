package jobs

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apiauth "github.com/killallgit/mask-editor-api/api/auth"
	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/models"
	jobsvc "github.com/killallgit/mask-editor-api/internal/services/jobs"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
)

// Get returns a hand-off job
// @Summary Get a hand-off job
// @Description Returns the job record created when a mask set was submitted.
// @Tags jobs
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} types.JobResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		// other users' jobs look missing
		if owner := apiauth.UserID(c); owner != "" && job.CreatedBy != owner {
			types.SendError(c, apperrors.NotFound("job", id))
			return
		}

		types.SendSuccess(c, types.JobResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Job:          job,
		})
	}
}

// List returns recent hand-off jobs, newest first
// @Summary List hand-off jobs
// @Description When authenticated, only the caller's jobs are listed.
// @Tags jobs
// @Produce json
// @Param session_id query string false "Filter by editor session"
// @Param status query string false "Filter by status" Enums(pending, processing, completed, failed, cancelled)
// @Param limit query int false "Maximum jobs to return" default(50) minimum(1) maximum(200)
// @Success 200 {object} types.JobsResponse
// @Failure 400 {object} types.ErrorResponse
// @Router /api/v1/jobs [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := jobsvc.ListFilter{
			CreatedBy: apiauth.UserID(c),
			SessionID: c.Query("session_id"),
			Status:    models.JobStatus(c.Query("status")),
		}

		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit <= 0 {
				types.SendBadRequest(c, "Invalid limit")
				return
			}
			filter.Limit = min(limit, 200)
		}

		switch filter.Status {
		case "", models.JobStatusPending, models.JobStatusProcessing, models.JobStatusCompleted,
			models.JobStatusFailed, models.JobStatusCancelled:
		default:
			types.SendBadRequest(c, "Invalid status")
			return
		}

		jobs, err := deps.JobService.ListJobs(c.Request.Context(), filter)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.JobsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Jobs:         jobs,
			Count:        len(jobs),
		})
	}
}
