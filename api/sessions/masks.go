package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/mask-editor-api/api/types"
	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/internal/models"
	apperrors "github.com/killallgit/mask-editor-api/pkg/errors"
)

var errNoSurface = apperrors.New(apperrors.ErrCodeConflict, "editor surface has no size yet")

// AddMask appends a default mask centred on the overlay
// @Summary Add a mask
// @Description Adds a 200x150 mask centred on the overlay, visible for 3s either side of the playhead, and selects it.
// @Tags masks
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} types.MaskResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Overlay has no size yet"
// @Router /api/v1/sessions/{id}/masks [post]
func AddMask(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondMask(c, deps, http.StatusCreated, func(ed *editor.Editor) (models.Mask, error) {
			m, ok := ed.AddMask()
			if !ok {
				return m, errNoSurface
			}
			return m, nil
		})
	}
}

// DeleteAllMasks empties the mask set
// @Summary Delete all masks
// @Tags masks
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/masks [delete]
func DeleteAllMasks(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		withEditor(c, deps, func(ed *editor.Editor) error {
			ed.DeleteAll()
			return nil
		})
	}
}

// UpdateMask edits mask fields directly
// @Summary Edit mask fields
// @Description Position is rounded and floored at 0, size rounded and floored at 1.
// @Description Start/end keep a 0.1s gap and stay inside the video duration.
// @Tags masks
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param maskId path string true "Mask ID"
// @Param request body editor.MaskUpdate true "Fields to change"
// @Success 200 {object} types.MaskResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/masks/{maskId} [patch]
func UpdateMask(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.UpdateMaskRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		maskID := c.Param("maskId")
		respondMask(c, deps, http.StatusOK, func(ed *editor.Editor) (models.Mask, error) {
			m, ok := ed.UpdateMask(maskID, req)
			if !ok {
				return m, apperrors.NotFound("mask", maskID)
			}
			return m, nil
		})
	}
}

// DeleteMask removes one mask
// @Summary Delete a mask
// @Description Deleting an id that no longer exists is a no-op and returns the unchanged state.
// @Tags masks
// @Produce json
// @Param id path string true "Session ID"
// @Param maskId path string true "Mask ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/masks/{maskId} [delete]
func DeleteMask(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		maskID := c.Param("maskId")
		withEditor(c, deps, func(ed *editor.Editor) error {
			// an id that is already gone leaves the state as it is
			ed.DeleteMask(maskID)
			return nil
		})
	}
}

// DuplicateMask copies a mask 20px right and down and selects the copy
// @Summary Duplicate a mask
// @Tags masks
// @Produce json
// @Param id path string true "Session ID"
// @Param maskId path string true "Mask ID"
// @Success 201 {object} types.MaskResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/masks/{maskId}/duplicate [post]
func DuplicateMask(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		maskID := c.Param("maskId")
		respondMask(c, deps, http.StatusCreated, func(ed *editor.Editor) (models.Mask, error) {
			m, ok := ed.DuplicateMask(maskID)
			if !ok {
				return m, apperrors.NotFound("mask", maskID)
			}
			return m, nil
		})
	}
}

// NudgeMask shifts a mask's start or end time
// @Summary Nudge a time bound
// @Tags masks
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param maskId path string true "Mask ID"
// @Param request body types.NudgeRequest true "Bound and delta in seconds"
// @Success 200 {object} types.MaskResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/masks/{maskId}/nudge [post]
func NudgeMask(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.NudgeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		maskID := c.Param("maskId")
		respondMask(c, deps, http.StatusOK, func(ed *editor.Editor) (models.Mask, error) {
			m, ok := ed.Nudge(maskID, req.Bound, req.Delta)
			if !ok {
				return m, apperrors.NotFound("mask", maskID)
			}
			return m, nil
		})
	}
}

// Select changes the selected mask
// @Summary Select a mask
// @Description A null or empty maskId clears the selection. An unknown maskId leaves the selection unchanged.
// @Tags masks
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body types.SelectionRequest true "Mask to select"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/selection [put]
func Select(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SelectionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		var maskID string
		if req.MaskID != nil {
			maskID = *req.MaskID
		}
		withEditor(c, deps, func(ed *editor.Editor) error {
			ed.SelectMask(maskID)
			return nil
		})
	}
}

func respondMask(c *gin.Context, deps *types.Dependencies, status int, fn func(ed *editor.Editor) (models.Mask, error)) {
	var resp types.MaskResponse
	err := deps.SessionService.Do(c.Request.Context(), c.Param("id"), func(ed *editor.Editor) error {
		m, err := fn(ed)
		if err != nil {
			return err
		}
		resp.Mask = m
		resp.SelectedID = ed.SelectedID()
		return nil
	})
	if err != nil {
		types.SendError(c, err)
		return
	}
	resp.Status = types.StatusOK
	c.JSON(status, resp)
}
