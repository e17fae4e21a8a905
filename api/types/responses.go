package types

import (
	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	BaseResponse
	Version  string                 `json:"version,omitempty"`
	Services map[string]interface{} `json:"services,omitempty"`
}

// SessionResponse describes one editing session
type SessionResponse struct {
	BaseResponse
	ID    string       `json:"id"`
	State editor.State `json:"state"`
}

// PointerResponse is the state after a pointer event plus the cursor to show
type PointerResponse struct {
	BaseResponse
	Cursor geometry.Cursor `json:"cursor"`
	State  editor.State    `json:"state"`
}

// CursorResponse answers a hover query
type CursorResponse struct {
	BaseResponse
	Cursor geometry.Cursor `json:"cursor"`
}

// MaskResponse wraps a single mask
type MaskResponse struct {
	BaseResponse
	Mask       models.Mask `json:"mask"`
	SelectedID string      `json:"selectedId,omitempty"`
}

// RenderResponse carries the draw command list for the overlay
type RenderResponse struct {
	Surface  geometry.Size        `json:"surface"`
	Commands []editor.DrawCommand `json:"commands"`
}

// JobResponse describes a hand-off job
type JobResponse struct {
	BaseResponse
	Job *models.Job `json:"job"`
}

// JobsResponse lists hand-off jobs
type JobsResponse struct {
	BaseResponse
	Jobs  []*models.Job `json:"jobs"`
	Count int           `json:"count"`
}
