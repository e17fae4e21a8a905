package types

import "github.com/killallgit/mask-editor-api/internal/editor"

// CreateSessionRequest opens an editing session. VideoURL must be http or https.
type CreateSessionRequest struct {
	VideoURL     string  `json:"videoUrl" binding:"required,url" example:"https://cdn.example.com/video.mp4"`
	Duration     float64 `json:"duration,omitempty" binding:"gte=0" example:"60"`
	Width        float64 `json:"width,omitempty" binding:"gte=0,lte=8192" example:"1280"`        // Container width
	Height       float64 `json:"height,omitempty" binding:"gte=0,lte=8192" example:"720"`        // Container height
	NativeWidth  float64 `json:"nativeWidth,omitempty" binding:"gte=0,lte=8192" example:"1920"`  // Intrinsic video width
	NativeHeight float64 `json:"nativeHeight,omitempty" binding:"gte=0,lte=8192" example:"1080"` // Intrinsic video height
}

// PointerRequest is one pointer event in surface pixels
type PointerRequest struct {
	Type string  `json:"type" binding:"required,oneof=down move up leave" example:"down"`
	X    float64 `json:"x" example:"120"`
	Y    float64 `json:"y" example:"80"`
}

// PlaybackRequest follows the video element's metadata and time updates
type PlaybackRequest struct {
	CurrentTime *float64 `json:"currentTime,omitempty" example:"12.5"`
	Duration    *float64 `json:"duration,omitempty" example:"60"`
	Seek        bool     `json:"seek,omitempty"` // currentTime came from the seek bar
}

// SurfaceRequest reports the container size and optionally the video's native size.
// Sides are capped at 8192 pixels; editor.max_surface may lower the cap.
type SurfaceRequest struct {
	Width        float64 `json:"width" binding:"gt=0,lte=8192" example:"960"`
	Height       float64 `json:"height" binding:"gt=0,lte=8192" example:"540"`
	NativeWidth  float64 `json:"nativeWidth,omitempty" binding:"gte=0,lte=8192" example:"1920"`
	NativeHeight float64 `json:"nativeHeight,omitempty" binding:"gte=0,lte=8192" example:"1080"`
}

// UpdateMaskRequest is a partial field edit
type UpdateMaskRequest = editor.MaskUpdate

// NudgeRequest shifts one bound of a mask's time window
type NudgeRequest struct {
	Bound editor.Bound `json:"bound" binding:"required,oneof=start end" example:"start"`
	Delta float64      `json:"delta" binding:"required" example:"3"`
}

// SelectionRequest selects a mask; null or empty clears the selection
type SelectionRequest struct {
	MaskID *string `json:"maskId"`
}

// ProcessRequest submits the mask set
type ProcessRequest struct {
	InpaintMethod string `json:"inpaintMethod,omitempty" example:"opencv"`
}
