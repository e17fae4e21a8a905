package models

import (
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Mask constraints
const (
	// MinTimeGap is the smallest allowed window between start and end (seconds)
	MinTimeGap = 0.1
	// MinDrawSize is the size a drawn candidate must exceed on both axes to be kept
	MinDrawSize = 10.0
	// MinResizeSize is the floor applied to each dimension while resizing
	MinResizeSize = 20.0
	// MinFieldSize is the floor for width/height typed into the control panel
	MinFieldSize = 1.0
)

// Mask represents a rectangular region on the rendering surface that is active
// during a window of video playback time. Coordinates are surface pixels.
type Mask struct {
	ID        string  `json:"id" yaml:"id"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	StartTime float64 `json:"startTime" yaml:"startTime"` // Time in seconds
	EndTime   float64 `json:"endTime" yaml:"endTime"`     // Time in seconds
	IsActive  bool    `json:"isActive" yaml:"isActive"`   // Reserved, not read by the editor
}

// Rect returns the mask's geometry
func (m Mask) Rect() geometry.Rect {
	return geometry.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// WithRect returns a copy of m carrying r as its geometry
func (m Mask) WithRect(r geometry.Rect) Mask {
	m.X, m.Y, m.Width, m.Height = r.X, r.Y, r.Width, r.Height
	return m
}

// VisibleAt reports whether the mask's window contains t (inclusive on both ends)
func (m Mask) VisibleAt(t float64) bool {
	return t >= m.StartTime && t <= m.EndTime
}

// Validate checks the mask invariants against a video duration.
// A zero duration skips the upper time bound check.
func (m Mask) Validate(duration float64) error {
	if m.ID == "" {
		return errMaskField("id", "is required")
	}
	if m.Width <= 0 || m.Height <= 0 {
		return errMaskField("size", "width and height must be positive")
	}
	if m.X < 0 || m.Y < 0 {
		return errMaskField("position", "x and y must be non-negative")
	}
	if m.StartTime < 0 {
		return errMaskField("startTime", "must be non-negative")
	}
	if Bounded(duration) && m.EndTime > duration {
		return errMaskField("endTime", "exceeds video duration")
	}
	// tolerate float noise from repeated 0.1s clamps
	if m.EndTime-m.StartTime < MinTimeGap-1e-9 {
		return errMaskField("time", "end must be at least 0.1s after start")
	}
	return nil
}

// MaskFieldError describes a violated mask invariant
type MaskFieldError struct {
	Field  string
	Reason string
}

func (e *MaskFieldError) Error() string {
	return "mask " + e.Field + " " + e.Reason
}

func errMaskField(field, reason string) error {
	return &MaskFieldError{Field: field, Reason: reason}
}

// DefaultWindowSpan is the distance either side of the playhead a new mask covers
const DefaultWindowSpan = 3.0

// DefaultWindow returns the default [t-3, t+3] window clamped to [0, duration]
func DefaultWindow(t, duration float64) (start, end float64) {
	return ClampWindow(t-DefaultWindowSpan, t+DefaultWindowSpan, duration)
}

// Bounded reports whether a video duration caps mask windows. Zero means
// metadata has not loaded yet; a clip shorter than MinTimeGap cannot hold a
// window, so both leave the upper bound open.
func Bounded(duration float64) bool {
	return duration >= MinTimeGap
}

// ClampWindow clamps a window into [0, duration] while keeping the 0.1s gap
func ClampWindow(start, end, duration float64) (float64, float64) {
	if start < 0 {
		start = 0
	}
	if Bounded(duration) && end > duration {
		end = duration
	}
	if end-start < MinTimeGap {
		end = start + MinTimeGap
		if Bounded(duration) && end > duration {
			end = duration
			start = end - MinTimeGap
			if start < 0 {
				start = 0
			}
		}
	}
	return start, end
}
