package editor

import (
	"fmt"
	"math"

	"github.com/killallgit/mask-editor-api/internal/models"
)

const (
	// DefaultMaskWidth and DefaultMaskHeight size a mask created by AddMask
	DefaultMaskWidth  = 200.0
	DefaultMaskHeight = 150.0
	// DuplicateOffset shifts a duplicate right and down from its source
	DuplicateOffset = 20.0
	// NudgeStep is the size of the relative start/end nudge controls
	NudgeStep = 3.0
)

// Bound selects the start or end of a mask's time window
type Bound string

const (
	BoundStart Bound = "start"
	BoundEnd   Bound = "end"
)

// MaskUpdate carries a partial field edit. Nil fields are left alone.
type MaskUpdate struct {
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	StartTime *float64 `json:"startTime,omitempty"`
	EndTime   *float64 `json:"endTime,omitempty"`
}

// AddMask appends a default-size mask centred on the surface and selects it
func (e *Editor) AddMask() (models.Mask, bool) {
	if !e.hasSurface() {
		return models.Mask{}, false
	}
	start, end := models.DefaultWindow(e.currentTime, e.duration)
	m := models.Mask{
		ID:        e.newID(),
		X:         math.Max(0, e.surface.Width/2-DefaultMaskWidth/2),
		Y:         math.Max(0, e.surface.Height/2-DefaultMaskHeight/2),
		Width:     DefaultMaskWidth,
		Height:    DefaultMaskHeight,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}
	e.masks = append(e.masks, m)
	e.selectedID = m.ID
	return m, true
}

// DuplicateMask copies a mask under a new id, offset by +20/+20, and selects the copy
func (e *Editor) DuplicateMask(id string) (models.Mask, bool) {
	src, ok := e.Mask(id)
	if !ok {
		return models.Mask{}, false
	}
	dup := src
	dup.ID = e.newID()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	e.masks = append(e.masks, dup)
	e.selectedID = dup.ID
	return dup, true
}

// DeleteMask removes one mask. Unknown ids are ignored.
func (e *Editor) DeleteMask(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.masks = append(e.masks[:i:i], e.masks[i+1:]...)
	if e.selectedID == id {
		e.selectedID = ""
	}
	if e.gestureTargets(id) {
		e.mode = Idle{}
	}
	return true
}

// DeleteAll empties the mask set and clears the selection
func (e *Editor) DeleteAll() {
	e.masks = nil
	e.selectedID = ""
	if _, drawing := e.mode.(Drawing); !drawing {
		e.mode = Idle{}
	}
}

// SelectMask selects a mask by id; an empty id clears the selection.
// Unknown ids are ignored.
func (e *Editor) SelectMask(id string) bool {
	if id == "" {
		e.selectedID = ""
		return true
	}
	if e.indexOf(id) < 0 {
		return false
	}
	e.selectedID = id
	return true
}

// UpdateMask applies a partial field edit with the control panel clamps:
// position is a non-negative integer, size an integer of at least 1, and the
// time window keeps its 0.1s gap inside [0, duration].
func (e *Editor) UpdateMask(id string, u MaskUpdate) (models.Mask, bool) {
	m, ok := e.Mask(id)
	if !ok {
		return models.Mask{}, false
	}

	if u.X != nil {
		m.X = math.Max(0, math.Round(*u.X))
	}
	if u.Y != nil {
		m.Y = math.Max(0, math.Round(*u.Y))
	}
	if u.Width != nil {
		m.Width = math.Max(models.MinFieldSize, math.Round(*u.Width))
	}
	if u.Height != nil {
		m.Height = math.Max(models.MinFieldSize, math.Round(*u.Height))
	}

	switch {
	case u.StartTime != nil && u.EndTime != nil:
		m.StartTime, m.EndTime = models.ClampWindow(*u.StartTime, math.Max(*u.EndTime, *u.StartTime+models.MinTimeGap), e.duration)
	case u.StartTime != nil:
		m = e.withStart(m, *u.StartTime)
	case u.EndTime != nil:
		m = e.withEnd(m, *u.EndTime)
	}

	e.replace(m)
	return m, true
}

// Nudge shifts one bound of a mask's window by delta seconds, clamped the same
// way as a direct edit.
func (e *Editor) Nudge(id string, bound Bound, delta float64) (models.Mask, bool) {
	m, ok := e.Mask(id)
	if !ok {
		return models.Mask{}, false
	}
	switch bound {
	case BoundStart:
		m = e.withStart(m, m.StartTime+delta)
	case BoundEnd:
		m = e.withEnd(m, m.EndTime+delta)
	default:
		return m, false
	}
	e.replace(m)
	return m, true
}

// Process hands the full ordered mask set to the process callback unmodified
// and returns the set that was handed off.
func (e *Editor) Process() []models.Mask {
	masks := e.Masks()
	if e.onProcess != nil {
		e.onProcess(masks)
	}
	return masks
}

// Close discards the session and notifies the close callback
func (e *Editor) Close() {
	e.masks = nil
	e.selectedID = ""
	e.mode = Idle{}
	if e.onClose != nil {
		e.onClose()
	}
}

func (e *Editor) withStart(m models.Mask, v float64) models.Mask {
	v = math.Min(v, m.EndTime-models.MinTimeGap)
	m.StartTime = math.Max(0, v)
	return m
}

func (e *Editor) withEnd(m models.Mask, v float64) models.Mask {
	v = math.Max(v, m.StartTime+models.MinTimeGap)
	if models.Bounded(e.duration) && v > e.duration {
		v = e.duration
	}
	m.EndTime = v
	return m
}

func (e *Editor) gestureTargets(id string) bool {
	switch m := e.mode.(type) {
	case Moving:
		return m.MaskID == id
	case Resizing:
		return m.MaskID == id
	}
	return false
}

// FormatTime renders seconds the way the control panel labels them
func FormatTime(t float64) string {
	return fmt.Sprintf("%.1fs", t)
}

// NudgeStart moves a mask's start by delta seconds
func (e *Editor) NudgeStart(id string, delta float64) (models.Mask, bool) {
	return e.Nudge(id, BoundStart, delta)
}

// NudgeEnd moves a mask's end by delta seconds
func (e *Editor) NudgeEnd(id string, delta float64) (models.Mask, bool) {
	return e.Nudge(id, BoundEnd, delta)
}
