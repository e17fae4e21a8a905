// Package editor implements the interactive video mask editor: an ordered set of
// time-bounded rectangular masks, the pointer-driven draw/move/resize state
// machine, structured field editing, and a pure render step producing draw
// commands for an overlay surface.
//
// An Editor is not safe for concurrent use. Callers that share one across
// goroutines serialize access themselves (see services/sessions).
package editor

import (
	"github.com/google/uuid"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// ProcessFunc receives the full ordered mask set on submit
type ProcessFunc func(masks []models.Mask)

// Options configures a new Editor
type Options struct {
	VideoURL string
	Duration float64
	// Container is the hosting element's size; the overlay is fitted inside it.
	Container geometry.Size
	// Native is the video's intrinsic resolution. Zero means unknown, in which
	// case the overlay fills the container.
	Native geometry.Size

	NewID     func() string
	OnProcess ProcessFunc
	OnClose   func()
}

// Editor owns one editing session's mask set and interaction state
type Editor struct {
	videoURL    string
	masks       []models.Mask
	selectedID  string
	currentTime float64
	duration    float64

	surface geometry.Size // overlay pixel size, masks live in this space
	overlay geometry.Rect // overlay position inside the container
	native  geometry.Size

	mode Mode

	newID     func() string
	onProcess ProcessFunc
	onClose   func()
}

// New creates an editor with an empty mask set
func New(opts Options) *Editor {
	e := &Editor{
		videoURL:  opts.VideoURL,
		duration:  nonNegative(opts.Duration),
		native:    opts.Native,
		mode:      Idle{},
		newID:     opts.NewID,
		onProcess: opts.OnProcess,
		onClose:   opts.OnClose,
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.SyncSurface(opts.Container, opts.Native)
	return e
}

// VideoURL returns the video the session edits
func (e *Editor) VideoURL() string { return e.videoURL }

// Masks returns a copy of the ordered mask set
func (e *Editor) Masks() []models.Mask {
	out := make([]models.Mask, len(e.masks))
	copy(out, e.masks)
	return out
}

// Mask looks up a mask by id
func (e *Editor) Mask(id string) (models.Mask, bool) {
	i := e.indexOf(id)
	if i < 0 {
		return models.Mask{}, false
	}
	return e.masks[i], true
}

// SelectedID returns the selected mask id, or "" when nothing is selected
func (e *Editor) SelectedID() string { return e.selectedID }

// Mode returns the current interaction mode
func (e *Editor) Mode() Mode { return e.mode }

// CurrentTime returns the playback position in seconds
func (e *Editor) CurrentTime() float64 { return e.currentTime }

// Duration returns the video duration in seconds (0 until metadata loads)
func (e *Editor) Duration() float64 { return e.duration }

// Surface returns the overlay size masks are expressed in
func (e *Editor) Surface() geometry.Size { return e.surface }

// Overlay returns the overlay box inside the hosting container
func (e *Editor) Overlay() geometry.Rect { return e.overlay }

// Native returns the video's intrinsic size, if known
func (e *Editor) Native() geometry.Size { return e.native }

// SetDuration records the video duration once metadata is known.
// Existing windows are pulled back inside the new bound.
func (e *Editor) SetDuration(d float64) {
	e.duration = nonNegative(d)
	for i, m := range e.masks {
		m.StartTime, m.EndTime = models.ClampWindow(m.StartTime, m.EndTime, e.duration)
		e.masks[i] = m
	}
	e.currentTime = e.clampPlayhead(e.currentTime)
}

// SetCurrentTime follows the video's reported playback position
func (e *Editor) SetCurrentTime(t float64) {
	e.currentTime = e.clampPlayhead(t)
}

// Seek moves the playhead on explicit seek-bar interaction and returns the applied time
func (e *Editor) Seek(t float64) float64 {
	e.SetCurrentTime(t)
	return e.currentTime
}

// Resize applies a new overlay size. Stored geometry is scaled proportionally
// when either axis moved by more than a pixel; smaller changes are ignored.
func (e *Editor) Resize(size geometry.Size) bool {
	if size.IsZero() {
		return false
	}
	if e.surface.IsZero() {
		e.surface = size
		return false
	}
	if !geometry.NeedsRescale(e.surface, size) {
		return false
	}

	sx, sy := geometry.ScaleFactors(e.surface, size)
	for i, m := range e.masks {
		e.masks[i] = m.WithRect(geometry.Scale(m.Rect(), sx, sy))
	}
	e.mode = scaleMode(e.mode, sx, sy)
	e.surface = size
	return true
}

// SyncSurface fits the overlay to the video's displayed box inside container
// and rescales masks to match. It returns the overlay box.
func (e *Editor) SyncSurface(container, native geometry.Size) geometry.Rect {
	if !native.IsZero() {
		e.native = native
	}
	box := geometry.ContainBox(container, e.native)
	if box.Width <= 0 || box.Height <= 0 {
		return e.overlay
	}
	e.Resize(geometry.Size{Width: box.Width, Height: box.Height})
	e.overlay = geometry.Rect{X: box.X, Y: box.Y, Width: e.surface.Width, Height: e.surface.Height}
	return e.overlay
}

func (e *Editor) clampPlayhead(t float64) float64 {
	if t < 0 {
		return 0
	}
	if e.duration > 0 && t > e.duration {
		return e.duration
	}
	return t
}

func (e *Editor) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.masks {
		if e.masks[i].ID == id {
			return i
		}
	}
	return -1
}

// replace swaps in a new value for the mask with the same id
func (e *Editor) replace(m models.Mask) bool {
	i := e.indexOf(m.ID)
	if i < 0 {
		return false
	}
	e.masks[i] = m
	return true
}

func (e *Editor) hasSurface() bool {
	return !e.surface.IsZero()
}

func scaleMode(mode Mode, sx, sy float64) Mode {
	scalePoint := func(p geometry.Point) geometry.Point {
		return geometry.Point{X: p.X * sx, Y: p.Y * sy}
	}
	scaleMask := func(m models.Mask) models.Mask {
		return m.WithRect(geometry.Scale(m.Rect(), sx, sy))
	}

	switch m := mode.(type) {
	case Drawing:
		m.Anchor = scalePoint(m.Anchor)
		m.Candidate = scaleMask(m.Candidate)
		return m
	case Moving:
		m.DragStart = scalePoint(m.DragStart)
		m.Snapshot = scaleMask(m.Snapshot)
		return m
	case Resizing:
		m.DragStart = scalePoint(m.DragStart)
		m.Snapshot = scaleMask(m.Snapshot)
		return m
	}
	return mode
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
