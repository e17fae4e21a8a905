package editor

import (
	"math"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// hit is what a pointer position lands on
type hit struct {
	kind   hitKind
	mask   models.Mask
	corner geometry.Corner
}

type hitKind int

const (
	hitNothing hitKind = iota
	hitDelete
	hitHandle
	hitBody
)

// hitTest walks visible masks topmost first. Within a mask the delete button
// beats a handle, which beats the body.
func (e *Editor) hitTest(p geometry.Point) hit {
	for i := len(e.masks) - 1; i >= 0; i-- {
		m := e.masks[i]
		if !m.VisibleAt(e.currentTime) {
			continue
		}
		r := m.Rect()
		if geometry.HitTestDeleteButton(p, r) {
			return hit{kind: hitDelete, mask: m}
		}
		if c, ok := geometry.HitTestHandle(p, r); ok {
			return hit{kind: hitHandle, mask: m, corner: c}
		}
		if geometry.HitTestBody(p, r) {
			return hit{kind: hitBody, mask: m}
		}
	}
	return hit{kind: hitNothing}
}

// PointerDown starts a gesture at p (surface pixels)
func (e *Editor) PointerDown(p geometry.Point) {
	if !e.hasSurface() {
		return
	}
	if _, idle := e.mode.(Idle); !idle {
		e.PointerUp()
	}

	h := e.hitTest(p)
	switch h.kind {
	case hitDelete:
		e.DeleteMask(h.mask.ID)
	case hitHandle:
		e.selectedID = h.mask.ID
		e.mode = Resizing{MaskID: h.mask.ID, Corner: h.corner, DragStart: p, Snapshot: h.mask}
	case hitBody:
		e.selectedID = h.mask.ID
		e.mode = Moving{MaskID: h.mask.ID, DragStart: p, Snapshot: h.mask}
	default:
		anchor := e.clampToSurface(p)
		start, end := models.DefaultWindow(e.currentTime, e.duration)
		e.selectedID = ""
		e.mode = Drawing{
			Anchor: anchor,
			Candidate: models.Mask{
				ID:        e.newID(),
				X:         anchor.X,
				Y:         anchor.Y,
				StartTime: start,
				EndTime:   end,
				IsActive:  true,
			},
		}
	}
}

// PointerMove advances the in-progress gesture
func (e *Editor) PointerMove(p geometry.Point) {
	switch m := e.mode.(type) {
	case Drawing:
		m.Candidate = m.Candidate.WithRect(geometry.Normalize(m.Anchor, e.clampToSurface(p)))
		e.mode = m
	case Moving:
		cur, ok := e.Mask(m.MaskID)
		if !ok {
			return
		}
		d := p.Sub(m.DragStart)
		r := cur.Rect()
		r.X = geometry.Clamp(m.Snapshot.X+d.X, 0, e.surface.Width-r.Width)
		r.Y = geometry.Clamp(m.Snapshot.Y+d.Y, 0, e.surface.Height-r.Height)
		e.replace(cur.WithRect(r))
	case Resizing:
		cur, ok := e.Mask(m.MaskID)
		if !ok {
			return
		}
		e.replace(cur.WithRect(resizeRect(m.Snapshot.Rect(), m.Corner, p.Sub(m.DragStart))))
	}
}

// PointerUp finalizes the in-progress gesture and returns to idle
func (e *Editor) PointerUp() {
	if d, ok := e.mode.(Drawing); ok {
		c := d.Candidate
		if c.Width > models.MinDrawSize && c.Height > models.MinDrawSize {
			e.masks = append(e.masks, c)
			e.selectedID = c.ID
		}
	}
	e.mode = Idle{}
}

// PointerLeave is treated as PointerUp so a drag never gets stuck
func (e *Editor) PointerLeave() {
	e.PointerUp()
}

// Cursor returns the cursor to show with the pointer at p
func (e *Editor) Cursor(p geometry.Point) geometry.Cursor {
	switch m := e.mode.(type) {
	case Moving:
		return geometry.CursorMove
	case Resizing:
		return geometry.ResizeCursor(m.Corner)
	case Drawing:
		return geometry.CursorCrosshair
	}

	h := e.hitTest(p)
	switch h.kind {
	case hitDelete:
		return geometry.CursorPointer
	case hitHandle:
		return geometry.ResizeCursor(h.corner)
	case hitBody:
		return geometry.CursorMove
	}
	return geometry.CursorCrosshair
}

// Draft returns the in-progress draw candidate, if any
func (e *Editor) Draft() (models.Mask, bool) {
	if d, ok := e.mode.(Drawing); ok {
		return d.Candidate, true
	}
	return models.Mask{}, false
}

func (e *Editor) clampToSurface(p geometry.Point) geometry.Point {
	return geometry.Point{
		X: geometry.Clamp(p.X, 0, e.surface.Width),
		Y: geometry.Clamp(p.Y, 0, e.surface.Height),
	}
}

// resizeRect applies a corner drag of delta to the rect captured at gesture start.
// The opposite corner stays fixed and neither side shrinks below MinResizeSize.
func resizeRect(orig geometry.Rect, corner geometry.Corner, delta geometry.Point) geometry.Rect {
	const floor = models.MinResizeSize
	r := orig
	right := orig.Right()
	bottom := orig.Bottom()

	switch corner {
	case geometry.CornerSE:
		r.Width = math.Max(floor, orig.Width+delta.X)
		r.Height = math.Max(floor, orig.Height+delta.Y)
	case geometry.CornerSW:
		r.X = math.Min(right-floor, orig.X+delta.X)
		r.Width = math.Max(floor, orig.Width-delta.X)
		r.Height = math.Max(floor, orig.Height+delta.Y)
	case geometry.CornerNE:
		r.Y = math.Min(bottom-floor, orig.Y+delta.Y)
		r.Width = math.Max(floor, orig.Width+delta.X)
		r.Height = math.Max(floor, orig.Height-delta.Y)
	case geometry.CornerNW:
		r.X = math.Min(right-floor, orig.X+delta.X)
		r.Y = math.Min(bottom-floor, orig.Y+delta.Y)
		r.Width = math.Max(floor, orig.Width-delta.X)
		r.Height = math.Max(floor, orig.Height-delta.Y)
	}

	// min-side edges stop at the surface origin; the fixed edge stays put
	if r.X < 0 {
		r.X = 0
		r.Width = right
	}
	if r.Y < 0 {
		r.Y = 0
		r.Height = bottom
	}
	return r
}
