// Package geometry holds the pure hit-testing and coordinate helpers used by
// the mask editor. Nothing in here keeps state.
package geometry

import "math"

const (
	// HandleSize is the drawn size of a corner resize handle
	HandleSize = 8.0
	// HandleTolerance widens the handle hit zone beyond its drawn size
	HandleTolerance = 5.0

	// DeleteButtonRadius is the hit radius of the delete affordance
	DeleteButtonRadius = 12.0
	// DeleteButtonInset is the distance from the top-right corner to the button center on each axis
	DeleteButtonInset = 17.0

	// RescaleThreshold is the minimum per-axis size change (px) that triggers a rescale
	RescaleThreshold = 1.0
)

// Point is a position on the rendering surface in pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is unset
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Corner identifies one of the four resize handles
type Corner string

const (
	CornerNone Corner = ""
	CornerNW   Corner = "nw"
	CornerNE   Corner = "ne"
	CornerSW   Corner = "sw"
	CornerSE   Corner = "se"
)

// cornerOrder is the order handles are tested in; the first match wins.
var cornerOrder = []Corner{CornerNW, CornerNE, CornerSW, CornerSE}

// Corners returns the handle corners in hit-test order
func Corners() []Corner {
	out := make([]Corner, len(cornerOrder))
	copy(out, cornerOrder)
	return out
}

// CornerPoint returns the location of corner c on r
func CornerPoint(r Rect, c Corner) Point {
	switch c {
	case CornerNW:
		return Point{X: r.X, Y: r.Y}
	case CornerNE:
		return Point{X: r.Right(), Y: r.Y}
	case CornerSW:
		return Point{X: r.X, Y: r.Bottom()}
	case CornerSE:
		return Point{X: r.Right(), Y: r.Bottom()}
	}
	return Point{}
}

// Opposite returns the diagonally opposite corner
func (c Corner) Opposite() Corner {
	switch c {
	case CornerNW:
		return CornerSE
	case CornerNE:
		return CornerSW
	case CornerSW:
		return CornerNE
	case CornerSE:
		return CornerNW
	}
	return CornerNone
}

// HitTestHandle returns the resize corner p falls on, if any
func HitTestHandle(p Point, r Rect) (Corner, bool) {
	reach := HandleSize + HandleTolerance
	for _, c := range cornerOrder {
		cp := CornerPoint(r, c)
		if math.Abs(p.X-cp.X) < reach && math.Abs(p.Y-cp.Y) < reach {
			return c, true
		}
	}
	return CornerNone, false
}

// HitTestBody reports whether p lies inside r, edges included
func HitTestBody(p Point, r Rect) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// DeleteButtonCenter returns the center of the delete affordance for r
func DeleteButtonCenter(r Rect) Point {
	return Point{X: r.Right() - DeleteButtonInset, Y: r.Y + DeleteButtonInset}
}

// HitTestDeleteButton reports whether p lies within the delete button circle of r
func HitTestDeleteButton(p Point, r Rect) bool {
	c := DeleteButtonCenter(r)
	return math.Hypot(p.X-c.X, p.Y-c.Y) <= DeleteButtonRadius
}

// Normalize builds the rectangle spanned by two drag points, whatever the drag direction
func Normalize(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Clamp limits v to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ScaleFactors returns the per-axis factors mapping from to to
func ScaleFactors(from, to Size) (sx, sy float64) {
	if from.IsZero() {
		return 1, 1
	}
	return to.Width / from.Width, to.Height / from.Height
}

// NeedsRescale reports whether a surface change from old to new should rescale stored geometry.
// An uninitialised old size never rescales.
func NeedsRescale(old, new Size) bool {
	if old.IsZero() || new.IsZero() {
		return false
	}
	return math.Abs(new.Width-old.Width) > RescaleThreshold ||
		math.Abs(new.Height-old.Height) > RescaleThreshold
}

// Scale multiplies r by the given per-axis factors
func Scale(r Rect, sx, sy float64) Rect {
	return Rect{
		X:      r.X * sx,
		Y:      r.Y * sy,
		Width:  r.Width * sx,
		Height: r.Height * sy,
	}
}

// Rescale maps every rect from the old surface size to the new one.
// The input slice is returned untouched (changed == false) when no rescale is due.
func Rescale(rects []Rect, old, new Size) ([]Rect, bool) {
	if !NeedsRescale(old, new) {
		return rects, false
	}
	sx, sy := ScaleFactors(old, new)
	out := make([]Rect, len(rects))
	for i, r := range rects {
		out[i] = Scale(r, sx, sy)
	}
	return out, true
}

// ContainBox returns the box a video of native size occupies inside container
// under object-fit: contain (centered, aspect preserved, letterboxed).
func ContainBox(container, native Size) Rect {
	if container.IsZero() {
		return Rect{}
	}
	if native.IsZero() {
		return Rect{Width: container.Width, Height: container.Height}
	}
	scale := math.Min(container.Width/native.Width, container.Height/native.Height)
	w := native.Width * scale
	h := native.Height * scale
	return Rect{
		X:      (container.Width - w) / 2,
		Y:      (container.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}
