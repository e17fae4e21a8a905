package geometry

// Cursor is a CSS cursor keyword the client should show over the overlay
type Cursor string

const (
	CursorCrosshair  Cursor = "crosshair"
	CursorPointer    Cursor = "pointer"
	CursorMove       Cursor = "move"
	CursorNWSEResize Cursor = "nwse-resize"
	CursorNESWResize Cursor = "nesw-resize"
)

// ResizeCursor returns the diagonal resize cursor for a handle
func ResizeCursor(c Corner) Cursor {
	switch c {
	case CornerNE, CornerSW:
		return CursorNESWResize
	case CornerNW, CornerSE:
		return CursorNWSEResize
	}
	return CursorCrosshair
}
