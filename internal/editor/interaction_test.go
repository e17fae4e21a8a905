package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

func pt(x, y float64) geometry.Point { return geometry.Point{X: x, Y: y} }

func drag(e *Editor, from, to geometry.Point) {
	e.PointerDown(from)
	e.PointerMove(to)
	e.PointerUp()
}

func TestEditor_Draw(t *testing.T) {
	tests := []struct {
		name     string
		from, to geometry.Point
		want     *geometry.Rect
	}{
		{name: "up-left drag normalizes", from: pt(50, 50), to: pt(10, 10), want: &geometry.Rect{X: 10, Y: 10, Width: 40, Height: 40}},
		{name: "down-right drag", from: pt(10, 20), to: pt(60, 90), want: &geometry.Rect{X: 10, Y: 20, Width: 50, Height: 70}},
		{name: "up-right drag", from: pt(10, 90), to: pt(60, 20), want: &geometry.Rect{X: 10, Y: 20, Width: 50, Height: 70}},
		{name: "tiny drag discarded", from: pt(100, 100), to: pt(105, 105)},
		{name: "exactly 10px discarded", from: pt(100, 100), to: pt(110, 110)},
		{name: "thin drag discarded", from: pt(100, 100), to: pt(300, 104)},
		{name: "drag clamped to surface", from: pt(600, 300), to: pt(900, 500), want: &geometry.Rect{X: 600, Y: 300, Width: 40, Height: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t)
			drag(e, tt.from, tt.to)

			assert.Equal(t, ModeNone, e.Mode().Kind())
			if tt.want == nil {
				assert.Empty(t, e.Masks())
				assert.Empty(t, e.SelectedID())
				return
			}
			masks := e.Masks()
			require.Len(t, masks, 1)
			assert.Equal(t, *tt.want, masks[0].Rect())
			assert.Equal(t, masks[0].ID, e.SelectedID())
			assert.True(t, masks[0].IsActive)
		})
	}
}

func TestEditor_DrawTiming(t *testing.T) {
	e := newTestEditor(t)
	e.SetCurrentTime(58.5)
	drag(e, pt(10, 10), pt(100, 100))

	masks := e.Masks()
	require.Len(t, masks, 1)
	assert.Equal(t, 55.5, masks[0].StartTime)
	assert.Equal(t, 60.0, masks[0].EndTime)
}

func TestEditor_PointerLeaveCommits(t *testing.T) {
	e := newTestEditor(t)
	e.PointerDown(pt(10, 10))
	e.PointerMove(pt(80, 80))
	e.PointerLeave()

	assert.Len(t, e.Masks(), 1)
	assert.Equal(t, ModeNone, e.Mode().Kind())
}

func TestEditor_DeleteButton(t *testing.T) {
	// AddMask on a 640x360 surface lands at 220,105 200x150; button center is 403,122
	tests := []struct {
		name        string
		at          geometry.Point
		wantDeleted bool
	}{
		{name: "center", at: pt(403, 122), wantDeleted: true},
		{name: "12px away", at: pt(403, 134), wantDeleted: true},
		{name: "13px away", at: pt(416, 122), wantDeleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t)
			_, ok := e.AddMask()
			require.True(t, ok)

			e.PointerDown(tt.at)
			e.PointerUp()

			if tt.wantDeleted {
				assert.Empty(t, e.Masks())
				assert.Empty(t, e.SelectedID())
			} else {
				assert.Len(t, e.Masks(), 1)
			}
		})
	}
}

func TestEditor_TopmostWins(t *testing.T) {
	e := newTestEditor(t)
	bottom, _ := e.AddMask()
	top, _ := e.AddMask()
	e.SelectMask("")

	e.PointerDown(pt(300, 200))
	mode, ok := e.Mode().(Moving)
	require.True(t, ok)
	assert.Equal(t, top.ID, mode.MaskID)
	assert.Equal(t, top.ID, e.SelectedID())
	assert.NotEqual(t, bottom.ID, mode.MaskID)
}

func TestEditor_HiddenMasksIgnored(t *testing.T) {
	e := newTestEditor(t)
	m, _ := e.AddMask()
	require.Equal(t, 3.0, m.EndTime)

	e.SetCurrentTime(10)
	e.PointerDown(pt(403, 122))
	assert.Equal(t, ModeDrawing, e.Mode().Kind())
	e.PointerUp()

	_, ok := e.Mask(m.ID)
	assert.True(t, ok)
}

func TestEditor_Move(t *testing.T) {
	t.Run("follows the pointer", func(t *testing.T) {
		e := newTestEditor(t)
		m, _ := e.AddMask()
		drag(e, pt(300, 200), pt(310, 180))

		got, _ := e.Mask(m.ID)
		assert.Equal(t, 230.0, got.X)
		assert.Equal(t, 85.0, got.Y)
		assert.Equal(t, m.Width, got.Width)
	})

	t.Run("clamped inside the surface", func(t *testing.T) {
		e := newTestEditor(t)
		m, _ := e.AddMask()

		e.PointerDown(pt(300, 200))
		e.PointerMove(pt(1000, 1000))
		got, _ := e.Mask(m.ID)
		assert.Equal(t, 440.0, got.X)
		assert.Equal(t, 210.0, got.Y)

		e.PointerMove(pt(-1000, -1000))
		got, _ = e.Mask(m.ID)
		assert.Equal(t, 0.0, got.X)
		assert.Equal(t, 0.0, got.Y)
		e.PointerUp()
	})
}

func TestEditor_Resize_Corners(t *testing.T) {
	// mask at 220,105 200x150: nw 220,105 / se 420,255
	tests := []struct {
		name   string
		grab   geometry.Point
		to     geometry.Point
		want   geometry.Rect
		cursor geometry.Cursor
	}{
		{name: "nw keeps se fixed", grab: pt(220, 105), to: pt(250, 135), want: geometry.Rect{X: 250, Y: 135, Width: 170, Height: 120}, cursor: geometry.CursorNWSEResize},
		{name: "nw floor keeps se fixed", grab: pt(220, 105), to: pt(500, 400), want: geometry.Rect{X: 400, Y: 235, Width: 20, Height: 20}, cursor: geometry.CursorNWSEResize},
		{name: "nw stops at the origin", grab: pt(220, 105), to: pt(-100, -100), want: geometry.Rect{X: 0, Y: 0, Width: 420, Height: 255}, cursor: geometry.CursorNWSEResize},
		{name: "se grows", grab: pt(420, 255), to: pt(450, 275), want: geometry.Rect{X: 220, Y: 105, Width: 230, Height: 170}, cursor: geometry.CursorNWSEResize},
		{name: "se floor", grab: pt(420, 255), to: pt(-80, -80), want: geometry.Rect{X: 220, Y: 105, Width: 20, Height: 20}, cursor: geometry.CursorNWSEResize},
		{name: "sw keeps ne fixed", grab: pt(220, 255), to: pt(200, 300), want: geometry.Rect{X: 200, Y: 105, Width: 220, Height: 195}, cursor: geometry.CursorNESWResize},
		{name: "ne keeps sw fixed", grab: pt(420, 105), to: pt(400, 600), want: geometry.Rect{X: 220, Y: 235, Width: 180, Height: 20}, cursor: geometry.CursorNESWResize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEditor(t)
			m, _ := e.AddMask()
			e.SelectMask("")

			e.PointerDown(tt.grab)
			require.Equal(t, ModeResizing, e.Mode().Kind())
			assert.Equal(t, m.ID, e.SelectedID())
			e.PointerMove(tt.to)
			assert.Equal(t, tt.cursor, e.Cursor(pt(0, 0)))
			e.PointerUp()

			got, _ := e.Mask(m.ID)
			assert.Equal(t, tt.want, got.Rect())
		})
	}
}

func TestEditor_Cursor(t *testing.T) {
	e := newTestEditor(t)
	e.AddMask()

	assert.Equal(t, geometry.CursorPointer, e.Cursor(pt(403, 122)))
	assert.Equal(t, geometry.CursorNWSEResize, e.Cursor(pt(222, 107)))
	assert.Equal(t, geometry.CursorNESWResize, e.Cursor(pt(220, 255)))
	assert.Equal(t, geometry.CursorMove, e.Cursor(pt(300, 200)))
	assert.Equal(t, geometry.CursorCrosshair, e.Cursor(pt(10, 10)))

	e.PointerDown(pt(300, 200))
	assert.Equal(t, geometry.CursorMove, e.Cursor(pt(10, 10)))
	e.PointerUp()

	e.PointerDown(pt(10, 10))
	assert.Equal(t, geometry.CursorCrosshair, e.Cursor(pt(300, 200)))
}

func TestEditor_PointerDownFinalizesGesture(t *testing.T) {
	e := newTestEditor(t)
	e.PointerDown(pt(10, 10))
	e.PointerMove(pt(100, 100))

	e.PointerDown(pt(600, 10))
	assert.Len(t, e.Masks(), 1)
	assert.Equal(t, ModeDrawing, e.Mode().Kind())
}
