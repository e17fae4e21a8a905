package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// sequentialIDs returns an id generator yielding m1, m2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
}

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	return New(Options{
		VideoURL:  "https://example.com/clip.mp4",
		Duration:  60,
		Container: geometry.Size{Width: 640, Height: 360},
		NewID:     sequentialIDs(),
	})
}

func TestNew(t *testing.T) {
	t.Run("fills the container when native size is unknown", func(t *testing.T) {
		e := newTestEditor(t)
		assert.Equal(t, geometry.Size{Width: 640, Height: 360}, e.Surface())
		assert.Equal(t, geometry.Rect{Width: 640, Height: 360}, e.Overlay())
		assert.Equal(t, ModeNone, e.Mode().Kind())
		assert.Empty(t, e.Masks())
	})

	t.Run("letterboxes to the native aspect ratio", func(t *testing.T) {
		e := New(Options{
			Container: geometry.Size{Width: 1000, Height: 1000},
			Native:    geometry.Size{Width: 1920, Height: 1080},
		})
		assert.InDelta(t, 1000, e.Surface().Width, 1e-9)
		assert.InDelta(t, 562.5, e.Surface().Height, 1e-9)
		assert.InDelta(t, 218.75, e.Overlay().Y, 1e-9)
		assert.InDelta(t, 0, e.Overlay().X, 1e-9)
	})

	t.Run("defaults to uuid ids", func(t *testing.T) {
		e := New(Options{Container: geometry.Size{Width: 640, Height: 360}})
		m, ok := e.AddMask()
		require.True(t, ok)
		assert.Len(t, m.ID, 36)
	})
}

func TestEditor_NoSurface(t *testing.T) {
	e := New(Options{Duration: 10, NewID: sequentialIDs()})

	_, ok := e.AddMask()
	assert.False(t, ok)

	e.PointerDown(geometry.Point{X: 5, Y: 5})
	e.PointerMove(geometry.Point{X: 50, Y: 50})
	e.PointerUp()

	assert.Empty(t, e.Masks())
	assert.Equal(t, ModeNone, e.Mode().Kind())
	assert.Nil(t, e.Render())
}

func TestEditor_Resize(t *testing.T) {
	t.Run("sub-pixel change is a no-op", func(t *testing.T) {
		e := newTestEditor(t)
		e.AddMask()
		before := e.Masks()

		changed := e.Resize(geometry.Size{Width: 640.5, Height: 359.2})
		assert.False(t, changed)
		assert.Equal(t, before, e.Masks())
		assert.Equal(t, geometry.Size{Width: 640, Height: 360}, e.Surface())
	})

	t.Run("same size is a no-op", func(t *testing.T) {
		e := newTestEditor(t)
		e.AddMask()
		before := e.Masks()

		e.SyncSurface(geometry.Size{Width: 640, Height: 360}, geometry.Size{})
		assert.Equal(t, before, e.Masks())
	})

	t.Run("scales each axis independently", func(t *testing.T) {
		e := newTestEditor(t)
		m, _ := e.AddMask()

		require.True(t, e.Resize(geometry.Size{Width: 1280, Height: 180}))
		got, _ := e.Mask(m.ID)
		assert.InDelta(t, m.X*2, got.X, 1e-9)
		assert.InDelta(t, m.Width*2, got.Width, 1e-9)
		assert.InDelta(t, m.Y/2, got.Y, 1e-9)
		assert.InDelta(t, m.Height/2, got.Height, 1e-9)
		assert.Equal(t, m.StartTime, got.StartTime)
	})

	t.Run("round trip restores geometry", func(t *testing.T) {
		e := newTestEditor(t)
		e.AddMask()
		e.AddMask()
		before := e.Masks()

		e.Resize(geometry.Size{Width: 917, Height: 411})
		e.Resize(geometry.Size{Width: 640, Height: 360})

		after := e.Masks()
		require.Len(t, after, len(before))
		for i := range before {
			assert.InDelta(t, before[i].X, after[i].X, 1e-9)
			assert.InDelta(t, before[i].Y, after[i].Y, 1e-9)
			assert.InDelta(t, before[i].Width, after[i].Width, 1e-9)
			assert.InDelta(t, before[i].Height, after[i].Height, 1e-9)
		}
	})

	t.Run("zero size is ignored", func(t *testing.T) {
		e := newTestEditor(t)
		assert.False(t, e.Resize(geometry.Size{}))
		assert.Equal(t, geometry.Size{Width: 640, Height: 360}, e.Surface())
	})

	t.Run("scales an in-progress draw", func(t *testing.T) {
		e := newTestEditor(t)
		e.PointerDown(geometry.Point{X: 10, Y: 10})
		e.PointerMove(geometry.Point{X: 110, Y: 60})

		e.Resize(geometry.Size{Width: 1280, Height: 720})
		d, ok := e.Draft()
		require.True(t, ok)
		assert.InDelta(t, 20, d.X, 1e-9)
		assert.InDelta(t, 200, d.Width, 1e-9)
		assert.InDelta(t, 100, d.Height, 1e-9)
	})
}

func TestEditor_Playback(t *testing.T) {
	e := newTestEditor(t)

	e.SetCurrentTime(12.5)
	assert.Equal(t, 12.5, e.CurrentTime())

	assert.Equal(t, 60.0, e.Seek(75))
	assert.Equal(t, 0.0, e.Seek(-1))

	t.Run("shorter duration pulls windows back in", func(t *testing.T) {
		e := newTestEditor(t)
		e.SetCurrentTime(40)
		m, _ := e.AddMask()
		require.Equal(t, 43.0, m.EndTime)

		e.SetDuration(20)
		got, _ := e.Mask(m.ID)
		assert.NoError(t, got.Validate(20))
		assert.LessOrEqual(t, got.EndTime, 20.0)
		assert.Equal(t, 20.0, e.CurrentTime())
	})

	t.Run("unknown duration leaves the playhead unbounded", func(t *testing.T) {
		e := New(Options{Container: geometry.Size{Width: 10, Height: 10}})
		e.SetCurrentTime(500)
		assert.Equal(t, 500.0, e.CurrentTime())
	})
}

// TestEditor_InvariantsHold drives a fixed pseudo-random sequence of operations
// and checks every mask stays valid after each step.
func TestEditor_InvariantsHold(t *testing.T) {
	e := newTestEditor(t)
	seq := uint32(7)
	next := func(n int) float64 {
		seq = seq*1664525 + 1013904223
		return float64(int(seq>>8) % n)
	}
	fp := func(v float64) *float64 { return &v }

	for step := 0; step < 500; step++ {
		p := geometry.Point{X: next(800) - 80, Y: next(500) - 70}
		var id string
		if ms := e.Masks(); len(ms) > 0 {
			id = ms[int(next(len(ms)))].ID
		}

		switch int(next(10)) {
		case 0:
			e.PointerDown(p)
		case 1, 2:
			e.PointerMove(p)
		case 3:
			e.PointerUp()
		case 4:
			e.AddMask()
		case 5:
			e.DuplicateMask(id)
		case 6:
			e.UpdateMask(id, MaskUpdate{StartTime: fp(next(80) - 10), Width: fp(next(900) - 100)})
		case 7:
			e.UpdateMask(id, MaskUpdate{EndTime: fp(next(80) - 10), X: fp(next(900) - 100)})
		case 8:
			e.NudgeStart(id, next(7)-3)
			e.NudgeEnd(id, next(7)-3)
		case 9:
			e.SetCurrentTime(next(70))
		}

		for _, m := range e.Masks() {
			require.NoError(t, m.Validate(e.Duration()), "step %d mask %s", step, m.ID)
		}
	}
}

func TestEditor_ProcessAndClose(t *testing.T) {
	var received []models.Mask
	closed := false
	e := New(Options{
		Duration:  10,
		Container: geometry.Size{Width: 640, Height: 360},
		NewID:     sequentialIDs(),
		OnProcess: func(masks []models.Mask) { received = masks },
		OnClose:   func() { closed = true },
	})
	e.AddMask()
	e.AddMask()

	out := e.Process()
	require.Len(t, received, 2)
	assert.Equal(t, e.Masks(), received)
	assert.Equal(t, out, received)

	received[0].X = 999
	first, _ := e.Mask("m1")
	assert.NotEqual(t, 999.0, first.X)

	e.Close()
	assert.True(t, closed)
	assert.Empty(t, e.Masks())
}
