package editor

import (
	"fmt"

	"github.com/killallgit/mask-editor-api/internal/models"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// Overlay palette
const (
	ColorAccent         = "#0ba5ac"
	ColorStroke         = "#0ba5ac80"
	ColorFillSelected   = "#0ba5ac20"
	ColorFill           = "#0ba5ac10"
	ColorLabel          = "#0ba5accc"
	ColorDeleteGlyph    = "#ffffff"
	LabelFont           = "12px sans-serif"
	LabelOffset         = 5.0
	StrokeWidthSelected = 3.0
	StrokeWidth         = 2.0
	deleteGlyphHalf     = 4.0
)

// DraftDash is the dash pattern of the in-progress draw outline
var DraftDash = []float64{5, 5}

// Op names a draw primitive
type Op string

const (
	OpClear      Op = "clear"
	OpFillRect   Op = "fillRect"
	OpStrokeRect Op = "strokeRect"
	OpFillCircle Op = "fillCircle"
	OpLine       Op = "line"
	OpText       Op = "text"
)

// DrawCommand is one 2D canvas primitive. Only the fields relevant to Op are set.
type DrawCommand struct {
	Op        Op        `json:"op"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width,omitempty"`
	Height    float64   `json:"height,omitempty"`
	X2        float64   `json:"x2,omitempty"`
	Y2        float64   `json:"y2,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
	Color     string    `json:"color,omitempty"`
	LineWidth float64   `json:"lineWidth,omitempty"`
	Dash      []float64 `json:"dash,omitempty"`
	Text      string    `json:"text,omitempty"`
	Font      string    `json:"font,omitempty"`
}

// Scene is everything the overlay depends on
type Scene struct {
	Surface     geometry.Size
	Masks       []models.Mask
	SelectedID  string
	CurrentTime float64
	Draft       *models.Mask
}

// Scene captures the editor's current render inputs
func (e *Editor) Scene() Scene {
	s := Scene{
		Surface:     e.surface,
		Masks:       e.Masks(),
		SelectedID:  e.selectedID,
		CurrentTime: e.currentTime,
	}
	if d, ok := e.Draft(); ok {
		s.Draft = &d
	}
	return s
}

// Render draws the editor's current scene
func (e *Editor) Render() []DrawCommand {
	return Render(e.Scene())
}

// Render turns a scene into a full redraw of the overlay. It is pure.
func Render(s Scene) []DrawCommand {
	if s.Surface.IsZero() {
		return nil
	}

	cmds := []DrawCommand{{Op: OpClear, Width: s.Surface.Width, Height: s.Surface.Height}}
	for i, m := range s.Masks {
		if !m.VisibleAt(s.CurrentTime) {
			continue
		}
		cmds = append(cmds, maskCommands(m, i+1, m.ID == s.SelectedID)...)
	}

	if s.Draft != nil {
		d := s.Draft
		cmds = append(cmds,
			DrawCommand{Op: OpFillRect, X: d.X, Y: d.Y, Width: d.Width, Height: d.Height, Color: ColorFillSelected},
			DrawCommand{Op: OpStrokeRect, X: d.X, Y: d.Y, Width: d.Width, Height: d.Height, Color: ColorAccent, LineWidth: StrokeWidth, Dash: DraftDash},
		)
	}
	return cmds
}

func maskCommands(m models.Mask, index int, selected bool) []DrawCommand {
	fill, stroke, width, label := ColorFill, ColorStroke, StrokeWidth, ColorLabel
	if selected {
		fill, stroke, width, label = ColorFillSelected, ColorAccent, StrokeWidthSelected, ColorAccent
	}

	cmds := []DrawCommand{
		{Op: OpFillRect, X: m.X, Y: m.Y, Width: m.Width, Height: m.Height, Color: fill},
		{Op: OpStrokeRect, X: m.X, Y: m.Y, Width: m.Width, Height: m.Height, Color: stroke, LineWidth: width},
	}

	if selected {
		half := geometry.HandleSize / 2
		for _, c := range geometry.Corners() {
			p := geometry.CornerPoint(m.Rect(), c)
			cmds = append(cmds, DrawCommand{
				Op: OpFillRect, X: p.X - half, Y: p.Y - half,
				Width: geometry.HandleSize, Height: geometry.HandleSize, Color: ColorAccent,
			})
		}
	}

	del := geometry.DeleteButtonCenter(m.Rect())
	g := deleteGlyphHalf
	cmds = append(cmds,
		DrawCommand{Op: OpFillCircle, X: del.X, Y: del.Y, Radius: geometry.DeleteButtonRadius, Color: stroke},
		DrawCommand{Op: OpLine, X: del.X - g, Y: del.Y - g, X2: del.X + g, Y2: del.Y + g, Color: ColorDeleteGlyph, LineWidth: StrokeWidth},
		DrawCommand{Op: OpLine, X: del.X + g, Y: del.Y - g, X2: del.X - g, Y2: del.Y + g, Color: ColorDeleteGlyph, LineWidth: StrokeWidth},
		DrawCommand{Op: OpText, X: m.X + LabelOffset, Y: m.Y - LabelOffset, Color: label, Text: Label(index), Font: LabelFont},
	)
	return cmds
}

// Label is the display name for the mask at 1-based position index
func Label(index int) string {
	return fmt.Sprintf("Mask %d", index)
}
