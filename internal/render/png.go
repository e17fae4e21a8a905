// Package render rasterises overlay draw commands into an image so the
// overlay can be previewed without a canvas-capable client.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/killallgit/mask-editor-api/internal/editor"
	"github.com/killallgit/mask-editor-api/pkg/geometry"
)

// MaxSide is the largest surface side, in pixels, Rasterize will allocate
const MaxSide = 8192

// Rasterize paints cmds onto a transparent RGBA image of the given surface size
func Rasterize(size geometry.Size, cmds []editor.DrawCommand) (*image.RGBA, error) {
	if size.IsZero() {
		return nil, fmt.Errorf("surface size %vx%v is empty", size.Width, size.Height)
	}
	if size.Width > MaxSide || size.Height > MaxSide {
		return nil, fmt.Errorf("surface size %vx%v exceeds %d pixels per side", size.Width, size.Height, MaxSide)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(size.Width)), int(math.Ceil(size.Height))))

	for i, c := range cmds {
		if c.Op == editor.OpClear {
			xdraw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
			continue
		}
		col, err := ParseColor(c.Color)
		if err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i, c.Op, err)
		}
		src := image.NewUniform(col)

		switch c.Op {
		case editor.OpFillRect:
			fillRect(dst, c.X, c.Y, c.Width, c.Height, src)
		case editor.OpStrokeRect:
			strokeRect(dst, c, src)
		case editor.OpFillCircle:
			fillCircle(dst, c.X, c.Y, c.Radius, src)
		case editor.OpLine:
			line(dst, c.X, c.Y, c.X2, c.Y2, c.LineWidth, nil, src)
		case editor.OpText:
			d := &font.Drawer{Dst: dst, Src: src, Face: basicfont.Face7x13,
				Dot: fixed.P(int(math.Round(c.X)), int(math.Round(c.Y)))}
			d.DrawString(c.Text)
		default:
			return nil, fmt.Errorf("command %d: unknown op %q", i, c.Op)
		}
	}
	return dst, nil
}

// EncodePNG rasterises cmds and writes the result as PNG
func EncodePNG(w io.Writer, size geometry.Size, cmds []editor.DrawCommand) error {
	img, err := Rasterize(size, cmds)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 || !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func pixelRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
}

func fillRect(dst xdraw.Image, x, y, w, h float64, src image.Image) {
	r := pixelRect(x, y, w, h).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Draw(dst, r, src, image.Point{}, xdraw.Over)
}

// strokeRect draws the outline centred on the rect's edges, like a canvas stroke
func strokeRect(dst xdraw.Image, c editor.DrawCommand, src image.Image) {
	lw := c.LineWidth
	if lw <= 0 {
		lw = 1
	}
	x0, y0 := c.X, c.Y
	x1, y1 := c.X+c.Width, c.Y+c.Height
	if len(c.Dash) == 0 {
		half := lw / 2
		fillRect(dst, x0-half, y0-half, c.Width+lw, lw, src)
		fillRect(dst, x0-half, y1-half, c.Width+lw, lw, src)
		fillRect(dst, x0-half, y0+half, lw, c.Height-lw, src)
		fillRect(dst, x1-half, y0+half, lw, c.Height-lw, src)
		return
	}
	line(dst, x0, y0, x1, y0, lw, c.Dash, src)
	line(dst, x1, y0, x1, y1, lw, c.Dash, src)
	line(dst, x1, y1, x0, y1, lw, c.Dash, src)
	line(dst, x0, y1, x0, y0, lw, c.Dash, src)
}

// line stamps a square brush along the segment, skipping the off runs of dash
func line(dst xdraw.Image, x0, y0, x1, y1, lw float64, dash []float64, src image.Image) {
	if lw <= 0 {
		lw = 1
	}
	length := math.Hypot(x1-x0, y1-y0)
	steps := int(math.Ceil(length))
	if steps == 0 {
		steps = 1
	}
	var period float64
	for _, d := range dash {
		period += d
	}

	// stamp onto a coverage mask first so overlapping brushes don't stack alpha.
	// The mask only spans the segment's bounding box plus the brush.
	pad := lw + 1
	box := image.Rect(
		int(math.Floor(math.Min(x0, x1)-pad)), int(math.Floor(math.Min(y0, y1)-pad)),
		int(math.Ceil(math.Max(x0, x1)+pad)), int(math.Ceil(math.Max(y0, y1)+pad)),
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	cover := image.NewAlpha(box)
	half := lw / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if period > 0 && !dashOn(t*length, dash, period) {
			continue
		}
		px := x0 + (x1-x0)*t
		py := y0 + (y1-y0)*t
		r := pixelRect(px-half, py-half, lw, lw).Intersect(cover.Bounds())
		xdraw.Draw(cover, r, image.Opaque, image.Point{}, xdraw.Src)
	}
	xdraw.DrawMask(dst, box, src, image.Point{}, cover, box.Min, xdraw.Over)
}

func dashOn(pos float64, dash []float64, period float64) bool {
	pos = math.Mod(pos, period)
	for i, d := range dash {
		if pos < d {
			return i%2 == 0
		}
		pos -= d
	}
	return false
}

func fillCircle(dst xdraw.Image, cx, cy, r float64, src image.Image) {
	mask := &circle{cx: cx, cy: cy, r: r}
	bounds := mask.Bounds().Intersect(dst.Bounds())
	if bounds.Empty() {
		return
	}
	xdraw.DrawMask(dst, bounds, src, image.Point{}, mask, bounds.Min, xdraw.Over)
}

// circle is an alpha mask of a filled disc
type circle struct {
	cx, cy, r float64
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(
		int(math.Floor(c.cx-c.r)), int(math.Floor(c.cy-c.r)),
		int(math.Ceil(c.cx+c.r))+1, int(math.Ceil(c.cy+c.r))+1,
	)
}

func (c *circle) At(x, y int) color.Color {
	dx := float64(x) + 0.5 - c.cx
	dy := float64(y) + 0.5 - c.cy
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
