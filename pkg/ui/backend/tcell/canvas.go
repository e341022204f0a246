package tcell

import (
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// Canvas units are cells. Glyph widths come from go-runewidth and every
// line is one cell tall; the cell grid cannot scale text, so scale only
// matters to canvases with real fonts.

func (b *Backend) Viewport() geom.Size {
	w, h := b.screen.Size()
	return geom.Size{Width: float32(w), Height: float32(h)}
}

func (b *Backend) Measure(text string, scale float32) geom.Size {
	lines := strings.Split(text, "\n")
	var width int
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	return geom.Size{Width: float32(width), Height: float32(len(lines)) * b.LineHeight(scale)}
}

func (b *Backend) CharSize(ch rune, scale float32) geom.Size {
	return geom.Size{Width: float32(runewidth.RuneWidth(ch)), Height: b.LineHeight(scale)}
}

// CharSizeWithAdvance equals CharSize on a cell grid.
func (b *Backend) CharSizeWithAdvance(ch rune, scale float32) geom.Size {
	return b.CharSize(ch, scale)
}

func (b *Backend) LineHeight(float32) float32 {
	return 1
}

// DrawText draws text clipped to bounds. A non-positive width or height
// leaves that axis unclipped. Cell backgrounds are preserved so text can sit
// on a filled rect.
func (b *Backend) DrawText(text string, params backend.TextParams, bounds geom.Rect) {
	x0, y0, x1, y1 := cellSpan(bounds)
	for i, line := range strings.Split(text, "\n") {
		y := y0 + i
		if bounds.Height > 0 && y >= y1 {
			return
		}
		x := x0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if bounds.Width > 0 && x+w > x1 {
				break
			}
			style := b.cellStyle(x, y).Foreground(convertColor(params.Color)).Bold(params.Bold)
			b.screen.SetContent(x, y, r, nil, style)
			x += w
		}
	}
}

// DrawRect fills bounds with color, or outlines it with box-drawing glyphs.
func (b *Backend) DrawRect(bounds geom.Rect, color backend.Color, fill bool) {
	x0, y0, x1, y1 := cellSpan(bounds)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	if fill {
		style := tcell.StyleDefault.Background(convertColor(color))
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				b.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		return
	}

	set := func(x, y int, r rune) {
		b.screen.SetContent(x, y, r, nil, b.cellStyle(x, y).Foreground(convertColor(color)))
	}
	for x := x0; x < x1; x++ {
		set(x, y0, '─')
		set(x, y1-1, '─')
	}
	for y := y0; y < y1; y++ {
		set(x0, y, '│')
		set(x1-1, y, '│')
	}
	if x1-x0 > 1 && y1-y0 > 1 {
		set(x0, y0, '┌')
		set(x1-1, y0, '┐')
		set(x0, y1-1, '└')
		set(x1-1, y1-1, '┘')
	}
}

func (b *Backend) DrawCircle(center geom.Point, radius float32, color backend.Color, fill bool) {
	if radius <= 0 {
		return
	}
	glyph := '○'
	if fill {
		glyph = '●'
	}
	x0, y0 := int(math.Floor(float64(center.X-radius))), int(math.Floor(float64(center.Y-radius)))
	x1, y1 := int(math.Ceil(float64(center.X+radius))), int(math.Ceil(float64(center.Y+radius)))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - float64(center.X)
			dy := float64(y) + 0.5 - float64(center.Y)
			d := math.Hypot(dx, dy)
			if d > float64(radius) || (!fill && d < float64(radius)-1) {
				continue
			}
			b.screen.SetContent(x, y, glyph, nil, b.cellStyle(x, y).Foreground(convertColor(color)))
		}
	}
}

// DrawLine draws a line between two points. Vertical lines reverse the
// cells they cross instead of overwriting them, which is how the text caret
// shows up on a cell grid.
func (b *Backend) DrawLine(from, to geom.Point, color backend.Color) {
	fx, fy := int(math.Floor(float64(from.X))), int(math.Floor(float64(from.Y)))
	tx, ty := int(math.Floor(float64(to.X))), int(math.Floor(float64(to.Y)))

	if fx == tx {
		if ty < fy {
			fy, ty = ty, fy
		}
		if ty == fy {
			ty++
		}
		for y := fy; y < ty; y++ {
			mainc, comb, style, _ := b.screen.GetContent(fx, y)
			if mainc == 0 {
				mainc = ' '
			}
			b.screen.SetContent(fx, y, mainc, comb, style.Reverse(true))
		}
		return
	}

	steps := max(abs(tx-fx), abs(ty-fy))
	glyph := '·'
	if fy == ty {
		glyph = '─'
	}
	for i := 0; i <= steps; i++ {
		x := fx + (tx-fx)*i/steps
		y := fy + (ty-fy)*i/steps
		b.screen.SetContent(x, y, glyph, nil, b.cellStyle(x, y).Foreground(convertColor(color)))
	}
}

func (b *Backend) DrawTriangle(center geom.Point, _ geom.Size, color backend.Color, up bool) {
	glyph := '▼'
	if up {
		glyph = '▲'
	}
	x, y := int(math.Floor(float64(center.X))), int(math.Floor(float64(center.Y)))
	b.screen.SetContent(x, y, glyph, nil, b.cellStyle(x, y).Foreground(convertColor(color)))
}

func (b *Backend) cellStyle(x, y int) tcell.Style {
	_, _, style, _ := b.screen.GetContent(x, y)
	return style
}

// cellSpan converts a float rect into the half-open cell range it covers.
func cellSpan(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(float64(r.X)))
	y0 = int(math.Floor(float64(r.Y)))
	x1 = int(math.Ceil(float64(r.X + r.Width)))
	y1 = int(math.Ceil(float64(r.Y + r.Height)))
	return
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
