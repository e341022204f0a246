package runtime

import (
	"strings"
	"unicode/utf8"

	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// testCanvas gives every glyph one unit of advance and every line one unit
// of height, and records what is drawn.
type testCanvas struct {
	viewport  geom.Size
	texts     []drawnText
	rects     []drawnRect
	triangles []drawnTriangle
	lines     []geom.Point
	clears    int
}

type drawnText struct {
	text   string
	bounds geom.Rect
}

type drawnRect struct {
	bounds geom.Rect
	color  backend.Color
	fill   bool
}

type drawnTriangle struct {
	center geom.Point
	up     bool
}

func newTestCanvas() *testCanvas {
	return &testCanvas{viewport: geom.Size{Width: 80, Height: 24}}
}

func (c *testCanvas) Measure(text string, scale float32) geom.Size {
	var widest int
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		widest = max(widest, utf8.RuneCountInString(l))
	}
	return geom.Size{Width: float32(widest) * scale, Height: float32(len(lines)) * scale}
}

func (c *testCanvas) CharSize(ch rune, scale float32) geom.Size {
	if ch == '\n' {
		return geom.Size{Height: scale}
	}
	return geom.Size{Width: scale, Height: scale}
}

func (c *testCanvas) CharSizeWithAdvance(ch rune, scale float32) geom.Size {
	return c.CharSize(ch, scale)
}

func (c *testCanvas) LineHeight(scale float32) float32 { return scale }

func (c *testCanvas) Viewport() geom.Size { return c.viewport }

func (c *testCanvas) DrawText(text string, _ backend.TextParams, bounds geom.Rect) {
	c.texts = append(c.texts, drawnText{text: text, bounds: bounds})
}

func (c *testCanvas) DrawRect(bounds geom.Rect, color backend.Color, fill bool) {
	c.rects = append(c.rects, drawnRect{bounds: bounds, color: color, fill: fill})
}

func (c *testCanvas) DrawCircle(geom.Point, float32, backend.Color, bool) {}

func (c *testCanvas) DrawLine(from, _ geom.Point, _ backend.Color) {
	c.lines = append(c.lines, from)
}

func (c *testCanvas) DrawTriangle(center geom.Point, _ geom.Size, _ backend.Color, up bool) {
	c.triangles = append(c.triangles, drawnTriangle{center: center, up: up})
}

func (c *testCanvas) Clear() {
	c.clears++
	c.texts = nil
	c.rects = nil
	c.triangles = nil
	c.lines = nil
}

// textAt returns the origin text was drawn at.
func (c *testCanvas) textAt(text string) (geom.Point, bool) {
	for _, t := range c.texts {
		if t.text == text {
			return t.bounds.Origin(), true
		}
	}
	return geom.Point{}, false
}
