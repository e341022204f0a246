// Package backend defines the surface the form runtime draws on.
// Backend covers terminal I/O and input events; Canvas covers text
// metrics and shape drawing in float canvas units. The tcell package
// implements both for real terminals, and sim wraps it for tests.
package backend

import (
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Backend owns the terminal session: setup, teardown, input, and
// flushing what the Canvas drew.
type Backend interface {
	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores the terminal.
	Fini()

	// Size returns the terminal dimensions in cells.
	Size() (width, height int)

	// Show flushes drawn cells to the terminal.
	Show()

	HideCursor()

	// PollEvent blocks for the next input event. It returns nil once
	// Fini has been called.
	PollEvent() terminal.Event

	// Sync forces a full repaint on the next Show, used after resize.
	Sync()
}

// Metrics measures text. Sizes are in canvas units at the given scale.
type Metrics interface {
	// Measure returns the extent of text. Width is the widest line and
	// height is the line count times the line height.
	Measure(text string, scale float32) geom.Size

	// CharSize returns the ink extent of a single glyph.
	CharSize(ch rune, scale float32) geom.Size

	// CharSizeWithAdvance returns the glyph extent including the pen
	// advance to the next glyph.
	CharSizeWithAdvance(ch rune, scale float32) geom.Size

	LineHeight(scale float32) float32
}

// Canvas is the drawing capability handed to widgets.
type Canvas interface {
	Metrics

	// Viewport returns the drawable extent.
	Viewport() geom.Size

	// DrawText draws text clipped to bounds, one line per line height.
	DrawText(text string, params TextParams, bounds geom.Rect)

	DrawRect(bounds geom.Rect, color Color, fill bool)
	DrawCircle(center geom.Point, radius float32, color Color, fill bool)
	DrawLine(from, to geom.Point, color Color)

	// DrawTriangle draws an isosceles triangle inside the box of the given
	// size centered on center, pointing up or down.
	DrawTriangle(center geom.Point, size geom.Size, color Color, up bool)

	Clear()
}

// TextParams controls how text is drawn.
type TextParams struct {
	Scale float32
	Color Color
	Bold  bool
}

// DefaultTextParams returns unit-scale text in the default color.
func DefaultTextParams() TextParams {
	return TextParams{Scale: 1, Color: ColorDefault}
}

// PointerKind is the pointer icon requested by the last event.
type PointerKind int

const (
	PointerArrow PointerKind = iota
	PointerHand
	PointerIBeam
)

func (k PointerKind) String() string {
	switch k {
	case PointerHand:
		return "hand"
	case PointerIBeam:
		return "ibeam"
	default:
		return "arrow"
	}
}

// PointerSetter is implemented by backends that can change the pointer icon.
type PointerSetter interface {
	SetPointer(kind PointerKind)
}
