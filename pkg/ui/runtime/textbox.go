package runtime

import (
	"fmt"
	"strings"

	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
	"github.com/odvcencio/tradelog/pkg/ui/textedit"
)

// TextBox is an editable field sized to a fixed character budget.
type TextBox struct {
	base
	editor     *textedit.Editor
	entry      *TextSelection
	chars      int
	lines      int
	background backend.Color
}

// TextSelection is the keyboard-focusable part of a TextBox. It shares the
// editor with its TextBox.
type TextSelection struct {
	editor *textedit.Editor
}

type TextBoxOption func(*TextBox)

// WithLines sets the number of visible lines. The default is one.
func WithLines(n int) TextBoxOption {
	return func(t *TextBox) { t.lines = max(n, 1) }
}

func WithFieldBackground(c backend.Color) TextBoxOption {
	return func(t *TextBox) { t.background = c }
}

func WithFieldTextParams(p backend.TextParams) TextBoxOption {
	return func(t *TextBox) { t.editor.SetParams(p) }
}

// NewTextBox creates a text box holding text that fits chars glyphs per
// line.
func NewTextBox(text string, chars int, opts ...TextBoxOption) *Node {
	ed := textedit.New(text, geom.Size{})
	t := &TextBox{
		editor:     ed,
		entry:      &TextSelection{editor: ed},
		chars:      max(chars, 1),
		lines:      1,
		background: backend.ColorWhite,
	}
	ed.SetParams(backend.TextParams{Scale: 1, Color: backend.ColorBlack})
	for _, opt := range opts {
		opt(t)
	}
	return NewNode(t, nil)
}

func (*TextBox) Kind() Kind { return KindTextBox }

func (t *TextBox) Editor() *textedit.Editor { return t.editor }

// Value returns the text without soft breaks.
func (t *TextBox) Value() string { return t.editor.Value() }

func (t *TextBox) beforeRemeasure(_ *Node, m backend.Metrics) {
	scale := t.editor.Params().Scale
	width := m.Measure(strings.Repeat("A", t.chars), scale).Width
	t.editor.SetSize(geom.Size{Width: width, Height: float32(t.lines) * m.LineHeight(scale)})
	t.editor.Reflow(0, m)
}

func (t *TextBox) afterRemeasure(_ *Node, _ geom.Size, _ backend.Metrics) geom.Size {
	return t.editor.Size()
}

func (t *TextBox) drawSelf(n *Node, origin geom.Point, ctx *DrawCtx) {
	if t.background != backend.ColorDefault {
		ctx.Canvas.DrawRect(geom.NewRect(origin, n.size), t.background, true)
	}
	t.editor.Draw(origin, ctx.Canvas)
}

func (t *TextBox) hoverSelf(_ *Node, _ geom.Point, ctx *EventCtx) bool {
	ctx.SetPointer(backend.PointerIBeam)
	return true
}

// clickSelf moves the cursor under the pointer and focuses the box. Both
// happen in a deferred callback so the selection is not changed while the
// tree is being routed.
func (t *TextBox) clickSelf(_ *Node, p geom.Point, ctx *EventCtx) bool {
	ctx.SetPointer(backend.PointerIBeam)
	idx, ok := ctx.SelectIndex()
	if !ok {
		return true
	}
	cursor, hit := t.editor.HoverText(p, ctx.Canvas)
	ctx.Defer(func(app *App) {
		entry, ok := app.Selection().Entry(idx).(*TextSelection)
		if !ok {
			panic(fmt.Sprintf("runtime: selection entry %d is not a text box", idx))
		}
		if hit {
			entry.editor.SetCursor(cursor)
		}
		app.SetSelect(idx)
	})
	ctx.Redraw()
	return true
}

func (t *TextBox) selection() Focusable { return t.entry }

func (t *TextBox) text() (string, bool) { return t.editor.Value(), true }

func (s *TextSelection) Editor() *textedit.Editor { return s.editor }

func (s *TextSelection) OnSelect(ctx *EventCtx) {
	s.editor.Select(ctx.Now)
	ctx.Redraw()
}

func (s *TextSelection) OnDeselect(ctx *EventCtx) {
	s.editor.Deselect()
	ctx.Redraw()
}

// HandleKey edits the text. Keys the editor does not use are declined so
// the caller can treat them as navigation.
func (s *TextSelection) HandleKey(ev terminal.KeyEvent, ctx *EventCtx) bool {
	if !s.editor.HandleKey(ev, ctx.Canvas) {
		return false
	}
	ctx.Redraw()
	return true
}
