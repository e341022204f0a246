package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// Label draws a string, optionally on a background that changes while the
// pointer is over it.
type Label struct {
	base
	value      string
	params     backend.TextParams
	background backend.Color
	hoverColor backend.Color
	minWidth   float32
	hovered    bool
}

// LabelOption configures a Label.
type LabelOption func(*Label)

// WithBackground fills the label rect with c.
func WithBackground(c backend.Color) LabelOption {
	return func(l *Label) { l.background = c }
}

// WithHoverBackground fills the label rect with c while hovered.
func WithHoverBackground(c backend.Color) LabelOption {
	return func(l *Label) { l.hoverColor = c }
}

func WithMinWidth(w float32) LabelOption {
	return func(l *Label) { l.minWidth = w }
}

func WithTextParams(p backend.TextParams) LabelOption {
	return func(l *Label) { l.params = p }
}

// NewLabel creates a label node.
func NewLabel(text string, opts ...LabelOption) *Node {
	l := &Label{
		value:      text,
		params:     backend.DefaultTextParams(),
		background: backend.ColorDefault,
		hoverColor: backend.ColorDefault,
	}
	for _, opt := range opts {
		opt(l)
	}
	return NewNode(l, nil)
}

func (*Label) Kind() Kind { return KindLabel }

func (l *Label) Text() string { return l.value }

// SetText replaces the label text. The owning tree needs a remeasure.
func (l *Label) SetText(text string) { l.value = text }

func (l *Label) Hovered() bool { return l.hovered }

func (l *Label) MinWidth() float32 { return l.minWidth }

func (l *Label) measure(m backend.Metrics) geom.Size {
	size := m.Measure(l.value, l.params.Scale)
	size.Width = geom.Max(size.Width, l.minWidth)
	return size
}

func (l *Label) afterRemeasure(_ *Node, _ geom.Size, m backend.Metrics) geom.Size {
	return l.measure(m)
}

func (l *Label) drawSelf(n *Node, origin geom.Point, ctx *DrawCtx) {
	r := geom.NewRect(origin, n.size)
	bg := l.background
	if l.hovered && l.hoverColor != backend.ColorDefault {
		bg = l.hoverColor
	}
	if bg != backend.ColorDefault {
		ctx.Canvas.DrawRect(r, bg, true)
	}
	ctx.Canvas.DrawText(l.value, l.params, r)
}

func (l *Label) hoverSelf(_ *Node, _ geom.Point, ctx *EventCtx) bool {
	if l.hoverColor != backend.ColorDefault && !l.hovered {
		l.hovered = true
		ctx.Redraw()
	}
	return true
}

func (l *Label) text() (string, bool) { return l.value, true }
