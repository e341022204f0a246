package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// Button wraps a single child in a bordered, filled rect and queues its
// callback when clicked.
type Button struct {
	base
	onClick     Callback
	border      float32
	borderColor backend.Color
	fill        backend.Color
}

type ButtonOption func(*Button)

// WithBorder sets the border width and color.
func WithBorder(width float32, c backend.Color) ButtonOption {
	return func(b *Button) {
		b.border = max(width, 0)
		b.borderColor = c
	}
}

func WithFill(c backend.Color) ButtonOption {
	return func(b *Button) { b.fill = c }
}

// NewButton creates a button around child.
func NewButton(child *Node, onClick Callback, opts ...ButtonOption) *Node {
	b := &Button{
		onClick:     onClick,
		border:      1,
		borderColor: backend.ColorBlack,
		fill:        backend.ColorCyan,
	}
	for _, opt := range opts {
		opt(b)
	}
	return NewNode(b, VStack(0), child)
}

func (*Button) Kind() Kind { return KindButton }

func (b *Button) inset() geom.Point {
	return geom.Pt(b.border, b.border)
}

func (b *Button) afterRemeasure(_ *Node, content geom.Size, _ backend.Metrics) geom.Size {
	return content.Grow(2*b.border, 2*b.border)
}

func (b *Button) drawSelf(n *Node, origin geom.Point, ctx *DrawCtx) {
	r := geom.NewRect(origin, n.size)
	ctx.Canvas.DrawRect(r, b.fill, true)
	if b.border > 0 {
		ctx.Canvas.DrawRect(r, b.borderColor, false)
	}
}

func (b *Button) hoverSelf(_ *Node, _ geom.Point, ctx *EventCtx) bool {
	ctx.SetPointer(backend.PointerHand)
	return true
}

func (b *Button) clickSelf(_ *Node, _ geom.Point, ctx *EventCtx) bool {
	ctx.Defer(b.onClick)
	return true
}
