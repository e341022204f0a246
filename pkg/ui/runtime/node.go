// Package runtime is the retained widget tree behind the trade form: nodes
// pair a behavior with a layout and children, are measured bottom-up, drawn
// top-down, and receive pointer events by hit-testing layout rects. Keyboard
// focus lives in a Selection built once over the finished tree.
package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// Visibility controls drawing, hit-testing and layout of a node.
type Visibility int

const (
	// Visible nodes are laid out, drawn and hit-tested.
	Visible Visibility = iota
	// Invisible nodes keep their space but are neither drawn nor hit.
	Invisible
	// Collapsed nodes take no space and are not remeasured.
	Collapsed
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "visible"
	case Invisible:
		return "invisible"
	default:
		return "collapsed"
	}
}

// Kind names a behavior variant.
type Kind int

const (
	KindContainer Kind = iota
	KindLabel
	KindButton
	KindDropdown
	KindTextBox
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindLabel:
		return "label"
	case KindButton:
		return "button"
	case KindDropdown:
		return "dropdown"
	case KindTextBox:
		return "textbox"
	default:
		return "unknown"
	}
}

// Behavior is the per-node logic. The variant set is closed: Container,
// Label, Button, Dropdown and TextBox.
type Behavior interface {
	Kind() Kind

	drawSelf(n *Node, origin geom.Point, ctx *DrawCtx)
	// drawOver runs after the children are drawn.
	drawOver(n *Node, origin geom.Point, ctx *DrawCtx)
	// clickSelf and hoverSelf report whether the event was handled; when it
	// was not, the event is routed to the children.
	clickSelf(n *Node, p geom.Point, ctx *EventCtx) bool
	hoverSelf(n *Node, p geom.Point, ctx *EventCtx) bool
	beforeRemeasure(n *Node, m backend.Metrics)
	afterRemeasure(n *Node, content geom.Size, m backend.Metrics) geom.Size
	// inset offsets the children from the node origin.
	inset() geom.Point
	// selection is called once, when the Selection is built.
	selection() Focusable
	deselect(n *Node, ctx *EventCtx)
	// dirty reports state changes that need a remeasure.
	dirty() bool
	// text is the rendered text used for serialization.
	text() (string, bool)
}

// base provides the pass-through defaults.
type base struct{}

func (base) drawSelf(*Node, geom.Point, *DrawCtx) {}
func (base) drawOver(*Node, geom.Point, *DrawCtx) {}
func (base) clickSelf(*Node, geom.Point, *EventCtx) bool { return false }
func (base) hoverSelf(*Node, geom.Point, *EventCtx) bool { return false }
func (base) beforeRemeasure(*Node, backend.Metrics) {}
func (base) inset() geom.Point { return geom.Point{} }
func (base) selection() Focusable { return nil }
func (base) deselect(*Node, *EventCtx) {}
func (base) dirty() bool { return false }
func (base) text() (string, bool) { return "", false }
func (base) afterRemeasure(_ *Node, content geom.Size, _ backend.Metrics) geom.Size {
	return content
}

// Container has no behavior of its own.
type Container struct {
	base
}

func (*Container) Kind() Kind { return KindContainer }

// Node is one element of the widget tree. Children are owned exclusively by
// their parent.
type Node struct {
	behavior   Behavior
	layout     Layout
	children   []*Node
	visibility Visibility
	tag        Tag
	size       geom.Size
	measured   bool
}

// NewNode creates a node. A nil layout becomes a vertical stack.
func NewNode(b Behavior, l Layout, children ...*Node) *Node {
	if l == nil {
		l = VStack(0)
	}
	return &Node{behavior: b, layout: l, children: children}
}

// NewContainer creates a node that only arranges its children.
func NewContainer(l Layout, children ...*Node) *Node {
	return NewNode(&Container{}, l, children...)
}

// Add appends children. The tree shape must be final before a Selection is
// built over it.
func (n *Node) Add(children ...*Node) *Node {
	n.children = append(n.children, children...)
	n.measured = false
	return n
}

func (n *Node) Behavior() Behavior { return n.behavior }
func (n *Node) Layout() Layout { return n.layout }
func (n *Node) Children() []*Node { return n.children }
func (n *Node) Kind() Kind { return n.behavior.Kind() }

func (n *Node) Visibility() Visibility { return n.visibility }

func (n *Node) SetVisibility(v Visibility) {
	if n.visibility != v {
		n.visibility = v
		n.measured = false
	}
}

// Size returns the size cached by the last Remeasure.
func (n *Node) Size() geom.Size { return n.size }

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	count := 1
	for _, c := range n.children {
		count += c.Count()
	}
	return count
}

// Remeasure recomputes the subtree's sizes and rects bottom-up and caches
// the result.
func (n *Node) Remeasure(m backend.Metrics) geom.Size {
	n.behavior.beforeRemeasure(n, m)
	content := n.layout.remeasure(n.children, m)
	n.size = n.behavior.afterRemeasure(n, content, m)
	n.measured = true
	return n.size
}

// NeedsRemeasure reports whether any non-collapsed node in the subtree is
// unmeasured or has changed state since it was measured.
func (n *Node) NeedsRemeasure() bool {
	if n.visibility == Collapsed {
		return false
	}
	if !n.measured || n.behavior.dirty() {
		return true
	}
	for _, c := range n.children {
		if c.NeedsRemeasure() {
			return true
		}
	}
	return false
}

// Draw draws the node with its top-left corner at origin, then its visible
// children at their layout rects.
func (n *Node) Draw(origin geom.Point, ctx *DrawCtx) {
	n.behavior.drawSelf(n, origin, ctx)
	inner := origin.Add(n.behavior.inset())
	rects := n.layout.Rects()
	for i, c := range n.children {
		if c.visibility != Visible || i >= len(rects) {
			continue
		}
		parent := ctx.enterChild(i)
		c.Draw(inner.Add(rects[i].Origin()), ctx)
		ctx.widgetIdx = parent
	}
	n.behavior.drawOver(n, origin, ctx)
}

// Click routes a pointer press at p, relative to the node origin. It
// reports whether any node handled it.
func (n *Node) Click(p geom.Point, ctx *EventCtx) bool {
	if n.behavior.clickSelf(n, p, ctx) {
		return true
	}
	return n.route(p, ctx, (*Node).Click)
}

// Hover routes pointer motion at p, relative to the node origin.
func (n *Node) Hover(p geom.Point, ctx *EventCtx) bool {
	if n.behavior.hoverSelf(n, p, ctx) {
		return true
	}
	return n.route(p, ctx, (*Node).Hover)
}

// route hands p to the first visible child whose rect contains it.
func (n *Node) route(p geom.Point, ctx *EventCtx, visit func(*Node, geom.Point, *EventCtx) bool) bool {
	local := p.Sub(n.behavior.inset())
	for i, r := range n.layout.Rects() {
		if i >= len(n.children) {
			break
		}
		c := n.children[i]
		if c.visibility != Visible || !r.Contains(local) {
			continue
		}
		parent := ctx.enterChild(i)
		handled := visit(c, local.Sub(r.Origin()), ctx)
		ctx.widgetIdx = parent
		return handled
	}
	return false
}

// Deselect lets every node in the subtree drop transient state such as an
// open dropdown list.
func (n *Node) Deselect(ctx *EventCtx) {
	n.behavior.deselect(n, ctx)
	for _, c := range n.children {
		c.Deselect(ctx)
	}
}
