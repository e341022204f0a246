package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// probe is a fixed-size behavior that records what reaches it.
type probe struct {
	base
	size        geom.Size
	offset      geom.Point
	passthrough bool
	focus       Focusable

	clicks []probeHit
	hovers []probeHit
	draws  []probeDraw
}

type probeHit struct {
	at     geom.Point
	widget int
}

type probeDraw struct {
	origin   geom.Point
	selected bool
}

func newProbe(w, h float32, children ...*Node) (*probe, *Node) {
	p := &probe{size: geom.Size{Width: w, Height: h}}
	return p, NewNode(p, VStack(0), children...)
}

func (*probe) Kind() Kind { return KindContainer }

func (p *probe) inset() geom.Point { return p.offset }

func (p *probe) afterRemeasure(_ *Node, content geom.Size, _ backend.Metrics) geom.Size {
	if p.size.Zero() {
		return content
	}
	return p.size
}

func (p *probe) clickSelf(_ *Node, at geom.Point, ctx *EventCtx) bool {
	p.clicks = append(p.clicks, probeHit{at: at, widget: ctx.WidgetIndex()})
	return !p.passthrough
}

func (p *probe) hoverSelf(_ *Node, at geom.Point, ctx *EventCtx) bool {
	p.hovers = append(p.hovers, probeHit{at: at, widget: ctx.WidgetIndex()})
	return !p.passthrough
}

func (p *probe) drawSelf(_ *Node, origin geom.Point, ctx *DrawCtx) {
	p.draws = append(p.draws, probeDraw{origin: origin, selected: ctx.Selected()})
}

func (p *probe) selection() Focusable {
	if p.focus == nil {
		return nil
	}
	return p.focus
}

// recorder logs focus hooks into a shared slice.
type recorder struct {
	name   string
	log    *[]string
	accept map[terminal.Key]bool
}

func (r *recorder) OnSelect(*EventCtx)   { *r.log = append(*r.log, "select:"+r.name) }
func (r *recorder) OnDeselect(*EventCtx) { *r.log = append(*r.log, "deselect:"+r.name) }

func (r *recorder) HandleKey(ev terminal.KeyEvent, _ *EventCtx) bool {
	*r.log = append(*r.log, "key:"+r.name)
	return r.accept[ev.Key]
}

// routingTree lays out
//
//	0 root (VStack 0)
//	1   a    3x1 at (0,0)
//	2   row  (HStack 2) at (0,1)
//	3     b  2x2 at (0,0)
//	4     c  2x1 at (4,0)
func routingTree() (root *Node, a, b, c *probe, bNode *Node) {
	a, aNode := newProbe(3, 1)
	b, bNode = newProbe(2, 2)
	c, cNode := newProbe(2, 1)
	root = NewContainer(VStack(0), aNode, NewContainer(HStack(2), bNode, cNode))
	root.Remeasure(newTestCanvas())
	return root, a, b, c, bNode
}

func TestNode_ClickRoutesToInnermostRect(t *testing.T) {
	root, a, b, c, _ := routingTree()
	ctx := NewEventCtx(newTestCanvas(), NewSelection(root), time.Now())

	require.True(t, root.Click(geom.Pt(5, 1.5), ctx))
	require.Len(t, c.clicks, 1)
	assert.Equal(t, probeHit{at: geom.Pt(1, 0.5), widget: 4}, c.clicks[0])
	assert.Empty(t, a.clicks)
	assert.Empty(t, b.clicks)
	assert.Equal(t, 0, ctx.WidgetIndex(), "widget index restored after routing")

	require.True(t, root.Click(geom.Pt(0.5, 2.5), ctx))
	require.Len(t, b.clicks, 1)
	assert.Equal(t, probeHit{at: geom.Pt(0.5, 1.5), widget: 3}, b.clicks[0])

	require.True(t, root.Click(geom.Pt(2, 0), ctx))
	assert.Equal(t, 1, a.clicks[0].widget)
}

func TestNode_ClickMisses(t *testing.T) {
	root, a, b, c, _ := routingTree()
	ctx := NewEventCtx(newTestCanvas(), NewSelection(root), time.Now())

	tests := []struct {
		name string
		p    geom.Point
	}{
		{"between row children", geom.Pt(3, 1.5)},
		{"below short child", geom.Pt(5, 2.5)},
		{"right of first row", geom.Pt(3.5, 0.5)},
		{"outside tree", geom.Pt(40, 40)},
		{"negative", geom.Pt(-1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, root.Click(tt.p, ctx))
		})
	}
	assert.Empty(t, a.clicks)
	assert.Empty(t, b.clicks)
	assert.Empty(t, c.clicks)
}

func TestNode_HiddenChildrenAreNotHit(t *testing.T) {
	root, _, b, _, bNode := routingTree()
	ctx := NewEventCtx(newTestCanvas(), nil, time.Now())

	bNode.SetVisibility(Invisible)
	root.Remeasure(newTestCanvas())
	assert.False(t, root.Click(geom.Pt(0.5, 2.5), ctx))
	assert.False(t, root.Hover(geom.Pt(0.5, 2.5), ctx))
	assert.Empty(t, b.clicks)
	assert.Empty(t, b.hovers)
}

func TestNode_InsetShiftsChildren(t *testing.T) {
	inner, innerNode := newProbe(2, 1)
	outer, outerNode := newProbe(4, 3, innerNode)
	outer.passthrough = true
	outer.offset = geom.Pt(1, 1)
	root := NewContainer(VStack(0), outerNode)
	root.Remeasure(newTestCanvas())

	ctx := NewEventCtx(newTestCanvas(), NewSelection(root), time.Now())
	require.True(t, root.Click(geom.Pt(2.5, 1.5), ctx))
	require.Len(t, inner.clicks, 1)
	assert.Equal(t, geom.Pt(1.5, 0.5), inner.clicks[0].at)
	assert.Equal(t, 2, inner.clicks[0].widget)
	assert.Len(t, outer.clicks, 1)

	canvas := newTestCanvas()
	root.Draw(geom.Pt(10, 10), NewDrawCtx(canvas, nil))
	require.Len(t, inner.draws, 1)
	assert.Equal(t, geom.Pt(11, 11), inner.draws[0].origin)
}

func TestNode_DrawPlacesChildrenAndMarksSelection(t *testing.T) {
	var log []string
	root, a, b, c, _ := routingTree()
	b.focus = &recorder{name: "b", log: &log}
	sel := NewSelection(root)
	sel.SetSelect(0, NewEventCtx(nil, sel, time.Now()))

	root.Draw(geom.Pt(10, 5), NewDrawCtx(newTestCanvas(), sel))

	assert.Equal(t, []probeDraw{{origin: geom.Pt(10, 5)}}, a.draws)
	assert.Equal(t, []probeDraw{{origin: geom.Pt(10, 6), selected: true}}, b.draws)
	assert.Equal(t, []probeDraw{{origin: geom.Pt(14, 6)}}, c.draws)
}

func TestNode_HoverReachesLabelOnlyWithHoverColor(t *testing.T) {
	plain := NewLabel("plain")
	lit := NewLabel("lit", WithHoverBackground(backend.ColorYellow))
	root := NewContainer(VStack(0), plain, lit)
	root.Remeasure(newTestCanvas())

	ctx := NewEventCtx(newTestCanvas(), nil, time.Now())
	assert.True(t, root.Hover(geom.Pt(1, 0), ctx))
	assert.False(t, ctx.Response().Status.Has(StatusRedraw))
	assert.False(t, plain.Behavior().(*Label).Hovered())

	assert.True(t, root.Hover(geom.Pt(1, 1), ctx))
	assert.True(t, ctx.Response().Status.Has(StatusRedraw))
	assert.True(t, lit.Behavior().(*Label).Hovered())
}

func TestNode_CountAndKind(t *testing.T) {
	root, _, _, _, _ := routingTree()
	assert.Equal(t, 5, root.Count())
	assert.Equal(t, KindContainer, root.Kind())
	assert.Equal(t, "dropdown", KindDropdown.String())
	assert.Equal(t, "collapsed", Collapsed.String())
	assert.Equal(t, KindLabel, NewLabel("x").Kind())
}

func TestNode_NeedsRemeasureIgnoresCollapsed(t *testing.T) {
	hidden := NewLabel("hidden")
	root := NewContainer(VStack(0), NewLabel("shown"), hidden)
	root.Remeasure(newTestCanvas())
	assert.False(t, root.NeedsRemeasure())

	hidden.SetVisibility(Collapsed)
	assert.False(t, hidden.NeedsRemeasure())
	root.Remeasure(newTestCanvas())
	assert.False(t, root.NeedsRemeasure())

	hidden.SetVisibility(Visible)
	assert.True(t, root.NeedsRemeasure())
}

func TestButton_DefersClickAndSetsHandPointer(t *testing.T) {
	var clicked int
	btn := NewButton(NewLabel("Submit"), func(*App) { clicked++ })
	root := NewContainer(VStack(0), btn)

	size := root.Remeasure(newTestCanvas())
	assert.Equal(t, geom.Size{Width: 8, Height: 3}, size)

	ctx := NewEventCtx(newTestCanvas(), nil, time.Now())
	require.True(t, root.Click(geom.Pt(3, 1), ctx))
	assert.Equal(t, 0, clicked, "callbacks are queued, not run during routing")
	require.Len(t, ctx.Response().Callbacks, 1)
	ctx.Response().Callbacks[0](nil)
	assert.Equal(t, 1, clicked)

	hover := NewEventCtx(newTestCanvas(), nil, time.Now())
	root.Hover(geom.Pt(0, 0), hover)
	assert.Equal(t, backend.PointerHand, hover.Pointer())

	canvas := newTestCanvas()
	root.Draw(geom.Point{}, NewDrawCtx(canvas, nil))
	p, ok := canvas.textAt("Submit")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(1, 1), p)
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusRemeasure.Has(StatusRedraw))
	assert.False(t, StatusRedraw.Has(StatusRemeasure))
	assert.False(t, StatusDeselect.Has(StatusRedraw))
	assert.Equal(t, "fine", StatusFine.String())
	assert.Equal(t, "remeasure|deselect", (StatusRemeasure | StatusDeselect).String())
	assert.Equal(t, "redraw", StatusRedraw.String())

	var order []int
	first := Response{Status: StatusRedraw, Callbacks: []Callback{func(*App) { order = append(order, 1) }}}
	second := Response{Status: StatusDeselect, Callbacks: []Callback{func(*App) { order = append(order, 2) }}}
	merged := first.Merge(second)
	assert.Equal(t, StatusRedraw|StatusDeselect, merged.Status)
	for _, cb := range merged.Callbacks {
		cb(nil)
	}
	assert.Equal(t, []int{1, 2}, order)
	assert.Len(t, first.Callbacks, 1, "merge leaves its receiver alone")

	assert.True(t, Response{}.Empty())
	assert.False(t, merged.Empty())
}
