package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Dropdown shows its selected option, or every option while open. Each
// option is a Label child.
type Dropdown struct {
	base
	options   []string
	choice    *DropdownSelection
	open      bool
	hoverIdx  int
	size      geom.Size
	indicator backend.Color
}

// DropdownSelection is the keyboard-focusable part of a Dropdown. It shares
// the selected index with its Dropdown.
type DropdownSelection struct {
	selected int
	count    int
	changed  bool
}

type DropdownOption func(*dropdownConfig)

type dropdownConfig struct {
	background backend.Color
	hover      backend.Color
	indicator  backend.Color
	params     backend.TextParams
}

// WithOptionColors sets the option background and its hovered variant.
func WithOptionColors(background, hover backend.Color) DropdownOption {
	return func(c *dropdownConfig) {
		c.background = background
		c.hover = hover
	}
}

func WithIndicatorColor(color backend.Color) DropdownOption {
	return func(c *dropdownConfig) { c.indicator = color }
}

func WithOptionTextParams(p backend.TextParams) DropdownOption {
	return func(c *dropdownConfig) { c.params = p }
}

// NewDropdown creates a closed dropdown over options. selected is clamped
// into range.
func NewDropdown(options []string, selected int, opts ...DropdownOption) *Node {
	cfg := dropdownConfig{
		background: backend.ColorWhite,
		hover:      backend.ColorRGB(168, 238, 240),
		indicator:  backend.ColorBlue,
		params:     backend.DefaultTextParams(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dropdown{
		options:   append([]string(nil), options...),
		choice:    &DropdownSelection{selected: min(max(selected, 0), max(len(options)-1, 0)), count: len(options)},
		hoverIdx:  -1,
		indicator: cfg.indicator,
	}
	children := make([]*Node, len(options))
	for i, opt := range options {
		children[i] = NewLabel(opt,
			WithBackground(cfg.background),
			WithHoverBackground(cfg.hover),
			WithTextParams(cfg.params))
	}
	return NewNode(d, VStack(0), children...)
}

func (*Dropdown) Kind() Kind { return KindDropdown }

func (d *Dropdown) Options() []string { return d.options }
func (d *Dropdown) Selected() int { return d.choice.selected }
func (d *Dropdown) IsOpen() bool { return d.open }

// Value returns the selected option, or "" when there are none.
func (d *Dropdown) Value() string {
	if d.choice.selected < len(d.options) {
		return d.options[d.choice.selected]
	}
	return ""
}

func (d *Dropdown) dirty() bool { return d.choice.changed }

// beforeRemeasure pads every option to the widest one plus room for the
// indicator so the footprint does not jump when the list opens, and
// collapses the unselected options while closed.
func (d *Dropdown) beforeRemeasure(n *Node, m backend.Metrics) {
	var widest float32
	for _, c := range n.children {
		if l, ok := c.behavior.(*Label); ok {
			widest = geom.Max(widest, m.Measure(l.value, l.params.Scale).Width)
		}
	}
	widest += m.CharSize('a', 1).Width
	for i, c := range n.children {
		if l, ok := c.behavior.(*Label); ok {
			l.minWidth = widest
		}
		if d.open || i == d.choice.selected {
			c.SetVisibility(Visible)
		} else {
			c.SetVisibility(Collapsed)
		}
	}
	d.choice.changed = false
}

func (d *Dropdown) afterRemeasure(_ *Node, content geom.Size, _ backend.Metrics) geom.Size {
	d.size = content
	return content
}

func (d *Dropdown) drawOver(_ *Node, origin geom.Point, ctx *DrawCtx) {
	glyph := ctx.Canvas.CharSize('a', 1)
	center := origin.Add(geom.Pt(d.size.Width-glyph.Width/2, glyph.Height/2))
	ctx.Canvas.DrawTriangle(center, glyph, d.indicator, d.open)
}

// clickSelf toggles the list. A click on an open list also picks the option
// under the pointer.
func (d *Dropdown) clickSelf(n *Node, p geom.Point, ctx *EventCtx) bool {
	if d.open {
		if i, ok := n.layout.IndexAt(p); ok {
			d.choice.selected = i
		}
		d.clearHover(n)
	}
	d.open = !d.open
	ctx.Remeasure()
	return true
}

func (d *Dropdown) hoverSelf(n *Node, p geom.Point, ctx *EventCtx) bool {
	if !d.open {
		return true
	}
	i, ok := n.layout.IndexAt(p)
	if !ok || i == d.hoverIdx {
		return true
	}
	d.setHover(n, d.hoverIdx, false)
	d.setHover(n, i, true)
	d.hoverIdx = i
	ctx.Redraw()
	return true
}

func (d *Dropdown) setHover(n *Node, i int, on bool) {
	if i < 0 || i >= len(n.children) {
		return
	}
	if l, ok := n.children[i].behavior.(*Label); ok {
		l.hovered = on
	}
}

func (d *Dropdown) clearHover(n *Node) {
	d.setHover(n, d.hoverIdx, false)
	d.hoverIdx = -1
}

func (d *Dropdown) deselect(n *Node, ctx *EventCtx) {
	if d.open {
		d.open = false
		d.clearHover(n)
		ctx.Remeasure()
	}
}

func (d *Dropdown) selection() Focusable { return d.choice }

func (d *Dropdown) text() (string, bool) { return d.Value(), true }

func (s *DropdownSelection) Selected() int { return s.selected }

func (s *DropdownSelection) OnSelect(*EventCtx) {}
func (s *DropdownSelection) OnDeselect(*EventCtx) {}

// HandleKey steps the selected option with Up and Down. Steps past either
// end are declined.
func (s *DropdownSelection) HandleKey(ev terminal.KeyEvent, ctx *EventCtx) bool {
	switch ev.Key {
	case terminal.KeyDown:
		if s.selected >= s.count-1 {
			return false
		}
		s.selected++
	case terminal.KeyUp:
		if s.selected <= 0 {
			return false
		}
		s.selected--
	default:
		return false
	}
	s.changed = true
	ctx.Redraw()
	return true
}
