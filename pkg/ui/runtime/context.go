package runtime

import (
	"time"

	"github.com/odvcencio/tradelog/pkg/ui/backend"
)

// EventCtx accumulates the response of a dispatch and tracks the tree
// position of the node being visited.
type EventCtx struct {
	Canvas backend.Canvas
	// Now is the time the event was received.
	Now time.Time

	selection *Selection
	widgetIdx int
	response  Response
	pointer   backend.PointerKind
}

// NewEventCtx creates a context rooted at widget index 0. selection may be
// nil, in which case nodes see no selection entries.
func NewEventCtx(canvas backend.Canvas, selection *Selection, now time.Time) *EventCtx {
	return &EventCtx{Canvas: canvas, Now: now, selection: selection}
}

func (c *EventCtx) Redraw() {
	c.response.Status |= StatusRedraw
}

func (c *EventCtx) Remeasure() {
	c.response.Status |= StatusRemeasure
}

func (c *EventCtx) Deselect() {
	c.response.Status |= StatusDeselect
}

// Defer queues cb to run against the App after the dispatch finishes.
func (c *EventCtx) Defer(cb Callback) {
	if cb != nil {
		c.response.Callbacks = append(c.response.Callbacks, cb)
	}
}

// SetPointer requests a pointer icon. The last request of a dispatch wins;
// the default is the arrow.
func (c *EventCtx) SetPointer(kind backend.PointerKind) {
	c.pointer = kind
}

func (c *EventCtx) Pointer() backend.PointerKind {
	return c.pointer
}

func (c *EventCtx) Response() Response {
	return c.response
}

// WidgetIndex returns the pre-order position of the node being visited.
func (c *EventCtx) WidgetIndex() int {
	return c.widgetIdx
}

// SelectIndex returns the selection entry of the node being visited.
func (c *EventCtx) SelectIndex() (int, bool) {
	if c.selection == nil {
		return 0, false
	}
	return c.selection.EntryFor(c.widgetIdx)
}

// IsSelected reports whether the node being visited holds the selection.
func (c *EventCtx) IsSelected() bool {
	return c.selection != nil && c.selection.IsSelected(c.widgetIdx)
}

// enterChild moves the context to child pos of the current node and returns
// the index to restore afterwards.
func (c *EventCtx) enterChild(pos int) int {
	parent := c.widgetIdx
	if c.selection != nil {
		c.widgetIdx = c.selection.ChildWidgetIdx(parent, pos)
	}
	return parent
}

// DrawCtx carries the canvas and selection through a draw pass.
type DrawCtx struct {
	Canvas backend.Canvas

	selection *Selection
	widgetIdx int
}

func NewDrawCtx(canvas backend.Canvas, selection *Selection) *DrawCtx {
	return &DrawCtx{Canvas: canvas, selection: selection}
}

// Selected reports whether the node being drawn holds the selection.
func (c *DrawCtx) Selected() bool {
	return c.selection != nil && c.selection.IsSelected(c.widgetIdx)
}

func (c *DrawCtx) WidgetIndex() int {
	return c.widgetIdx
}

func (c *DrawCtx) enterChild(pos int) int {
	parent := c.widgetIdx
	if c.selection != nil {
		c.widgetIdx = c.selection.ChildWidgetIdx(parent, pos)
	}
	return parent
}
