package runtime

import (
	"fmt"

	"github.com/odvcencio/tradelog/pkg/ui/terminal"
)

// Focusable is the keyboard-focusable state of a node.
type Focusable interface {
	OnSelect(ctx *EventCtx)
	OnDeselect(ctx *EventCtx)
	// HandleKey reports whether the key was consumed.
	HandleKey(ev terminal.KeyEvent, ctx *EventCtx) bool
}

// Selection is the depth-first list of focusable entries of a tree, plus
// the tables that map pre-order node positions onto it. It is built once;
// the tree shape must not change afterwards.
type Selection struct {
	entries []Focusable
	// byWidget maps a pre-order node index to its entry, or -1.
	byWidget []int
	// childSizes holds, per node, the subtree size of each child.
	childSizes [][]int
	current    int
}

// NewSelection flattens the tree rooted at root. Nothing is selected.
func NewSelection(root *Node) *Selection {
	s := &Selection{current: -1}
	s.build(root)
	return s
}

func (s *Selection) build(n *Node) int {
	idx := len(s.byWidget)
	if f := n.behavior.selection(); f != nil {
		s.byWidget = append(s.byWidget, len(s.entries))
		s.entries = append(s.entries, f)
	} else {
		s.byWidget = append(s.byWidget, -1)
	}
	s.childSizes = append(s.childSizes, make([]int, 0, len(n.children)))

	size := 1
	for _, c := range n.children {
		cs := s.build(c)
		s.childSizes[idx] = append(s.childSizes[idx], cs)
		size += cs
	}
	return size
}

// Len returns the number of focusable entries.
func (s *Selection) Len() int { return len(s.entries) }

// Nodes returns the number of nodes in the flattened tree.
func (s *Selection) Nodes() int { return len(s.byWidget) }

// Current returns the selected entry index.
func (s *Selection) Current() (int, bool) {
	return s.current, s.current >= 0
}

// Entry returns entry idx. It panics when idx is out of range.
func (s *Selection) Entry(idx int) Focusable {
	s.checkEntry(idx)
	return s.entries[idx]
}

// EntryFor returns the entry of the node at pre-order position widgetIdx.
func (s *Selection) EntryFor(widgetIdx int) (int, bool) {
	s.checkWidget(widgetIdx)
	idx := s.byWidget[widgetIdx]
	return idx, idx >= 0
}

// IsSelected reports whether the node at widgetIdx holds the selection.
func (s *Selection) IsSelected(widgetIdx int) bool {
	idx, ok := s.EntryFor(widgetIdx)
	return ok && idx == s.current
}

// ChildWidgetIdx returns the pre-order index of child pos of the node at
// parent.
func (s *Selection) ChildWidgetIdx(parent, pos int) int {
	s.checkWidget(parent)
	sizes := s.childSizes[parent]
	if pos < 0 || pos >= len(sizes) {
		panic(fmt.Sprintf("runtime: node %d has no child %d (has %d)", parent, pos, len(sizes)))
	}
	idx := parent + 1
	for _, sz := range sizes[:pos] {
		idx += sz
	}
	return idx
}

// SetSelect moves the selection to idx, or clears it when idx is -1. The
// old entry's deselect hook runs before the new entry's select hook.
func (s *Selection) SetSelect(idx int, ctx *EventCtx) {
	if idx != -1 {
		s.checkEntry(idx)
	}
	if s.current >= 0 {
		s.entries[s.current].OnDeselect(ctx)
	}
	s.current = idx
	if s.current >= 0 {
		s.entries[s.current].OnSelect(ctx)
	}
}

// SelectNext advances to the next entry without wrapping. With nothing
// selected it selects the first entry.
func (s *Selection) SelectNext(ctx *EventCtx) bool {
	next := s.current + 1
	if next >= len(s.entries) {
		return false
	}
	s.SetSelect(next, ctx)
	return true
}

// SelectPrev steps back to the previous entry without wrapping.
func (s *Selection) SelectPrev(ctx *EventCtx) bool {
	if s.current <= 0 {
		return false
	}
	s.SetSelect(s.current-1, ctx)
	return true
}

// HandleKey forwards ev to the selected entry.
func (s *Selection) HandleKey(ev terminal.KeyEvent, ctx *EventCtx) bool {
	if s.current < 0 {
		return false
	}
	return s.entries[s.current].HandleKey(ev, ctx)
}

func (s *Selection) checkEntry(idx int) {
	if idx < 0 || idx >= len(s.entries) {
		panic(fmt.Sprintf("runtime: selection index %d out of range [0, %d)", idx, len(s.entries)))
	}
}

func (s *Selection) checkWidget(idx int) {
	if idx < 0 || idx >= len(s.byWidget) {
		panic(fmt.Sprintf("runtime: widget index %d out of range [0, %d)", idx, len(s.byWidget)))
	}
}
