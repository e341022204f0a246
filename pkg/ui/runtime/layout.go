package runtime

import (
	"github.com/odvcencio/tradelog/pkg/ui/backend"
	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

// Layout arranges children. Rects is parallel to the child list after a
// remeasure; rects are relative to the parent's content origin.
type Layout interface {
	Rects() []geom.Rect
	// IndexAt returns the first rect containing p.
	IndexAt(p geom.Point) (int, bool)

	remeasure(children []*Node, m backend.Metrics) geom.Size
}

type placement struct {
	rects []geom.Rect
}

func (pl *placement) Rects() []geom.Rect {
	return pl.rects
}

func (pl *placement) IndexAt(p geom.Point) (int, bool) {
	for i, r := range pl.rects {
		if r.Contains(p) {
			return i, true
		}
	}
	return 0, false
}

// reset sizes the rect list to n entries, all empty.
func (pl *placement) reset(n int) {
	if cap(pl.rects) < n {
		pl.rects = make([]geom.Rect, n)
		return
	}
	pl.rects = pl.rects[:n]
	clear(pl.rects)
}

// Orientation is the stacking axis.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Stack places children one after another along an axis.
type Stack struct {
	placement
	Orientation Orientation
	// Spacing separates consecutive non-collapsed children.
	Spacing float32
}

func VStack(spacing float32) *Stack {
	return &Stack{Orientation: Vertical, Spacing: spacing}
}

func HStack(spacing float32) *Stack {
	return &Stack{Orientation: Horizontal, Spacing: spacing}
}

func (s *Stack) remeasure(children []*Node, m backend.Metrics) geom.Size {
	s.reset(len(children))
	var size geom.Size
	placed := 0
	for i, c := range children {
		if c.visibility == Collapsed {
			continue
		}
		cs := c.Remeasure(m)
		var gap float32
		if placed > 0 {
			gap = s.Spacing
		}
		placed++

		var off geom.Point
		if s.Orientation == Vertical {
			off.Y = size.Height + gap
			size.Width = geom.Max(size.Width, cs.Width)
			size.Height += gap + cs.Height
		} else {
			off.X = size.Width + gap
			size.Width += gap + cs.Width
			size.Height = geom.Max(size.Height, cs.Height)
		}
		s.rects[i] = geom.NewRect(off, cs)
	}
	return size
}

// Grid places children row by row in a fixed number of columns. Column
// widths are the widest child of each column and row heights the tallest
// child of each row.
type Grid struct {
	placement
	Columns int
	// Spacing.Width separates columns and Spacing.Height rows.
	Spacing geom.Size
}

func NewGrid(columns int, spacing geom.Size) *Grid {
	return &Grid{Columns: max(columns, 1), Spacing: spacing}
}

// Rows returns the row count for n children.
func (g *Grid) Rows(n int) int {
	cols := max(g.Columns, 1)
	return (n + cols - 1) / cols
}

func (g *Grid) remeasure(children []*Node, m backend.Metrics) geom.Size {
	n := len(children)
	g.reset(n)
	if n == 0 {
		return geom.Size{}
	}
	cols := max(g.Columns, 1)
	colWidths := make([]float32, cols)
	rowHeights := make([]float32, g.Rows(n))
	sizes := make([]geom.Size, n)

	for i, c := range children {
		if c.visibility == Collapsed {
			continue
		}
		sizes[i] = c.Remeasure(m)
		colWidths[i%cols] = geom.Max(colWidths[i%cols], sizes[i].Width)
		rowHeights[i/cols] = geom.Max(rowHeights[i/cols], sizes[i].Height)
	}

	colX := make([]float32, cols)
	for c := 1; c < cols; c++ {
		colX[c] = colX[c-1] + colWidths[c-1] + g.Spacing.Width
	}
	rowY := make([]float32, len(rowHeights))
	for r := 1; r < len(rowHeights); r++ {
		rowY[r] = rowY[r-1] + rowHeights[r-1] + g.Spacing.Height
	}

	for i, c := range children {
		if c.visibility == Collapsed {
			continue
		}
		g.rects[i] = geom.NewRect(geom.Pt(colX[i%cols], rowY[i/cols]), sizes[i])
	}

	used := min(n, cols) - 1
	last := len(rowHeights) - 1
	return geom.Size{
		Width:  colX[used] + colWidths[used],
		Height: rowY[last] + rowHeights[last],
	}
}
