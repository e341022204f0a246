package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/tradelog/pkg/ui/geom"
)

func TestGrid_TwoColumnsThreeRows(t *testing.T) {
	grid := NewGrid(2, geom.Size{Width: 2, Height: 1})
	root := NewContainer(grid,
		NewLabel("A"), NewLabel("BBBB"),
		NewLabel("CCC"), NewLabel("D\nD"),
		NewLabel("EE"), NewLabel("FFFFF"),
	)

	size := root.Remeasure(newTestCanvas())

	want := []geom.Rect{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 5, Y: 0, Width: 4, Height: 1},
		{X: 0, Y: 2, Width: 3, Height: 1},
		{X: 5, Y: 2, Width: 1, Height: 2},
		{X: 0, Y: 5, Width: 2, Height: 1},
		{X: 5, Y: 5, Width: 5, Height: 1},
	}
	assert.Equal(t, want, grid.Rects())
	assert.Equal(t, geom.Size{Width: 10, Height: 6}, size)
	assert.Equal(t, 3, grid.Rows(6))
	assert.Equal(t, 4, grid.Rows(7))
}

func TestGrid_PartialRowAndEmpty(t *testing.T) {
	grid := NewGrid(3, geom.Size{Width: 1, Height: 1})
	root := NewContainer(grid, NewLabel("AA"), NewLabel("B"))
	assert.Equal(t, geom.Size{Width: 4, Height: 1}, root.Remeasure(newTestCanvas()))

	empty := NewContainer(NewGrid(2, geom.Size{Width: 5, Height: 5}))
	assert.Equal(t, geom.Size{}, empty.Remeasure(newTestCanvas()))
}

func TestGrid_RemeasureDoesNotAccumulate(t *testing.T) {
	root := NewContainer(NewGrid(2, geom.Size{Width: 1, Height: 1}), NewLabel("AB"), NewLabel("C"))
	m := newTestCanvas()
	first := root.Remeasure(m)
	second := root.Remeasure(m)
	assert.Equal(t, first, second)
}

func TestStack_SpacingOnlyBetweenPlacedChildren(t *testing.T) {
	collapsed := NewLabel("CCCC")
	collapsed.SetVisibility(Collapsed)
	stack := VStack(1)
	root := NewContainer(stack, NewLabel("AB"), collapsed, NewLabel("D"))

	size := root.Remeasure(newTestCanvas())

	assert.Equal(t, []geom.Rect{
		{X: 0, Y: 0, Width: 2, Height: 1},
		{},
		{X: 0, Y: 2, Width: 1, Height: 1},
	}, stack.Rects())
	assert.Equal(t, geom.Size{Width: 2, Height: 3}, size)
	assert.False(t, collapsed.measured, "collapsed children are not remeasured")
}

func TestStack_Horizontal(t *testing.T) {
	stack := HStack(2)
	root := NewContainer(stack, NewLabel("AB"), NewLabel("CDE\nF"))

	size := root.Remeasure(newTestCanvas())

	assert.Equal(t, []geom.Rect{
		{X: 0, Y: 0, Width: 2, Height: 1},
		{X: 4, Y: 0, Width: 3, Height: 2},
	}, stack.Rects())
	assert.Equal(t, geom.Size{Width: 7, Height: 2}, size)
}

func TestStack_InvisibleKeepsSpace(t *testing.T) {
	hidden := NewLabel("XX")
	hidden.SetVisibility(Invisible)
	root := NewContainer(VStack(0), hidden, NewLabel("Y"))

	size := root.Remeasure(newTestCanvas())
	assert.Equal(t, geom.Size{Width: 2, Height: 2}, size)
}

func TestLayout_IndexAt(t *testing.T) {
	stack := VStack(1)
	root := NewContainer(stack, NewLabel("AAA"), NewLabel("B"))
	root.Remeasure(newTestCanvas())

	tests := []struct {
		name   string
		p      geom.Point
		want   int
		wantOK bool
	}{
		{"first rect origin", geom.Pt(0, 0), 0, true},
		{"inside first", geom.Pt(2.5, 0.5), 0, true},
		{"first far edge", geom.Pt(3, 0), 0, false},
		{"in spacing", geom.Pt(0, 1.5), 0, false},
		{"second", geom.Pt(0.5, 2), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := stack.IndexAt(tt.p)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNode_RectsMatchChildren(t *testing.T) {
	root := NewContainer(NewGrid(2, geom.Size{}), NewLabel("a"), NewLabel("b"), NewLabel("c"))
	root.Remeasure(newTestCanvas())
	assert.Len(t, root.Layout().Rects(), len(root.Children()))

	root.Add(NewLabel("d"))
	assert.True(t, root.NeedsRemeasure())
	root.Remeasure(newTestCanvas())
	assert.Len(t, root.Layout().Rects(), 4)
	assert.False(t, root.NeedsRemeasure())
}
