// Package geom holds the float geometry shared by the canvas, the text
// editor and the widget runtime. Units are canvas units (cells on a
// terminal canvas).
package geom

// Point is a position or offset.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a measured extent.
type Size struct {
	Width, Height float32
}

// Zero returns true if both dimensions are zero.
func (s Size) Zero() bool {
	return s.Width == 0 && s.Height == 0
}

// Grow returns s enlarged by dw and dh.
func (s Size) Grow(dw, dh float32) Size {
	return Size{Width: s.Width + dw, Height: s.Height + dh}
}

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

// NewRect creates a rect from an origin and a size.
func NewRect(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Contains reports whether p lies inside r. The near edges are inclusive and
// the far edges exclusive, so an empty rect contains nothing.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Translate returns r moved by off.
func (r Rect) Translate(off Point) Rect {
	r.X += off.X
	r.Y += off.Y
	return r
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
