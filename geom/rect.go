package geom

import "math"

// Rect is an axis-aligned float64 rectangle, half-open like IRect:
// [MinX, MaxX) x [MinY, MaxY).
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectXYWH builds a Rect from a top-left corner and a size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// RectLTRB builds a Rect from its four edges directly.
func RectLTRB(left, top, right, bottom float64) Rect {
	return Rect{MinX: left, MinY: top, MaxX: right, MaxY: bottom}
}

// EmptyRect returns the canonical empty Rect: absorbing under Intersect,
// neutral under Union.
func EmptyRect() Rect {
	return Rect{MinX: math.MaxFloat64, MinY: math.MaxFloat64, MaxX: -math.MaxFloat64, MaxY: -math.MaxFloat64}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Width returns the rectangle's width, or 0 if empty.
func (r Rect) Width() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the rectangle's height, or 0 if empty.
func (r Rect) Height() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// TopLeft returns the rectangle's minimum corner.
func (r Rect) TopLeft() Point {
	return Point{X: r.MinX, Y: r.MinY}
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// Contains reports whether other lies entirely within r.
// Empty rectangles contain nothing, including other empty rectangles.
func (r Rect) Contains(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.MinX >= r.MinX && other.MinY >= r.MinY && other.MaxX <= r.MaxX && other.MaxY <= r.MaxY
}

// ContainsEps is Contains with a tolerance, used wherever the spec asks
// whether a mapped quad contains a rectangle "within epsilon".
func (r Rect) ContainsEps(other Rect, eps float64) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return other.MinX >= r.MinX-eps && other.MinY >= r.MinY-eps &&
		other.MaxX <= r.MaxX+eps && other.MaxY <= r.MaxY+eps
}

// ContainsPoint reports whether p lies within r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.MinX && p.X < r.MaxX && p.Y >= r.MinY && p.Y < r.MaxY
}

// Intersect returns the intersection of r and other. Empty rectangles are
// absorbing: intersecting with an empty rectangle yields empty.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		MinX: math.Max(r.MinX, other.MinX),
		MinY: math.Max(r.MinY, other.MinY),
		MaxX: math.Min(r.MaxX, other.MaxX),
		MaxY: math.Min(r.MaxY, other.MaxY),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersect(other).IsEmpty()
}

// Union returns the smallest rectangle containing both r and other. Empty
// rectangles are neutral: unioning with an empty rectangle yields the other
// rectangle unchanged.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, other.MinX),
		MinY: math.Min(r.MinY, other.MinY),
		MaxX: math.Max(r.MaxX, other.MaxX),
		MaxY: math.Max(r.MaxY, other.MaxY),
	}
}

// Offset translates the rectangle by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Inset shrinks the rectangle by dx on each horizontal edge and dy on each
// vertical edge. Negative values outset instead.
func (r Rect) Inset(dx, dy float64) Rect {
	out := Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX - dx, MaxY: r.MaxY - dy}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Outset grows the rectangle by dx on each horizontal edge and dy on each
// vertical edge.
func (r Rect) Outset(dx, dy float64) Rect {
	return r.Inset(-dx, -dy)
}

// Scale scales the rectangle about the origin by (sx, sy). Negative factors
// flip the corresponding axis; the result is re-normalized so MinX<=MaxX and
// MinY<=MaxY still hold.
func (r Rect) Scale(sx, sy float64) Rect {
	x0, x1 := r.MinX*sx, r.MaxX*sx
	y0, y1 := r.MinY*sy, r.MaxY*sy
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{MinX: x0, MinY: y0, MaxX: x1, MaxY: y1}
}

// RoundOut rounds a float Rect out to the smallest enclosing IRect,
// inset by +RoundEpsilon first so that values that are integers in exact
// arithmetic but land a hair outside due to float error still round to the
// expected integer rather than overshooting by one pixel.
func RoundOut(r Rect) IRect {
	if r.IsEmpty() {
		return IRect{}
	}
	return IRect{
		Left:   int(math.Floor(r.MinX + RoundEpsilon)),
		Top:    int(math.Floor(r.MinY + RoundEpsilon)),
		Right:  int(math.Ceil(r.MaxX - RoundEpsilon)),
		Bottom: int(math.Ceil(r.MaxY - RoundEpsilon)),
	}
}

// RoundIn rounds a float Rect in to the largest enclosed IRect, outset by
// +RoundEpsilon first (the dual of RoundOut).
func RoundIn(r Rect) IRect {
	if r.IsEmpty() {
		return IRect{}
	}
	out := IRect{
		Left:   int(math.Ceil(r.MinX - RoundEpsilon)),
		Top:    int(math.Ceil(r.MinY - RoundEpsilon)),
		Right:  int(math.Floor(r.MaxX + RoundEpsilon)),
		Bottom: int(math.Floor(r.MaxY + RoundEpsilon)),
	}
	if out.IsEmpty() {
		return IRect{}
	}
	return out
}

// Round rounds every edge to the nearest integer independently (no
// directional bias), used where neither RoundOut nor RoundIn semantics
// apply (e.g. reporting an approximate rectangle for diagnostics).
func (r Rect) Round() IRect {
	return IRect{
		Left:   int(math.Round(r.MinX)),
		Top:    int(math.Round(r.MinY)),
		Right:  int(math.Round(r.MaxX)),
		Bottom: int(math.Round(r.MaxY)),
	}
}
