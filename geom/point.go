package geom

import "math"

// Point is a 2D position with float64 coordinates.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Length returns the Euclidean length of the vector from the origin to p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// IPoint is a 2D position with integer pixel coordinates.
type IPoint struct {
	X, Y int
}

// IPt creates an IPoint from x, y coordinates.
func IPt(x, y int) IPoint {
	return IPoint{X: x, Y: y}
}

// ToPoint widens an IPoint to a float Point.
func (p IPoint) ToPoint() Point {
	return Point{X: float64(p.X), Y: float64(p.Y)}
}

// Vector is a displacement, as distinct from Point's position. The
// distinction matters for Mapping.map: a vector is transformed without
// translation, a point is not.
type Vector struct {
	X, Y float64
}

// Vec creates a Vector from x, y components.
func Vec(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Length returns the Euclidean length of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// IVector is an integer-valued displacement.
type IVector struct {
	X, Y int
}

// IVec creates an IVector from x, y components.
func IVec(x, y int) IVector {
	return IVector{X: x, Y: y}
}
