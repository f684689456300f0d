package geom

import "math"

// MatrixKind classifies a Matrix by the narrowest category of transform it
// is guaranteed to represent. Categories nest:
//
//	Identity ⊂ Translation ⊂ ScaleTranslate ⊂ RectStaysRect ⊂ Affine ⊂ Perspective
//
// A matrix's Kind is the tightest category it falls into, not merely one
// it satisfies — callers that only care about a looser property should
// compare with <= against the category they need.
type MatrixKind int

const (
	Identity MatrixKind = iota
	Translation
	ScaleTranslate
	RectStaysRect
	Affine
	Perspective
)

// Matrix is a 3x3 transform in row-major homogeneous form:
//
//	| A B C |   | x |
//	| D E F | * | y |
//	| G H I |   | 1 |
//
// Affine matrices always have G=H=0, I=1; the A..F naming matches the
// teacher's 2x3 convention, extended with G, H, I so perspective transforms
// (used only for the CTM decomposition's "representative scale" fallback,
// never by the pipeline's own operations) are representable without a
// second type.
type Matrix struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, E: 1, I: 1}
}

// TranslateMatrix returns a pure translation.
func TranslateMatrix(dx, dy float64) Matrix {
	return Matrix{A: 1, E: 1, I: 1, C: dx, F: dy}
}

// ScaleMatrix returns a pure scale about the origin.
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{A: sx, E: sy, I: 1}
}

// ScaleTranslateMatrix returns a scale-then-translate transform: the most
// common non-trivial form FilterResult's pending transform takes.
func ScaleTranslateMatrix(sx, sy, dx, dy float64) Matrix {
	return Matrix{A: sx, E: sy, I: 1, C: dx, F: dy}
}

// AffineMatrix returns a general affine (no perspective) transform from its
// six coefficients, matching the teacher's A,B,C,D,E,F 2x3 layout.
func AffineMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, E: e, F: f, I: 1}
}

// RotateMatrix returns a rotation by theta radians about the origin.
func RotateMatrix(theta float64) Matrix {
	s, c := math.Sincos(theta)
	return Matrix{A: c, B: -s, D: s, E: c, I: 1}
}

// IsAffine reports whether m has no perspective component.
func (m Matrix) IsAffine() bool {
	return m.G == 0 && m.H == 0 && m.I == 1
}

// IsIdentity reports whether m is (within eps) the identity transform.
func (m Matrix) IsIdentity(eps float64) bool {
	return m.Kind(eps) == Identity
}

// IsTranslation reports whether m is (within eps) a pure translation.
func (m Matrix) IsTranslation(eps float64) bool {
	return m.Kind(eps) <= Translation
}

// IsScaleTranslate reports whether m is (within eps) a scale-then-translate
// transform with no rotation or skew.
func (m Matrix) IsScaleTranslate(eps float64) bool {
	return m.Kind(eps) <= ScaleTranslate
}

// Kind classifies m into the narrowest matching category, using eps as the
// tolerance for "is this coefficient zero/one".
func (m Matrix) Kind(eps float64) MatrixKind {
	if !m.IsAffine() {
		return Perspective
	}
	hasRotationOrSkew := math.Abs(m.B) > eps || math.Abs(m.D) > eps
	if hasRotationOrSkew {
		if m.preservesAxisAlignment(eps) {
			return RectStaysRect
		}
		return Affine
	}
	isScale := math.Abs(m.A-1) > eps || math.Abs(m.E-1) > eps
	if isScale {
		return ScaleTranslate
	}
	isTranslate := math.Abs(m.C) > eps || math.Abs(m.F) > eps
	if isTranslate {
		return Translation
	}
	return Identity
}

// preservesAxisAlignment reports whether m maps axis-aligned rectangles to
// axis-aligned rectangles despite having off-diagonal terms — the
//90-degree-rotation case: exactly one of each row/column pair is ~0.
func (m Matrix) preservesAxisAlignment(eps float64) bool {
	diagZero := math.Abs(m.A) <= eps && math.Abs(m.E) <= eps
	offZero := math.Abs(m.B) <= eps && math.Abs(m.D) <= eps
	return diagZero != offZero
}

// HasNearIntegerTranslation reports whether m is a ScaleTranslate-or-tighter
// transform whose scale is ~1 and whose translation is within
// RoundEpsilon of an integer pixel offset. The pipeline treats such a
// transform as "no resampling needed" — see FilterResult's sampling
// invariant in the operations built on top of this package.
func (m Matrix) HasNearIntegerTranslation(eps float64) bool {
	if m.Kind(eps) > ScaleTranslate {
		return false
	}
	if math.Abs(m.A-1) > eps || math.Abs(m.E-1) > eps {
		return false
	}
	return nearInteger(m.C, RoundEpsilon) && nearInteger(m.F, RoundEpsilon)
}

func nearInteger(v, eps float64) bool {
	return math.Abs(v-math.Round(v)) <= eps
}

// DecomposeScale returns the (sx, sy) scale factors m applies, used by the
// rescale pipeline to decide how many halving passes a downscale needs.
// It measures the length of the transformed unit basis vectors, which is
// exact for Affine-or-tighter matrices and a representative approximation
// for Perspective ones.
func (m Matrix) DecomposeScale() (sx, sy float64) {
	ex := m.TransformVector(Vec(1, 0))
	ey := m.TransformVector(Vec(0, 1))
	return ex.Length(), ey.Length()
}

// Multiply returns m applied after other: for a point p, m.Multiply(other)
// maps p the same as m.TransformPoint(other.TransformPoint(p)).
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D + m.C*other.G,
		B: m.A*other.B + m.B*other.E + m.C*other.H,
		C: m.A*other.C + m.B*other.F + m.C*other.I,
		D: m.D*other.A + m.E*other.D + m.F*other.G,
		E: m.D*other.B + m.E*other.E + m.F*other.H,
		F: m.D*other.C + m.E*other.F + m.F*other.I,
		G: m.G*other.A + m.H*other.D + m.I*other.G,
		H: m.G*other.B + m.H*other.E + m.I*other.H,
		I: m.G*other.C + m.H*other.F + m.I*other.I,
	}
}

// Determinant returns m's determinant.
func (m Matrix) Determinant() float64 {
	return m.A*(m.E*m.I-m.F*m.H) - m.B*(m.D*m.I-m.F*m.G) + m.C*(m.D*m.H-m.E*m.G)
}

// Invert returns m's inverse and true, or the zero Matrix and false if m is
// singular.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, false
	}
	invDet := 1 / det
	return Matrix{
		A: (m.E*m.I - m.F*m.H) * invDet,
		B: (m.C*m.H - m.B*m.I) * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: (m.F*m.G - m.D*m.I) * invDet,
		E: (m.A*m.I - m.C*m.G) * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
		G: (m.D*m.H - m.E*m.G) * invDet,
		H: (m.B*m.G - m.A*m.H) * invDet,
		I: (m.A*m.E - m.B*m.D) * invDet,
	}, true
}

// TransformPoint maps a position through m, applying the full homogeneous
// divide — correct for Perspective matrices and a no-op divide for
// Affine-or-tighter ones.
func (m Matrix) TransformPoint(p Point) Point {
	x := m.A*p.X + m.B*p.Y + m.C
	y := m.D*p.X + m.E*p.Y + m.F
	w := m.G*p.X + m.H*p.Y + m.I
	if w == 1 || w == 0 {
		return Point{X: x, Y: y}
	}
	return Point{X: x / w, Y: y / w}
}

// TransformVector maps a displacement through m, ignoring translation.
func (m Matrix) TransformVector(v Vector) Vector {
	return Vector{X: m.A*v.X + m.B*v.Y, Y: m.D*v.X + m.E*v.Y}
}

// TransformRect maps an axis-aligned rectangle through m and returns the
// axis-aligned bounding box of the transformed quad. For anything looser
// than RectStaysRect this is a conservative over-approximation, exactly as
// spec'd for the bounds-analysis pass that consumes it.
func (m Matrix) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	corners := [4]Point{
		m.TransformPoint(Pt(r.MinX, r.MinY)),
		m.TransformPoint(Pt(r.MaxX, r.MinY)),
		m.TransformPoint(Pt(r.MinX, r.MaxY)),
		m.TransformPoint(Pt(r.MaxX, r.MaxY)),
	}
	out := Rect{MinX: corners[0].X, MinY: corners[0].Y, MaxX: corners[0].X, MaxY: corners[0].Y}
	for _, c := range corners[1:] {
		out.MinX = math.Min(out.MinX, c.X)
		out.MinY = math.Min(out.MinY, c.Y)
		out.MaxX = math.Max(out.MaxX, c.X)
		out.MaxY = math.Max(out.MaxY, c.Y)
	}
	return out
}

// MapsRectToRect reports whether m is RectStaysRect-or-tighter, i.e. it
// maps every axis-aligned rectangle to an axis-aligned rectangle (allowing
// 90-degree-multiple rotations and reflections, not just scale).
func (m Matrix) MapsRectToRect(eps float64) bool {
	return m.Kind(eps) <= RectStaysRect
}
