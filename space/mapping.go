package space

import (
	"errors"
	"math"

	"github.com/gogpu/filterresult/geom"
)

// Capability is the most general class of layer-space transform a filter
// node can tolerate when a CTM is decomposed into a layer component and a
// residual device-space remainder.
type Capability int

const (
	// CapTranslate means the node can only accept an identity layer matrix;
	// everything the CTM contributes becomes the remainder.
	CapTranslate Capability = iota
	// CapScaleTranslate means the node tolerates a scale-translate layer
	// matrix.
	CapScaleTranslate
	// CapComplex means the node tolerates an arbitrary affine layer matrix.
	CapComplex
)

// ErrSingularMatrix is returned when a Mapping operation would require
// inverting a non-invertible matrix.
var ErrSingularMatrix = errors.New("space: matrix is not invertible")

// Mapping holds the three affine matrices that bridge parameter, layer, and
// device space, and the CTM decomposition that produced them. It is the
// only way to move a tagged value from one space to another.
type Mapping struct {
	paramToLayer geom.Matrix
	layerToDevice geom.Matrix
	devToLayer    geom.Matrix
}

// NewMapping builds a Mapping whose layer space equals parameter space
// (paramToLayer is identity) and whose layerToDevice is the given CTM.
func NewMapping(ctm geom.Matrix) (Mapping, error) {
	inv, ok := ctm.Invert()
	if !ok {
		return Mapping{}, ErrSingularMatrix
	}
	return Mapping{
		paramToLayer:  geom.IdentityMatrix(),
		layerToDevice: ctm,
		devToLayer:    inv,
	}, nil
}

// LayerToDevice returns the current layer-to-device matrix.
func (m Mapping) LayerToDevice() geom.Matrix { return m.layerToDevice }

// DevToLayer returns the current device-to-layer matrix.
func (m Mapping) DevToLayer() geom.Matrix { return m.devToLayer }

// ParamToLayer returns the current parameter-to-layer matrix.
func (m Mapping) ParamToLayer() geom.Matrix { return m.paramToLayer }

// DecomposeCTM factors layerToDevice into a layer-space component (folded
// into paramToLayer) and a device-space remainder (the new layerToDevice),
// choosing the layer component to be no more general than capability
// allows. representativePoint is used only when layerToDevice is a
// Perspective matrix, to estimate an isotropic scale via the differential-
// area metric.
//
// Reports false (mapping left unchanged) when no representative scale can
// be found for the CTM or the resulting remainder is not invertible.
func (m *Mapping) DecomposeCTM(capability Capability, representativePoint geom.Point) bool {
	ctm := m.layerToDevice

	var layer, remainder geom.Matrix
	switch {
	case capability == CapTranslate:
		layer = geom.IdentityMatrix()
		remainder = ctm
	case capability == CapScaleTranslate && ctm.IsScaleTranslate(geom.RoundEpsilon):
		layer = ctm
		remainder = geom.IdentityMatrix()
	case capability == CapComplex:
		layer = ctm
		remainder = geom.IdentityMatrix()
	default:
		scaling, ok := representativeScaling(ctm, representativePoint)
		if !ok {
			return false
		}
		scaleInv, ok := scaling.Invert()
		if !ok {
			return false
		}
		remainder = ctm.Multiply(scaleInv)
		layer = scaling
	}

	remainderInv, ok := remainder.Invert()
	if !ok {
		return false
	}

	m.paramToLayer = layer.Multiply(m.paramToLayer)
	m.layerToDevice = remainder
	m.devToLayer = remainderInv
	return true
}

// representativeScaling picks an axis-aligned scale matrix approximating
// ctm, chosen to minimize the resampling a downstream filter will need to
// do to undo it.
func representativeScaling(ctm geom.Matrix, representativePoint geom.Point) (geom.Matrix, bool) {
	if sx, sy := ctm.DecomposeScale(); ctm.IsAffine() {
		if sx == 0 || sy == 0 || math.IsNaN(sx) || math.IsNaN(sy) {
			return geom.Matrix{}, false
		}
		return geom.ScaleMatrix(sx, sy), true
	}
	// Perspective: estimate a single isotropic scale from the differential
	// area at representativePoint, i.e. sqrt(|det(Jacobian)|).
	const h = 1e-3
	p0 := ctm.TransformPoint(representativePoint)
	px := ctm.TransformPoint(representativePoint.Add(geom.Pt(h, 0)))
	py := ctm.TransformPoint(representativePoint.Add(geom.Pt(0, h)))
	dudx, dvdx := (px.X-p0.X)/h, (px.Y-p0.Y)/h
	dudy, dvdy := (py.X-p0.X)/h, (py.Y-p0.Y)/h
	area := math.Abs(dudx*dvdy - dudy*dvdx)
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return geom.Matrix{}, false
	}
	scale := math.Sqrt(area)
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return geom.Matrix{}, false
	}
	return geom.ScaleMatrix(scale, scale), true
}

// AdjustLayerSpace composes an additional layer-space transform into the
// mapping: paramToLayer and layerToDevice are both updated so that the net
// parameter-to-device mapping is unchanged, but points now pass through
// layer as if layer itself were first applied in layer space.
//
// Reports false (mapping left unchanged) iff layer is singular.
func (m *Mapping) AdjustLayerSpace(layer geom.Matrix) bool {
	layerInv, ok := layer.Invert()
	if !ok {
		return false
	}
	m.paramToLayer = layer.Multiply(m.paramToLayer)
	m.layerToDevice = m.layerToDevice.Multiply(layerInv)
	m.devToLayer = layer.Multiply(m.devToLayer)
	return true
}

// MapRect maps a Rect from one space to another through matrix, returning
// the float bounding box of the mapped rectangle; no rounding is applied.
func MapRect[From, To Tag](r Rect[From], matrix geom.Matrix) Rect[To] {
	return Rect[To]{matrix.TransformRect(r.Rect)}
}

// MapIRect maps an IRect through matrix. For a scale-translate matrix the
// transform is computed in float and rounded with the epsilon offset so
// exact-integer inputs stay exact; for anything looser, the float result is
// rounded out to guarantee coverage.
func MapIRect[From, To Tag](r IRect[From], matrix geom.Matrix) IRect[To] {
	mapped := matrix.TransformRect(r.IRect.ToRect())
	return IRect[To]{geom.RoundOut(mapped)}
}

// MapPoint maps a Point through matrix.
func MapPoint[From, To Tag](p Point[From], matrix geom.Matrix) Point[To] {
	return Point[To]{matrix.TransformPoint(p.Point)}
}

// MapIPoint maps an IPoint through matrix, rounding the float result to the
// nearest integer.
func MapIPoint[From, To Tag](p IPoint[From], matrix geom.Matrix) IPoint[To] {
	mapped := matrix.TransformPoint(p.IPoint.ToPoint())
	return IPoint[To]{geom.IPt(int(math.Round(mapped.X)), int(math.Round(mapped.Y)))}
}

// MapVector maps a Vector through matrix (translation ignored).
func MapVector[From, To Tag](v Vector[From], matrix geom.Matrix) Vector[To] {
	return Vector[To]{matrix.TransformVector(v.Vector)}
}

// MapSize maps a Size through matrix, treating width and height as
// independent axis-length vectors. Under a non-affine matrix this takes
// |map((w,0))| and |map((0,h))| rather than a single consistent transform.
func MapSize[From, To Tag](s Size[From], matrix geom.Matrix) Size[To] {
	w := matrix.TransformVector(geom.Vec(s.W, 0)).Length()
	h := matrix.TransformVector(geom.Vec(0, s.H)).Length()
	return Size[To]{geom.Sz(w, h)}
}

// MapISize maps an ISize through matrix, rounding the result.
func MapISize[From, To Tag](s ISize[From], matrix geom.Matrix) ISize[To] {
	mapped := MapSize[From, To](Size[From]{s.ToSize()}, matrix)
	return ISize[To]{geom.ISz(int(math.Round(mapped.W)), int(math.Round(mapped.H)))}
}

// MapMatrix conjugates matrix by the space-change transform m, producing
// the matrix that applies the same effect but operating on values already
// expressed in the target space: m · matrix · m⁻¹.
func MapMatrix(matrix, m geom.Matrix) (geom.Matrix, bool) {
	inv, ok := m.Invert()
	if !ok {
		return geom.Matrix{}, false
	}
	return m.Multiply(matrix).Multiply(inv), true
}
