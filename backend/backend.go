// Package backend defines the external contract the core filter pipeline
// consumes to allocate surfaces, wrap images, decode cached bitmaps, and
// look up a blur algorithm. It mirrors the shape of the teacher's
// RenderBackend/Surface split, but narrowed to exactly what FilterResult
// needs: a Device per render target plus a handful of backend-scoped
// factories and a shared cache.
package backend

import (
	"errors"

	"github.com/gogpu/filterresult/blend"
	"github.com/gogpu/filterresult/colorfilter"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrSurfaceAllocFailed describes a failed surface allocation. MakeDevice
	// does not return it: it reports allocation failure as (nil, false).
	ErrSurfaceAllocFailed = errors.New("backend: surface allocation failed")
)

// ColorSpace identifies the working color space of a surface or image.
type ColorSpace uint8

const (
	SRGB ColorSpace = iota
	SRGBLinear
	DisplayP3
)

// ColorType identifies a pixel's in-memory channel layout and precision.
type ColorType uint8

const (
	ColorTypeRGBA8 ColorType = iota
	ColorTypeBGRA8
	ColorTypeAlpha8
	ColorTypeRGBAF16
)

// SurfaceProps carries rendering hints that affect how a Device rasterizes
// but not what it logically draws: pixel geometry for subpixel text (unused
// by this pipeline but threaded through for backend parity) and a flags
// bitset reserved for backend-specific hints.
type SurfaceProps struct {
	PixelGeometry uint8
	Flags         uint32
}

// ClipOp selects how ClipRect combines with the existing clip.
type ClipOp uint8

const (
	ClipIntersect ClipOp = iota
	ClipDifference
)

// DrawConstraint bounds how strictly DrawSpecial must respect the image's
// subset: Fast allows the backend to sample slightly outside the subset
// when convenient (e.g. for filtering), Strict forbids it.
type DrawConstraint uint8

const (
	Fast DrawConstraint = iota
	Strict
)

// Paint bundles the per-draw appearance state: a flat fallback color, an
// optional blend mode, an optional color filter, and a [0,1] alpha
// multiplier applied on top of both.
type Paint struct {
	Color       image.Color
	Blender     blend.Blender
	ColorFilter colorfilter.ColorFilter
	Alpha       float64
}

// DefaultPaint returns an opaque, unfiltered SourceOver paint.
func DefaultPaint() Paint {
	return Paint{
		Color:   image.Color{A: 1},
		Blender: blend.ModeBlender(blend.SourceOver),
		Alpha:   1,
	}
}

// BlurEngine applies a separable blur to a source image over the given
// bounds, expanding them by the algorithm's support radius.
type BlurEngine interface {
	// Blur writes a blurred copy of src (radii in local pixels) and returns
	// the special image holding the result.
	Blur(src image.SpecialImage, radiusX, radiusY float64, bounds geom.IRect) (image.SpecialImage, error)

	// ExpandBounds returns how far Blur reads outside the requested bounds.
	ExpandBounds(radiusX, radiusY float64) (dx, dy int)
}

// Cache is the shared image-filter cache behind the backend: an atomic
// get-or-insert keyed by a caller-computed cache key (typically a hash of
// the filter node and its inputs). Implementations must be safe for
// concurrent use from multiple evaluations.
type Cache interface {
	GetOrCreate(key string, create func() image.SpecialImage) image.SpecialImage
	Get(key string) (image.SpecialImage, bool)
	Set(key string, value image.SpecialImage)
}

// Device is a single render target: a surface plus a clip/transform stack.
// It is the consumed half of the pipeline's draw operations — FilterResult
// never rasterizes paths or pixels itself, only asks a Device to.
type Device interface {
	// LocalToDevice returns the current local-to-device transform.
	LocalToDevice() geom.Matrix

	// DevClipBounds returns the current clip, in device pixels.
	DevClipBounds() geom.IRect

	PushClipStack()
	PopClipStack()

	// ClipRect intersects or subtracts rect (in local coordinates) from the
	// current clip. aa requests edge antialiasing where the backend supports it.
	ClipRect(rect geom.Rect, op ClipOp, aa bool)

	// DrawPaint fills the entire current clip with paint.
	DrawPaint(paint Paint)

	// DrawSpecial draws img through matrix (local-to-device) using sampling
	// and paint, honoring constraint's subset-sampling strictness.
	DrawSpecial(img image.SpecialImage, matrix geom.Matrix, sampling image.SamplingOptions, paint Paint, constraint DrawConstraint)

	// DrawShader fills the current clip with shader, sampled at each device
	// pixel's center by inverting matrix (local-to-device) back into the
	// shader's own coordinate space, and composited via paint. Used by
	// Builder.drawShader, which is the only pipeline stage that hands a
	// bare Shader (rather than a SpecialImage) to a Device.
	DrawShader(shader image.Shader, matrix geom.Matrix, paint Paint)

	// SnapSpecial captures subset (in device pixels) of the device's current
	// contents as an immutable SpecialImage.
	SnapSpecial(subset geom.IRect) (image.SpecialImage, error)

	// SetImmutable marks the device's backing store read-only; further draws
	// have no effect. Called after the last SnapSpecial of a scope that intends
	// to keep rendering into a sibling view of the same pixels.
	SetImmutable()
}

// Backend is the factory/registry surface the pipeline is built against:
// surface allocation, raw-image wrapping, cached bitmap decode, and an
// optional blur algorithm lookup, plus the shared cache and stats sink.
type Backend interface {
	// MakeDevice allocates a Device of the given pixel size, color space,
	// and optional surface properties (nil for backend defaults). Returns
	// (nil, false) on allocation failure — never an error value, matching
	// the pipeline's total-function error model (empty FilterResult).
	MakeDevice(size geom.ISize, colorSpace ColorSpace, props *SurfaceProps) (Device, bool)

	// MakeImage wraps raw into a SpecialImage whose logical subset is
	// subset (which must fit within raw's own bounds).
	MakeImage(subset geom.IRect, raw image.SpecialImage) image.SpecialImage

	// GetCachedBitmap decodes bitmap (e.g. a WebP-encoded buffer) into a
	// SpecialImage, reusing any existing decode for the same bytes.
	GetCachedBitmap(bitmap []byte) (image.SpecialImage, error)

	// GetBlurEngine returns the blur algorithm for colorType, if the
	// backend has one.
	GetBlurEngine(colorType ColorType) (BlurEngine, bool)

	SurfaceProps() SurfaceProps
	ColorType() ColorType
	Cache() Cache
	Stats() *Stats
}
