package image

import "github.com/gogpu/filterresult/geom"

// Shader is an opaque handle to a backend shader: the result of
// SpecialImage.AsShader, passed to a Device or consumed by a Builder's
// drawShader stage. Its contents are meaningful only to the Backend that
// produced it.
type Shader interface {
	isShader()
}

// SpecialImage is an immutable, reference-counted wrapper around a backend
// image plus the pixel subset of it that is actually visible. It is the
// unit of "image" the FilterResult pipeline operates on; the pipeline never
// touches raw pixels itself.
type SpecialImage interface {
	// Dimensions returns the full backing image's size, independent of
	// Subset.
	Dimensions() geom.ISize
	// Subset returns the visible pixel rectangle within the backing image.
	Subset() geom.IRect
	// BackingStoreDimensions returns the physical backing store's size,
	// which may exceed Dimensions for an approx-fit allocation.
	BackingStoreDimensions() geom.ISize
	// IsExactFit reports whether BackingStoreDimensions equals Dimensions.
	IsExactFit() bool
	// ColorSpace identifies the color space the image's pixels are encoded
	// in; nil means the backend's default.
	ColorSpace() any
	// MakeSubset returns a new SpecialImage sharing this image's backing
	// store but restricted to subset, which must lie within Subset().
	MakeSubset(subset geom.IRect) SpecialImage
	// AsShader produces a shader sampling this image under tileMode and
	// sampling. localMatrix maps the image's own pixel space into the
	// shader's sampling coordinate space (the same direction as a
	// FilterResult's transform); the shader inverts it to turn an incoming
	// sampling coordinate back into a pixel lookup. strict, when true,
	// forbids the shader from sampling outside Subset() even when the
	// backing store has more pixels available (used to honor
	// RequiresShaderTiling).
	AsShader(tileMode TileMode, sampling SamplingOptions, localMatrix geom.Matrix, strict bool) Shader
}
