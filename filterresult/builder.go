package filterresult

import (
	"math"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// Builder implements §4.10: the three ways several FilterResults (or a
// caller-supplied shader) combine into one, each materializing through a
// freshly allocated autoSurface rather than folding algebraically, since
// none of the three has a single pending-state representation to fold
// into.
type Builder struct {
	ctx *evalctx.Context
}

// NewBuilder returns a Builder drawing against ctx's backend and desired
// output.
func NewBuilder(ctx *evalctx.Context) Builder {
	return Builder{ctx: ctx}
}

// Merge draws every input in order into one surface sized to the union of
// their layer bounds, intersected with the desired output. A single input
// is returned verbatim, with no surface allocated.
func (b Builder) Merge(inputs []FilterResult) FilterResult {
	live := inputs[:0:0]
	for _, in := range inputs {
		if !in.IsEmpty() {
			live = append(live, in)
		}
	}
	if len(live) == 0 {
		return Empty()
	}
	if len(live) == 1 {
		return live[0]
	}

	desiredOutput := b.ctx.DesiredOutput().Untag()
	union := live[0].layerBounds
	for _, in := range live[1:] {
		union = union.Union(in.layerBounds)
	}
	union = union.Intersect(desiredOutput)
	if union.IsEmpty() {
		return Empty()
	}

	surface, ok := newAutoSurface(b.ctx, union)
	if !ok {
		return Empty()
	}
	defer surface.release()

	toDevice := geom.TranslateMatrix(-float64(union.Left), -float64(union.Top))
	for _, in := range live {
		in.drawInto(surface.dev, toDevice, nil, backend.Strict)
	}

	img, ok := surface.snap()
	if !ok {
		return Empty()
	}
	return MakeFromImage(img, geom.TranslateMatrix(float64(union.Left), float64(union.Top)), image.DefaultSampling, image.Decal, union)
}

// DrawShader fills a surface sized to the desired output with shader.
// When useParamSpace is true, shader was built against parameter-space
// coordinates and the mapping's paramToLayer matrix is concatenated so it
// samples correctly once translated into the surface's layer-space origin;
// otherwise shader is assumed to already sample in layer space.
func (b Builder) DrawShader(shader image.Shader, useParamSpace bool) FilterResult {
	if shader == nil {
		return Empty()
	}
	desiredOutput := b.ctx.DesiredOutput().Untag()
	if desiredOutput.IsEmpty() {
		return Empty()
	}

	surface, ok := newAutoSurface(b.ctx, desiredOutput)
	if !ok {
		return Empty()
	}
	defer surface.release()

	matrix := geom.TranslateMatrix(-float64(desiredOutput.Left), -float64(desiredOutput.Top))
	if useParamSpace {
		matrix = matrix.Multiply(b.ctx.Mapping().ParamToLayer())
	}
	surface.dev.DrawShader(shader, matrix, backend.DefaultPaint())

	img, ok := surface.snap()
	if !ok {
		return Empty()
	}
	return MakeFromImage(img, geom.TranslateMatrix(float64(desiredOutput.Left), float64(desiredOutput.Top)), image.DefaultSampling, image.Decal, desiredOutput)
}

// Blur implements the third Builder stage: it looks up a blur algorithm
// for the backend's color type, resolves in with its sample bounds outset
// by ceil(3*sigma) on each axis so the kernel has full support at the
// edges, and wraps the blurred pixels back into a FilterResult anchored at
// the resolved region's own origin.
func (b Builder) Blur(in FilterResult, sigmaX, sigmaY float64) FilterResult {
	if in.IsEmpty() {
		return in
	}
	engine, ok := b.ctx.Backend().GetBlurEngine(b.ctx.Backend().ColorType())
	if !ok {
		return Empty()
	}

	padX := int(math.Ceil(3 * sigmaX))
	padY := int(math.Ceil(3 * sigmaY))
	sampleBounds := in.layerBounds.Outset(padX, padY)

	// preserveTransparency must be true: the whole point of outsetting is to
	// materialize real (transparent) pixels past in's own layer bounds so
	// the kernel has edge support, which resolve's default crop-to-
	// layerBounds behavior would otherwise undo.
	resolved := in.resolve(b.ctx, sampleBounds, true)
	if resolved.IsEmpty() {
		return Empty()
	}
	resolved.tileMode = image.Decal

	subset := resolved.img.Subset()
	blurred, err := engine.Blur(resolved.img, sigmaX, sigmaY, subset)
	if err != nil || blurred == nil {
		return Empty()
	}

	return MakeFromImage(
		blurred,
		geom.TranslateMatrix(float64(resolved.layerBounds.Left), float64(resolved.layerBounds.Top)),
		image.DefaultSampling,
		image.Decal,
		resolved.layerBounds,
	)
}
