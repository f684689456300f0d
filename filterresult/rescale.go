package filterresult

import (
	"math"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// downscaleStepCount implements §4.9's pass-count rule: a single pass only
// looks good down to about half size, so shrinking further is split into
// successive halvings until what's left for the final pass is back in
// [0.5, 1).
func downscaleStepCount(s float64) int {
	if s <= 0 || s >= 0.5 {
		return 0
	}
	n := 0
	for s < 0.5 {
		s *= 2
		n++
	}
	return n
}

// paddingPixels implements the downscale padding formula from §9:
// px = max(1, ceil(s*srcFrac - dstFrac)), the number of extra source pixels
// a pass must read past its nominal footprint so the resampling kernel has
// full support at the edges.
func paddingPixels(s, srcFrac, dstFrac float64) int {
	px := math.Ceil(s*srcFrac - dstFrac)
	if px < 1 {
		px = 1
	}
	return int(px)
}

// Rescale implements §4.9: scales the receiver by scale (each axis
// independently, both in (0, 1] for a filter-result rescale; a scale of 1
// on an axis is a no-op on that axis), using downscaleStepCount passes of
// roughly half-or-less each so no single pass aliases. enforceDecal forces
// the receiver to Decal tiling first (via resolve) when its own tile mode
// would otherwise let the resampling kernel read tiled, rather than
// transparent, content past the edge.
func (fr FilterResult) Rescale(ctx *evalctx.Context, scale geom.Size, enforceDecal bool) FilterResult {
	if fr.IsEmpty() {
		return fr
	}
	if scale.W >= 1-geom.RoundEpsilon && scale.H >= 1-geom.RoundEpsilon {
		return fr
	}

	if enforceDecal && fr.tileMode != image.Decal {
		resolved := fr.resolve(ctx, fr.layerBounds, true)
		if resolved.IsEmpty() {
			return resolved
		}
		resolved.tileMode = image.Decal
		fr = resolved
	}

	steps := downscaleStepCount(scale.W)
	if s := downscaleStepCount(scale.H); s > steps {
		steps = s
	}
	if steps == 0 {
		steps = 1
	}

	cur := fr
	prevW, prevH := 1.0, 1.0
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cumW := math.Pow(scale.W, t)
		cumH := math.Pow(scale.H, t)
		passScale := geom.Sz(cumW/prevW, cumH/prevH)
		next, ok := cur.rescalePass(ctx, passScale)
		if !ok {
			return Empty()
		}
		cur = next
		prevW, prevH = cumW, cumH
	}
	return cur
}

// rescalePass resamples fr by passScale in one step: it resolves fr over its
// own layer bounds (paddedSrc is outset by paddingPixels, but resolve with
// preserveTransparency false intersects it back to layerBounds, so no
// padding belt past the edge is read or materialized), draws the scaled
// result into a freshly sized surface, and returns a FilterResult with fr's
// tile mode, anchored at the scaled origin of fr's own layer bounds.
func (fr FilterResult) rescalePass(ctx *evalctx.Context, passScale geom.Size) (FilterResult, bool) {
	if fr.IsEmpty() {
		return Empty(), true
	}
	srcRect := fr.layerBounds
	dstW := int(math.Round(float64(srcRect.Width()) * passScale.W))
	dstH := int(math.Round(float64(srcRect.Height()) * passScale.H))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	padX := paddingPixels(passScale.W, 0.5, 0.5)
	padY := paddingPixels(passScale.H, 0.5, 0.5)
	paddedSrc := srcRect.Outset(padX, padY).Intersect(fr.layerBounds.Outset(padX, padY))

	resolved := fr.resolve(ctx, paddedSrc, false)
	if resolved.IsEmpty() {
		return Empty(), true
	}

	dstBounds := geom.IRectWH(dstW, dstH)
	surface, ok := newAutoSurface(ctx, dstBounds)
	if !ok {
		return Empty(), false
	}
	defer surface.release()

	scaleMat := geom.ScaleMatrix(passScale.W, passScale.H)
	toDevice := scaleMat.Multiply(geom.TranslateMatrix(-float64(resolved.layerBounds.Left), -float64(resolved.layerBounds.Top)))
	resolved.drawInto(surface.dev, toDevice, nil, backend.Fast)

	img, ok := surface.snap()
	if !ok {
		return Empty(), false
	}

	originX := int(math.Floor(float64(srcRect.Left) * passScale.W))
	originY := int(math.Floor(float64(srcRect.Top) * passScale.H))
	layerBounds := geom.IRect{Left: originX, Top: originY, Right: originX + dstW, Bottom: originY + dstH}

	return MakeFromImage(
		img,
		geom.TranslateMatrix(float64(layerBounds.Left), float64(layerBounds.Top)),
		image.DefaultSampling,
		fr.tileMode,
		layerBounds,
	), true
}
