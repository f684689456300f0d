package filterresult

import (
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// ApplyTransform implements §4.5: folding an additional layer-space
// transform t into the receiver's pending transform when the result would
// still look correct (no new edge becomes visible and the two sampling
// policies are compatible), or materializing first when it would not.
func (fr FilterResult) ApplyTransform(ctx *evalctx.Context, t geom.Matrix, sampling image.SamplingOptions) FilterResult {
	if fr.IsEmpty() || t.IsIdentity(geom.RoundEpsilon) {
		return fr
	}

	desiredOutput := ctx.DesiredOutput().Untag()
	currentNear := fr.transform.HasNearIntegerTranslation(geom.RoundEpsilon)
	nextNear := t.HasNearIntegerTranslation(geom.RoundEpsilon)
	merged, samplingOK := compatibleSampling(fr.sampling, sampling, currentNear, nextNear)

	analysis, _ := fr.analyzeBounds(t, desiredOutput.ToRect())
	isCropped := analysis.Has(RequiresLayerCrop)

	if samplingOK && !isCropped {
		mapped := geom.RoundOut(t.TransformRect(fr.layerBounds.ToRect())).Intersect(desiredOutput)
		if mapped.IsEmpty() {
			return Empty()
		}
		out := fr
		out.transform = t.Multiply(fr.transform)
		out.sampling = merged
		out.layerBounds = mapped
		return out
	}

	resolved := fr.resolve(ctx, desiredOutput, true)
	if resolved.IsEmpty() {
		return resolved
	}
	mapped := geom.RoundOut(t.TransformRect(resolved.layerBounds.ToRect())).Intersect(desiredOutput)
	if mapped.IsEmpty() {
		return Empty()
	}
	resolved.transform = t.Multiply(resolved.transform)
	resolved.sampling = sampling
	resolved.layerBounds = mapped
	return resolved
}

// compatibleSampling extends image.MergeCompatible's mode-only rule with
// the two nearest-neighbor cases from §4.5's table: nearest composed with
// nearest stays nearest, and nearest composed with anything else only
// fuses when the nearest stage's own transform is a near-integer
// translation — meaning its filtering was invisible to begin with, so
// folding it away changes nothing the viewer could see.
func compatibleSampling(current, next image.SamplingOptions, currentNear, nextNear bool) (image.SamplingOptions, bool) {
	switch {
	case current.IsNearest() && next.IsNearest():
		return image.NearestSampling, true
	case current.IsNearest():
		if currentNear {
			return next, true
		}
		return image.SamplingOptions{}, false
	case next.IsNearest():
		if nextNear {
			return current, true
		}
		return image.SamplingOptions{}, false
	default:
		return image.MergeCompatible(current, next)
	}
}
