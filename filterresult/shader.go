package filterresult

import (
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// AsShader implements §4.8: produces a backend shader sampling fr over
// sampleBounds (layer space), merging xtraSampling with fr's own sampling
// policy. When the receiver can be sampled directly — no color filter, a
// mode-compatible sampling pair, and no layer-crop or tiling concern the
// backend's native shader can't already express — it hands the backend
// image straight to SpecialImage.AsShader with fr's transform inverted
// into a local matrix. Otherwise it resolves the receiver over
// sampleBounds first and shades the resolved, Decal-tiled pixels instead.
//
// RequiresDecalInLayerSpace's full treatment (§9) composes a pre-scale
// decal shader with a post-transform wrapper so a skewed Decal edge still
// looks crisp; this always takes the resolve path for it instead, trading
// the extra materialization for a simpler implementation.
func (fr FilterResult) AsShader(ctx *evalctx.Context, xtraSampling image.SamplingOptions, sampleBounds geom.Rect) image.Shader {
	if fr.IsEmpty() {
		return nil
	}

	currentNear := fr.transform.HasNearIntegerTranslation(geom.RoundEpsilon)
	merged, samplingOK := compatibleSampling(fr.sampling, xtraSampling, currentNear, true)
	analysis, _ := fr.analyzeBounds(geom.IdentityMatrix(), sampleBounds)

	needsResolve := !samplingOK || fr.colorFilter != nil ||
		analysis.Has(RequiresLayerCrop) || analysis.Has(RequiresDecalInLayerSpace)

	if !needsResolve {
		strict := analysis.Has(RequiresShaderTiling)
		return fr.img.AsShader(fr.tileMode, merged, fr.transform, strict)
	}

	bounds := geom.RoundOut(sampleBounds).Intersect(fr.layerBounds)
	resolved := fr.resolve(ctx, bounds, false)
	if resolved.IsEmpty() {
		return nil
	}
	return resolved.img.AsShader(image.Decal, xtraSampling, resolved.transform, true)
}
