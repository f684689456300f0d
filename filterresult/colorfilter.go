package filterresult

import (
	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/colorfilter"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// ApplyColorFilter implements §4.4. The new filter always runs after any
// filter already on the receiver: composed(x) = cf(existing(x)).
func (fr FilterResult) ApplyColorFilter(ctx *evalctx.Context, cf colorfilter.ColorFilter) FilterResult {
	desiredOutput := ctx.DesiredOutput().Untag()
	if cf == nil {
		return fr
	}

	if cf.AffectsTransparentBlack() {
		if fr.IsEmpty() || !fr.layerBounds.Intersects(desiredOutput) {
			return fr.constantColorResult(ctx, cf, desiredOutput)
		}
		if !fr.layerBounds.ToRect().ContainsEps(desiredOutput.ToRect(), geom.RoundEpsilon) {
			resolved := fr.resolve(ctx, desiredOutput, true)
			if resolved.IsEmpty() {
				return resolved.constantColorResult(ctx, cf, desiredOutput)
			}
			resolved.colorFilter = composeColorFilter(resolved.colorFilter, cf)
			resolved.tileMode = image.Clamp
			resolved.layerBounds = desiredOutput.Intersect(resolved.layerBounds.Outset(1, 1))
			return resolved
		}
		fr.colorFilter = composeColorFilter(fr.colorFilter, cf)
		fr.layerBounds = desiredOutput
		return fr
	}

	lb := fr.layerBounds.Intersect(desiredOutput)
	if lb.IsEmpty() {
		return Empty()
	}
	fr.layerBounds = lb
	fr.colorFilter = composeColorFilter(fr.colorFilter, cf)
	return fr
}

// constantColorResult renders cf applied to transparent black as a 1x1
// pixel and wraps it as a Clamp-tiled, desiredOutput-filling FilterResult —
// the whole result is a single constant color, matching scenario 5's
// "color filter lift past decal" behavior.
func (fr FilterResult) constantColorResult(ctx *evalctx.Context, cf colorfilter.ColorFilter, desiredOutput geom.IRect) FilterResult {
	if desiredOutput.IsEmpty() {
		return Empty()
	}
	constant := cf.Apply(image.Color{})
	dev, ok := ctx.Backend().MakeDevice(geom.ISz(1, 1), ctx.ColorSpace(), nil)
	if !ok {
		return Empty()
	}
	paint := backend.DefaultPaint()
	paint.Color = constant
	paint.ColorFilter = nil
	dev.DrawPaint(paint)
	img, err := dev.SnapSpecial(geom.IRectWH(1, 1))
	if err != nil || img == nil {
		return Empty()
	}
	return MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Clamp, desiredOutput)
}
