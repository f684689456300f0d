package filterresult

import (
	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/blend"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// Draw implements §4.7: composites the receiver onto dev under dev's
// current local-to-device matrix and clip, through blender (nil means
// plain SourceOver). preserveDeviceState controls whether a layer-crop
// clip is saved and restored with PushClipStack/PopClipStack or just
// applied directly, for callers that don't need dev's clip state back
// afterward (e.g. the last draw before a device is snapped and discarded).
//
// A blender whose AffectsTransparentBlack is true (Clear, SourceIn, and
// the like) can change dev even where the receiver contributes nothing,
// so an empty receiver still paints the blended transparent-black result,
// and a layer-cropped one is first resolved across the device's whole
// clip (so the materialized image carries real transparent pixels past
// its own layer bounds) before recursing to draw that instead.
func (fr FilterResult) Draw(ctx *evalctx.Context, dev backend.Device, blender blend.Blender, preserveDeviceState bool) {
	if fr.IsEmpty() {
		if blender != nil && blender.AffectsTransparentBlack() {
			paint := backend.DefaultPaint()
			paint.Blender = blender
			paint.Color = image.Color{}
			paint.ColorFilter = nil
			dev.DrawPaint(paint)
		}
		return
	}

	localToDevice := dev.LocalToDevice()
	devBounds := dev.DevClipBounds().ToRect()
	analysis, workingRect := fr.analyzeBounds(localToDevice, devBounds)
	if workingRect.IsEmpty() {
		return
	}

	if analysis.Has(RequiresLayerCrop) {
		if blender != nil && blender.AffectsTransparentBlack() {
			inv, ok := localToDevice.Invert()
			if !ok {
				return
			}
			layerRect := geom.RoundOut(inv.TransformRect(devBounds))
			resolved, ok := fr.resolveWithinLayerBounds(ctx, layerRect)
			if !ok {
				return
			}
			resolved.Draw(ctx, dev, blender, preserveDeviceState)
			return
		}
		if preserveDeviceState {
			dev.PushClipStack()
			defer dev.PopClipStack()
		}
		dev.ClipRect(workingRect, backend.ClipIntersect, false)
	}

	netTransform := localToDevice.Multiply(fr.transform)
	drawable := fr
	if drawable.sampling.IsDefault() && netTransform.HasNearIntegerTranslation(geom.RoundEpsilon) {
		drawable.sampling = image.NearestSampling
	}

	constraint := backend.Strict
	if analysis.Has(RequiresShaderTiling) {
		constraint = backend.Fast
	}
	drawable.drawInto(dev, localToDevice, blender, constraint)
}

// resolveWithinLayerBounds materializes fr across the whole of dstBounds,
// like resolve, but additionally clips the draw to fr's own layer bounds
// first: the rest of dstBounds comes back as real transparent pixels
// rather than simply unpainted device, which is what lets a recursive
// Draw apply a transparent-black-affecting blender uniformly across
// dstBounds instead of only where the receiver actually contributes.
func (fr FilterResult) resolveWithinLayerBounds(ctx *evalctx.Context, dstBounds geom.IRect) (FilterResult, bool) {
	if dstBounds.IsEmpty() || fr.IsEmpty() {
		return Empty(), false
	}
	surface, ok := newAutoSurface(ctx, dstBounds)
	if !ok {
		return Empty(), false
	}
	defer surface.release()

	toDevice := geom.TranslateMatrix(-float64(dstBounds.Left), -float64(dstBounds.Top))
	surface.dev.ClipRect(toDevice.TransformRect(fr.layerBounds.ToRect()), backend.ClipIntersect, false)
	fr.drawInto(surface.dev, toDevice, nil, backend.Strict)

	img, ok := surface.snap()
	if !ok {
		return Empty(), false
	}
	return MakeFromImage(
		img,
		geom.TranslateMatrix(float64(dstBounds.Left), float64(dstBounds.Top)),
		image.DefaultSampling,
		image.Decal,
		dstBounds,
	), true
}
