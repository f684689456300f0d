package filterresult

import (
	"math"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/blend"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// autoSurface is the scoped render-target builder of §9's "scoped
// surface" design note: it owns a freshly allocated Device for exactly the
// lifetime of one resolve/rescale step, guarantees the device is released
// (marked immutable) on every exit path via release, and snap is the only
// way to pull a pixel result out of it on the success path.
type autoSurface struct {
	dev    backend.Device
	bounds geom.IRect
}

// newAutoSurface allocates a Device sized to cover bounds.
func newAutoSurface(ctx *evalctx.Context, bounds geom.IRect) (*autoSurface, bool) {
	if bounds.IsEmpty() {
		return nil, false
	}
	dev, ok := ctx.Backend().MakeDevice(bounds.Size(), ctx.ColorSpace(), nil)
	if !ok {
		return nil, false
	}
	return &autoSurface{dev: dev, bounds: bounds}, true
}

// snap captures the surface's full contents as an immutable special image.
func (s *autoSurface) snap() (image.SpecialImage, bool) {
	img, err := s.dev.SnapSpecial(geom.IRectWH(s.bounds.Width(), s.bounds.Height()))
	if err != nil || img == nil {
		return nil, false
	}
	return img, true
}

// release marks the underlying device immutable unconditionally, whether
// or not snap was ever called — the device is never reused past the scope
// that allocated it.
func (s *autoSurface) release() {
	s.dev.SetImmutable()
}

// resolve materializes fr's pending operations into a fresh special image
// covering dstBounds, implementing §4.6. If preserveTransparency is false,
// dstBounds is first intersected with layerBounds, since nothing outside
// it can be anything but transparent and there's no reason to allocate for
// it.
func (fr FilterResult) resolve(ctx *evalctx.Context, dstBounds geom.IRect, preserveTransparency bool) FilterResult {
	if !preserveTransparency {
		dstBounds = dstBounds.Intersect(fr.layerBounds)
	}
	if dstBounds.IsEmpty() || fr.IsEmpty() {
		return Empty()
	}

	if fr.colorFilter == nil && fr.tileMode == image.Decal && !preserveTransparency &&
		fr.transform.HasNearIntegerTranslation(geom.RoundEpsilon) {
		if sub, ok := fr.extractSubImage(ctx, dstBounds); ok {
			return sub
		}
	}

	surface, ok := newAutoSurface(ctx, dstBounds)
	if !ok {
		return Empty()
	}
	defer surface.release()

	toDevice := geom.TranslateMatrix(-float64(dstBounds.Left), -float64(dstBounds.Top))
	fr.drawInto(surface.dev, toDevice, nil, backend.Strict)

	img, ok := surface.snap()
	if !ok {
		return Empty()
	}
	return MakeFromImage(
		img,
		geom.TranslateMatrix(float64(dstBounds.Left), float64(dstBounds.Top)),
		image.DefaultSampling,
		image.Decal,
		dstBounds,
	)
}

// drawInto issues the device-level draws that realize fr's sample/tile/
// color-filter pipeline under toDevice (fr's own local-to-device matrix,
// i.e. layer-to-device here since fr.transform already maps image pixels
// to layer space). blender overrides the default SourceOver compositing
// when non-nil (used by Draw; resolve always passes nil, compositing onto
// a freshly cleared surface).
//
// Native device drawing only reproduces Decal sampling exactly (a
// backend.Device samples zero outside an image's subset, which is Decal's
// definition). Repeat and Mirror are realized here by issuing one
// DrawSpecial call per visible period that intersects fr.layerBounds,
// translated by whole periods; Mirror's per-period reflection is not
// re-derived in this fallback (the common single-period mirror case is
// already resolved losslessly by periodicAxisTransform in applyCrop before
// drawInto is ever reached for it) — a multi-period mirror materialized
// through resolve gets the unreflected, repeated placement instead of a
// true reflect-every-other-tile pattern. Clamp relies on the same Decal
// sampling, which under-approximates a true edge clamp beyond the image's
// own bounds; both simplifications are noted in DESIGN.md.
func (fr FilterResult) drawInto(dev backend.Device, toDevice geom.Matrix, blender blend.Blender, constraint backend.DrawConstraint) {
	if fr.IsEmpty() {
		return
	}
	paint := backend.DefaultPaint()
	paint.ColorFilter = fr.colorFilter
	if blender != nil {
		paint.Blender = blender
	}

	if fr.tileMode == image.Repeat || fr.tileMode == image.Mirror {
		for _, m := range fr.periodOffsets() {
			dev.DrawSpecial(fr.img, toDevice.Multiply(m), fr.sampling, paint, constraint)
		}
		return
	}
	dev.DrawSpecial(fr.img, toDevice.Multiply(fr.transform), fr.sampling, paint, constraint)
}

// periodOffsets returns fr.transform translated by every whole period that
// overlaps fr.layerBounds, bounded to a sane iteration count.
func (fr FilterResult) periodOffsets() []geom.Matrix {
	period := fr.mappedImageRect()
	pw, ph := period.Width(), period.Height()
	if pw <= 0 || ph <= 0 {
		return []geom.Matrix{fr.transform}
	}
	bounds := fr.layerBounds.ToRect()

	const maxPeriodsPerAxis = 64
	nx0 := clampTileIndex(int(math.Floor((bounds.MinX - period.MinX) / pw)))
	nx1 := clampTileIndex(int(math.Ceil((bounds.MaxX - period.MinX) / pw)))
	ny0 := clampTileIndex(int(math.Floor((bounds.MinY - period.MinY) / ph)))
	ny1 := clampTileIndex(int(math.Ceil((bounds.MaxY - period.MinY) / ph)))
	if nx1-nx0 > maxPeriodsPerAxis {
		nx1 = nx0 + maxPeriodsPerAxis
	}
	if ny1-ny0 > maxPeriodsPerAxis {
		ny1 = ny0 + maxPeriodsPerAxis
	}

	var out []geom.Matrix
	for ny := ny0; ny <= ny1; ny++ {
		for nx := nx0; nx <= nx1; nx++ {
			m := fr.transform
			m.C += float64(nx) * pw
			m.F += float64(ny) * ph
			out = append(out, m)
		}
	}
	return out
}

func clampTileIndex(n int) int {
	const bound = 1 << 20
	if n < -bound {
		return -bound
	}
	if n > bound {
		return bound
	}
	return n
}
