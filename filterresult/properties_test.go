package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/colorfilter"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// TestCoordinateSafetyOutsideDesiredOutputIsTransparent covers §8's
// coordinate-safety property: drawing a FilterResult into a device larger
// than its layer bounds leaves every pixel outside those bounds transparent.
func TestCoordinateSafetyOutsideDesiredOutputIsTransparent(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.TranslateMatrix(4, 4), image.NearestSampling, image.Decal, geom.IRectXYWH(4, 4, 4, 4))

	bounds := geom.IRectWH(12, 12)
	outside := drawPixel(t, fr, bounds, 1, 1)
	if !approxEqual(outside, image.Color{}, 1.0/255) {
		t.Errorf("sample outside layer bounds = %+v, want fully transparent", outside)
	}
	inside := drawPixel(t, fr, bounds, 5, 5)
	if !approxEqual(inside, image.RGBA(1, 0, 0, 1), 1.0/255) {
		t.Errorf("sample inside layer bounds = %+v, want red", inside)
	}
}

// TestDecalTilingContractDisjointResolveIsTransparent covers §8's decal
// tiling contract: resolving a Decal-tiled FilterResult against a rectangle
// disjoint from the image's mapped bounds yields nothing but transparent
// pixels, since native drawing only ever samples Decal as zero outside the
// image's own subset.
func TestDecalTilingContractDisjointResolveIsTransparent(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))

	disjoint := geom.IRectXYWH(100, 100, 4, 4)
	ctx := testContext(t, be, disjoint)
	resolved := fr.resolve(ctx, disjoint, true)
	if resolved.IsEmpty() {
		return
	}
	c := drawPixel(t, resolved, disjoint, 1, 1)
	if !approxEqual(c, image.Color{}, 1.0/255) {
		t.Errorf("resolved sample disjoint from the source image = %+v, want fully transparent", c)
	}
}

// TestCropIdempotence covers §8: applying the same crop/tile-mode pair twice
// is equivalent to applying it once.
func TestCropIdempotence(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(0, 1, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(10, 10))

	ctx := testContext(t, be, geom.IRectXYWH(0, 0, 6, 6))
	crop := geom.IRectXYWH(0, 0, 6, 6)

	once := fr.ApplyCrop(ctx, crop, image.Decal)
	twice := once.ApplyCrop(ctx, crop, image.Decal)

	if once.IsEmpty() != twice.IsEmpty() {
		t.Fatalf("applying crop twice changed emptiness: once=%v twice=%v", once.IsEmpty(), twice.IsEmpty())
	}
	if once.LayerBounds() != twice.LayerBounds() {
		t.Errorf("LayerBounds diverged: once=%v twice=%v", once.LayerBounds(), twice.LayerBounds())
	}
	if once.TileMode() != twice.TileMode() {
		t.Errorf("TileMode diverged: once=%v twice=%v", once.TileMode(), twice.TileMode())
	}

	oncePixel := drawPixel(t, once, crop, 2, 2)
	twicePixel := drawPixel(t, twice, crop, 2, 2)
	if !approxEqual(oncePixel, twicePixel, 1.0/255) {
		t.Errorf("sampled pixel diverged: once=%+v twice=%+v", oncePixel, twicePixel)
	}
}

// TestColorFilterAssociativity covers §8: composing two filters that don't
// affect transparent black in either grouping produces the same pixel
// result, since ApplyColorFilter's composition order always places the
// newest filter outermost regardless of how the calls are grouped.
func TestColorFilterAssociativity(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(0.8, 0.4, 0.2, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(4, 4))

	desiredOutput := geom.IRectWH(4, 4)
	ctx := testContext(t, be, desiredOutput)

	left := fr.ApplyColorFilter(ctx, tintFilter()).ApplyColorFilter(ctx, tintFilter())
	right := fr.ApplyColorFilter(ctx, colorfilter.Compose(tintFilter(), tintFilter()))

	lp := drawPixel(t, left, desiredOutput, 1, 1)
	rp := drawPixel(t, right, desiredOutput, 1, 1)
	if !approxEqual(lp, rp, 1.0/255) {
		t.Errorf("associativity mismatch: sequential=%+v, pre-composed=%+v", lp, rp)
	}
}

// TestTransformFusionNearIntegerTranslations covers §8: composing two
// near-integer translations folds into the receiver's pending transform
// (no materialized surface), matching a single combined translation.
func TestTransformFusionNearIntegerTranslations(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))

	desiredOutput := geom.IRectXYWH(0, 0, 20, 20)
	ctx := testContext(t, be, desiredOutput)

	t1 := geom.TranslateMatrix(3, 0)
	t2 := geom.TranslateMatrix(0, 5)

	sequential := fr.ApplyTransform(ctx, t1, image.NearestSampling).ApplyTransform(ctx, t2, image.NearestSampling)
	if sequential.Image() != img {
		t.Errorf("sequential near-integer translations materialized a new surface")
	}

	combined := fr.ApplyTransform(ctx, t2.Multiply(t1), image.NearestSampling)
	if combined.Image() != img {
		t.Errorf("combined translation materialized a new surface")
	}

	if sequential.Transform() != combined.Transform() {
		t.Errorf("Transform = %+v, want %+v (combined translation)", sequential.Transform(), combined.Transform())
	}
}

// TestNoOpTransformIsStructurallyEqual covers §8: folding an identity
// transform, with the desired output left unchanged, returns the same image
// handle and layer bounds rather than materializing anything.
func TestNoOpTransformIsStructurallyEqual(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(4, 4))

	ctx := testContext(t, be, geom.IRectWH(4, 4))
	out := fr.ApplyTransform(ctx, geom.IdentityMatrix(), image.DefaultSampling)

	if out.Image() != img {
		t.Errorf("ApplyTransform(identity) reallocated the image")
	}
	if out.LayerBounds() != fr.LayerBounds() {
		t.Errorf("LayerBounds = %v, want unchanged %v", out.LayerBounds(), fr.LayerBounds())
	}
	if out.Transform() != fr.Transform() {
		t.Errorf("Transform = %+v, want unchanged %+v", out.Transform(), fr.Transform())
	}
}

// TestRescaleRoundTripApprox covers §8's bounded-RMSE rescale-then-resolve
// property for s in [1/16, 1]: a uniform-color source has no detail for the
// multi-pass resampling to lose, so resolving after any downscale in that
// range should still land on (approximately) the original color.
func TestRescaleRoundTripApprox(t *testing.T) {
	be := cpubackend.New()
	want := image.RGBA(0.5, 0.25, 0.75, 1)
	img := solidImage(t, be, 32, 32, want)
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(32, 32))

	ctx := testContext(t, be, geom.IRectWH(32, 32))
	for _, s := range []float64{1, 0.5, 0.25, 0.125, 1.0 / 16} {
		rescaled := fr.Rescale(ctx, geom.Sz(s, s), true)
		if rescaled.IsEmpty() {
			t.Fatalf("Rescale(%v) returned empty", s)
		}
		lb := rescaled.LayerBounds()
		got := drawPixel(t, rescaled, lb, lb.Width()/2, lb.Height()/2)
		if !approxEqual(got, want, 2.0/255) {
			t.Errorf("scale=%v: resolved sample = %+v, want close to %+v", s, got, want)
		}
	}
}

// TestPeriodicCollapseNoMaterializedSurface covers §8: when a repeat crop
// contains the desired output within a single period, the returned
// FilterResult shares the receiver's own backing image rather than drawing
// into a fresh one.
func TestPeriodicCollapseNoMaterializedSurface(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(0, 1, 1, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(10, 10))

	desiredOutput := geom.IRectXYWH(2, 2, 4, 4)
	ctx := testContext(t, be, desiredOutput)
	out := fr.ApplyCrop(ctx, geom.IRectWH(10, 10), image.Repeat)

	if out.IsEmpty() {
		t.Fatalf("ApplyCrop returned empty for a single-period repeat")
	}
	if out.Image() != img {
		t.Errorf("single-period repeat materialized a new surface instead of folding the transform")
	}
	if out.TileMode() != image.Decal {
		t.Errorf("TileMode = %v, want Decal after periodic collapse", out.TileMode())
	}
}
