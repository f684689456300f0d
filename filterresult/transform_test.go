package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

func TestApplyTransformNoopReturnsReceiver(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(10, 10))

	ctx := testContext(t, be, geom.IRectWH(10, 10))
	out := fr.ApplyTransform(ctx, geom.IdentityMatrix(), image.DefaultSampling)
	if out.Image() != img || out.Transform() != geom.IdentityMatrix() {
		t.Errorf("ApplyTransform with an identity matrix changed the receiver")
	}
}

// TestApplyTransformFoldsCompatibleTranslation checks that composing a plain
// translation with compatible sampling folds into the pending transform
// instead of materializing a new surface.
func TestApplyTransformFoldsCompatibleTranslation(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(10, 10))

	desiredOutput := geom.IRectXYWH(5, 5, 10, 10)
	ctx := testContext(t, be, desiredOutput)
	out := fr.ApplyTransform(ctx, geom.TranslateMatrix(5, 5), image.DefaultSampling)

	if out.IsEmpty() {
		t.Fatalf("ApplyTransform returned empty")
	}
	if out.Image() != img {
		t.Errorf("ApplyTransform materialized a new surface for a foldable translation")
	}
	if out.Transform() != geom.TranslateMatrix(5, 5) {
		t.Errorf("Transform = %v, want translate(5,5)", out.Transform())
	}
	if out.LayerBounds() != desiredOutput {
		t.Errorf("LayerBounds = %v, want %v", out.LayerBounds(), desiredOutput)
	}
}

// TestApplyTransformDisjointDesiredOutputIsEmpty checks the empty-intersection
// early-out on the fold path.
func TestApplyTransformDisjointDesiredOutputIsEmpty(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(10, 10))

	desiredOutput := geom.IRectXYWH(1000, 1000, 10, 10)
	ctx := testContext(t, be, desiredOutput)
	out := fr.ApplyTransform(ctx, geom.TranslateMatrix(5, 5), image.DefaultSampling)
	if !out.IsEmpty() {
		t.Errorf("ApplyTransform into a disjoint desired output = %+v, want empty", out)
	}
}

// TestApplyTransformMaterializesOnIncompatibleSampling checks that folding a
// transform onto a receiver whose current nearest-neighbor sampling would
// become visible under a different policy forces materialization.
func TestApplyTransformMaterializesOnIncompatibleSampling(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(0, 1, 0, 1))
	fr := MakeFromImage(img, geom.TranslateMatrix(0.3, 0.3), image.NearestSampling, image.Decal, geom.IRectWH(10, 10))

	desiredOutput := geom.IRectWH(10, 10)
	ctx := testContext(t, be, desiredOutput)
	out := fr.ApplyTransform(ctx, geom.TranslateMatrix(1, 0), image.DefaultSampling)

	if out.IsEmpty() {
		t.Fatalf("ApplyTransform returned empty")
	}
	if out.Image() == img {
		t.Errorf("ApplyTransform with incompatible sampling must materialize, not fold")
	}
	if out.Sampling() != image.DefaultSampling {
		t.Errorf("Sampling = %+v, want the newly requested DefaultSampling", out.Sampling())
	}
}

func TestCompatibleSamplingNearestWithNearest(t *testing.T) {
	merged, ok := compatibleSampling(image.NearestSampling, image.NearestSampling, true, true)
	if !ok || merged != image.NearestSampling {
		t.Errorf("compatibleSampling(nearest, nearest) = (%v, %v), want (NearestSampling, true)", merged, ok)
	}
}

func TestCompatibleSamplingNearestWithNonNearTranslationFails(t *testing.T) {
	_, ok := compatibleSampling(image.NearestSampling, image.DefaultSampling, false, true)
	if ok {
		t.Errorf("compatibleSampling(nearest with non-near translation, default) = ok, want incompatible")
	}
}

func TestCompatibleSamplingNearestWithNearTranslationSucceeds(t *testing.T) {
	merged, ok := compatibleSampling(image.NearestSampling, image.DefaultSampling, true, true)
	if !ok || merged != image.DefaultSampling {
		t.Errorf("compatibleSampling(near-integer nearest, default) = (%v, %v), want (DefaultSampling, true)", merged, ok)
	}
}
