package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

func TestBuilderMergeSingleInputReturnsVerbatim(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(4, 4))

	ctx := testContext(t, be, geom.IRectWH(4, 4))
	b := NewBuilder(ctx)
	out := b.Merge([]FilterResult{fr})
	if out.Image() != img {
		t.Errorf("Merge of a single input must return it verbatim, not reallocate")
	}
}

func TestBuilderMergeAllEmptyIsEmpty(t *testing.T) {
	be := cpubackend.New()
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	b := NewBuilder(ctx)
	out := b.Merge([]FilterResult{Empty(), Empty()})
	if !out.IsEmpty() {
		t.Errorf("Merge of only empty inputs = %+v, want empty", out)
	}
}

// TestBuilderMergeUnionsNonOverlappingInputs checks that merging two
// side-by-side inputs produces one surface covering their union, with both
// source colors visible at their own locations.
func TestBuilderMergeUnionsNonOverlappingInputs(t *testing.T) {
	be := cpubackend.New()
	left := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	right := solidImage(t, be, 4, 4, image.RGBA(0, 0, 1, 1))
	frLeft := MakeFromImage(left, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))
	frRight := MakeFromImage(right, geom.TranslateMatrix(4, 0), image.NearestSampling, image.Decal, geom.IRectXYWH(4, 0, 4, 4))

	desiredOutput := geom.IRectWH(8, 4)
	ctx := testContext(t, be, desiredOutput)
	b := NewBuilder(ctx)
	out := b.Merge([]FilterResult{frLeft, frRight})
	if out.IsEmpty() {
		t.Fatalf("Merge returned empty")
	}
	if out.LayerBounds() != desiredOutput {
		t.Errorf("LayerBounds = %v, want %v", out.LayerBounds(), desiredOutput)
	}

	l := drawPixel(t, out, desiredOutput, 1, 1)
	if !approxEqual(l, image.RGBA(1, 0, 0, 1), 1.0/255) {
		t.Errorf("left half sample = %+v, want red", l)
	}
	r := drawPixel(t, out, desiredOutput, 5, 1)
	if !approxEqual(r, image.RGBA(0, 0, 1, 1), 1.0/255) {
		t.Errorf("right half sample = %+v, want blue", r)
	}
}

func TestBuilderDrawShaderNilIsEmpty(t *testing.T) {
	be := cpubackend.New()
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	b := NewBuilder(ctx)
	if out := b.DrawShader(nil, false); !out.IsEmpty() {
		t.Errorf("DrawShader(nil) = %+v, want empty", out)
	}
}

func TestBuilderDrawShaderFillsDesiredOutput(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(0, 1, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))

	desiredOutput := geom.IRectWH(4, 4)
	ctx := testContext(t, be, desiredOutput)
	shader := fr.AsShader(ctx, image.NearestSampling, geom.RectXYWH(0, 0, 4, 4))
	if shader == nil {
		t.Fatalf("AsShader returned nil")
	}

	b := NewBuilder(ctx)
	out := b.DrawShader(shader, false)
	if out.IsEmpty() {
		t.Fatalf("DrawShader returned empty")
	}
	c := drawPixel(t, out, desiredOutput, 2, 2)
	if !approxEqual(c, image.RGBA(0, 1, 0, 1), 1.0/255) {
		t.Errorf("sample = %+v, want green", c)
	}
}

func TestBuilderBlurEmptyInputIsEmpty(t *testing.T) {
	be := cpubackend.New()
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	b := NewBuilder(ctx)
	if out := b.Blur(Empty(), 2, 2); !out.IsEmpty() {
		t.Errorf("Blur(Empty()) = %+v, want empty", out)
	}
}

func TestBuilderBlurProducesLargerBoundsForPadding(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(1, 1, 1, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.DefaultSampling, image.Decal, geom.IRectWH(10, 10))

	ctx := testContext(t, be, geom.IRectWH(10, 10))
	b := NewBuilder(ctx)
	out := b.Blur(fr, 1, 1)
	if out.IsEmpty() {
		t.Fatalf("Blur returned empty")
	}
	lb := out.LayerBounds()
	if lb.Width() <= 10 || lb.Height() <= 10 {
		t.Errorf("LayerBounds = %v, want bounds expanded past the 10x10 source for kernel support", lb)
	}
}
