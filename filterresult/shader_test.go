package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

func TestAsShaderEmptyReceiverIsNil(t *testing.T) {
	be := cpubackend.New()
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	if shader := Empty().AsShader(ctx, image.NearestSampling, geom.RectXYWH(0, 0, 4, 4)); shader != nil {
		t.Errorf("AsShader on an empty receiver = %v, want nil", shader)
	}
}

func TestAsShaderFastPathSamplesDirectly(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))

	ctx := testContext(t, be, geom.IRectWH(4, 4))
	shader := fr.AsShader(ctx, image.NearestSampling, geom.RectXYWH(0, 0, 4, 4))
	if shader == nil {
		t.Fatalf("AsShader returned nil for a directly-sampleable receiver")
	}

	dev, ok := be.MakeDevice(geom.ISz(4, 4), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	dev.DrawShader(shader, geom.IdentityMatrix(), backend.DefaultPaint())
	c, ok := cpubackend.PixelAt(mustSnap(t, dev, 4, 4), 2, 2)
	if !ok || !approxEqual(c, image.RGBA(1, 0, 0, 1), 1.0/255) {
		t.Errorf("shaded sample = %+v (ok=%v), want red", c, ok)
	}
}

// TestAsShaderResolvesWithPendingColorFilter checks that a receiver carrying
// a color filter takes the resolve path and the returned shader already
// reflects the filter's effect, since fr.img.AsShader itself has no way to
// apply one.
func TestAsShaderResolvesWithPendingColorFilter(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))
	fr.colorFilter = invert{}

	ctx := testContext(t, be, geom.IRectWH(4, 4))
	shader := fr.AsShader(ctx, image.NearestSampling, geom.RectXYWH(0, 0, 4, 4))
	if shader == nil {
		t.Fatalf("AsShader returned nil")
	}

	dev, ok := be.MakeDevice(geom.ISz(4, 4), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	dev.DrawShader(shader, geom.IdentityMatrix(), backend.DefaultPaint())
	c, ok := cpubackend.PixelAt(mustSnap(t, dev, 4, 4), 2, 2)
	if !ok || !approxEqual(c, image.RGBA(0, 1, 1, 1), 1.0/255) {
		t.Errorf("shaded sample = %+v (ok=%v), want cyan (inverted red)", c, ok)
	}
}
