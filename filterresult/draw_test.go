package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/blend"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

func TestDrawEmptyReceiverIsNoop(t *testing.T) {
	be := cpubackend.New()
	dev, ok := be.MakeDevice(geom.ISz(4, 4), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	Empty().Draw(ctx, dev, nil, true)

	c, ok := cpubackend.PixelAt(mustSnap(t, dev, 4, 4), 1, 1)
	if !ok || c.A != 0 {
		t.Errorf("drawing an empty FilterResult touched the device: %+v", c)
	}
}

func TestDrawPlacesImageAtDeviceOrigin(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 4, 4, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectWH(4, 4))

	dev, ok := be.MakeDevice(geom.ISz(4, 4), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	ctx := testContext(t, be, geom.IRectWH(4, 4))
	fr.Draw(ctx, dev, nil, true)

	c, ok := cpubackend.PixelAt(mustSnap(t, dev, 4, 4), 2, 2)
	if !ok {
		t.Fatalf("PixelAt out of range")
	}
	if !approxEqual(c, image.RGBA(1, 0, 0, 1), 1.0/255) {
		t.Errorf("sample = %+v, want red", c)
	}
}

// TestDrawClipsToLayerBoundsWhenSmallerThanDevice checks that Draw's layer
// crop leaves pixels outside layerBounds untouched by the image.
func TestDrawClipsToLayerBoundsWhenSmallerThanDevice(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(1, 0, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectXYWH(0, 0, 4, 4))

	dev, ok := be.MakeDevice(geom.ISz(10, 10), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	ctx := testContext(t, be, geom.IRectWH(10, 10))
	fr.Draw(ctx, dev, nil, true)

	snap := mustSnap(t, dev, 10, 10)
	inside, ok := cpubackend.PixelAt(snap, 1, 1)
	if !ok || inside.A == 0 {
		t.Errorf("inside layerBounds sample = %+v, want opaque", inside)
	}
	outside, ok := cpubackend.PixelAt(snap, 8, 8)
	if !ok || outside.A != 0 {
		t.Errorf("outside layerBounds sample = %+v, want transparent", outside)
	}
}

// TestDrawEmptyReceiverWithClearFillsTransparent covers §4.7 step 1: a
// blender that affects transparent black still has visible effect on an
// empty receiver, clearing whatever was already on the device.
func TestDrawEmptyReceiverWithClearFillsTransparent(t *testing.T) {
	be := cpubackend.New()
	dev, ok := be.MakeDevice(geom.ISz(4, 4), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	fillOpaque(dev, image.RGBA(1, 0, 0, 1))

	Empty().Draw(nil, dev, blend.ModeBlender(blend.Clear), true)

	c, ok := cpubackend.PixelAt(mustSnap(t, dev, 4, 4), 1, 1)
	if !ok || c.A != 0 {
		t.Errorf("Clear over an empty receiver left = %+v, want fully transparent", c)
	}
}

// TestDrawLayerCroppedSourceInClearsOutsideLayerBounds covers §4.7 step 3:
// SourceIn affects transparent black, so drawing a layer-cropped receiver
// with it must clear the device everywhere outside the receiver's own
// layer bounds too, not just leave it clipped and untouched.
func TestDrawLayerCroppedSourceInClearsOutsideLayerBounds(t *testing.T) {
	be := cpubackend.New()
	img := solidImage(t, be, 10, 10, image.RGBA(0, 1, 0, 1))
	fr := MakeFromImage(img, geom.IdentityMatrix(), image.NearestSampling, image.Decal, geom.IRectXYWH(0, 0, 4, 4))

	dev, ok := be.MakeDevice(geom.ISz(10, 10), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	fillOpaque(dev, image.RGBA(1, 0, 0, 1))

	ctx := testContext(t, be, geom.IRectWH(10, 10))
	fr.Draw(ctx, dev, blend.ModeBlender(blend.SourceIn), true)

	snap := mustSnap(t, dev, 10, 10)
	inside, ok := cpubackend.PixelAt(snap, 1, 1)
	if !ok || !approxEqual(inside, image.RGBA(0, 1, 0, 1), 1.0/255) {
		t.Errorf("inside layer bounds = %+v, want the source's green carried through SourceIn", inside)
	}
	outside, ok := cpubackend.PixelAt(snap, 8, 8)
	if !ok || outside.A != 0 {
		t.Errorf("outside layer bounds = %+v, want SourceIn to clear it to transparent", outside)
	}
}

// fillOpaque paints dev's whole current clip with an opaque color.
func fillOpaque(dev backend.Device, c image.Color) {
	paint := backend.DefaultPaint()
	paint.Color = c
	paint.ColorFilter = nil
	dev.DrawPaint(paint)
}

func mustSnap(t *testing.T, dev backend.Device, w, h int) image.SpecialImage {
	t.Helper()
	img, err := dev.SnapSpecial(geom.IRectWH(w, h))
	if err != nil {
		t.Fatalf("SnapSpecial: %v", err)
	}
	return img
}
