package filterresult

import (
	"testing"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/backend/cpubackend"
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
	"github.com/gogpu/filterresult/space"
)

// testContext builds an evalctx.Context over be under an identity mapping,
// with desiredOutput as the layer-space rectangle a test asks for.
func testContext(t *testing.T, be backend.Backend, desiredOutput geom.IRect) *evalctx.Context {
	t.Helper()
	mapping, err := space.NewMapping(geom.IdentityMatrix())
	if err != nil {
		t.Fatalf("space.NewMapping: %v", err)
	}
	return evalctx.New(mapping, space.TaggedI[space.Layer](desiredOutput), be, backend.SRGB)
}

// solidImage renders a w x h image.SpecialImage filled with c.
func solidImage(t *testing.T, be backend.Backend, w, h int, c image.Color) image.SpecialImage {
	t.Helper()
	dev, ok := be.MakeDevice(geom.ISz(w, h), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice(%d, %d) failed", w, h)
	}
	paint := backend.DefaultPaint()
	paint.Color = c
	paint.ColorFilter = nil
	dev.DrawPaint(paint)
	img, err := dev.SnapSpecial(geom.IRectWH(w, h))
	if err != nil {
		t.Fatalf("SnapSpecial: %v", err)
	}
	return img
}

// quadrantImage renders a w x h image split into four solid-color
// quadrants (top-left, top-right, bottom-left, bottom-right), useful for
// tests that need to tell which part of an image ended up where.
func quadrantImage(t *testing.T, be backend.Backend, w, h int, tl, tr, bl, br image.Color) image.SpecialImage {
	t.Helper()
	dev, ok := be.MakeDevice(geom.ISz(w, h), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice(%d, %d) failed", w, h)
	}
	halfW, halfH := w/2, h/2
	fill := func(r geom.IRect, c image.Color) {
		dev.PushClipStack()
		dev.ClipRect(r.ToRect(), backend.ClipIntersect, false)
		paint := backend.DefaultPaint()
		paint.Color = c
		paint.ColorFilter = nil
		dev.DrawPaint(paint)
		dev.PopClipStack()
	}
	fill(geom.IRectXYWH(0, 0, halfW, halfH), tl)
	fill(geom.IRectXYWH(halfW, 0, w-halfW, halfH), tr)
	fill(geom.IRectXYWH(0, halfH, halfW, h-halfH), bl)
	fill(geom.IRectXYWH(halfW, halfH, w-halfW, h-halfH), br)
	img, err := dev.SnapSpecial(geom.IRectWH(w, h))
	if err != nil {
		t.Fatalf("SnapSpecial: %v", err)
	}
	return img
}

// drawPixel renders fr into a device covering bounds (layer space) and
// returns the pixel at local (x, y) within bounds.
func drawPixel(t *testing.T, fr FilterResult, bounds geom.IRect, x, y int) image.Color {
	t.Helper()
	be := cpubackend.New()
	dev, ok := be.MakeDevice(bounds.Size(), backend.SRGB, nil)
	if !ok {
		t.Fatalf("MakeDevice failed")
	}
	toDevice := geom.TranslateMatrix(-float64(bounds.Left), -float64(bounds.Top))
	fr.drawInto(dev, toDevice, nil, backend.Strict)
	img, err := dev.SnapSpecial(geom.IRectWH(bounds.Width(), bounds.Height()))
	if err != nil {
		t.Fatalf("SnapSpecial: %v", err)
	}
	c, ok := cpubackend.PixelAt(img, x, y)
	if !ok {
		t.Fatalf("PixelAt(%d,%d) out of range", x, y)
	}
	return c
}

func approxEqual(a, b image.Color, eps float64) bool {
	diff := func(x, y float64) bool {
		d := x - y
		if d < 0 {
			d = -d
		}
		return d <= eps
	}
	return diff(a.R, b.R) && diff(a.G, b.G) && diff(a.B, b.B) && diff(a.A, b.A)
}
