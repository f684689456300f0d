package cpubackend

import (
	stdimage "image"
	stdcolor "image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/blend"
	"github.com/gogpu/filterresult/geom"
	fimage "github.com/gogpu/filterresult/image"
)

// device is the CPU backend's Device: a single *image.RGBA surface with a
// clip-rectangle stack and a running local-to-device transform, mirroring
// the teacher's ImageSurface but narrowed to the operations FilterResult's
// Backend contract actually calls.
type device struct {
	owner      *Backend
	buf        *stdimage.RGBA
	transform  geom.Matrix
	clipStack  []geom.IRect
	clip       geom.IRect
	immutable  bool
	colorSpace backend.ColorSpace
}

func newDevice(owner *Backend, buf *stdimage.RGBA, cs backend.ColorSpace) *device {
	b := buf.Bounds()
	full := geom.IRectXYWH(0, 0, b.Dx(), b.Dy())
	return &device{
		owner:      owner,
		buf:        buf,
		transform:  geom.IdentityMatrix(),
		clip:       full,
		colorSpace: cs,
	}
}

func (d *device) LocalToDevice() geom.Matrix {
	return d.transform
}

func (d *device) DevClipBounds() geom.IRect {
	return d.clip
}

func (d *device) PushClipStack() {
	d.clipStack = append(d.clipStack, d.clip)
}

func (d *device) PopClipStack() {
	n := len(d.clipStack)
	if n == 0 {
		return
	}
	d.clip = d.clipStack[n-1]
	d.clipStack = d.clipStack[:n-1]
}

func (d *device) ClipRect(rect geom.Rect, op backend.ClipOp, _ bool) {
	devRect := geom.RoundOut(d.transform.TransformRect(rect))
	switch op {
	case backend.ClipIntersect:
		d.clip = d.clip.Intersect(devRect)
	case backend.ClipDifference:
		// A rectangular clip minus a rectangle isn't itself a rectangle in
		// the general case; this backend only supports the common case
		// where the subtracted rectangle doesn't split the clip, shrinking
		// from whichever edge it fully covers.
		d.clip = subtractRect(d.clip, devRect)
	}
}

// subtractRect shrinks clip by cut along whichever single edge cut fully
// spans, leaving clip unchanged if cut only partially overlaps an edge.
func subtractRect(clip, cut geom.IRect) geom.IRect {
	if !clip.Intersects(cut) {
		return clip
	}
	switch {
	case cut.Left <= clip.Left && cut.Right >= clip.Right && cut.Top <= clip.Top:
		return geom.IRect{Left: clip.Left, Top: max(clip.Top, cut.Bottom), Right: clip.Right, Bottom: clip.Bottom}
	case cut.Left <= clip.Left && cut.Right >= clip.Right && cut.Bottom >= clip.Bottom:
		return geom.IRect{Left: clip.Left, Top: clip.Top, Right: clip.Right, Bottom: min(clip.Bottom, cut.Top)}
	case cut.Top <= clip.Top && cut.Bottom >= clip.Bottom && cut.Left <= clip.Left:
		return geom.IRect{Left: max(clip.Left, cut.Right), Top: clip.Top, Right: clip.Right, Bottom: clip.Bottom}
	case cut.Top <= clip.Top && cut.Bottom >= clip.Bottom && cut.Right >= clip.Right:
		return geom.IRect{Left: clip.Left, Top: clip.Top, Right: min(clip.Right, cut.Left), Bottom: clip.Bottom}
	default:
		return clip
	}
}

func (d *device) DrawPaint(paint backend.Paint) {
	if d.immutable {
		return
	}
	c := paint.Color
	c.A *= paint.Alpha
	if paint.ColorFilter != nil {
		c = paint.ColorFilter.Apply(c)
	}
	blender := paint.Blender
	if blender == nil {
		blender = blend.ModeBlender(blend.SourceOver)
	}
	srcPremul := c.Premultiply()

	r := toStdRect(d.clip).Intersect(d.buf.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst := d.buf.RGBAAt(x, y)
			dstPremul := fimage.Color{
				R: float64(dst.R) / 255,
				G: float64(dst.G) / 255,
				B: float64(dst.B) / 255,
				A: float64(dst.A) / 255,
			}
			blended := blender.Blend(srcPremul, dstPremul)
			d.buf.SetRGBA(x, y, stdcolor.RGBA{
				R: to255(blended.R), G: to255(blended.G), B: to255(blended.B), A: to255(blended.A),
			})
		}
	}
}

func (d *device) DrawSpecial(img fimage.SpecialImage, matrix geom.Matrix, sampling fimage.SamplingOptions, paint backend.Paint, _ backend.DrawConstraint) {
	if d.immutable {
		return
	}
	si, ok := img.(*specialImage)
	if !ok {
		return
	}

	isDefaultBlend := paint.Blender == nil || paint.Blender == blend.ModeBlender(blend.SourceOver)
	if paint.ColorFilter != nil || !isDefaultBlend || paint.Alpha < 1 {
		d.drawSpecialPerPixel(si, matrix, sampling, paint)
		return
	}

	b := si.subset
	sr := stdimage.Rect(b.Left, b.Top, b.Right, b.Bottom)

	full := d.transform.Multiply(matrix)
	aff := f64.Aff3{full.A, full.B, full.C, full.D, full.E, full.F}

	r := toStdRect(d.clip).Intersect(d.buf.Bounds())
	dst, ok := d.buf.SubImage(r).(*stdimage.RGBA)
	if !ok {
		return
	}

	interpolator := pickInterpolator(sampling)
	interpolator.Transform(dst, aff, si.backing, sr, draw.Over, nil)
}

// drawSpecialPerPixel is DrawSpecial's path for any paint that needs a color
// filter, a non-default blender, or a sub-1 alpha: golang.org/x/image/draw's
// interpolators composite straight into the buffer with no hook for either,
// so this walks the clip and samples si through the same imageShader
// evaluation used by AsShader, with an identity localMatrix since matrix
// already carries the full image-to-device mapping here.
func (d *device) drawSpecialPerPixel(si *specialImage, matrix geom.Matrix, sampling fimage.SamplingOptions, paint backend.Paint) {
	full := d.transform.Multiply(matrix)
	inv, ok := full.Invert()
	if !ok {
		return
	}
	sampler := &imageShader{img: si, tile: fimage.Decal, sampling: sampling, localMatrix: geom.IdentityMatrix()}
	blender := paint.Blender
	if blender == nil {
		blender = blend.ModeBlender(blend.SourceOver)
	}

	r := toStdRect(d.clip).Intersect(d.buf.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			local := inv.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			c := sampler.At(local.X, local.Y)
			if paint.ColorFilter != nil {
				c = paint.ColorFilter.Apply(c)
			}
			c.A *= paint.Alpha
			srcPremul := c.Premultiply()

			dst := d.buf.RGBAAt(x, y)
			dstPremul := fimage.Color{
				R: float64(dst.R) / 255,
				G: float64(dst.G) / 255,
				B: float64(dst.B) / 255,
				A: float64(dst.A) / 255,
			}
			blended := blender.Blend(srcPremul, dstPremul)
			d.buf.SetRGBA(x, y, stdcolor.RGBA{
				R: to255(blended.R), G: to255(blended.G), B: to255(blended.B), A: to255(blended.A),
			})
		}
	}
}

// shaderSampler is the internal evaluation hook every concrete fimage.Shader
// this backend produces actually implements. fimage.Shader itself is only
// an opaque backend marker (see image/specialimage.go), so DrawShader type-
// asserts down to this narrower interface rather than widening the public
// contract.
type shaderSampler interface {
	At(x, y float64) fimage.Color
}

func (d *device) DrawShader(shader fimage.Shader, matrix geom.Matrix, paint backend.Paint) {
	if d.immutable {
		return
	}
	sampler, ok := shader.(shaderSampler)
	if !ok {
		return
	}
	full := d.transform.Multiply(matrix)
	inv, ok := full.Invert()
	if !ok {
		return
	}
	blender := paint.Blender
	if blender == nil {
		blender = blend.ModeBlender(blend.SourceOver)
	}

	r := toStdRect(d.clip).Intersect(d.buf.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			local := inv.TransformPoint(geom.Pt(float64(x)+0.5, float64(y)+0.5))
			c := sampler.At(local.X, local.Y)
			if paint.ColorFilter != nil {
				c = paint.ColorFilter.Apply(c)
			}
			c.A *= paint.Alpha
			srcPremul := c.Premultiply()

			dst := d.buf.RGBAAt(x, y)
			dstPremul := fimage.Color{
				R: float64(dst.R) / 255,
				G: float64(dst.G) / 255,
				B: float64(dst.B) / 255,
				A: float64(dst.A) / 255,
			}
			blended := blender.Blend(srcPremul, dstPremul)
			d.buf.SetRGBA(x, y, stdcolor.RGBA{
				R: to255(blended.R), G: to255(blended.G), B: to255(blended.B), A: to255(blended.A),
			})
		}
	}
}

func pickInterpolator(sampling fimage.SamplingOptions) draw.Interpolator {
	if sampling.IsNearest() {
		return draw.NearestNeighbor
	}
	if sampling.IsCubic() {
		return draw.CatmullRom
	}
	return draw.BiLinear
}

func (d *device) SnapSpecial(subset geom.IRect) (fimage.SpecialImage, error) {
	clamped := subset.ClampTo(geom.IRectXYWH(0, 0, d.buf.Bounds().Dx(), d.buf.Bounds().Dy()))
	if clamped.IsEmpty() {
		return nil, errEmptySnap
	}
	return newSpecialImage(d.buf, clamped, d.colorSpace), nil
}

func (d *device) SetImmutable() {
	d.immutable = true
}

func toStdRect(r geom.IRect) stdimage.Rectangle {
	return stdimage.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func to255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
