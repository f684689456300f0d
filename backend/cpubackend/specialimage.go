package cpubackend

import (
	stdimage "image"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/geom"
	fimage "github.com/gogpu/filterresult/image"
)

// specialImage is the CPU backend's SpecialImage: a stdlib *image.RGBA
// backing store plus the logical subset FilterResult actually sees. Most
// special images have subset == whole backing store; a non-exact-fit image
// is one produced by MakeImage/MakeSubset over a larger decode.
type specialImage struct {
	backing    *stdimage.RGBA
	subset     geom.IRect
	colorSpace backend.ColorSpace
}

func newSpecialImage(backing *stdimage.RGBA, subset geom.IRect, cs backend.ColorSpace) *specialImage {
	return &specialImage{backing: backing, subset: subset, colorSpace: cs}
}

func (s *specialImage) Dimensions() geom.ISize {
	return s.subset.Size()
}

func (s *specialImage) Subset() geom.IRect {
	return s.subset
}

func (s *specialImage) BackingStoreDimensions() geom.ISize {
	b := s.backing.Bounds()
	return geom.ISz(b.Dx(), b.Dy())
}

func (s *specialImage) IsExactFit() bool {
	b := s.backing.Bounds()
	return s.subset == geom.IRectXYWH(0, 0, b.Dx(), b.Dy())
}

func (s *specialImage) ColorSpace() any {
	return s.colorSpace
}

func (s *specialImage) MakeSubset(subset geom.IRect) fimage.SpecialImage {
	clamped := subset.Intersect(s.subset)
	return newSpecialImage(s.backing, clamped, s.colorSpace)
}

func (s *specialImage) AsShader(tile fimage.TileMode, sampling fimage.SamplingOptions, localMatrix geom.Matrix, strict bool) fimage.Shader {
	return &imageShader{img: s, tile: tile, sampling: sampling, localMatrix: localMatrix, strict: strict}
}

// imageShader adapts a specialImage into a tiled, sampled fimage.Shader.
type imageShader struct {
	img         *specialImage
	tile        fimage.TileMode
	sampling    fimage.SamplingOptions
	localMatrix geom.Matrix
	strict      bool
}

func (s *imageShader) isShader() {}

// At samples the shader at a point in the shader's local coordinate space,
// applying localMatrix and the configured tile mode. It is the CPU
// backend's own evaluation hook, used by DrawSpecial's per-pixel path and by
// DrawShader; it is not part of the fimage.Shader contract itself (which is
// an opaque marker consumed by Device.DrawShader).
func (s *imageShader) At(x, y float64) fimage.Color {
	inv, ok := s.localMatrix.Invert()
	if !ok {
		return fimage.Color{}
	}
	p := inv.TransformPoint(geom.Point{X: x, Y: y})

	b := s.img.subset
	w, h := b.Width(), b.Height()
	if w == 0 || h == 0 {
		return fimage.Color{}
	}

	px := int(p.X) - b.Left
	py := int(p.Y) - b.Top

	switch s.tile {
	case fimage.Decal:
		if px < 0 || px >= w || py < 0 || py >= h {
			return fimage.Color{}
		}
	case fimage.Clamp:
		px = clampInt(px, 0, w-1)
		py = clampInt(py, 0, h-1)
	case fimage.Repeat:
		px = mod(px, w)
		py = mod(py, h)
	case fimage.Mirror:
		px = mirror(px, w)
		py = mirror(py, h)
	}

	c := s.img.backing.RGBAAt(b.Left+px, b.Top+py)
	return fimage.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}.Unpremultiply()
}

// PixelAt reads the straight-alpha color at local pixel (x, y) of a
// SpecialImage this backend produced (relative to its own Subset()
// origin). Exported for tests elsewhere in the module that need to assert
// on concrete pixel values without reaching into cpubackend's unexported
// types; not part of the image.SpecialImage contract itself.
func PixelAt(img fimage.SpecialImage, x, y int) (fimage.Color, bool) {
	si, ok := img.(*specialImage)
	if !ok {
		return fimage.Color{}, false
	}
	b := si.subset
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		return fimage.Color{}, false
	}
	c := si.backing.RGBAAt(b.Left+x, b.Top+y)
	return fimage.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}.Unpremultiply(), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func mirror(v, n int) int {
	if n <= 1 {
		return 0
	}
	period := 2 * n
	v = mod(v, period)
	if v >= n {
		v = period - 1 - v
	}
	return v
}
