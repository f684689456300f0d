package cpubackend

import (
	"errors"
	stdimage "image"
	stdcolor "image/color"
	"math"
	"sync"

	"github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/geom"
	fimage "github.com/gogpu/filterresult/image"
)

var errUnsupportedImage = errors.New("cpubackend: image not produced by this backend")

// blurEngine is a two-pass separable Gaussian blur: horizontal pass into a
// scratch float32 buffer, then vertical pass into the output RGBA8 buffer.
type blurEngine struct {
	kernels kernelCache
}

func (e *blurEngine) ExpandBounds(radiusX, radiusY float64) (dx, dy int) {
	return int(math.Ceil(radiusX * 3)), int(math.Ceil(radiusY * 3))
}

func (e *blurEngine) Blur(src fimage.SpecialImage, radiusX, radiusY float64, bounds geom.IRect) (fimage.SpecialImage, error) {
	si, ok := src.(*specialImage)
	if !ok {
		return nil, errUnsupportedImage
	}
	if radiusX <= 0 && radiusY <= 0 {
		return newSpecialImage(si.backing, bounds.Intersect(si.subset), si.colorSpace), nil
	}

	w, h := bounds.Width(), bounds.Height()
	if w <= 0 || h <= 0 {
		return nil, errEmptySnap
	}

	kx := e.kernels.get(radiusX)
	ky := e.kernels.get(radiusY)

	temp := make([]float32, w*h*4)
	blurHorizontal(si.backing, si.subset, bounds, temp, kx)

	out := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	blurVertical(temp, w, h, out, ky)

	return newSpecialImage(out, geom.IRectXYWH(0, 0, w, h), si.colorSpace), nil
}

func blurHorizontal(src *stdimage.RGBA, srcSubset, bounds geom.IRect, temp []float32, kernel []float32) {
	w, h := bounds.Width(), bounds.Height()
	half := len(kernel) / 2

	for y := 0; y < h; y++ {
		srcY := clampInt(bounds.Top+y, srcSubset.Top, srcSubset.Bottom-1)
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k := 0; k < len(kernel); k++ {
				srcX := clampInt(bounds.Left+x+k-half, srcSubset.Left, srcSubset.Right-1)
				c := src.RGBAAt(srcX, srcY)
				weight := kernel[k]
				r += float32(c.R) * weight
				g += float32(c.G) * weight
				b += float32(c.B) * weight
				a += float32(c.A) * weight
			}
			idx := (y*w + x) * 4
			temp[idx], temp[idx+1], temp[idx+2], temp[idx+3] = r, g, b, a
		}
	}
}

func blurVertical(temp []float32, w, h int, dst *stdimage.RGBA, kernel []float32) {
	half := len(kernel) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b, a float32
			for k := 0; k < len(kernel); k++ {
				sy := clampInt(y+k-half, 0, h-1)
				idx := (sy*w + x) * 4
				weight := kernel[k]
				r += temp[idx] * weight
				g += temp[idx+1] * weight
				b += temp[idx+2] * weight
				a += temp[idx+3] * weight
			}
			dst.SetRGBA(x, y, rgbaFromFloat(r, g, b, a))
		}
	}
}

func rgbaFromFloat(r, g, b, a float32) stdcolor.RGBA {
	return stdcolor.RGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: clampByte(a)}
}

func clampByte(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// kernelCache memoizes 1D Gaussian kernels by quantized radius, avoiding
// recomputation across repeated blurs at the same sigma within a backend.
type kernelCache struct {
	mu    sync.RWMutex
	cache map[int][]float32
}

func (c *kernelCache) get(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	key := int(radius * 100)

	c.mu.RLock()
	if k, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return k
	}
	c.mu.RUnlock()

	k := gaussianKernel(radius)

	c.mu.Lock()
	if c.cache == nil {
		c.cache = make(map[int][]float32)
	}
	c.cache[key] = k
	c.mu.Unlock()

	return k
}

// gaussianKernel builds a normalized 1D kernel covering 3 standard
// deviations on each side of center.
func gaussianKernel(sigma float64) []float32 {
	half := int(math.Ceil(sigma * 3))
	size := half*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	if sum > 0 {
		inv := float32(1 / sum)
		for i := range kernel {
			kernel[i] *= inv
		}
	}
	return kernel
}

var _ backend.BlurEngine = (*blurEngine)(nil)
