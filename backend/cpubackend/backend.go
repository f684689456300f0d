package cpubackend

import (
	"bytes"
	"errors"
	stdimage "image"

	"github.com/deepteams/webp"

	fbackend "github.com/gogpu/filterresult/backend"
	"github.com/gogpu/filterresult/cache"
	"github.com/gogpu/filterresult/geom"
	fimage "github.com/gogpu/filterresult/image"
)

var errEmptySnap = errors.New("cpubackend: empty snap subset")

// Backend is a CPU-raster implementation of backend.Backend: surfaces are
// *image.RGBA buffers drawn with golang.org/x/image/draw, bitmaps decode via
// the WebP codec, and blur runs the package's own separable Gaussian engine.
type Backend struct {
	props     fbackend.SurfaceProps
	colorType fbackend.ColorType
	pool      *pool
	cache     *cache.ShardedCache[string, fimage.SpecialImage]
	stats     fbackend.Stats
	blur      *blurEngine
}

// New creates a CPU backend with its own surface pool, image-filter cache,
// and blur engine.
func New() *Backend {
	return &Backend{
		props:     fbackend.SurfaceProps{},
		colorType: fbackend.ColorTypeRGBA8,
		pool:      newPool(8),
		cache:     cache.NewSharded[string, fimage.SpecialImage](cache.DefaultCapacity, cache.StringHasher),
		blur:      &blurEngine{},
	}
}

func (b *Backend) MakeDevice(size geom.ISize, colorSpace fbackend.ColorSpace, _ *fbackend.SurfaceProps) (fbackend.Device, bool) {
	if size.IsEmpty() {
		return nil, false
	}
	b.stats.AddOffscreenSurface()
	buf := b.pool.get(size.W, size.H)
	return newDevice(b, buf, colorSpace), true
}

func (b *Backend) MakeImage(subset geom.IRect, raw fimage.SpecialImage) fimage.SpecialImage {
	si, ok := raw.(*specialImage)
	if !ok {
		return raw.MakeSubset(subset)
	}
	clamped := subset.Intersect(si.subset)
	return newSpecialImage(si.backing, clamped, si.colorSpace)
}

func (b *Backend) GetCachedBitmap(bitmap []byte) (fimage.SpecialImage, error) {
	cacheKey := bitmapCacheKey(cache.StringHasher(string(bitmap)))

	if cached, ok := b.cache.Get(cacheKey); ok {
		b.stats.AddCacheHit()
		return cached, nil
	}

	decoded, err := webp.Decode(bytes.NewReader(bitmap))
	if err != nil {
		return nil, err
	}
	rgba := toRGBA(decoded)
	bounds := rgba.Bounds()
	img := newSpecialImage(rgba, geom.IRectXYWH(0, 0, bounds.Dx(), bounds.Dy()), fbackend.SRGB)
	b.cache.Set(cacheKey, img)
	return img, nil
}

func bitmapCacheKey(hash uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[hash&0xf]
		hash >>= 4
	}
	return "bitmap:" + string(buf)
}

func toRGBA(src stdimage.Image) *stdimage.RGBA {
	if rgba, ok := src.(*stdimage.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	out := stdimage.NewRGBA(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, src.At(x, y))
		}
	}
	return out
}

func (b *Backend) GetBlurEngine(colorType fbackend.ColorType) (fbackend.BlurEngine, bool) {
	if colorType != fbackend.ColorTypeRGBA8 {
		return nil, false
	}
	return b.blur, true
}

func (b *Backend) SurfaceProps() fbackend.SurfaceProps { return b.props }
func (b *Backend) ColorType() fbackend.ColorType       { return b.colorType }
func (b *Backend) Cache() fbackend.Cache               { return cacheAdapter{b.cache} }
func (b *Backend) Stats() *fbackend.Stats              { return &b.stats }

// cacheAdapter satisfies fbackend.Cache's Get/Set/GetOrCreate trio over the
// generic cache.ShardedCache, whose methods already match by shape but
// can't implement an interface directly without the concrete type parameters
// pinned in an adapter.
type cacheAdapter struct {
	c *cache.ShardedCache[string, fimage.SpecialImage]
}

func (a cacheAdapter) GetOrCreate(key string, create func() fimage.SpecialImage) fimage.SpecialImage {
	return a.c.GetOrCreate(key, create)
}

func (a cacheAdapter) Get(key string) (fimage.SpecialImage, bool) {
	return a.c.Get(key)
}

func (a cacheAdapter) Set(key string, value fimage.SpecialImage) {
	a.c.Set(key, value)
}
