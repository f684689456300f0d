// Package cpubackend is a CPU-raster reference implementation of the
// backend.Backend contract, built on the standard library image package and
// golang.org/x/image/draw for scaling/resampling.
package cpubackend

import (
	stdimage "image"
	"sync"
)

// pool reuses *image.RGBA buffers bucketed by (width, height), matching the
// teacher's size-and-format bucketed image pool.
type pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*stdimage.RGBA
	maxSize int
}

type poolKey struct {
	width, height int
}

func newPool(maxPerBucket int) *pool {
	return &pool{
		buckets: make(map[poolKey][]*stdimage.RGBA),
		maxSize: maxPerBucket,
	}
}

// get returns a cleared width x height RGBA buffer, reusing a pooled one
// when available.
func (p *pool) get(width, height int) *stdimage.RGBA {
	key := poolKey{width, height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		clearRGBA(buf)
		return buf
	}
	p.mu.Unlock()

	return stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
}

// put returns buf to the pool for reuse. Discarded if the bucket is full.
func (p *pool) put(buf *stdimage.RGBA) {
	if buf == nil {
		return
	}
	b := buf.Bounds()
	key := poolKey{b.Dx(), b.Dy()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

func clearRGBA(buf *stdimage.RGBA) {
	for i := range buf.Pix {
		buf.Pix[i] = 0
	}
}
