// Package filterresult is the core lazy value of the image-filter
// evaluation engine: an image plus a pending axis-aligned transform,
// sampling policy, tile mode, color filter, and layer-space crop rectangle.
// Operations on it decide, node by node, whether pending state can be
// folded algebraically or must be materialized into a fresh pixel buffer,
// while preserving a fixed per-node evaluation order: sample image, tile,
// color-filter, crop to layerBounds.
//
// FilterResult's own fields are plain geom values, not space-tagged ones:
// every field here is layer space by convention (the same convention the
// data model gives transform and layerBounds), and the space package's
// phantom tags do their job at the Context/Mapping boundary where a value
// actually crosses from parameter, layer, or device space into another —
// not inside a single node's internal algebra, which never leaves layer
// space and would otherwise pay a tag-stripping Untag() on every
// intersection and union in this package.
package filterresult

import (
	"github.com/gogpu/filterresult/colorfilter"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// FilterResult is immutable after construction; every operation on it
// returns a new value. A nil image means transparent black everywhere,
// independent of the other fields.
type FilterResult struct {
	img         image.SpecialImage
	transform   geom.Matrix
	sampling    image.SamplingOptions
	tileMode    image.TileMode
	colorFilter colorfilter.ColorFilter
	layerBounds geom.IRect
}

// Empty returns the constant transparent-black FilterResult. Per the data
// model's invariant, an empty result always carries a nil color filter and
// an empty layerBounds: nothing about an absent image is meaningful.
func Empty() FilterResult {
	return FilterResult{}
}

// IsEmpty reports whether fr is the constant transparent-black result.
func (fr FilterResult) IsEmpty() bool {
	return fr.img == nil
}

// MakeFromImage builds a FilterResult directly from a decoded special
// image: transform maps the image's pixel rectangle [0,w)x[0,h) into layer
// space, tileMode governs out-of-image sampling, and layerBounds is the
// layer-space rectangle outside which the result is transparent by
// definition (must be at least as large as the visible image footprint
// under tileMode, or smaller only because a prior desired-output
// intersection already restricted it).
func MakeFromImage(img image.SpecialImage, transform geom.Matrix, sampling image.SamplingOptions, tileMode image.TileMode, layerBounds geom.IRect) FilterResult {
	if img == nil || layerBounds.IsEmpty() {
		return Empty()
	}
	return FilterResult{
		img:         img,
		transform:   transform,
		sampling:    sampling,
		tileMode:    tileMode,
		layerBounds: layerBounds,
	}
}

// Image returns the receiver's backing special image, or nil if empty.
func (fr FilterResult) Image() image.SpecialImage { return fr.img }

// Transform returns the layer-space affine matrix mapping the image's
// pixel rectangle into layer space.
func (fr FilterResult) Transform() geom.Matrix { return fr.transform }

// Sampling returns the sampling to apply when drawing the image.
func (fr FilterResult) Sampling() image.SamplingOptions { return fr.sampling }

// TileMode returns the tile mode applied to the image's pixel rectangle.
func (fr FilterResult) TileMode() image.TileMode { return fr.tileMode }

// ColorFilter returns the color filter applied after sampling/tiling and
// before the layerBounds crop, or nil if none.
func (fr FilterResult) ColorFilter() colorfilter.ColorFilter { return fr.colorFilter }

// LayerBounds returns the layer-space rectangle outside which fr is
// definitionally transparent black.
func (fr FilterResult) LayerBounds() geom.IRect { return fr.layerBounds }

// imagePixelRect returns the image's own [0,w)x[0,h) pixel rectangle, or
// the empty rectangle if fr is empty.
func (fr FilterResult) imagePixelRect() geom.IRect {
	if fr.img == nil {
		return geom.IRect{}
	}
	sz := fr.img.Subset().Size()
	return geom.IRectWH(sz.W, sz.H)
}

// mappedImageRect returns the image's pixel rectangle mapped into layer
// space by transform.
func (fr FilterResult) mappedImageRect() geom.Rect {
	return fr.transform.TransformRect(fr.imagePixelRect().ToRect())
}

// withColorFilter returns fr with its color filter replaced by cf,
// everything else unchanged.
func (fr FilterResult) withColorFilter(cf colorfilter.ColorFilter) FilterResult {
	fr.colorFilter = cf
	return fr
}

// withLayerBounds returns fr with layerBounds replaced, everything else
// unchanged. Collapses to Empty if the new bounds are empty.
func (fr FilterResult) withLayerBounds(lb geom.IRect) FilterResult {
	if lb.IsEmpty() {
		return Empty()
	}
	fr.layerBounds = lb
	return fr
}

// composeColorFilter returns a ColorFilter equivalent to applying fr's
// existing filter (if any) first, then cf — matching the pipeline's fixed
// composition order (§4.4): composed(x) = cf(existing(x)).
func composeColorFilter(existing, cf colorfilter.ColorFilter) colorfilter.ColorFilter {
	if existing == nil {
		return cf
	}
	return colorfilter.Compose(cf, existing)
}
