// Package colorfilter provides concrete ColorFilter implementations: values
// that transform a color independent of its neighbors, applied by
// FilterResult after sampling and tiling and before the layer-bounds crop.
package colorfilter

import "github.com/gogpu/filterresult/image"

// ColorFilter transforms a single color, independent of position.
//
// AffectsTransparentBlack distinguishes filters like a constant tint, which
// can make fully transparent input visible, from filters like Invert or a
// brightness or saturation adjustment, which leave transparent black alone.
// FilterResult.applyColorFilter branches on this to decide whether an
// absent image still needs to materialize visible output.
type ColorFilter interface {
	Apply(c image.Color) image.Color
	AffectsTransparentBlack() bool
}

// composed runs inner first, then outer — outer(inner(x)) — matching the
// pipeline's composition order: the newly applied filter runs after any
// filter already present on a FilterResult.
type composed struct {
	inner, outer ColorFilter
}

// Compose returns a ColorFilter equivalent to applying inner then outer,
// i.e. composed(x) = outer(inner(x)).
func Compose(outer, inner ColorFilter) ColorFilter {
	return composed{inner: inner, outer: outer}
}

func (c composed) Apply(col image.Color) image.Color {
	return c.outer.Apply(c.inner.Apply(col))
}

func (c composed) AffectsTransparentBlack() bool {
	// The composition affects transparent black if either stage does: the
	// inner filter might manufacture visible output from nothing, or the
	// outer filter might do so from whatever the inner filter (possibly a
	// no-op on transparent black) hands it.
	if c.inner.AffectsTransparentBlack() {
		return true
	}
	return c.outer.Apply(image.Color{}).A > 0
}
