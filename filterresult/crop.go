package filterresult

import (
	"github.com/gogpu/filterresult/evalctx"
	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// ApplyCrop returns a FilterResult equivalent to the receiver restricted to
// crop (layer space) then tiled with newTileMode, clipped by ctx's desired
// output. It implements §4.3's nine-branch decision ladder: the first
// matching branch wins.
func (fr FilterResult) ApplyCrop(ctx *evalctx.Context, crop geom.IRect, newTileMode image.TileMode) FilterResult {
	desiredOutput := ctx.DesiredOutput().Untag()
	if crop.IsEmpty() || desiredOutput.IsEmpty() || fr.IsEmpty() {
		return Empty()
	}

	cropContent := crop.Intersect(fr.layerBounds)
	if cropContent.IsEmpty() {
		if newTileMode == image.Decal {
			return Empty()
		}
		return fr.applyCropNoContentOverlap(ctx, crop, desiredOutput, newTileMode)
	}

	fittedCrop := relevantSubset(crop, desiredOutput, newTileMode)
	if fittedCrop.IsEmpty() {
		return Empty()
	}
	if cropContent.Intersect(fittedCrop).IsEmpty() {
		return Empty()
	}

	if newTileMode.IsPeriodic() {
		if collapsed, ok := fr.periodicAxisTransform(crop, fittedCrop, desiredOutput, newTileMode); ok {
			return collapsed
		}
	}

	switch {
	case newTileMode == image.Decal:
		fittedCrop = fittedCrop.Intersect(cropContent)
		if fittedCrop.IsEmpty() {
			return Empty()
		}
	case fittedCrop.Contains(desiredOutput):
		newTileMode = image.Decal
		fittedCrop = desiredOutput
	case fr.tileMode == image.Decal && newTileMode == image.Clamp:
		cropContent = cropContent.Outset(1, 1)
	}

	if fr.transform.HasNearIntegerTranslation(geom.RoundEpsilon) {
		doubleClamp := fr.tileMode == image.Clamp && newTileMode == image.Clamp
		analysis, _ := fr.analyzeBounds(geom.IdentityMatrix(), fittedCrop.ToRect())
		if doubleClamp || !analysis.Has(HasLayerFillingEffect) {
			if sub, ok := fr.extractSubImage(ctx, fittedCrop); ok {
				sub.tileMode = newTileMode
				return sub
			}
		}
	}

	if newTileMode == image.Decal {
		return fr.withLayerBounds(fittedCrop)
	}

	resolved := fr.resolve(ctx, fittedCrop, true)
	if resolved.IsEmpty() {
		return resolved
	}
	resolved.tileMode = newTileMode
	return resolved
}

// applyCropNoContentOverlap handles a crop rectangle that misses the
// receiver's content outright. Under Clamp, Repeat, and Mirror this is not
// the empty result Decal would give: those modes extend the nearest edge
// (or period) indefinitely, so the crop still has well-defined content —
// the pixel closestEdgeRect picks out, stretched by an affine transform to
// exactly fill the fitted crop region. Once the image's mapped footprint
// equals that region outright, plain Decal sampling reproduces it without
// needing the backend to understand tiling at all.
func (fr FilterResult) applyCropNoContentOverlap(ctx *evalctx.Context, crop, desiredOutput geom.IRect, newTileMode image.TileMode) FilterResult {
	fittedCrop := relevantSubset(crop, desiredOutput, newTileMode)
	if fittedCrop.IsEmpty() {
		return Empty()
	}
	edge := closestEdgeRect(fr.layerBounds, crop)
	sub, ok := fr.extractSubImage(ctx, edge)
	if !ok {
		return Empty()
	}
	sub.transform = stretchTransform(edge, fittedCrop).Multiply(sub.transform)
	sub.tileMode = image.Decal
	sub.layerBounds = fittedCrop
	return sub
}

// stretchTransform returns the scale-translate matrix mapping from's layer
// rectangle onto to's.
func stretchTransform(from, to geom.IRect) geom.Matrix {
	sx := float64(to.Width()) / float64(from.Width())
	sy := float64(to.Height()) / float64(from.Height())
	return geom.ScaleTranslateMatrix(sx, sy, float64(to.Left)-float64(from.Left)*sx, float64(to.Top)-float64(from.Top)*sy)
}

// relevantSubset restricts crop against dst the way newTileMode demands:
// Decal collapses a disjoint destination to empty, Repeat/Mirror keep the
// whole crop since every period is potentially visible, and Clamp keeps the
// overlap when there is one or else the closest edge/corner of crop to dst
// (resolving the open question in §9 to "nearest per axis", the same
// per-axis-independent rule the reference backend's clamp sampling uses).
func relevantSubset(crop, dst geom.IRect, tileMode image.TileMode) geom.IRect {
	switch tileMode {
	case image.Decal:
		return crop.Intersect(dst)
	case image.Repeat, image.Mirror:
		return crop
	default:
		if inter := crop.Intersect(dst); !inter.IsEmpty() {
			return inter
		}
		return closestEdgeRect(crop, dst)
	}
}

// closestEdgeRect clamps crop toward dst independently on each axis,
// collapsing an axis to its 1-pixel edge when dst lies entirely beyond it.
func closestEdgeRect(crop, dst geom.IRect) geom.IRect {
	out := crop
	switch {
	case dst.Right <= crop.Left:
		out.Right = crop.Left + 1
	case dst.Left >= crop.Right:
		out.Left = crop.Right - 1
	}
	switch {
	case dst.Bottom <= crop.Top:
		out.Bottom = crop.Top + 1
	case dst.Top >= crop.Bottom:
		out.Top = crop.Bottom - 1
	}
	return out
}

// periodicAxisTransform implements §4.3 step 5: when fittedCrop covers
// desiredOutput within a single period on each axis, the tiling can be
// replaced by a plain transform reading the one visible tile directly,
// flipping an axis whose period index is odd under Mirror. Only attempted
// for a scale-translate transform, since the periodic collapse reasons
// about a single translation offset per axis.
func (fr FilterResult) periodicAxisTransform(crop, fittedCrop, desiredOutput geom.IRect, tileMode image.TileMode) (FilterResult, bool) {
	if !fr.transform.IsScaleTranslate(geom.RoundEpsilon) {
		return FilterResult{}, false
	}
	periodW, periodH := crop.Width(), crop.Height()
	if periodW <= 0 || periodH <= 0 {
		return FilterResult{}, false
	}
	if desiredOutput.Width() > periodW || desiredOutput.Height() > periodH {
		return FilterResult{}, false
	}

	nx := floorDiv(desiredOutput.Left-crop.Left, periodW)
	ny := floorDiv(desiredOutput.Top-crop.Top, periodH)
	// The single visible period must fully contain desiredOutput: reject
	// when desiredOutput straddles a period boundary.
	if desiredOutput.Right > crop.Left+(nx+1)*periodW || desiredOutput.Bottom > crop.Top+(ny+1)*periodH {
		return FilterResult{}, false
	}

	flipX := tileMode == image.Mirror && nx%2 != 0
	flipY := tileMode == image.Mirror && ny%2 != 0

	t := fr.transform
	newA, newC := t.A, t.C+float64(nx)*float64(periodW)
	if flipX {
		newA = -t.A
		newC = -t.C + float64(crop.Left) + float64(nx+1)*float64(periodW)
	}
	newE, newF := t.E, t.F+float64(ny)*float64(periodH)
	if flipY {
		newE = -t.E
		newF = -t.F + float64(crop.Top) + float64(ny+1)*float64(periodH)
	}

	out := fr
	out.transform = geom.Matrix{A: newA, B: 0, C: newC, D: 0, E: newE, F: newF, I: 1}
	out.tileMode = image.Decal
	out.layerBounds = fittedCrop.Intersect(desiredOutput)
	if out.layerBounds.IsEmpty() {
		return FilterResult{}, false
	}
	return out, true
}

// floorDiv is integer division rounding toward negative infinity, needed
// because Go's / truncates toward zero and period indices can be negative.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// extractSubImage produces a FilterResult sharing fr's backing image,
// restricted to the pixels that map into fittedCrop, without allocating a
// new surface — the receiver's own backend.MakeImage only narrows a
// subset, and when those pixels are the whole image fr's own image is kept
// as is. Used by applyCrop's analytic fast path (§4.3 step 7) and by
// resolve's own fast path (§4.6).
func (fr FilterResult) extractSubImage(ctx *evalctx.Context, fittedCrop geom.IRect) (FilterResult, bool) {
	if fr.IsEmpty() {
		return FilterResult{}, false
	}
	inv, ok := fr.transform.Invert()
	if !ok {
		return FilterResult{}, false
	}
	localRect := geom.RoundOut(inv.TransformRect(fittedCrop.ToRect()))
	localRect = localRect.Intersect(fr.imagePixelRect())
	if localRect.IsEmpty() {
		return FilterResult{}, false
	}

	newImg := fr.img
	if localRect != fr.imagePixelRect() {
		sub := fr.img.Subset()
		backingRect := localRect.Offset(sub.Left, sub.Top)
		newImg = ctx.Backend().MakeImage(backingRect, fr.img)
		if newImg == nil {
			return FilterResult{}, false
		}
	}

	origin := fr.transform.TransformPoint(geom.Pt(float64(localRect.Left), float64(localRect.Top)))

	out := fr
	out.img = newImg
	out.transform.C = origin.X
	out.transform.F = origin.Y
	out.layerBounds = fittedCrop
	return out, true
}
