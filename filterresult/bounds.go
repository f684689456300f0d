package filterresult

import (
	"math"

	"github.com/gogpu/filterresult/geom"
	"github.com/gogpu/filterresult/image"
)

// BoundsFlag is one bit of a BoundsAnalysis.
type BoundsFlag uint8

const (
	// RequiresLayerCrop means layerBounds' edge is visible within dstBounds
	// and must be enforced by an explicit clip or resolve, not left to the
	// image's own tiling.
	RequiresLayerCrop BoundsFlag = 1 << iota
	// DstBoundsNotCovered means the image, under its transform, does not
	// cover every pixel center in the working rectangle.
	DstBoundsNotCovered
	// HasLayerFillingEffect means the uncovered region (if any) will still
	// show non-transparent content, because tiling or the color filter
	// fills the whole layer rectangle.
	HasLayerFillingEffect
	// RequiresShaderTiling means the image must be sampled through a
	// shader that emulates tiling, because the destination can reach a
	// pixel whose sampling footprint crosses a non-hardware image edge.
	RequiresShaderTiling
	// RequiresDecalInLayerSpace means a Decal tile mode must be applied in
	// layer space (via a runtime edge wrapper) rather than delegated to
	// the backend's native tiling, because the transform isn't close
	// enough to axis-aligned unit scale for native decal to look right.
	RequiresDecalInLayerSpace
)

// BoundsAnalysis is the bitset analyzeBounds produces.
type BoundsAnalysis uint8

// Has reports whether flag is set.
func (a BoundsAnalysis) Has(flag BoundsFlag) bool {
	return a&BoundsAnalysis(flag) != 0
}

func (a *BoundsAnalysis) set(flag BoundsFlag) {
	*a |= BoundsAnalysis(flag)
}

// fillsLayerBounds reports whether sampling outside the image (via tiling)
// or the color filter can produce non-transparent output across the whole
// of layerBounds, as opposed to only wherever the image itself lands.
func (fr FilterResult) fillsLayerBounds() bool {
	if fr.tileMode != image.Decal {
		return true
	}
	return fr.colorFilter != nil && fr.colorFilter.AffectsTransparentBlack()
}

// analyzeBounds implements §4.2: it inspects fr against an additional
// layer-to-target transform and a target-space destination rectangle, and
// reports which of the five concerns apply. workingRect is the rectangle
// remaining after any layer-crop restriction (equal to dstBounds when no
// restriction applied).
func (fr FilterResult) analyzeBounds(xtraTransform geom.Matrix, dstBounds geom.Rect) (analysis BoundsAnalysis, workingRect geom.Rect) {
	workingRect = dstBounds
	if fr.IsEmpty() {
		return analysis, workingRect
	}

	fills := fr.fillsLayerBounds()
	mappedLayerBounds := xtraTransform.TransformRect(fr.layerBounds.ToRect())
	if !mappedLayerBounds.ContainsEps(dstBounds, geom.RoundEpsilon) {
		layerBoundsContainImage := fr.layerBounds.ToRect().Contains(fr.mappedImageRect())
		if fills || !layerBoundsContainImage {
			analysis.set(RequiresLayerCrop)
			workingRect = dstBounds.Intersect(mappedLayerBounds)
		}
	}

	netTransform := xtraTransform.Multiply(fr.transform)
	imageRectNet := netTransform.TransformRect(fr.imagePixelRect().ToRect())
	if !imageRectNet.ContainsEps(workingRect, geom.RoundEpsilon) {
		analysis.set(DstBoundsNotCovered)
		if fills {
			analysis.set(HasLayerFillingEffect)
		}
	}

	if fr.requiresShaderTiling(netTransform, workingRect) {
		analysis.set(RequiresShaderTiling)
	}

	if fr.tileMode == image.Decal && !fr.sampling.IsNearest() {
		sx, sy := netTransform.DecomposeScale()
		lo, hi := sx, sx
		if sy < lo {
			lo = sy
		}
		if sy > hi {
			hi = sy
		}
		const tolerance = 0.2
		if math.Abs(lo-1) > tolerance || math.Abs(hi-1) > tolerance {
			analysis.set(RequiresDecalInLayerSpace)
		}
	}

	return analysis, workingRect
}

// requiresShaderTiling implements the shader-tiling test of §4.2 step 4:
// inset the image's safe sampling rectangle by the filter's sample radius,
// inset the working rectangle's pixel centers by half a pixel, map those
// centers back into image space, and check whether any of them lands
// outside the safe rectangle on an edge the backing store doesn't
// physically end on (a "non-hardware" edge, where the backend would have
// to emulate tiling with a shader rather than rely on native clamping).
func (fr FilterResult) requiresShaderTiling(netTransform geom.Matrix, workingRect geom.Rect) bool {
	if workingRect.IsEmpty() {
		return false
	}
	sampleRadius := 0.5
	if fr.sampling.IsCubic() {
		sampleRadius = 1.5
	}
	if fr.sampling.IsDefault() && !netTransform.HasNearIntegerTranslation(geom.RoundEpsilon) {
		sampleRadius += geom.RoundEpsilon
	}

	safe := fr.imagePixelRect().ToRect().Inset(sampleRadius, sampleRadius)
	if safe.IsEmpty() {
		return true
	}

	inv, ok := netTransform.Invert()
	if !ok {
		return true
	}

	centers := workingRect.Inset(0.5, 0.5)
	if centers.IsEmpty() {
		centers = workingRect
	}
	corners := [4]geom.Point{
		inv.TransformPoint(geom.Pt(centers.MinX, centers.MinY)),
		inv.TransformPoint(geom.Pt(centers.MaxX, centers.MinY)),
		inv.TransformPoint(geom.Pt(centers.MinX, centers.MaxY)),
		inv.TransformPoint(geom.Pt(centers.MaxX, centers.MaxY)),
	}

	left, top, right, bottom := fr.hardwareEdges()
	for _, c := range corners {
		if c.X < safe.MinX && !left {
			return true
		}
		if c.X > safe.MaxX && !right {
			return true
		}
		if c.Y < safe.MinY && !top {
			return true
		}
		if c.Y > safe.MaxY && !bottom {
			return true
		}
	}
	if fr.tileMode.IsPeriodic() {
		// Periodic modes need both opposite edges to be hardware edges for
		// native tiling to be safe at all, regardless of where the corners
		// landed.
		return !(left && right) || !(top && bottom)
	}
	return false
}

// hardwareEdges reports, for each side of the image's visible subset,
// whether that side coincides with the physical backing store's edge
// (true) or instead stops short of it because the subset was clipped
// (false, meaning a tile-mode emulating shader cannot read past it).
func (fr FilterResult) hardwareEdges() (left, top, right, bottom bool) {
	if fr.img == nil {
		return true, true, true, true
	}
	sub := fr.img.Subset()
	back := fr.img.BackingStoreDimensions()
	return sub.Left == 0, sub.Top == 0, sub.Right == back.W, sub.Bottom == back.H
}
