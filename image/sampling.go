package image

// FilterMode selects the per-pixel interpolation kernel.
type FilterMode uint8

const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// MipmapMode selects how mip levels are chosen and blended.
type MipmapMode uint8

const (
	MipmapNone MipmapMode = iota
	MipmapNearest
	MipmapLinear
)

// samplingKind distinguishes SamplingOptions' three mutually exclusive
// modes: a filter/mipmap pair, a bicubic resampler, or anisotropic
// filtering.
type samplingKind uint8

const (
	kindFilterMipmap samplingKind = iota
	kindCubic
	kindAniso
)

// SamplingOptions describes how a FilterResult samples its deferred image.
// It is one of: a {FilterMode, MipmapMode} pair, a bicubic resampler with
// (B, C) parameters, or an anisotropic filtering level. The zero value is
// not meaningful on its own; use one of the constructors.
type SamplingOptions struct {
	kind       samplingKind
	filter     FilterMode
	mipmap     MipmapMode
	cubicB     float64
	cubicC     float64
	maxAniso   int
}

// DefaultSampling is linear filtering with no mipmapping — kDefaultSampling
// in the spec vocabulary.
var DefaultSampling = SamplingOptions{kind: kindFilterMipmap, filter: FilterLinear, mipmap: MipmapNone}

// NearestSampling is nearest-neighbor filtering with no mipmapping.
var NearestSampling = SamplingOptions{kind: kindFilterMipmap, filter: FilterNearest, mipmap: MipmapNone}

// NewFilterMipmap builds a {filter, mipmap} SamplingOptions.
func NewFilterMipmap(filter FilterMode, mipmap MipmapMode) SamplingOptions {
	return SamplingOptions{kind: kindFilterMipmap, filter: filter, mipmap: mipmap}
}

// NewCubic builds a bicubic SamplingOptions with the given (B, C) kernel
// parameters (e.g. B=1/3, C=1/3 for Mitchell-Netravali).
func NewCubic(b, c float64) SamplingOptions {
	return SamplingOptions{kind: kindCubic, cubicB: b, cubicC: c}
}

// NewAniso builds an anisotropic SamplingOptions with the given maximum
// anisotropy level.
func NewAniso(maxAniso int) SamplingOptions {
	if maxAniso < 1 {
		maxAniso = 1
	}
	return SamplingOptions{kind: kindAniso, maxAniso: maxAniso}
}

// IsCubic reports whether s is a bicubic resampler.
func (s SamplingOptions) IsCubic() bool { return s.kind == kindCubic }

// IsAniso reports whether s is anisotropic filtering.
func (s SamplingOptions) IsAniso() bool { return s.kind == kindAniso }

// IsNearest reports whether s is plain nearest-neighbor (no mipmap).
func (s SamplingOptions) IsNearest() bool {
	return s.kind == kindFilterMipmap && s.filter == FilterNearest && s.mipmap == MipmapNone
}

// IsDefault reports whether s equals DefaultSampling.
func (s SamplingOptions) IsDefault() bool {
	return s == DefaultSampling
}

// Cubic returns s's (B, C) kernel parameters; valid only if IsCubic.
func (s SamplingOptions) Cubic() (b, c float64) { return s.cubicB, s.cubicC }

// Aniso returns s's anisotropy level; valid only if IsAniso.
func (s SamplingOptions) Aniso() int { return s.maxAniso }

// Filter returns s's filter mode; meaningful only if s is a filter/mipmap
// pair (IsCubic and IsAniso both false).
func (s SamplingOptions) Filter() FilterMode { return s.filter }

// sameCubicParams reports whether two cubic SamplingOptions share (B, C).
func sameCubicParams(a, b SamplingOptions) bool {
	return a.cubicB == b.cubicB && a.cubicC == b.cubicC
}

// MergeCompatible implements the mode-only half of the sampling
// compatibility table: merging by kind (aniso, cubic, linear), without the
// nearest-neighbor cases, which depend on whether the adjacent transform is
// a near-integer translation and are resolved by the caller (see
// filterresult.compatibleSampling).
//
// Reports false if current and next are mode-incompatible (e.g. two
// different-parameter cubics, or either operand is nearest).
func MergeCompatible(current, next SamplingOptions) (SamplingOptions, bool) {
	switch {
	case current.IsAniso() && next.IsAniso():
		if current.maxAniso >= next.maxAniso {
			return current, true
		}
		return next, true
	case current.IsAniso() && next == DefaultSampling:
		return current, true
	case current == DefaultSampling && next.IsAniso():
		return next, true
	case current.IsCubic() && next == DefaultSampling:
		return current, true
	case current.IsCubic() && next.IsCubic():
		if sameCubicParams(current, next) {
			return current, true
		}
		return SamplingOptions{}, false
	case current == DefaultSampling && next.IsCubic():
		return next, true
	case current == DefaultSampling && next == DefaultSampling:
		return DefaultSampling, true
	default:
		return SamplingOptions{}, false
	}
}
