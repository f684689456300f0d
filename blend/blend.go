// Package blend implements Porter-Duff compositing operators and the W3C
// separable/non-separable blend modes, operating on premultiplied
// image.Color values.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "github.com/gogpu/filterresult/image"

// Mode identifies a compositing operator or blend mode.
type Mode uint8

const (
	// Porter-Duff compositing operators.
	Clear Mode = iota
	Source
	Destination
	SourceOver
	DestinationOver
	SourceIn
	DestinationIn
	SourceOut
	DestinationOut
	SourceAtop
	DestinationAtop
	Xor
	Plus
	Modulate

	// W3C separable blend modes.
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion

	// W3C non-separable blend modes.
	Hue
	Saturation
	Color
	Luminosity
)

// Blender composes a source color over a destination color. It is the
// interface FilterResult.draw consumes; Mode implements it directly via
// ModeBlender, and callers may also supply a custom blend-mode color filter
// wrapped the same way.
type Blender interface {
	Blend(src, dst image.Color) image.Color
	// AffectsTransparentBlack reports whether blending a fully transparent
	// source can still change a non-transparent destination. FilterResult
	// uses this to decide whether an absent (transparent-black) image still
	// needs to be drawn.
	AffectsTransparentBlack() bool
}

// ModeBlender adapts a Mode to the Blender interface.
type ModeBlender Mode

// Blend applies m to src over dst, both premultiplied.
func (m ModeBlender) Blend(src, dst image.Color) image.Color {
	return Apply(Mode(m), src, dst)
}

// AffectsTransparentBlack reports whether m can change a non-transparent
// destination even when the source is fully transparent black.
func (m ModeBlender) AffectsTransparentBlack() bool {
	switch Mode(m) {
	case Clear, Source, SourceIn, DestinationIn, SourceOut, DestinationAtop, Modulate:
		return true
	default:
		return false
	}
}

// Apply blends src over dst (both premultiplied alpha) under mode.
func Apply(mode Mode, src, dst image.Color) image.Color {
	switch mode {
	case Clear:
		return image.Color{}
	case Source:
		return src
	case Destination:
		return dst
	case SourceOver:
		return porterDuff(src, dst, 1, 1-src.A)
	case DestinationOver:
		return porterDuff(src, dst, 1-dst.A, 1)
	case SourceIn:
		return porterDuff(src, dst, dst.A, 0)
	case DestinationIn:
		return porterDuff(src, dst, 0, src.A)
	case SourceOut:
		return porterDuff(src, dst, 1-dst.A, 0)
	case DestinationOut:
		return porterDuff(src, dst, 0, 1-src.A)
	case SourceAtop:
		return porterDuff(src, dst, dst.A, 1-src.A)
	case DestinationAtop:
		return porterDuff(src, dst, 1-dst.A, src.A)
	case Xor:
		return porterDuff(src, dst, 1-dst.A, 1-src.A)
	case Plus:
		return clampColor(image.Color{R: src.R + dst.R, G: src.G + dst.G, B: src.B + dst.B, A: src.A + dst.A})
	case Modulate:
		return image.Color{R: src.R * dst.R, G: src.G * dst.G, B: src.B * dst.B, A: src.A * dst.A}
	default:
		return separableOrNonSeparable(mode, src, dst)
	}
}

// porterDuff implements the general two-coefficient Porter-Duff formula:
// result = src*srcCoeff + dst*dstCoeff, applied premultiplied.
func porterDuff(src, dst image.Color, srcCoeff, dstCoeff float64) image.Color {
	return image.Color{
		R: src.R*srcCoeff + dst.R*dstCoeff,
		G: src.G*srcCoeff + dst.G*dstCoeff,
		B: src.B*srcCoeff + dst.B*dstCoeff,
		A: src.A*srcCoeff + dst.A*dstCoeff,
	}
}

func clampColor(c image.Color) image.Color {
	return image.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
