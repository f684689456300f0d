package blend

import (
	"math"

	"github.com/gogpu/filterresult/image"
)

// separableBlend applies the standard premultiplied compositing formula
// Result = (1-Sa)*D + (1-Da)*S + Sa*Da*B(Sc,Dc), where blendChan operates
// on unpremultiplied channel values. This is how every W3C blend mode
// (separable or not) composites once its per-pixel color math is done.
func separableBlend(src, dst image.Color, blendChan func(s, d float64) float64) image.Color {
	if src.A == 0 {
		return dst
	}
	if dst.A == 0 {
		return src
	}
	su := src.Unpremultiply()
	du := dst.Unpremultiply()

	invSa := 1 - src.A
	invDa := 1 - dst.A
	coverage := src.A * dst.A

	r := invSa*dst.R + invDa*src.R + coverage*blendChan(su.R, du.R)
	g := invSa*dst.G + invDa*src.G + coverage*blendChan(su.G, du.G)
	b := invSa*dst.B + invDa*src.B + coverage*blendChan(su.B, du.B)
	a := src.A + dst.A*invSa

	return clampColor(image.Color{R: r, G: g, B: b, A: a})
}

func separableOrNonSeparable(mode Mode, src, dst image.Color) image.Color {
	switch mode {
	case Multiply:
		return separableBlend(src, dst, func(s, d float64) float64 { return s * d })
	case Screen:
		return separableBlend(src, dst, screenChan)
	case Overlay:
		return separableBlend(src, dst, func(s, d float64) float64 { return hardLightChan(d, s) })
	case Darken:
		return separableBlend(src, dst, func(s, d float64) float64 { return min(s, d) })
	case Lighten:
		return separableBlend(src, dst, func(s, d float64) float64 { return max(s, d) })
	case ColorDodge:
		return separableBlend(src, dst, colorDodgeChan)
	case ColorBurn:
		return separableBlend(src, dst, colorBurnChan)
	case HardLight:
		return separableBlend(src, dst, hardLightChan)
	case SoftLight:
		return separableBlend(src, dst, softLightChan)
	case Difference:
		return separableBlend(src, dst, func(s, d float64) float64 { return math.Abs(s - d) })
	case Exclusion:
		return separableBlend(src, dst, func(s, d float64) float64 { return s + d - 2*s*d })
	case Hue, Saturation, Color, Luminosity:
		return nonSeparableBlend(mode, src, dst)
	default:
		return porterDuff(src, dst, 1, 1-src.A)
	}
}

func screenChan(s, d float64) float64 {
	return s + d - s*d
}

func hardLightChan(s, d float64) float64 {
	if s <= 0.5 {
		return 2 * s * d
	}
	return screenChan(2*s-1, d)
}

func colorDodgeChan(s, d float64) float64 {
	if d == 0 {
		return 0
	}
	if s == 1 {
		return 1
	}
	return min(1, d/(1-s))
}

func colorBurnChan(s, d float64) float64 {
	if d == 1 {
		return 1
	}
	if s == 0 {
		return 0
	}
	return 1 - min(1, (1-d)/s)
}

func softLightChan(s, d float64) float64 {
	if s <= 0.5 {
		return d - (1-2*s)*d*(1-d)
	}
	var dd float64
	if d <= 0.25 {
		dd = ((16*d-12)*d + 4) * d
	} else {
		dd = math.Sqrt(d)
	}
	return d + (2*s-1)*(dd-d)
}
