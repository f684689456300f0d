package blend

import "github.com/gogpu/filterresult/image"

// lum returns the luminance of a color using BT.601 coefficients.
func lum(r, g, b float64) float64 {
	return 0.30*r + 0.59*g + 0.11*b
}

func sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// clipColor clips a color to [0,1] while preserving its luminance, per the
// W3C ClipColor algorithm.
func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// setLum sets the luminance of (r,g,b) to l while preserving hue/saturation,
// per the W3C SetLum algorithm.
func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

// setSat scales the min/mid/max components of (r,g,b) to hit target
// saturation s while preserving their relative order, per the W3C SetSat
// algorithm.
func setSat(r, g, b, s float64) (float64, float64, float64) {
	c := [3]float64{r, g, b}
	idx := [3]int{0, 1, 2}
	if c[idx[0]] > c[idx[1]] {
		idx[0], idx[1] = idx[1], idx[0]
	}
	if c[idx[1]] > c[idx[2]] {
		idx[1], idx[2] = idx[2], idx[1]
	}
	if c[idx[0]] > c[idx[1]] {
		idx[0], idx[1] = idx[1], idx[0]
	}
	minI, midI, maxI := idx[0], idx[1], idx[2]

	if c[maxI] > c[minI] {
		c[midI] = ((c[midI] - c[minI]) * s) / (c[maxI] - c[minI])
		c[maxI] = s
		c[minI] = 0
	} else {
		c[minI], c[midI], c[maxI] = 0, 0, 0
	}
	return c[0], c[1], c[2]
}

// nonSeparableBlend implements Hue/Saturation/Color/Luminosity, each of
// which mixes the RGB triplet together rather than blending channels
// independently, then composes with the standard premultiplied formula.
func nonSeparableBlend(mode Mode, src, dst image.Color) image.Color {
	if src.A == 0 {
		return dst
	}
	if dst.A == 0 {
		return src
	}
	su := src.Unpremultiply()
	du := dst.Unpremultiply()

	var r, g, b float64
	switch mode {
	case Hue:
		hr, hg, hb := setSat(su.R, su.G, su.B, sat(du.R, du.G, du.B))
		r, g, b = setLum(hr, hg, hb, lum(du.R, du.G, du.B))
	case Saturation:
		hr, hg, hb := setSat(du.R, du.G, du.B, sat(su.R, su.G, su.B))
		r, g, b = setLum(hr, hg, hb, lum(du.R, du.G, du.B))
	case Color:
		r, g, b = setLum(su.R, su.G, su.B, lum(du.R, du.G, du.B))
	case Luminosity:
		r, g, b = setLum(du.R, du.G, du.B, lum(su.R, su.G, su.B))
	}

	blended := image.Color{R: r, G: g, B: b, A: 1}.Premultiply()

	invSa := 1 - src.A
	invDa := 1 - dst.A
	coverage := src.A * dst.A
	return clampColor(image.Color{
		R: invSa*dst.R + invDa*src.R + coverage*blended.R,
		G: invSa*dst.G + invDa*src.G + coverage*blended.G,
		B: invSa*dst.B + invDa*src.B + coverage*blended.B,
		A: src.A + dst.A*invSa,
	})
}
