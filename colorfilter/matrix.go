package colorfilter

import "github.com/gogpu/filterresult/image"

// Matrix is a 4x5 row-major color transformation:
//
//	[R']   [m00 m01 m02 m03 m04]   [R]
//	[G'] = [m10 m11 m12 m13 m14] * [G]
//	[B']   [m20 m21 m22 m23 m24]   [B]
//	[A']   [m30 m31 m32 m33 m34]   [A]
//	                               [1]
//
// Applied to straight-alpha color components in [0, 1]; the fifth column is
// a bias added after the linear part.
type Matrix struct {
	M [20]float64
}

// NewMatrix builds a Matrix color filter from its 20 row-major coefficients.
func NewMatrix(m [20]float64) Matrix {
	return Matrix{M: m}
}

// IdentityMatrix passes colors through unchanged.
func IdentityMatrix() Matrix {
	return Matrix{M: [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Brightness scales RGB by factor: 0 is black, 1 is unchanged.
func Brightness(factor float64) Matrix {
	return Matrix{M: [20]float64{
		factor, 0, 0, 0, 0,
		0, factor, 0, 0, 0,
		0, 0, factor, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Contrast scales RGB about the midpoint: 0 is flat gray, 1 is unchanged.
func Contrast(factor float64) Matrix {
	offset := 0.5 * (1 - factor)
	return Matrix{M: [20]float64{
		factor, 0, 0, 0, offset,
		0, factor, 0, 0, offset,
		0, 0, factor, 0, offset,
		0, 0, 0, 1, 0,
	}}
}

// Saturation blends between grayscale (0) and unchanged (1) using Rec. 709
// luminance weights.
func Saturation(factor float64) Matrix {
	const (
		lumR = 0.2126
		lumG = 0.7152
		lumB = 0.0722
	)
	inv := 1 - factor
	return Matrix{M: [20]float64{
		lumR*inv + factor, lumG * inv, lumB * inv, 0, 0,
		lumR * inv, lumG*inv + factor, lumB * inv, 0, 0,
		lumR * inv, lumG * inv, lumB*inv + factor, 0, 0,
		0, 0, 0, 1, 0,
	}}
}

// Grayscale converts to grayscale using Rec. 709 luminance weights.
func Grayscale() Matrix {
	return Saturation(0)
}

// Invert inverts RGB, leaving alpha unchanged. Because transparent black
// (0,0,0,0) inverts to (1,1,1,0), this filter reports
// AffectsTransparentBlack false — the alpha channel it would need to make
// the result visible stays at zero. See Tint for a filter that does
// affect it.
func Invert() Matrix {
	return Matrix{M: [20]float64{
		-1, 0, 0, 0, 1,
		0, -1, 0, 0, 1,
		0, 0, -1, 0, 1,
		0, 0, 0, 1, 0,
	}}
}

// Opacity scales alpha by factor, leaving RGB unchanged.
func Opacity(factor float64) Matrix {
	return Matrix{M: [20]float64{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, factor, 0,
	}}
}

// Tint blends the input toward a constant color, weighted by the tint's
// own alpha. Because the bias term injects tint.A into the alpha channel
// regardless of input, this filter affects transparent black whenever the
// tint itself is not fully transparent.
func Tint(tint image.Color) Matrix {
	inv := 1 - tint.A
	return Matrix{M: [20]float64{
		inv, 0, 0, 0, tint.R * tint.A,
		0, inv, 0, 0, tint.G * tint.A,
		0, 0, inv, 0, tint.B * tint.A,
		0, 0, 0, inv, tint.A,
	}}
}

// Apply runs the matrix on c's straight-alpha components.
func (m Matrix) Apply(c image.Color) image.Color {
	r, g, b, a := c.R, c.G, c.B, c.A
	out := image.Color{
		R: m.M[0]*r + m.M[1]*g + m.M[2]*b + m.M[3]*a + m.M[4],
		G: m.M[5]*r + m.M[6]*g + m.M[7]*b + m.M[8]*a + m.M[9],
		B: m.M[10]*r + m.M[11]*g + m.M[12]*b + m.M[13]*a + m.M[14],
		A: m.M[15]*r + m.M[16]*g + m.M[17]*b + m.M[18]*a + m.M[19],
	}
	return clamp(out)
}

// AffectsTransparentBlack reports whether applying m to (0,0,0,0) yields a
// nonzero alpha — i.e. whether m can make a transparent input visible.
func (m Matrix) AffectsTransparentBlack() bool {
	return m.M[19] > 0
}

// Multiply returns the matrix equivalent to applying m first, then other:
// other.Apply(m.Apply(c)) == m.Multiply(other).Apply(c).
func (m Matrix) Multiply(other Matrix) Matrix {
	var out Matrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += other.M[row*5+k] * m.M[k*5+col]
			}
			out.M[row*5+col] = sum
		}
		out.M[row*5+4] = other.M[row*5+0]*m.M[4] + other.M[row*5+1]*m.M[9] +
			other.M[row*5+2]*m.M[14] + other.M[row*5+3]*m.M[19] + other.M[row*5+4]
	}
	return out
}

func clamp(c image.Color) image.Color {
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
