package imglykit

// ColorMatrix is a 4x5 row-major matrix over non-premultiplied RGBA.
// Each output channel is a weighted sum of the input channels plus a
// constant term:
//
//	r' = m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
//	g' = m[5]*r + ...
//
// Channel values are in [0, 1]; outputs are clamped to that range.
// Point operations compile their settings into a ColorMatrix, which
// backends apply in a single pass over the working buffer.
type ColorMatrix [20]float64

// IdentityMatrix returns the matrix that leaves colors unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// Apply transforms a single color.
func (m ColorMatrix) Apply(c RGBA) RGBA {
	return RGBA{
		R: clamp01(m[0]*c.R + m[1]*c.G + m[2]*c.B + m[3]*c.A + m[4]),
		G: clamp01(m[5]*c.R + m[6]*c.G + m[7]*c.B + m[8]*c.A + m[9]),
		B: clamp01(m[10]*c.R + m[11]*c.G + m[12]*c.B + m[13]*c.A + m[14]),
		A: clamp01(m[15]*c.R + m[16]*c.G + m[17]*c.B + m[18]*c.A + m[19]),
	}
}

// Mul composes two matrices. Applying the result is equivalent to
// applying other first, then m.
func (m ColorMatrix) Mul(other ColorMatrix) ColorMatrix {
	var out ColorMatrix
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*5+k] * other[k*5+col]
			}
			out[row*5+col] = sum
		}
		// Constant column: m's linear part times other's constants,
		// plus m's own constant.
		c := m[row*5+4]
		for k := 0; k < 4; k++ {
			c += m[row*5+k] * other[k*5+4]
		}
		out[row*5+4] = c
	}
	return out
}

// ApplyToRows transforms the pixel rows [y0, y1) of p in place. Backends
// split the buffer into bands and run this on each band concurrently.
func (m ColorMatrix) ApplyToRows(p *Pixmap, y0, y1 int) {
	if y0 < 0 {
		y0 = 0
	}
	if y1 > p.height {
		y1 = p.height
	}
	data := p.data
	for y := y0; y < y1; y++ {
		row := data[y*p.width*4 : (y+1)*p.width*4]
		for i := 0; i < len(row); i += 4 {
			r := float64(row[i+0]) / 255
			g := float64(row[i+1]) / 255
			b := float64(row[i+2]) / 255
			a := float64(row[i+3]) / 255
			row[i+0] = uint8(clamp01(m[0]*r+m[1]*g+m[2]*b+m[3]*a+m[4])*255 + 0.5)
			row[i+1] = uint8(clamp01(m[5]*r+m[6]*g+m[7]*b+m[8]*a+m[9])*255 + 0.5)
			row[i+2] = uint8(clamp01(m[10]*r+m[11]*g+m[12]*b+m[13]*a+m[14])*255 + 0.5)
			row[i+3] = uint8(clamp01(m[15]*r+m[16]*g+m[17]*b+m[18]*a+m[19])*255 + 0.5)
		}
	}
}
