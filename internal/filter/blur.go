package filter

import (
	"runtime"
	"sync"

	"github.com/refarde/imglykit"
)

// Gaussian blurs p in place with the given horizontal and vertical
// radii. Unequal radii give a directional blur; a radius of 0 skips
// that axis, and two zero radii leave the pixmap untouched.
//
// Edges extend: samples beyond the border clamp to the nearest edge
// pixel, so blurred images do not darken toward their borders.
func Gaussian(p *imglykit.Pixmap, radiusX, radiusY float64) {
	if p == nil || (radiusX <= 0 && radiusY <= 0) {
		return
	}

	width, height := p.Width(), p.Height()
	if width == 0 || height == 0 {
		return
	}

	temp := getTempBuffer(width * height * 4)
	defer putTempBuffer(temp)

	if radiusX > 0 {
		convolveRows(p.Data(), temp.data, width, height, CachedGaussianKernel(radiusX))
	} else {
		spreadToFloat(p.Data(), temp.data)
	}
	if radiusY > 0 {
		convolveColumns(temp.data, p.Data(), width, height, CachedGaussianKernel(radiusY))
	} else {
		gatherFromFloat(temp.data, p.Data())
	}
}

// UnsharpMask sharpens p in place by amplifying its difference from a
// Gaussian-blurred copy: out = src + amount*(src - blurred). radius
// controls the size of the detail being amplified, amount its strength
// (0 is identity, 1 doubles edge contrast). Alpha is left untouched.
func UnsharpMask(p *imglykit.Pixmap, radius, amount float64) {
	if p == nil || radius <= 0 || amount == 0 {
		return
	}

	data := p.Data()
	orig := make([]uint8, len(data))
	copy(orig, data)

	Gaussian(p, radius, radius)

	amt := float32(amount)
	rowLen := p.Width() * 4
	forEachBand(p.Height(), func(y0, y1 int) {
		for i := y0 * rowLen; i < y1*rowLen; i += 4 {
			for c := range 3 {
				src := float32(orig[i+c])
				blurred := float32(data[i+c])
				data[i+c] = clampByte(src + amt*(src-blurred))
			}
			data[i+3] = orig[i+3]
		}
	})
}

// convolveRows convolves every row of src with kernel, writing float
// channel sums to dst. Reads clamp to the row's first and last pixel.
func convolveRows(src []uint8, dst []float32, width, height int, kernel []float32) {
	half := len(kernel) / 2
	forEachBand(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := src[y*width*4 : (y+1)*width*4]
			out := dst[y*width*4 : (y+1)*width*4]
			for x := 0; x < width; x++ {
				var r, g, b, a float32
				for k, w := range kernel {
					kx := x + k - half
					if kx < 0 {
						kx = 0
					} else if kx >= width {
						kx = width - 1
					}
					i := kx * 4
					r += float32(row[i+0]) * w
					g += float32(row[i+1]) * w
					b += float32(row[i+2]) * w
					a += float32(row[i+3]) * w
				}
				i := x * 4
				out[i+0] = r
				out[i+1] = g
				out[i+2] = b
				out[i+3] = a
			}
		}
	})
}

// convolveColumns convolves every column of src with kernel, writing
// clamped bytes to dst. Reads clamp to the column's first and last
// pixel.
func convolveColumns(src []float32, dst []uint8, width, height int, kernel []float32) {
	half := len(kernel) / 2
	forEachBand(height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < width; x++ {
				var r, g, b, a float32
				for k, w := range kernel {
					ky := y + k - half
					if ky < 0 {
						ky = 0
					} else if ky >= height {
						ky = height - 1
					}
					i := (ky*width + x) * 4
					r += src[i+0] * w
					g += src[i+1] * w
					b += src[i+2] * w
					a += src[i+3] * w
				}
				i := (y*width + x) * 4
				dst[i+0] = clampByte(r)
				dst[i+1] = clampByte(g)
				dst[i+2] = clampByte(b)
				dst[i+3] = clampByte(a)
			}
		}
	})
}

func spreadToFloat(src []uint8, dst []float32) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}

func gatherFromFloat(src []float32, dst []uint8) {
	for i, v := range src {
		dst[i] = clampByte(v)
	}
}

// forEachBand splits height rows into one contiguous band per CPU and
// runs fn on each band concurrently, returning when all bands are done.
// Convolution passes read only state written before the pass started,
// so bands need no further synchronization.
func forEachBand(height int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers <= 1 {
		fn(0, height)
		return
	}

	step := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += step {
		y1 := y0 + step
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(y0, y1)
		}()
	}
	wg.Wait()
}

// floatBuffer wraps the pooled slice so sync.Pool stores a pointer.
type floatBuffer struct {
	data []float32
}

// maxPooledFloats caps pooled buffers at 64 MB so one huge image does
// not pin its buffer for the life of the process.
const maxPooledFloats = 16 * 1024 * 1024

var tempBuffers = sync.Pool{
	New: func() any { return &floatBuffer{} },
}

// getTempBuffer returns a float buffer with at least n elements. The
// contents are unspecified; convolution writes every slot before
// reading it.
func getTempBuffer(n int) *floatBuffer {
	buf := tempBuffers.Get().(*floatBuffer)
	if cap(buf.data) < n {
		buf.data = make([]float32, n)
	}
	buf.data = buf.data[:n]
	return buf
}

func putTempBuffer(buf *floatBuffer) {
	if cap(buf.data) <= maxPooledFloats {
		tempBuffers.Put(buf)
	}
}

// clampByte converts a float channel back to uint8, rounding to
// nearest.
func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
