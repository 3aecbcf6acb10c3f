package filter

import (
	"math"

	"github.com/refarde/imglykit/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel for the given
// radius, used as sigma. The kernel spans 3 standard deviations each
// side, covering 99.7% of the distribution; all weights sum to 1.
//
// Radius 0 or less yields the identity kernel [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(radius * 3))
	size := half*2 + 1
	kernel := make([]float32, size)

	twoSigmaSq := 2 * radius * radius
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// BoxKernel generates a uniform kernel of 2*radius+1 equal weights.
// Faster than Gaussian but blocky; three box passes approximate one
// Gaussian pass well.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	size := radius*2 + 1
	kernel := make([]float32, size)
	v := float32(1) / float32(size)
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// KernelSize returns the kernel length GaussianKernel produces for a
// radius. Useful for sizing buffers up front.
func KernelSize(radius float64) int {
	if radius <= 0 {
		return 1
	}
	return int(math.Ceil(radius*3))*2 + 1
}

// kernels caches generated Gaussian kernels. Editing stacks reuse a
// handful of radii, so the working set is tiny. Keys quantize the radius
// to 0.01 so float noise does not defeat the cache.
var kernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns the Gaussian kernel for radius, reusing
// cached kernels across calls. The returned slice is shared; callers
// must not modify it.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return kernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(radius)
	})
}
