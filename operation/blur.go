package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/filter"
)

// maxBlurRadius bounds blur and sharpen radii; beyond it the kernel
// grows past 600 taps per pixel for no visible gain.
const maxBlurRadius = 100

// Blur softens the image with a separable Gaussian blur. Horizontal and
// vertical radii may differ for a directional blur.
type Blur struct {
	radiusX float64
	radiusY float64
}

// NewBlur creates a blur with the same radius on both axes.
func NewBlur(radius float64) *Blur {
	return &Blur{radiusX: radius, radiusY: radius}
}

// NewDirectionalBlur creates a blur with independent horizontal and
// vertical radii. A radius of zero skips that axis.
func NewDirectionalBlur(radiusX, radiusY float64) *Blur {
	return &Blur{radiusX: radiusX, radiusY: radiusY}
}

// Name implements imglykit.Operation.
func (b *Blur) Name() string { return "blur" }

// ValidateSettings implements imglykit.Operation.
func (b *Blur) ValidateSettings() error {
	for _, r := range []float64{b.radiusX, b.radiusY} {
		if r < 0 || r > maxBlurRadius {
			return fmt.Errorf("operation: blur radius %g out of range [0, %d]", r, maxBlurRadius)
		}
	}
	if b.radiusX == 0 && b.radiusY == 0 {
		return fmt.Errorf("operation: blur needs a positive radius on at least one axis")
	}
	return nil
}

// Render implements imglykit.Operation.
func (b *Blur) Render(ctx context.Context, backend imglykit.Backend) error {
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		filter.Gaussian(p, b.radiusX, b.radiusY)
		return p, nil
	})
}
