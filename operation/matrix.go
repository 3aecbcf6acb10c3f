package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
)

// applyMatrix routes m through the backend's color matrix capability,
// falling back to a CPU pass over the working buffer when the backend
// only exposes pixmap transforms.
func applyMatrix(ctx context.Context, b imglykit.Backend, m imglykit.ColorMatrix) error {
	if applier, ok := b.(imglykit.ColorMatrixApplier); ok {
		return applier.ApplyColorMatrix(ctx, m)
	}
	if tr, ok := b.(imglykit.PixmapTransformer); ok {
		return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
			m.ApplyToRows(p, 0, p.Height())
			return p, nil
		})
	}
	return fmt.Errorf("operation: %s backend has no color adjustment path", b.Name())
}

// transformerFor returns the backend's pixmap transform capability.
func transformerFor(b imglykit.Backend) (imglykit.PixmapTransformer, error) {
	tr, ok := b.(imglykit.PixmapTransformer)
	if !ok {
		return nil, fmt.Errorf("operation: %s backend cannot transform pixel buffers", b.Name())
	}
	return tr, nil
}

// Luminance weights used by the saturation and grayscale matrices.
const (
	lumaR = 0.2125
	lumaG = 0.7154
	lumaB = 0.0721
)

// brightnessMatrix shifts every color channel by amount.
func brightnessMatrix(amount float64) imglykit.ColorMatrix {
	m := imglykit.IdentityMatrix()
	m[4], m[9], m[14] = amount, amount, amount
	return m
}

// contrastMatrix scales every color channel around the 0.5 midpoint.
func contrastMatrix(amount float64) imglykit.ColorMatrix {
	offset := 0.5 * (1 - amount)
	return imglykit.ColorMatrix{
		amount, 0, 0, 0, offset,
		0, amount, 0, 0, offset,
		0, 0, amount, 0, offset,
		0, 0, 0, 1, 0,
	}
}

// saturationMatrix blends each pixel between its luminance and its
// original color. 0 is fully desaturated, 1 is identity.
func saturationMatrix(amount float64) imglykit.ColorMatrix {
	inv := 1 - amount
	return imglykit.ColorMatrix{
		lumaR*inv + amount, lumaG * inv, lumaB * inv, 0, 0,
		lumaR * inv, lumaG*inv + amount, lumaB * inv, 0, 0,
		lumaR * inv, lumaG * inv, lumaB*inv + amount, 0, 0,
		0, 0, 0, 1, 0,
	}
}
