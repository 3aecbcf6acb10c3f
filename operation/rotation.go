package operation

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/refarde/imglykit"
)

// Rotation rotates the image clockwise by a multiple of 90 degrees.
// Negative multiples rotate counter-clockwise.
type Rotation struct {
	degrees int
}

// NewRotation creates a rotation by the given degrees. The value must be
// a multiple of 90.
func NewRotation(degrees int) *Rotation {
	return &Rotation{degrees: degrees}
}

// Name implements imglykit.Operation.
func (r *Rotation) Name() string { return "rotation" }

// Degrees returns the configured rotation.
func (r *Rotation) Degrees() int { return r.degrees }

// ValidateSettings implements imglykit.Operation.
func (r *Rotation) ValidateSettings() error {
	if r.degrees%90 != 0 {
		return fmt.Errorf("operation: rotation by %d degrees is not a multiple of 90", r.degrees)
	}
	return nil
}

// Render implements imglykit.Operation.
func (r *Rotation) Render(ctx context.Context, backend imglykit.Backend) error {
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		turns := ((r.degrees/90)%4 + 4) % 4
		if turns == 0 {
			return p, nil
		}

		// imaging rotates counter-clockwise; map clockwise turns onto it.
		var img *image.NRGBA
		switch turns {
		case 1:
			img = imaging.Rotate270(p.ToImage())
		case 2:
			img = imaging.Rotate180(p.ToImage())
		case 3:
			img = imaging.Rotate90(p.ToImage())
		}
		return imglykit.FromImage(img), nil
	})
}
