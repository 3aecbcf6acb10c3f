package operation

import (
	"context"
	"errors"

	"github.com/disintegration/imaging"

	"github.com/refarde/imglykit"
)

// Flip mirrors the image across one or both axes.
type Flip struct {
	horizontal bool
	vertical   bool
}

// NewFlip creates a flip across the given axes. At least one axis must
// be set.
func NewFlip(horizontal, vertical bool) *Flip {
	return &Flip{horizontal: horizontal, vertical: vertical}
}

// Name implements imglykit.Operation.
func (f *Flip) Name() string { return "flip" }

// ValidateSettings implements imglykit.Operation.
func (f *Flip) ValidateSettings() error {
	if !f.horizontal && !f.vertical {
		return errors.New("operation: flip needs at least one axis")
	}
	return nil
}

// Render implements imglykit.Operation.
func (f *Flip) Render(ctx context.Context, backend imglykit.Backend) error {
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		img := p.ToImage()
		if f.horizontal {
			img = imaging.FlipH(img)
		}
		if f.vertical {
			img = imaging.FlipV(img)
		}
		return imglykit.FromImage(img), nil
	})
}
