package operation

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/refarde/imglykit"
)

// Crop cuts the image to a rectangle given in relative coordinates.
// Start and end are fractions of the current size in [0, 1], so the same
// crop applies to any resolution: start (0.25, 0.25) and end (0.75,
// 0.75) keeps the centered half of the image.
type Crop struct {
	start imglykit.Vector2
	end   imglykit.Vector2
}

// NewCrop creates a crop with relative start and end corners.
func NewCrop(start, end imglykit.Vector2) *Crop {
	return &Crop{start: start, end: end}
}

// Name implements imglykit.Operation.
func (c *Crop) Name() string { return "crop" }

// ValidateSettings implements imglykit.Operation.
func (c *Crop) ValidateSettings() error {
	for _, v := range []float64{c.start.X, c.start.Y, c.end.X, c.end.Y} {
		if v < 0 || v > 1 {
			return fmt.Errorf("operation: crop corner coordinate %g outside [0, 1]", v)
		}
	}
	if c.end.X <= c.start.X || c.end.Y <= c.start.Y {
		return fmt.Errorf("operation: crop end %v must exceed start %v on both axes", c.end, c.start)
	}
	return nil
}

// Render implements imglykit.Operation.
func (c *Crop) Render(ctx context.Context, backend imglykit.Backend) error {
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		size := p.Size()
		min := c.start.MulVec(size).Round()
		max := c.end.MulVec(size).Round()

		rect := image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
		if rect.Empty() {
			return nil, fmt.Errorf("operation: crop of %gx%g image resolves to an empty rectangle", size.X, size.Y)
		}
		return imglykit.FromImage(imaging.Crop(p.ToImage(), rect)), nil
	})
}
