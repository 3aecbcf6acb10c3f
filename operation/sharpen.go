package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/filter"
)

// Sharpen accentuates edges with an unsharp mask: the image minus a
// Gaussian-blurred copy of itself, scaled by amount and added back.
type Sharpen struct {
	radius float64
	amount float64
}

// NewSharpen creates a sharpen operation. Radius controls the size of
// the detail being enhanced, amount its strength; 1.0 is a moderate
// sharpening, values above 3 look increasingly harsh.
func NewSharpen(radius, amount float64) *Sharpen {
	return &Sharpen{radius: radius, amount: amount}
}

// Name implements imglykit.Operation.
func (s *Sharpen) Name() string { return "sharpen" }

// ValidateSettings implements imglykit.Operation.
func (s *Sharpen) ValidateSettings() error {
	if s.radius <= 0 || s.radius > maxBlurRadius {
		return fmt.Errorf("operation: sharpen radius %g out of range (0, %d]", s.radius, maxBlurRadius)
	}
	if s.amount <= 0 || s.amount > 10 {
		return fmt.Errorf("operation: sharpen amount %g out of range (0, 10]", s.amount)
	}
	return nil
}

// Render implements imglykit.Operation.
func (s *Sharpen) Render(ctx context.Context, backend imglykit.Backend) error {
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		filter.UnsharpMask(p, s.radius, s.amount)
		return p, nil
	})
}
