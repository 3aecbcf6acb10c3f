package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
)

// Contrast scales all color channels around the 0.5 midpoint. 1 is the
// identity, 0 collapses the image to mid gray, values above 1 increase
// contrast.
type Contrast struct {
	amount float64
}

// NewContrast creates a contrast adjustment. Valid amounts are >= 0.
func NewContrast(amount float64) *Contrast {
	return &Contrast{amount: amount}
}

// Name implements imglykit.Operation.
func (c *Contrast) Name() string { return "contrast" }

// Amount returns the configured scale.
func (c *Contrast) Amount() float64 { return c.amount }

// ValidateSettings implements imglykit.Operation.
func (c *Contrast) ValidateSettings() error {
	if c.amount < 0 {
		return fmt.Errorf("operation: contrast amount %g must not be negative", c.amount)
	}
	return nil
}

// Matrix returns the color matrix this adjustment compiles to.
func (c *Contrast) Matrix() imglykit.ColorMatrix {
	return contrastMatrix(c.amount)
}

// Render implements imglykit.Operation.
func (c *Contrast) Render(ctx context.Context, backend imglykit.Backend) error {
	return applyMatrix(ctx, backend, c.Matrix())
}
