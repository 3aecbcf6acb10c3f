package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
)

// Saturation blends each pixel between its luminance and its original
// color. 0 is fully desaturated, 1 is the identity, values above 1
// oversaturate.
type Saturation struct {
	amount float64
}

// NewSaturation creates a saturation adjustment. Valid amounts are >= 0.
func NewSaturation(amount float64) *Saturation {
	return &Saturation{amount: amount}
}

// Name implements imglykit.Operation.
func (s *Saturation) Name() string { return "saturation" }

// Amount returns the configured blend factor.
func (s *Saturation) Amount() float64 { return s.amount }

// ValidateSettings implements imglykit.Operation.
func (s *Saturation) ValidateSettings() error {
	if s.amount < 0 {
		return fmt.Errorf("operation: saturation amount %g must not be negative", s.amount)
	}
	return nil
}

// Matrix returns the color matrix this adjustment compiles to.
func (s *Saturation) Matrix() imglykit.ColorMatrix {
	return saturationMatrix(s.amount)
}

// Render implements imglykit.Operation.
func (s *Saturation) Render(ctx context.Context, backend imglykit.Backend) error {
	return applyMatrix(ctx, backend, s.Matrix())
}
