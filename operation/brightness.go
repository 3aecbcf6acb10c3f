package operation

import (
	"context"
	"fmt"

	"github.com/refarde/imglykit"
)

// Brightness shifts all color channels by a constant amount in the
// normalized [0, 1] color space. Positive amounts brighten, negative
// amounts darken; 0 is the identity.
type Brightness struct {
	amount float64
}

// NewBrightness creates a brightness adjustment. Valid amounts lie in
// [-1, 1].
func NewBrightness(amount float64) *Brightness {
	return &Brightness{amount: amount}
}

// Name implements imglykit.Operation.
func (b *Brightness) Name() string { return "brightness" }

// Amount returns the configured shift.
func (b *Brightness) Amount() float64 { return b.amount }

// ValidateSettings implements imglykit.Operation.
func (b *Brightness) ValidateSettings() error {
	if b.amount < -1 || b.amount > 1 {
		return fmt.Errorf("operation: brightness amount %g out of range [-1, 1]", b.amount)
	}
	return nil
}

// Matrix returns the color matrix this adjustment compiles to.
func (b *Brightness) Matrix() imglykit.ColorMatrix {
	return brightnessMatrix(b.amount)
}

// Render implements imglykit.Operation.
func (b *Brightness) Render(ctx context.Context, backend imglykit.Backend) error {
	return applyMatrix(ctx, backend, b.Matrix())
}
