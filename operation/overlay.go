package operation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/refarde/imglykit"
	"github.com/refarde/imglykit/internal/blend"
)

// Overlay composites another image onto the canvas, for stickers and
// watermarks. The anchor position is relative to the current size and
// marks the overlay's center, so the same overlay works at any
// resolution.
type Overlay struct {
	overlay  image.Image
	position imglykit.Vector2
	width    float64
	opacity  float64
	mode     string
}

// OverlayOption configures an Overlay operation.
type OverlayOption func(*Overlay)

// WithOverlayPosition sets the relative anchor in [0, 1] per axis. The
// anchor marks the overlay's center; the default is the middle of the
// canvas.
func WithOverlayPosition(pos imglykit.Vector2) OverlayOption {
	return func(o *Overlay) { o.position = pos }
}

// WithOverlayWidth scales the overlay to the given fraction of the
// canvas width, keeping its aspect ratio. Zero, the default, keeps the
// overlay at its natural pixel size.
func WithOverlayWidth(fraction float64) OverlayOption {
	return func(o *Overlay) { o.width = fraction }
}

// WithOverlayOpacity sets the overlay's opacity in [0, 1]. The default
// is fully opaque.
func WithOverlayOpacity(opacity float64) OverlayOption {
	return func(o *Overlay) { o.opacity = opacity }
}

// WithOverlayBlendMode selects how overlay pixels combine with the
// canvas. Recognized modes are "normal", "multiply", "screen",
// "overlay", "darken" and "lighten"; the default is "normal".
func WithOverlayBlendMode(mode string) OverlayOption {
	return func(o *Overlay) { o.mode = mode }
}

// NewOverlay creates an overlay operation drawing img onto the canvas.
func NewOverlay(img image.Image, opts ...OverlayOption) *Overlay {
	o := &Overlay{
		overlay:  img,
		position: imglykit.Vec(0.5, 0.5),
		opacity:  1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name implements imglykit.Operation.
func (o *Overlay) Name() string { return "overlay" }

// ValidateSettings implements imglykit.Operation.
func (o *Overlay) ValidateSettings() error {
	if o.overlay == nil {
		return errors.New("operation: overlay has no image")
	}
	b := o.overlay.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New("operation: overlay image is empty")
	}
	if o.position.X < 0 || o.position.X > 1 || o.position.Y < 0 || o.position.Y > 1 {
		return fmt.Errorf("operation: overlay position %v outside [0, 1]", o.position)
	}
	if o.width < 0 || o.width > 1 {
		return fmt.Errorf("operation: overlay width %g outside [0, 1]", o.width)
	}
	if o.opacity < 0 || o.opacity > 1 {
		return fmt.Errorf("operation: overlay opacity %g outside [0, 1]", o.opacity)
	}
	if _, err := blend.ParseMode(o.mode); err != nil {
		return fmt.Errorf("operation: %w", err)
	}
	return nil
}

// Render implements imglykit.Operation.
func (o *Overlay) Render(ctx context.Context, backend imglykit.Backend) error {
	mode, err := blend.ParseMode(o.mode)
	if err != nil {
		return fmt.Errorf("operation: %w", err)
	}
	tr, err := transformerFor(backend)
	if err != nil {
		return err
	}
	return tr.TransformPixmap(ctx, func(p *imglykit.Pixmap) (*imglykit.Pixmap, error) {
		img := o.overlay
		if o.width > 0 {
			target := int(math.Round(o.width * float64(p.Width())))
			if target < 1 {
				target = 1
			}
			// Height 0 keeps the aspect ratio.
			img = imaging.Resize(img, target, 0, imaging.Lanczos)
		}
		src := imglykit.FromImage(img)

		center := o.position.MulVec(p.Size())
		x := int(math.Round(center.X - float64(src.Width())/2))
		y := int(math.Round(center.Y - float64(src.Height())/2))

		blend.Composite(p, src, x, y, o.opacity, mode)
		return p, nil
	})
}
