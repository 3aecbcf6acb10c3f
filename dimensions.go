package imglykit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// dimensionsRule matches the dimensions mini-language: an optional target
// width, a literal "x", an optional target height, and an optional "!"
// modifier that disables aspect-ratio preservation.
var dimensionsRule = regexp.MustCompile(`^([0-9]+)?[xX]([0-9]+)?(!)?$`)

// Dimensions is a parsed target-dimensions specification.
//
// The specification string takes the forms "WxH" (fit within W×H keeping
// aspect ratio), "Wx" (scale to width W), "xH" (scale to height H) and
// "WxH!" (exact W×H, aspect ratio ignored). An empty specification means
// the output keeps its current size.
type Dimensions struct {
	width  int
	height int
	fixed  bool
}

// ParseDimensions parses a dimensions specification string.
//
// An empty string parses to the identity specification. Anything else must
// match the mini-language above with at least one positive dimension.
func ParseDimensions(spec string) (Dimensions, error) {
	if spec == "" {
		return Dimensions{}, nil
	}

	m := dimensionsRule.FindStringSubmatch(spec)
	if m == nil {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrInvalidDimensions, spec)
	}

	var d Dimensions
	if m[1] != "" {
		d.width, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		d.height, _ = strconv.Atoi(m[2])
	}
	d.fixed = m[3] == "!"

	if m[1] == "" && m[2] == "" {
		return Dimensions{}, fmt.Errorf("%w: %q specifies neither width nor height", ErrInvalidDimensions, spec)
	}
	if (m[1] != "" && d.width == 0) || (m[2] != "" && d.height == 0) {
		return Dimensions{}, fmt.Errorf("%w: %q contains a zero dimension", ErrInvalidDimensions, spec)
	}
	return d, nil
}

// IsIdentity reports whether the specification leaves sizes unchanged.
func (d Dimensions) IsIdentity() bool {
	return d.width == 0 && d.height == 0
}

// CalculateFinalSize resolves the final output size for content currently
// at the given size. Pure: the input vector is not mutated and repeated
// calls yield the same result. Resolved sizes are whole pixels.
func (d Dimensions) CalculateFinalSize(current Vector2) Vector2 {
	if d.IsIdentity() {
		return current
	}

	if d.fixed {
		out := current
		if d.width > 0 {
			out.X = float64(d.width)
		}
		if d.height > 0 {
			out.Y = float64(d.height)
		}
		return out.Round()
	}

	var scale float64
	switch {
	case d.width > 0 && d.height > 0:
		scale = math.Min(float64(d.width)/current.X, float64(d.height)/current.Y)
	case d.width > 0:
		scale = float64(d.width) / current.X
	default:
		scale = float64(d.height) / current.Y
	}
	return current.Mul(scale).Round()
}

// ResolveDimensions parses spec and resolves the final output size for the
// given current size in one step. The render pipeline parses the caller's
// specification lazily through this function, once per render.
func ResolveDimensions(spec string, current Vector2) (Vector2, error) {
	d, err := ParseDimensions(spec)
	if err != nil {
		return Vector2{}, err
	}
	return d.CalculateFinalSize(current), nil
}
