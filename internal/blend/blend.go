// Package blend composites colors and pixmaps.
//
// Blend follows the W3C compositing model: the source color is first
// mixed with the backdrop by the blend mode's per-channel function, then
// composited source-over by alpha. SourceOver is the plain alpha
// compositing everyone expects; the separable modes (Multiply, Screen,
// Overlay, Darken, Lighten) change how overlapping color interacts
// before compositing.
package blend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/refarde/imglykit"
)

// Mode selects how a source color mixes with the backdrop.
type Mode int

const (
	// SourceOver is standard alpha compositing.
	SourceOver Mode = iota

	// Multiply darkens: the backdrop is multiplied by the source.
	Multiply

	// Screen lightens: the inverse product of the inverses.
	Screen

	// Overlay multiplies or screens depending on the backdrop.
	Overlay

	// Darken keeps the darker channel of the two.
	Darken

	// Lighten keeps the lighter channel of the two.
	Lighten
)

var modeNames = map[string]Mode{
	"normal":   SourceOver,
	"multiply": Multiply,
	"screen":   Screen,
	"overlay":  Overlay,
	"darken":   Darken,
	"lighten":  Lighten,
}

// String returns the mode name used in settings and logs.
func (m Mode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return "normal"
}

// ParseMode parses a blend mode name. An empty string means SourceOver.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return SourceOver, nil
	}
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	return SourceOver, fmt.Errorf("blend: unknown mode %q (known: %s)", s, strings.Join(ModeNames(), ", "))
}

// ModeNames returns the known mode names in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(modeNames))
	for name := range modeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Blend composites src over dst with the given mode and returns the
// straight-alpha result.
func Blend(src, dst imglykit.RGBA, mode Mode) imglykit.RGBA {
	if mode != SourceOver {
		// Mix the source toward B(dst, src) by the backdrop's alpha, then
		// composite normally. Fully transparent backdrops leave the source
		// unchanged, fully opaque ones use the blended color outright.
		src = imglykit.RGBA{
			R: (1-dst.A)*src.R + dst.A*blendChannel(dst.R, src.R, mode),
			G: (1-dst.A)*src.G + dst.A*blendChannel(dst.G, src.G, mode),
			B: (1-dst.A)*src.B + dst.A*blendChannel(dst.B, src.B, mode),
			A: src.A,
		}
	}
	return sourceOver(src, dst)
}

// sourceOver composites src over dst with straight-alpha arithmetic.
func sourceOver(src, dst imglykit.RGBA) imglykit.RGBA {
	inv := 1 - src.A
	outA := src.A + dst.A*inv
	if outA == 0 {
		return imglykit.RGBA{}
	}
	return imglykit.RGBA{
		R: (src.R*src.A + dst.R*dst.A*inv) / outA,
		G: (src.G*src.A + dst.G*dst.A*inv) / outA,
		B: (src.B*src.A + dst.B*dst.A*inv) / outA,
		A: outA,
	}
}

// blendChannel applies the separable per-channel function B(backdrop,
// source).
func blendChannel(d, s float64, mode Mode) float64 {
	switch mode {
	case Multiply:
		return d * s
	case Screen:
		return d + s - d*s
	case Overlay:
		if d <= 0.5 {
			return 2 * d * s
		}
		return 1 - 2*(1-d)*(1-s)
	case Darken:
		if s < d {
			return s
		}
		return d
	case Lighten:
		if s > d {
			return s
		}
		return d
	default:
		return s
	}
}

// Composite draws src onto dst with src's top-left corner at (x, y),
// scaling src's alpha by opacity before blending each pixel. Source
// pixels falling outside dst are clipped; dst is modified in place.
func Composite(dst, src *imglykit.Pixmap, x, y int, opacity float64, mode Mode) {
	if dst == nil || src == nil || opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}

	for sy := 0; sy < src.Height(); sy++ {
		dy := y + sy
		if dy < 0 || dy >= dst.Height() {
			continue
		}
		for sx := 0; sx < src.Width(); sx++ {
			dx := x + sx
			if dx < 0 || dx >= dst.Width() {
				continue
			}

			s := src.GetPixel(sx, sy)
			if s.A == 0 {
				continue
			}
			s.A *= opacity
			dst.SetPixel(dx, dy, Blend(s, dst.GetPixel(dx, dy), mode))
		}
	}
}
