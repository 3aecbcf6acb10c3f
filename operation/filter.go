package operation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/refarde/imglykit"
)

// Filter applies a named preset look. Presets are fixed color matrices,
// some of them composed from the basic adjustments.
type Filter struct {
	name string
}

// filterPresets maps preset names to their matrix constructors.
var filterPresets = map[string]func() imglykit.ColorMatrix{
	"none": imglykit.IdentityMatrix,
	"grayscale": func() imglykit.ColorMatrix {
		return saturationMatrix(0)
	},
	"sepia": func() imglykit.ColorMatrix {
		return imglykit.ColorMatrix{
			0.393, 0.769, 0.189, 0, 0,
			0.349, 0.686, 0.168, 0, 0,
			0.272, 0.534, 0.131, 0, 0,
			0, 0, 0, 1, 0,
		}
	},
	"invert": func() imglykit.ColorMatrix {
		return imglykit.ColorMatrix{
			-1, 0, 0, 0, 1,
			0, -1, 0, 0, 1,
			0, 0, -1, 0, 1,
			0, 0, 0, 1, 0,
		}
	},
	"warm": func() imglykit.ColorMatrix {
		m := imglykit.IdentityMatrix()
		m[0] = 1.1
		m[12] = 0.9
		return m
	},
	"cool": func() imglykit.ColorMatrix {
		m := imglykit.IdentityMatrix()
		m[0] = 0.9
		m[12] = 1.1
		return m
	},
	"faded": func() imglykit.ColorMatrix {
		return brightnessMatrix(0.05).Mul(contrastMatrix(0.85))
	},
	"moody": func() imglykit.ColorMatrix {
		return contrastMatrix(1.15).Mul(saturationMatrix(0.65))
	},
}

// NewFilter creates a preset filter. See FilterNames for the known
// preset names.
func NewFilter(name string) *Filter {
	return &Filter{name: name}
}

// FilterNames returns the known preset names in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filterPresets))
	for name := range filterPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name implements imglykit.Operation.
func (f *Filter) Name() string { return "filter" }

// Preset returns the configured preset name.
func (f *Filter) Preset() string { return f.name }

// ValidateSettings implements imglykit.Operation.
func (f *Filter) ValidateSettings() error {
	if _, ok := filterPresets[f.name]; !ok {
		return fmt.Errorf("operation: unknown filter preset %q (known: %s)",
			f.name, strings.Join(FilterNames(), ", "))
	}
	return nil
}

// Matrix returns the preset's color matrix. Unknown presets resolve to
// the identity; ValidateSettings rejects them before rendering.
func (f *Filter) Matrix() imglykit.ColorMatrix {
	preset, ok := filterPresets[f.name]
	if !ok {
		return imglykit.IdentityMatrix()
	}
	return preset()
}

// Render implements imglykit.Operation.
func (f *Filter) Render(ctx context.Context, backend imglykit.Backend) error {
	return applyMatrix(ctx, backend, f.Matrix())
}
