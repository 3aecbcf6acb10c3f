package imglykit

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// Preference narrows which backend variants selection may consider.
type Preference int

const (
	// PreferAuto selects the GPU variant when it is available and falls
	// back to software otherwise.
	PreferAuto Preference = iota

	// PreferSoftware restricts selection to the software variant.
	PreferSoftware
)

// String returns the preference name used in logs and CLI flags.
func (p Preference) String() string {
	if p == PreferSoftware {
		return "software"
	}
	return "auto"
}

// ParsePreference parses a preference name. An empty string means
// PreferAuto.
func ParsePreference(s string) (Preference, error) {
	switch s {
	case "", "auto":
		return PreferAuto, nil
	case "software":
		return PreferSoftware, nil
	default:
		return PreferAuto, fmt.Errorf("imglykit: unknown backend preference %q", s)
	}
}

// Backend is a rendering backend: the concrete drawing engine that holds
// the pixel state of one pipeline and performs the fixed operation
// protocol. A Renderer owns exactly one Backend and is the only component
// that invokes the mutating protocol steps. Operations receive the shared
// Backend during the render phase and must confine themselves to disjoint
// state; the pipeline provides no locking.
type Backend interface {
	// Name identifies the backend variant, BackendGPU or BackendSoftware.
	Name() string

	// DrawImage seeds the backend with the original source pixels.
	// Called exactly once per pipeline, before any operation runs.
	DrawImage(ctx context.Context, img image.Image) error

	// RenderFinal commits all accumulated operation effects into the
	// definitive output buffer. Called once per render pass, after every
	// operation has completed.
	RenderFinal(ctx context.Context) error

	// GetSize reports the current pixel size of the committed output.
	GetSize() Vector2

	// ResizeTo scales the committed output to the given size.
	ResizeTo(ctx context.Context, size Vector2) error

	// Output returns a snapshot of the committed output buffer, or nil
	// before the first RenderFinal.
	Output() *Pixmap

	// Close releases backend resources. Idempotent.
	Close() error
}

// PixmapTransformer is implemented by backends whose working buffer can
// be replaced wholesale. Geometry operations (flip, rotation, crop, text
// overlay) submit a transform that receives the current buffer and
// returns its replacement.
type PixmapTransformer interface {
	TransformPixmap(ctx context.Context, transform func(*Pixmap) (*Pixmap, error)) error
}

// ColorMatrixApplier is implemented by backends that can apply a 4x5
// color matrix to the working buffer in one pass. Point operations
// (brightness, contrast, saturation, filters) prefer this path; the GPU
// variant dispatches it as a compute kernel.
type ColorMatrixApplier interface {
	ApplyColorMatrix(ctx context.Context, m ColorMatrix) error
}

// Backend variant names.
const (
	BackendGPU      = "gpu"
	BackendSoftware = "software"
)

// backendPriority lists variants in selection order. Selection walks this
// list and picks the first registered variant whose probe passes.
var backendPriority = []string{BackendGPU, BackendSoftware}

// Factory creates instances of one backend variant and probes whether the
// variant can run on this host.
type Factory struct {
	// New creates a fresh, unseeded backend instance.
	New func() (Backend, error)

	// Supported reports whether the variant can run in the current
	// environment. Queried at selection time only.
	Supported func() bool
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]Factory)
)

// RegisterBackend registers a backend variant under the given name,
// replacing any previous registration. The software variant registers
// itself when this package is imported; the GPU variant registers itself
// when its package is imported:
//
//	import _ "github.com/refarde/imglykit/gpu"
func RegisterBackend(name string, f Factory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = f
}

// UnregisterBackend removes a backend variant. Primarily useful in tests
// that simulate hosts where a variant is missing.
func UnregisterBackend(name string) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	delete(backends, name)
}

// RegisteredBackends returns the registered variant names in selection
// priority order, followed by any variants outside the priority list.
func RegisteredBackends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for _, name := range backendPriority {
		if _, ok := backends[name]; ok {
			names = append(names, name)
		}
	}
	for name := range backends {
		if !inPriority(name) {
			names = append(names, name)
		}
	}
	return names
}

// BackendSupported reports whether the named variant is registered and
// its capability probe passes.
func BackendSupported(name string) bool {
	backendsMu.RLock()
	f, ok := backends[name]
	backendsMu.RUnlock()
	return ok && f.Supported != nil && f.Supported()
}

func inPriority(name string) bool {
	for _, p := range backendPriority {
		if p == name {
			return true
		}
	}
	return false
}

// selectBackend chooses the backend for a new pipeline: the GPU variant
// when registered, supported, and not excluded by the preference, else
// the software variant when supported. The probe decides; once a variant
// is chosen, an instantiation error is final (no further variant is
// attempted). Returns ErrNoBackendAvailable when no variant's probe
// passes.
func selectBackend(pref Preference) (Backend, error) {
	backendsMu.RLock()
	candidates := make([]Factory, 0, len(backendPriority))
	names := make([]string, 0, len(backendPriority))
	for _, name := range backendPriority {
		if pref == PreferSoftware && name != BackendSoftware {
			continue
		}
		if f, ok := backends[name]; ok {
			candidates = append(candidates, f)
			names = append(names, name)
		}
	}
	backendsMu.RUnlock()

	for i, f := range candidates {
		if f.Supported == nil || !f.Supported() {
			continue
		}
		b, err := f.New()
		if err != nil {
			return nil, fmt.Errorf("imglykit: create %s backend: %w", names[i], err)
		}
		return b, nil
	}
	return nil, ErrNoBackendAvailable
}
