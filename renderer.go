package imglykit

import (
	"context"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Renderer drives a render pipeline: it owns one rendering backend,
// filters the caller's operation stack, runs the validate and render
// phases over it, finalizes the composite and resizes it to the target
// dimensions.
//
// A Renderer is constructed render-ready: backend selection and the
// initial source draw happen in NewRenderer. Render may be called more
// than once; passes are not idempotent, because each pass re-applies the
// stack to the backend state left by the previous one.
type Renderer struct {
	image      image.Image
	stack      []Operation
	dimensions string
	backend    Backend
	usesGPU    bool
	initial    Vector2

	mu     sync.Mutex
	closed bool
}

// NewRenderer creates a render pipeline for the given source image,
// operation stack and target-dimensions specification.
//
// Construction selects the rendering backend once (the GPU variant is
// preferred unless the preference or the host rules it out) and
// immediately seeds it with the source image. The stack is caller-owned
// and may contain nil entries; they are filtered at render time. The
// dimensions specification is parsed lazily, during the resize phase of
// each render pass.
//
// Returns ErrNoBackendAvailable when no backend variant supports the
// current host.
func NewRenderer(img image.Image, stack []Operation, dimensions string, opts ...RendererOption) (*Renderer, error) {
	if img == nil {
		return nil, fmt.Errorf("imglykit: nil source image")
	}

	options := defaultRendererOptions()
	for _, opt := range opts {
		opt(&options)
	}

	backend := options.backend
	if backend == nil {
		var err error
		backend, err = selectBackend(options.preference)
		if err != nil {
			return nil, err
		}
	}

	bounds := img.Bounds()
	r := &Renderer{
		image:      img,
		stack:      stack,
		dimensions: dimensions,
		backend:    backend,
		usesGPU:    backend.Name() == BackendGPU,
		initial:    SizeOf(bounds.Dx(), bounds.Dy()),
	}

	Logger().Info("backend selected",
		"backend", backend.Name(),
		"width", bounds.Dx(),
		"height", bounds.Dy())

	if err := backend.DrawImage(context.Background(), img); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("imglykit: draw source image: %w", err)
	}
	return r, nil
}

// Render runs one render pass: validate every operation, apply every
// operation against the backend, commit the composite, then resize it to
// the resolved target dimensions.
//
// Phases are strictly sequential. Within the validate and render phases
// the operations run concurrently and every call is issued before the
// phase settles; a failure in any of them fails the pass once the phase
// has settled. Effects already applied to the backend are not rolled
// back. The resize step is elided when the resolved size equals the
// committed size.
func (r *Renderer) Render(ctx context.Context) error {
	ops := r.SanitizedStack()
	Logger().Debug("render pass started",
		"backend", r.backend.Name(),
		"operations", len(ops))

	// Validation phase. No operation renders unless every validation
	// passed.
	var validate errgroup.Group
	for _, op := range ops {
		validate.Go(func() error {
			if err := op.ValidateSettings(); err != nil {
				return &ValidationError{Op: op.Name(), Err: err}
			}
			return nil
		})
	}
	if err := validate.Wait(); err != nil {
		return err
	}

	// Render phase. All operations share the backend; order between them
	// is unspecified.
	var render errgroup.Group
	for _, op := range ops {
		render.Go(func() error {
			if err := op.Render(ctx, r.backend); err != nil {
				return &RenderError{Op: op.Name(), Err: err}
			}
			return nil
		})
	}
	if err := render.Wait(); err != nil {
		return err
	}

	if err := r.backend.RenderFinal(ctx); err != nil {
		return &FinalizeError{Err: err}
	}

	current := r.backend.GetSize()
	final, err := ResolveDimensions(r.dimensions, current)
	if err != nil {
		return err
	}
	if final.Equals(current) {
		Logger().Debug("resize elided", "width", int(current.X), "height", int(current.Y))
		return nil
	}
	if err := r.backend.ResizeTo(ctx, final); err != nil {
		return &ResizeError{Err: err}
	}
	return nil
}

// SanitizedStack returns the operation stack with nil entries removed,
// relative order preserved. It is derived fresh on every call, so stack
// mutations between render passes are reflected; the caller's slice is
// never modified.
func (r *Renderer) SanitizedStack() []Operation {
	out := make([]Operation, 0, len(r.stack))
	for _, op := range r.stack {
		if op != nil {
			out = append(out, op)
		}
	}
	return out
}

// Backend returns the selected backend. Callers may read from it (for
// example via Output) but must leave the mutating protocol to the
// Renderer.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// UsesGPU reports whether backend selection chose the GPU variant.
func (r *Renderer) UsesGPU() bool {
	return r.usesGPU
}

// InitialSize returns the source image size snapshotted at construction.
// It is never recomputed, even after resizing operations.
func (r *Renderer) InitialSize() Vector2 {
	return r.initial
}

// Output returns a snapshot of the backend's committed output, or nil
// before the first successful finalize.
func (r *Renderer) Output() *Pixmap {
	return r.backend.Output()
}

// Close releases the backend together with the pipeline. Idempotent.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.backend.Close()
}
