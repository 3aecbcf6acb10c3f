package imglykit

import "context"

// Operation is a single image-transformation step. Implementations carry
// their own settings, validate them independently of any backend, and
// apply themselves to the shared backend during the render phase.
//
// All operations of a stack receive the same Backend concurrently during
// the render phase, and relative order between them is unspecified. The
// pipeline provides no locking; operations must confine their work to
// disjoint backend state. The capability methods backends provide
// (ApplyColorMatrix, TransformPixmap) serialize internally, so a single
// capability call is applied atomically.
type Operation interface {
	// Name identifies the operation in errors and logs.
	Name() string

	// ValidateSettings checks the operation's settings without touching
	// any backend. A validation failure aborts the whole render pass
	// before any operation renders.
	ValidateSettings() error

	// Render applies the operation to the backend.
	Render(ctx context.Context, b Backend) error
}
