package imglykit

import (
	"errors"
	"fmt"
)

// Common errors returned by the rendering pipeline.
var (
	// ErrNoBackendAvailable is returned when neither the GPU nor the
	// software rendering backend reports itself supported on this host.
	// It is raised synchronously at construction and is unrecoverable.
	ErrNoBackendAvailable = errors.New("imglykit: neither GPU nor software rendering backend is available")

	// ErrInvalidDimensions is returned for a dimensions specification
	// that does not match the mini-language or names a zero dimension.
	ErrInvalidDimensions = errors.New("imglykit: invalid dimensions specification")

	// ErrNoSourceImage is returned by backend operations invoked before
	// the source image has been drawn.
	ErrNoSourceImage = errors.New("imglykit: backend has no source image")

	// ErrBackendClosed is returned by backend operations after Close.
	ErrBackendClosed = errors.New("imglykit: backend is closed")
)

// ValidationError reports that an operation rejected its own settings.
// The render call it belongs to fails before any backend rendering occurs.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("imglykit: validate %s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RenderError reports that an operation failed while applying itself to
// the backend. Effects already applied by other operations are not rolled
// back.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("imglykit: render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// FinalizeError reports that the backend failed to commit the composite.
type FinalizeError struct {
	Err error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("imglykit: finalize: %v", e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

// ResizeError reports that the backend failed to resize its output.
type ResizeError struct {
	Err error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("imglykit: resize: %v", e.Err)
}

func (e *ResizeError) Unwrap() error { return e.Err }
