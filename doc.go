// Package imglykit renders photo editing operation stacks to pixel
// buffers.
//
// # Overview
//
// imglykit takes a source image, an ordered stack of operations (filters,
// color adjustments, geometric transforms, convolutions, text and image
// overlays) and a target dimensions specification, and produces the
// final rendered image. It
// selects a GPU rendering backend when one is usable and falls back to a
// pure Go software backend otherwise.
//
// # Quick Start
//
//	import (
//		"context"
//
//		"github.com/refarde/imglykit"
//		"github.com/refarde/imglykit/operation"
//	)
//
//	// Build the pipeline: source image, operation stack, target size.
//	r, err := imglykit.NewRenderer(img, []imglykit.Operation{
//		operation.NewBrightness(0.1),
//		operation.NewContrast(1.2),
//	}, "1200x")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	if err := r.Render(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//	out := r.Output() // *imglykit.Pixmap
//
// # Dimensions
//
// The target size is a small specification string: "800x600" scales to
// fit inside the box keeping the aspect ratio, "800x" and "x600" scale by
// a single axis, a trailing "!" ("800x600!") sets the given axes exactly,
// and "" keeps the rendered size.
//
// # Backends
//
// The software backend is always available and registers itself when this
// package is imported. The GPU backend registers itself when its package
// is imported:
//
//	import _ "github.com/refarde/imglykit/gpu"
//
// Selection prefers the GPU unless WithPreference(PreferSoftware) rules
// it out or the host lacks a usable device.
//
// # Render protocol
//
// A render pass validates every operation, applies every operation
// against the shared backend, commits the composite exactly once, and
// then resizes it to the resolved target. Validation and rendering run
// the operations concurrently; order between operations within a phase is
// unspecified.
package imglykit

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
