package imglykit

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	// Automatic backend selection
//	r, err := imglykit.NewRenderer(img, stack, "1280x")
//
//	// Restrict selection to the software backend
//	r, err := imglykit.NewRenderer(img, stack, "1280x",
//	    imglykit.WithPreference(imglykit.PreferSoftware))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	preference Preference
	backend    Backend
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		preference: PreferAuto,
		backend:    nil, // selected from the registry when nil
	}
}

// WithPreference narrows backend selection. PreferSoftware skips the GPU
// variant even when the host supports it.
func WithPreference(p Preference) RendererOption {
	return func(o *rendererOptions) {
		o.preference = p
	}
}

// WithBackend injects a pre-built backend, bypassing selection entirely.
// Use this for dependency injection of custom or fake backends.
//
// Example:
//
//	fake := newRecordingBackend()
//	r, err := imglykit.NewRenderer(img, stack, "", imglykit.WithBackend(fake))
//
// The Renderer takes ownership: Close releases the injected backend too.
func WithBackend(b Backend) RendererOption {
	return func(o *rendererOptions) {
		o.backend = b
	}
}
