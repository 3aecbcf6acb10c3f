//go:build nogpu

// The nogpu build tag strips the GPU backend. Importing this package is
// then a no-op and backend selection falls back to the software variant.
package gpu
