// Package filter implements convolution filters over pixmaps.
//
// Gaussian runs a separable two-pass blur: rows are convolved with a 1D
// kernel into a float buffer, then columns are convolved back into the
// pixmap. The separable form costs O(w*h*(rx+ry)) instead of the
// O(w*h*rx*ry) of a full 2D kernel. UnsharpMask builds on the same pass
// to sharpen: it amplifies the difference between the image and its
// blurred copy.
//
// Kernels for repeated radii come from an LRU cache; intermediate float
// buffers are pooled.
package filter
