// Package operation provides the built-in photo editing operations for
// imglykit render stacks.
//
// Color adjustments (Brightness, Contrast, Saturation, Filter) compile
// their settings into a single 4x5 color matrix and apply it through the
// backend's ColorMatrixApplier capability in one pass per operation.
// Geometric operations (Flip, Rotation, Crop), the convolutions (Blur,
// Sharpen) and the overlays (Text, Overlay) replace or modify the
// backend's working buffer through the PixmapTransformer capability.
//
// Operation settings are fixed at construction, so one operation value
// can be shared across render passes and validated concurrently.
package operation
