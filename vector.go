package imglykit

import "math"

// Vector2 is an immutable pair of numeric components. It serves both as a
// pixel size (X is width, Y is height) and as a 2D coordinate, which is how
// the rendering pipeline passes dimensions around.
type Vector2 struct {
	X, Y float64
}

// Vec is a convenience function to create a Vector2.
func Vec(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// SizeOf returns the pixel dimensions of w and h as a Vector2.
func SizeOf(w, h int) Vector2 {
	return Vector2{X: float64(w), Y: float64(h)}
}

// Equals reports whether both components are exactly equal.
func (v Vector2) Equals(w Vector2) bool {
	return v.X == w.X && v.Y == w.Y
}

// Add returns the component-wise sum of two vectors.
func (v Vector2) Add(w Vector2) Vector2 {
	return Vector2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector2) Sub(w Vector2) Vector2 {
	return Vector2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vector2) Mul(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// MulVec returns the component-wise product of two vectors. Relative
// coordinates convert to absolute pixel positions this way.
func (v Vector2) MulVec(w Vector2) Vector2 {
	return Vector2{X: v.X * w.X, Y: v.Y * w.Y}
}

// Div returns the vector divided by a scalar.
func (v Vector2) Div(s float64) Vector2 {
	return Vector2{X: v.X / s, Y: v.Y / s}
}

// Lerp performs linear interpolation between two vectors.
// t=0 returns v, t=1 returns w.
func (v Vector2) Lerp(w Vector2, t float64) Vector2 {
	return Vector2{
		X: v.X + (w.X-v.X)*t,
		Y: v.Y + (w.Y-v.Y)*t,
	}
}

// Round returns the vector with both components rounded to the nearest
// integer. Resolved output dimensions are whole pixels.
func (v Vector2) Round() Vector2 {
	return Vector2{X: math.Round(v.X), Y: math.Round(v.Y)}
}

// Floor returns the vector with both components rounded down.
func (v Vector2) Floor() Vector2 {
	return Vector2{X: math.Floor(v.X), Y: math.Floor(v.Y)}
}

// IsZero returns true if both components are zero.
func (v Vector2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
