package editor

import "math"

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RotatedBoundingBox returns the axis-aligned bounding box of a width x height
// rectangle after rotating it by rotationDeg about its center.
func RotatedBoundingBox(width, height, rotationDeg float64) (float64, float64) {
	theta := DegreesToRadians(rotationDeg)
	cos := math.Abs(math.Cos(theta))
	sin := math.Abs(math.Sin(theta))
	return cos*width + sin*height, sin*width + cos*height
}

// NormalizeRotation maps an arbitrary rotation in degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360.0)
	if r < 0 {
		r += 360.0
	}
	return r
}
