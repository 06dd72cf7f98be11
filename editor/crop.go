package editor

import "image"

// CropRegion is the transient output of the interactive crop controller, in
// pixel space relative to the rotated bounding-box canvas. It is not part of
// history; the engine consumes it at commit time.
type CropRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CropRegionPercent mirrors CropRegion in percentage terms for overlay
// positioning in the UI collaborator.
type CropRegionPercent struct {
	X      float64 `json:"x_pct"`
	Y      float64 `json:"y_pct"`
	Width  float64 `json:"width_pct"`
	Height float64 `json:"height_pct"`
}

// Rect converts the region to an image.Rectangle clamped to bounds. The
// second return is false when the clamped region is empty.
func (c CropRegion) Rect(bounds image.Rectangle) (image.Rectangle, bool) {
	r := image.Rect(int(c.X), int(c.Y), int(c.X+c.Width), int(c.Y+c.Height))
	r = r.Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}
