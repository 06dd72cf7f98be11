package editor

import (
	"fmt"
	"strings"
)

// AnchorPosition is one of the 9 named placement points used by both the
// text overlay and single watermark placement.
type AnchorPosition string

const (
	AnchorTopLeft     AnchorPosition = "top-left"
	AnchorTop         AnchorPosition = "top"
	AnchorTopRight    AnchorPosition = "top-right"
	AnchorLeft        AnchorPosition = "left"
	AnchorCenter      AnchorPosition = "center"
	AnchorRight       AnchorPosition = "right"
	AnchorBottomLeft  AnchorPosition = "bottom-left"
	AnchorBottom      AnchorPosition = "bottom"
	AnchorBottomRight AnchorPosition = "bottom-right"
)

// IsValidAnchor reports whether pos is one of the 9 known anchor points.
func IsValidAnchor(pos AnchorPosition) bool {
	switch pos {
	case AnchorTopLeft, AnchorTop, AnchorTopRight,
		AnchorLeft, AnchorCenter, AnchorRight,
		AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
		return true
	default:
		return false
	}
}

// WatermarkType selects what kind of watermark element is composited.
type WatermarkType string

const (
	WatermarkNone  WatermarkType = "none"
	WatermarkText  WatermarkType = "text"
	WatermarkImage WatermarkType = "image"
)

// RepeatMode selects between a single anchored watermark and a tiled pattern.
type RepeatMode string

const (
	RepeatSingle RepeatMode = "single"
	RepeatTiled  RepeatMode = "tiled"
)

// TilePattern selects the layout of a tiled watermark.
type TilePattern string

const (
	PatternGrid       TilePattern = "grid"
	PatternDiagonal   TilePattern = "diagonal"
	PatternHorizontal TilePattern = "horizontal"
	PatternVertical   TilePattern = "vertical"
)

// CropOffset is the pan offset within the zoomed crop view. Units are
// whatever the crop controller reports; the engine never interprets them.
type CropOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VignetteSpec controls the radial darkening overlay.
type VignetteSpec struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // [0,1]
}

// WatermarkSpec holds the full watermark configuration. ImageRef is an opaque
// handle into the session's uploaded watermark registry and is only
// meaningful when Type == WatermarkImage.
type WatermarkSpec struct {
	Type        WatermarkType  `json:"type"`
	Text        string         `json:"text"`
	Opacity     float64        `json:"opacity"` // [0,1]
	Position    AnchorPosition `json:"position"`
	Scale       float64        `json:"scale"` // fraction of canvas width
	Repeat      RepeatMode     `json:"repeat"`
	Pattern     TilePattern    `json:"pattern"`
	SpacingH    float64        `json:"spacing_h"` // px
	SpacingV    float64        `json:"spacing_v"` // px
	RotationDeg float64        `json:"rotation_deg"`
	ImageRef    string         `json:"image_ref,omitempty"`
}

// TextOverlaySpec holds the text overlay configuration.
type TextOverlaySpec struct {
	Enabled  bool           `json:"enabled"`
	Text     string         `json:"text"`
	Font     string         `json:"font"`
	SizePx   float64        `json:"size_px"`
	ColorHex string         `json:"color_hex"`
	Position AnchorPosition `json:"position"`
	Shadow   bool           `json:"shadow"`
}

// EditState is the snapshot unit for undo/redo: the current value of every
// adjustable parameter plus the working image handle. It is a value type and
// must be deep-copied (Clone) before being pushed onto history.
type EditState struct {
	Crop     CropOffset `json:"crop"`
	Zoom     float64    `json:"zoom"`
	Rotation int        `json:"rotation"` // degrees, any value
	Aspect   *float64   `json:"aspect"`   // nil = freeform

	FlipHorizontal bool `json:"flip_horizontal"`
	FlipVertical   bool `json:"flip_vertical"`

	ActiveFilter string  `json:"active_filter"`
	Brightness   float64 `json:"brightness"` // multiplicative, 1.0 neutral
	Contrast     float64 `json:"contrast"`
	Saturation   float64 `json:"saturation"`
	Temperature  float64 `json:"temperature"` // [-100,100], 0 neutral
	Blur         float64 `json:"blur"`        // px, >= 0

	Vignette    VignetteSpec    `json:"vignette"`
	Watermark   WatermarkSpec   `json:"watermark"`
	TextOverlay TextOverlaySpec `json:"text_overlay"`

	// WorkingImageRef identifies the current flattened raster; empty means
	// the original source image.
	WorkingImageRef string `json:"working_image_ref,omitempty"`
}

const (
	DefaultWatermarkText = "© photoedit"
	DefaultOverlayFont   = "DejaVuSans"

	minWatermarkScale = 0.05
	maxWatermarkScale = 1.0
	minTileSpacing    = 20.0
)

// DefaultEditState returns the documented neutral defaults for a fresh
// editing session.
func DefaultEditState() EditState {
	return EditState{
		Crop:         CropOffset{X: 0, Y: 0},
		Zoom:         1,
		Rotation:     0,
		Aspect:       nil,
		ActiveFilter: FilterNormal,
		Brightness:   1,
		Contrast:     1,
		Saturation:   1,
		Temperature:  0,
		Blur:         0,
		Vignette:     VignetteSpec{Enabled: false, Intensity: 0.5},
		Watermark: WatermarkSpec{
			Type:     WatermarkNone,
			Text:     DefaultWatermarkText,
			Opacity:  0.5,
			Position: AnchorBottomRight,
			Scale:    0.2,
			Repeat:   RepeatSingle,
			Pattern:  PatternGrid,
			SpacingH: 100,
			SpacingV: 100,
		},
		TextOverlay: TextOverlaySpec{
			Enabled:  false,
			Font:     DefaultOverlayFont,
			SizePx:   48,
			ColorHex: "#ffffff",
			Position: AnchorCenter,
		},
	}
}

// Clone returns a deep copy of the state. Sub-records are plain values; the
// only pointer field is Aspect.
func (s EditState) Clone() EditState {
	dup := s
	if s.Aspect != nil {
		a := *s.Aspect
		dup.Aspect = &a
	}
	return dup
}

// ResetGeometry restores the transient geometry fields to their neutral
// defaults. Called after a crop has been baked into the working image.
func (s *EditState) ResetGeometry() {
	s.Crop = CropOffset{}
	s.Zoom = 1
	s.Rotation = 0
	s.Aspect = nil
	s.FlipHorizontal = false
	s.FlipVertical = false
}

// FilterExpression combines the active preset with the slider adjustments
// into a single composable filter-function string for the engine.
func (s EditState) FilterExpression() string {
	parts := make([]string, 0, 6)
	if expr := PresetExpression(s.ActiveFilter); expr != "" {
		parts = append(parts, expr)
	}
	if s.Brightness != 1 {
		parts = append(parts, fmt.Sprintf("brightness(%.3f)", s.Brightness))
	}
	if s.Contrast != 1 {
		parts = append(parts, fmt.Sprintf("contrast(%.3f)", s.Contrast))
	}
	if s.Saturation != 1 {
		parts = append(parts, fmt.Sprintf("saturate(%.3f)", s.Saturation))
	}
	if s.Temperature != 0 {
		// warm temperatures shift hue toward red, cool toward blue
		parts = append(parts, fmt.Sprintf("hue-rotate(%.1fdeg)", -0.3*s.Temperature))
	}
	if s.Blur > 0 {
		parts = append(parts, fmt.Sprintf("blur(%.2fpx)", s.Blur))
	}
	return strings.Join(parts, " ")
}
