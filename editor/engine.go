package editor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
)

const (
	// OutputMimeType is the media type of every rendered blob.
	OutputMimeType = "image/jpeg"
	// OutputExtension is the fixed extension appended to derived filenames.
	OutputExtension = ".jpg"
)

// WatermarkRender pairs the watermark configuration with the resolved custom
// image raster. The session resolves the opaque ImageRef before invoking the
// engine; the engine never sees the handle registry.
type WatermarkRender struct {
	WatermarkSpec
	Image image.Image
}

// RenderParams is the full parameter set for one compositing pass. Nil
// optional specs mean the corresponding stage is skipped entirely.
type RenderParams struct {
	Crop        *CropRegion
	RotationDeg float64
	FlipH       bool
	FlipV       bool
	FilterExpr  string
	Vignette    *VignetteSpec
	TextOverlay *TextOverlaySpec
	Watermark   *WatermarkRender
}

// RenderResult is the encoded output artifact.
type RenderResult struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
}

// Engine is the compositing engine. It is stateless apart from the shared
// font cache and safe for concurrent use.
type Engine struct {
	fonts *FontCache
}

// NewEngine creates an engine drawing text through the given font cache.
func NewEngine(fonts *FontCache) *Engine {
	if fonts == nil {
		fonts = NewFontCache("")
	}
	return &Engine{fonts: fonts}
}

// Decode reads and decodes a source image, honoring EXIF orientation.
// Failures are reported as ErrDecode.
func (e *Engine) Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}

// Compose runs the full pipeline over src and returns the final raster:
// filter, flip, rotation (expanding to the rotated bounding box), crop, then
// the vignette, text overlay and watermark stages in that fixed order.
func (e *Engine) Compose(src image.Image, p RenderParams) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrDecode)
	}

	img, err := ApplyFilterExpression(src, p.FilterExpr)
	if err != nil {
		return nil, fmt.Errorf("filter stage failed: %w", err)
	}

	// flipping first then rotating the flipped pixels is equivalent to the
	// center-rotate-then-flip transform order, since both are about center
	if p.FlipH {
		img = imaging.FlipH(img)
	}
	if p.FlipV {
		img = imaging.FlipV(img)
	}

	if rot := NormalizeRotation(p.RotationDeg); rot != 0 {
		// imaging rotates counter-clockwise, screen-space rotation is
		// clockwise; the result canvas is the rotated bounding box
		img = imaging.Rotate(img, -rot, color.NRGBA{})
	}

	if p.Crop != nil {
		rect, ok := p.Crop.Rect(img.Bounds())
		if !ok {
			return nil, fmt.Errorf("%w: crop %+v outside canvas %v", ErrMissingCropRegion, *p.Crop, img.Bounds())
		}
		img = imaging.Crop(img, rect)
	}

	if !e.hasOverlayStages(p) {
		return img, nil
	}

	dc := gg.NewContextForImage(img)
	if p.Vignette != nil && p.Vignette.Enabled {
		e.drawVignette(dc, p.Vignette)
	}
	if p.TextOverlay != nil && p.TextOverlay.Enabled && strings.TrimSpace(p.TextOverlay.Text) != "" {
		e.drawTextOverlay(dc, p.TextOverlay)
	}
	if p.Watermark != nil && p.Watermark.Type != WatermarkNone {
		e.drawWatermark(dc, p.Watermark)
	}
	return imaging.Clone(dc.Image()), nil
}

func (e *Engine) hasOverlayStages(p RenderParams) bool {
	if p.Vignette != nil && p.Vignette.Enabled {
		return true
	}
	if p.TextOverlay != nil && p.TextOverlay.Enabled && strings.TrimSpace(p.TextOverlay.Text) != "" {
		return true
	}
	return p.Watermark != nil && p.Watermark.Type != WatermarkNone
}

// drawVignette paints a radial gradient centered on the canvas: transparent
// through 30% of the radius, opaque black scaled by intensity at the rim.
func (e *Engine) drawVignette(dc *gg.Context, spec *VignetteSpec) {
	w := float64(dc.Width())
	h := float64(dc.Height())
	radius := math.Max(w, h) * 0.7
	intensity := clamp01(spec.Intensity)

	grad := gg.NewRadialGradientBrush(w/2, h/2, 0, radius)
	grad.AddColorStop(0.3, gg.RGBA2(0, 0, 0, 0))
	grad.AddColorStop(1, gg.RGBA2(0, 0, 0, intensity))

	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

// drawTextOverlay draws the overlay text at its anchor with optional shadow.
func (e *Engine) drawTextOverlay(dc *gg.Context, spec *TextOverlaySpec) {
	sizePx := spec.SizePx
	if sizePx <= 0 {
		sizePx = 48
	}
	// overlay text always draws bold, falling back to the regular weight
	face := e.fonts.BoldFace(spec.Font, sizePx)
	if face == nil {
		log.Printf("editor: text overlay skipped, no font for %q", spec.Font)
		return
	}
	dc.SetFont(face)

	w := float64(dc.Width())
	h := float64(dc.Height())
	pad := anchorPadFraction * w
	ax, ay := anchorFractions(spec.Position)

	// DrawStringAnchored treats y as baseline and shifts by line height, so
	// the row fractions map straight onto the padded anchor rows
	x := pad + ax*(w-2*pad)
	y := pad + ay*(h-2*pad)
	drawAy := 1 - ay // top row hangs below the pad, bottom row sits above it

	if spec.Shadow {
		offset := sizePx * 0.05
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawStringAnchored(spec.Text, x+offset, y+offset, ax, drawAy)
	}

	colorHex := spec.ColorHex
	if colorHex == "" {
		colorHex = "#ffffff"
	}
	dc.SetHexColor(colorHex)
	dc.DrawStringAnchored(spec.Text, x, y, ax, drawAy)
}

// Encode produces the compressed output blob at the given quality preset.
func (e *Engine) Encode(img image.Image, quality QualityPreset) ([]byte, error) {
	var buf bytes.Buffer
	err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality.JPEGQuality()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: encoder produced an empty blob", ErrEncode)
	}
	return buf.Bytes(), nil
}

// Render composes and encodes in one step.
func (e *Engine) Render(src image.Image, p RenderParams, quality QualityPreset) (*RenderResult, error) {
	img, err := e.Compose(src, p)
	if err != nil {
		return nil, err
	}
	data, err := e.Encode(img, quality)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &RenderResult{
		Data:     data,
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: OutputMimeType,
	}, nil
}
