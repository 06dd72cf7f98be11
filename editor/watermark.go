package editor

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
)

// anchorPadFraction is the fixed edge padding used by both the text overlay
// and single watermark placement, as a fraction of canvas width.
const anchorPadFraction = 0.05

// anchorFractions maps an anchor position to (ax, ay) placement fractions:
// 0 = leading edge, 0.5 = center, 1 = trailing edge.
func anchorFractions(pos AnchorPosition) (float64, float64) {
	switch pos {
	case AnchorTopLeft:
		return 0, 0
	case AnchorTop:
		return 0.5, 0
	case AnchorTopRight:
		return 1, 0
	case AnchorLeft:
		return 0, 0.5
	case AnchorRight:
		return 1, 0.5
	case AnchorBottomLeft:
		return 0, 1
	case AnchorBottom:
		return 0.5, 1
	case AnchorBottomRight:
		return 1, 1
	default: // center, or anything unrecognized
		return 0.5, 0.5
	}
}

// anchorTopLeft returns the top-left coordinate that places an element of
// size ew x eh at the named anchor on a w x h canvas, padded from the edges.
func anchorTopLeft(w, h, ew, eh float64, pos AnchorPosition) (float64, float64) {
	pad := anchorPadFraction * w
	ax, ay := anchorFractions(pos)
	x := pad + ax*(w-2*pad-ew)
	y := pad + ay*(h-2*pad-eh)
	return x, y
}

// watermarkElement rasterizes the watermark element once, sized relative to
// the canvas width. Returns nil when there is nothing drawable.
func (e *Engine) watermarkElement(canvasWidth int, spec *WatermarkRender) *image.NRGBA {
	scale := spec.Scale
	if scale < minWatermarkScale {
		scale = minWatermarkScale
	}
	if scale > maxWatermarkScale {
		scale = maxWatermarkScale
	}

	switch spec.Type {
	case WatermarkImage:
		if spec.Image == nil {
			log.Printf("editor: image watermark requested without an uploaded image, skipping")
			return nil
		}
		targetW := int(math.Round(float64(canvasWidth) * scale))
		if targetW < 1 {
			targetW = 1
		}
		// height 0 preserves the watermark's own aspect ratio
		return imaging.Resize(spec.Image, targetW, 0, imaging.Lanczos)
	case WatermarkText:
		text := spec.Text
		if text == "" {
			text = DefaultWatermarkText
		}
		sizePx := float64(canvasWidth) * scale * 0.5
		return e.renderBrandText(text, sizePx)
	default:
		return nil
	}
}

// renderBrandText draws the brand text filled with a vertical gradient into
// its own raster so single and tiled placement share one code path.
func (e *Engine) renderBrandText(text string, sizePx float64) *image.NRGBA {
	face := e.fonts.Face(DefaultOverlayFont, sizePx)
	if face == nil {
		return nil
	}

	measure := gg.NewContext(1, 1)
	measure.SetFont(face)
	tw, th := measure.MeasureString(text)
	w := int(math.Ceil(tw)) + 4
	h := int(math.Ceil(th)) + 4
	if w < 1 || h < 1 {
		return nil
	}

	// render the glyphs solid, then use their coverage to mask a gradient
	stencil := gg.NewContext(w, h)
	stencil.SetFont(face)
	stencil.SetRGB(1, 1, 1)
	stencil.DrawStringAnchored(text, float64(w)/2, float64(h)/2, 0.5, 0.35)

	mask := gg.NewMaskFromAlpha(stencil.Image())

	grad := gg.NewLinearGradientBrush(0, 0, 0, float64(h))
	grad.AddColorStop(0, gg.RGBA2(1, 1, 1, 1))
	grad.AddColorStop(1, gg.RGBA2(0.78, 0.78, 0.78, 1))

	dc := gg.NewContext(w, h)
	dc.SetMask(mask)
	dc.SetFillBrush(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	return imaging.Clone(dc.Image())
}

// drawWatermark composites the configured watermark over the canvas. The
// opacity is applied per element draw; a zero opacity draws nothing.
func (e *Engine) drawWatermark(dc *gg.Context, spec *WatermarkRender) {
	if spec == nil || spec.Type == WatermarkNone {
		return
	}
	opacity := clamp01(spec.Opacity)
	if opacity == 0 {
		return
	}
	element := e.watermarkElement(dc.Width(), spec)
	if element == nil {
		return
	}

	if spec.Repeat == RepeatTiled {
		e.drawTiledWatermark(dc, element, spec, opacity)
		return
	}

	eb := element.Bounds()
	x, y := anchorTopLeft(float64(dc.Width()), float64(dc.Height()), float64(eb.Dx()), float64(eb.Dy()), spec.Position)
	dc.DrawImageEx(gg.ImageBufFromImage(element), gg.DrawImageOptions{
		X:             x,
		Y:             y,
		Interpolation: gg.InterpBilinear,
		Opacity:       opacity,
		BlendMode:     gg.BlendNormal,
	})
}

// drawTiledWatermark lays element out on a lattice stepped by element size
// plus spacing. For rotated patterns the lattice is computed in pattern
// space over an expanded range and each cell center is mapped back through
// the rotation about the canvas center, so coverage of the crop bounds holds
// at any rotation.
func (e *Engine) drawTiledWatermark(dc *gg.Context, element *image.NRGBA, spec *WatermarkRender, opacity float64) {
	w := float64(dc.Width())
	h := float64(dc.Height())

	angle := 0.0
	switch spec.Pattern {
	case PatternDiagonal:
		angle = spec.RotationDeg
	case PatternVertical:
		angle = 90
	}

	stamp := element
	if angle != 0 {
		// imaging rotates counter-clockwise; canvas rotation is clockwise
		stamp = imaging.Rotate(element, -angle, color.NRGBA{})
	}
	sb := stamp.Bounds()
	sw := float64(sb.Dx())
	sh := float64(sb.Dy())
	buf := gg.ImageBufFromImage(stamp)

	eb := element.Bounds()
	stepX := float64(eb.Dx()) + math.Max(spec.SpacingH, minTileSpacing)
	stepY := float64(eb.Dy()) + math.Max(spec.SpacingV, minTileSpacing)

	startX, startY := 0.0, 0.0
	endX, endY := w, h
	if angle != 0 {
		maxDim := math.Max(w, h)
		startX, startY = -maxDim, -maxDim
		endX, endY = 2*maxDim, 2*maxDim
	}

	theta := DegreesToRadians(angle)
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	cx := w / 2
	cy := h / 2

	for y := startY; y <= endY; y += stepY {
		for x := startX; x <= endX; x += stepX {
			px, py := x, y
			if angle != 0 {
				dx := x - cx
				dy := y - cy
				px = cx + dx*cos - dy*sin
				py = cy + dx*sin + dy*cos
			}
			left := px - sw/2
			top := py - sh/2
			if left+sw < 0 || top+sh < 0 || left > w || top > h {
				continue
			}
			dc.DrawImageEx(buf, gg.DrawImageOptions{
				X:             left,
				Y:             top,
				Interpolation: gg.InterpBilinear,
				Opacity:       opacity,
				BlendMode:     gg.BlendNormal,
			})
		}
	}
}
