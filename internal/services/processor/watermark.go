package processor

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/phambaophuc/image-gen/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// addWatermark adds text watermark to the image
func (p *ImageProcessor) addWatermark(img image.Image, req *models.WatermarkRequest) image.Image {
	if req.Text == "" {
		return img
	}

	bounds := img.Bounds()
	watermarked := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(watermarked, watermarked.Bounds(), img, bounds.Min, draw.Src)

	p.drawTextWatermark(watermarked, req)
	return watermarked
}

func (p *ImageProcessor) drawTextWatermark(img *image.RGBA, req *models.WatermarkRequest) {
	bounds := img.Bounds()
	face := basicfont.Face7x13

	d := &font.Drawer{Dst: img, Face: face}
	textWidth := d.MeasureString(req.Text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()

	right := max(0, bounds.Dx()-textWidth-WatermarkPadding)
	bottom := max(ascent, bounds.Dy()-WatermarkPadding)

	positions := map[string]struct{ x, y int }{
		"top-left":     {WatermarkPadding, WatermarkPadding + ascent},
		"top-right":    {right, WatermarkPadding + ascent},
		"bottom-left":  {WatermarkPadding, bottom},
		"bottom-right": {right, bottom},
		"center":       {max(0, (bounds.Dx()-textWidth)/2), (bounds.Dy() + ascent) / 2},
	}

	pos, exists := positions[req.Position]
	if !exists {
		pos = positions["bottom-right"]
	}

	opacity := req.Opacity
	if opacity == 0 {
		opacity = DefaultOpacity
	}
	opacity = min(1.0, max(0.0, opacity))

	d.Src = image.NewUniform(color.NRGBA{255, 255, 255, uint8(255 * opacity)})
	d.Dot = fixed.Point26_6{X: fixed.I(pos.x), Y: fixed.I(pos.y)}
	d.DrawString(req.Text)
}
