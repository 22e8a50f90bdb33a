package scope

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ftl/iqscope/core"
)

var (
	scaleBackgroundColor = color.RGBA{0, 0, 0, 255}
	scaleTextColor       = color.RGBA{0xf0, 0xf0, 0xff, 255}
)

const scaleTextPadding = 2

// MarkText returns the text of the given scale mark.
func MarkText(mark core.DBMark) string {
	return fmt.Sprintf("%.0f", float64(mark.DB))
}

// RasterizeScale draws the marks of the given scale label into a bitmap of the given size. The text is right aligned
// and vertically centered on the mark position. Marks that do not fit completely are left out.
func RasterizeScale(label core.ScaleLabel, width, height int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, max(0, width), max(0, height)))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{scaleBackgroundColor}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	for _, mark := range label.Marks {
		text := MarkText(mark)
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(scaleTextColor),
			Face: face,
		}
		textWidth := d.MeasureString(text).Ceil()
		x := width - textWidth - scaleTextPadding
		y := height - int(float64(mark.Y)*float64(height)) + ascent/2
		if x < 0 || y-ascent < 0 || y > height {
			continue
		}

		d.Dot = fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		}
		d.DrawString(text)
	}

	return canvas
}
