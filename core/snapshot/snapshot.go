package snapshot

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/vector"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/scope"
)

const lineWidth = 1.0

var backgroundColor = color.RGBA{0, 0, 0, 255}

// Write the given frame as PNG image with the given size.
func Write(w io.Writer, frame core.Frame, width, height int) error {
	img, err := Rasterize(frame, width, height)
	if err != nil {
		return err
	}
	return errors.Wrap(png.Encode(w, img), "cannot encode PNG")
}

// Rasterize the given frame into a new image with the given size.
func Rasterize(frame core.Frame, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid image size %dx%d", width, height)
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	r := &rasterizer{
		canvas: canvas,
		z:      vector.NewRasterizer(width, height),
		width:  float32(width),
		height: float32(height),
	}

	for _, loop := range frame.Loops {
		r.polyline(loop.Points, loop.Color, len(loop.Points) > 2)
	}
	for _, strip := range frame.Strips {
		r.polyline(strip.Points, strip.Color, false)
	}
	r.scale(frame.Scale)

	return canvas, nil
}

type rasterizer struct {
	canvas *image.RGBA
	z      *vector.Rasterizer
	width  float32
	height float32
}

func (r *rasterizer) toX(x core.Frct) float32 {
	return float32(x) * r.width
}

func (r *rasterizer) toY(y core.Frct) float32 {
	return r.height - float32(y)*r.height
}

func (r *rasterizer) polyline(points []core.FPoint, c core.Color, closed bool) {
	if len(points) < 2 {
		return
	}
	r.z.Reset(r.canvas.Bounds().Dx(), r.canvas.Bounds().Dy())
	for i := 1; i < len(points); i++ {
		r.segment(points[i-1], points[i])
	}
	if closed {
		r.segment(points[len(points)-1], points[0])
	}
	r.z.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(toNRGBA(c)), image.Point{})
}

// segment adds a line from a to b as a quad of lineWidth.
func (r *rasterizer) segment(a, b core.FPoint) {
	x0, y0 := r.toX(a.X), r.toY(a.Y)
	x1, y1 := r.toX(b.X), r.toY(b.Y)
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	var nx, ny float32
	if length == 0 {
		nx, ny = lineWidth/2, 0
		dx, dy = 0, lineWidth/2
		x0, y0 = x0-dx, y0-dy
		x1, y1 = x1+dx, y1+dy
	} else {
		nx, ny = -dy/length*lineWidth/2, dx/length*lineWidth/2
	}

	r.z.MoveTo(x0+nx, y0+ny)
	r.z.LineTo(x1+nx, y1+ny)
	r.z.LineTo(x1-nx, y1-ny)
	r.z.LineTo(x0-nx, y0-ny)
	r.z.ClosePath()
}

func (r *rasterizer) scale(label core.ScaleLabel) {
	left := int(r.toX(label.Rect.Left))
	top := int(r.toY(label.Rect.Top()))
	width := int(r.toX(label.Rect.Width))
	height := int(float32(label.Rect.Height) * r.height)
	if width <= 0 || height <= 0 {
		return
	}

	bitmap := scope.RasterizeScale(label, width, height)
	target := image.Rect(left, top, left+width, top+height)
	draw.Draw(r.canvas, target, bitmap, image.Point{}, draw.Src)
}

func toNRGBA(c core.Color) color.NRGBA {
	return color.NRGBA{
		R: toUint8(c.R),
		G: toUint8(c.G),
		B: toUint8(c.B),
		A: toUint8(c.A),
	}
}

func toUint8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(v, 1)) * 255))
}
