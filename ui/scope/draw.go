package scope

import (
	"github.com/gotk3/gotk3/cairo"

	"github.com/ftl/iqscope/core"
	corescope "github.com/ftl/iqscope/core/scope"
)

var dim = struct {
	lineWidth     float64
	scaleFontSize float64
	scalePadding  float64
}{
	lineWidth:     1.0,
	scaleFontSize: 10.0,
	scalePadding:  2.0,
}

func fillBackground(cr *cairo.Context) {
	cr.Save()
	defer cr.Restore()

	cr.SetSourceRGB(0, 0, 0)
	cr.Paint()
}

func setColor(cr *cairo.Context, c core.Color) {
	cr.SetSourceRGBA(c.R, c.G, c.B, c.A)
}

func drawLoops(cr *cairo.Context, r rect, loops []core.LineLoop) {
	cr.Save()
	defer cr.Restore()

	cr.SetLineWidth(dim.lineWidth)
	for _, loop := range loops {
		if !polyline(cr, r, loop.Points) {
			continue
		}
		if len(loop.Points) > 2 {
			cr.ClosePath()
		}
		setColor(cr, loop.Color)
		cr.Stroke()
	}
}

func drawStrips(cr *cairo.Context, r rect, strips []core.LineStrip) {
	cr.Save()
	defer cr.Restore()

	cr.SetLineWidth(dim.lineWidth)
	cr.SetLineJoin(cairo.LINE_JOIN_ROUND)
	for _, strip := range strips {
		if !polyline(cr, r, strip.Points) {
			continue
		}
		setColor(cr, strip.Color)
		cr.Stroke()
	}
}

func polyline(cr *cairo.Context, r rect, points []core.FPoint) bool {
	if len(points) < 2 {
		return false
	}
	start := r.toPoint(points[0])
	cr.MoveTo(start.x, start.y)
	for _, p := range points[1:] {
		next := r.toPoint(p)
		cr.LineTo(next.x, next.y)
	}
	return true
}

func drawScale(cr *cairo.Context, r rect, scale core.ScaleLabel) {
	cr.Save()
	defer cr.Restore()

	scaleRect := rect{
		left:   r.toX(scale.Rect.Left),
		right:  r.toX(scale.Rect.Right()),
		top:    r.toY(scale.Rect.Top()),
		bottom: r.toY(scale.Rect.Bottom),
	}

	cr.SetFontSize(dim.scaleFontSize)
	cr.SetSourceRGB(0.94, 0.94, 1.0)
	for _, mark := range scale.Marks {
		text := corescope.MarkText(mark)
		extents := cr.TextExtents(text)
		x := scaleRect.right - extents.Width - dim.scalePadding
		y := scaleRect.toY(mark.Y) + extents.Height/2
		if x < scaleRect.left || y-extents.Height < scaleRect.top || y > scaleRect.bottom {
			continue
		}
		cr.MoveTo(x, y)
		cr.ShowText(text)
	}
}
