package scope

import (
	"math"

	"github.com/ftl/iqscope/core"
)

type rect struct {
	top, left, bottom, right float64
}

func (r rect) width() float64 {
	return math.Abs(r.left - r.right)
}

func (r rect) height() float64 {
	return math.Abs(r.top - r.bottom)
}

func (r rect) toX(f core.Frct) float64 {
	return r.left + r.width()*float64(f)
}

func (r rect) toY(f core.Frct) float64 {
	return r.bottom - r.height()*float64(f)
}

func (r rect) toPoint(p core.FPoint) point {
	return point{x: r.toX(p.X), y: r.toY(p.Y)}
}

// toFPoint converts a point in device coordinates into fractions of the rect.
func (r rect) toFPoint(p point) core.FPoint {
	if r.width() == 0 || r.height() == 0 {
		return core.FPoint{}
	}
	return core.FPoint{
		X: core.Frct((p.x - r.left) / r.width()),
		Y: core.Frct((r.bottom - p.y) / r.height()),
	}
}

type point struct {
	x, y float64
}
