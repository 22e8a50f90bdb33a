// Package display derives the displayable two channel trace from a raw IQ trace.
package display

import (
	"math"
	"math/cmplx"

	"github.com/ftl/iqscope/core"
)

// The dB scale of the MagDBPha mode: a floor of -100dB mapped onto 100 units.
const (
	dbFloor = 100.0
	dbScale = 100.0
)

// Derived is the result of a transform: the derived trace and the scaling of both channels.
type Derived struct {
	Trace []core.Point2
	Amp1  float64
	Amp2  float64
	Ofs1  float64
	Ofs2  float64
}

// Empty indicates that there is nothing to draw.
func (d Derived) Empty() bool {
	return len(d.Trace) == 0
}

type strategy struct {
	minLength int
	lookback  int
	scale     func(amp float64) (amp1, amp2, ofs1, ofs2 float64)
	point     func(raw []complex128, i int, ofs float64) core.Point2
}

var strategies = map[core.DisplayMode]strategy{
	core.ModeIQ: {
		scale: func(amp float64) (float64, float64, float64, float64) {
			return amp, amp, 0, 0
		},
		point: func(raw []complex128, i int, _ float64) core.Point2 {
			return core.Point2{A: real(raw[i]), B: imag(raw[i])}
		},
	},
	core.ModeMagLinPha: {
		scale: func(amp float64) (float64, float64, float64, float64) {
			return amp, 1, -1 / amp, 0
		},
		point: func(raw []complex128, i int, _ float64) core.Point2 {
			return core.Point2{A: cmplx.Abs(raw[i]), B: cmplx.Phase(raw[i]) / math.Pi}
		},
	},
	core.ModeMagDBPha: {
		scale: func(amp float64) (float64, float64, float64, float64) {
			return 2 * amp, 1, -1 / (2 * amp), 0
		},
		point: func(raw []complex128, i int, ofs float64) core.Point2 {
			power := real(raw[i])*real(raw[i]) + imag(raw[i])*imag(raw[i])
			return core.Point2{
				A: (dbFloor - ofs*dbScale + 10*math.Log10(power)) / dbScale,
				B: cmplx.Phase(raw[i]) / math.Pi,
			}
		},
	},
	core.ModeDerivative: {
		minLength: 4,
		lookback:  3,
		scale: func(amp float64) (float64, float64, float64, float64) {
			return amp, amp, -1 / amp, 0
		},
		point: func(raw []complex128, i int, _ float64) core.Point2 {
			d1 := cmplx.Abs(raw[i] - raw[i-1])
			d3 := cmplx.Abs(raw[i-2] - raw[i-3])
			return core.Point2{A: d1, B: d1 - d3}
		},
	},
	core.ModeCyclostationary: {
		minLength: 3,
		lookback:  2,
		scale: func(amp float64) (float64, float64, float64, float64) {
			return amp, amp, -1 / amp, 0
		},
		point: func(raw []complex128, i int, _ float64) core.Point2 {
			return core.Point2{A: cmplx.Abs(raw[i] - cmplx.Conj(raw[i-1]))}
		},
	},
}

// Lookback returns the number of leading raw samples the given mode needs as history.
func Lookback(mode core.DisplayMode) int {
	return strategyOf(mode).lookback
}

// strategyOf returns the strategy of the given mode, unknown modes are transformed as IQ.
func strategyOf(mode core.DisplayMode) strategy {
	s, ok := strategies[mode]
	if !ok {
		return strategies[core.ModeIQ]
	}
	return s
}

// Transform the raw trace according to the given display mode. An amplitude <= 0 is treated
// as 1. If the raw trace is shorter than the mode requires, the derived trace is empty.
func Transform(raw []complex128, mode core.DisplayMode, amp, ofs float64) Derived {
	if amp <= 0 || math.IsNaN(amp) {
		amp = 1
	}
	s := strategyOf(mode)

	var result Derived
	result.Amp1, result.Amp2, result.Ofs1, result.Ofs2 = s.scale(amp)
	if len(raw) == 0 || len(raw) < s.minLength {
		return result
	}

	result.Trace = make([]core.Point2, len(raw)-s.lookback)
	for i := s.lookback; i < len(raw); i++ {
		result.Trace[i-s.lookback] = s.point(raw, i, ofs)
	}
	return result
}

// Cache keeps the last transform result and recomputes it only if the raw trace or the
// transform parameters changed.
type Cache struct {
	valid  bool
	mode   core.DisplayMode
	amp    float64
	ofs    float64
	result Derived
}

// Get returns the derived trace for the given raw trace. rawChanged signals that the raw trace is
// different from the one of the previous call. The second return value indicates a recomputation.
func (c *Cache) Get(raw []complex128, rawChanged bool, mode core.DisplayMode, amp, ofs float64) (Derived, bool) {
	if c.valid && !rawChanged && c.mode == mode && c.amp == amp && c.ofs == ofs {
		return c.result, false
	}

	c.result = Transform(raw, mode, amp, ofs)
	c.mode = mode
	c.amp = amp
	c.ofs = ofs
	c.valid = true
	return c.result, true
}

// Invalidate forces a recomputation on the next call of Get.
func (c *Cache) Invalidate() {
	c.valid = false
}
