package scope

import (
	"math"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/display"
)

// margins around the scope rectangles in pixels
var margin = struct {
	top, bottom, left, right float64
}{
	top:    5,
	bottom: 20,
	left:   35,
	right:  5,
}

const gridLines = 9

var scaleSteps = []int{10, 20, 50, 100, 200, 500, 1000}

// All colors used in a frame.
var (
	BorderColor      = core.Color{R: 1, G: 1, B: 1, A: 0.5}
	TraceColor       = core.Color{R: 1, G: 1, B: 0, A: 0.4}
	TriggerHighColor = core.Color{R: 0, G: 1, B: 0, A: 0.3}
	TriggerLowColor  = core.Color{R: 0, G: 0.8, B: 0, A: 0.3}
)

// GridColor for the given intensity in percent.
func GridColor(intensity int) core.Color {
	return core.Color{R: 1, G: 1, B: 1, A: float64(clampInt(intensity, 0, 100)) / 100}
}

// Layout of the scope within the widget, all rectangles in fractions of the widget.
type Layout struct {
	Width       core.Px
	Height      core.Px
	Orientation core.Orientation
	Scopes      [2]core.FRect
	Scale       core.FRect
}

// Valid indicates that the layout has a drawable size.
func (l Layout) Valid() bool {
	return l.Scopes[0].Width > 0 && l.Scopes[0].Height > 0
}

// NewLayout calculates the layout for the given widget size. Horizontal places the two scopes side by side,
// Vertical stacks them.
func NewLayout(width, height core.Px, orientation core.Orientation) Layout {
	result := Layout{Width: width, Height: height, Orientation: orientation}
	if width <= 0 || height <= 0 {
		return result
	}

	w, h := float64(width), float64(height)
	fx := func(px float64) core.Frct { return core.Frct(math.Max(0, px) / w) }
	fy := func(px float64) core.Frct { return core.Frct(math.Max(0, px) / h) }

	var scopeWidth, scopeHeight float64
	switch orientation {
	case core.Vertical:
		scopeWidth = w - margin.left - margin.right
		scopeHeight = math.Floor((h - margin.bottom - margin.bottom - margin.top) / 2)
		result.Scopes[0] = core.FRect{Left: fx(margin.left), Bottom: fy(h - margin.top - scopeHeight), Width: fx(scopeWidth), Height: fy(scopeHeight)}
		result.Scopes[1] = core.FRect{Left: fx(margin.left), Bottom: fy(h - margin.top - margin.bottom - 2*scopeHeight), Width: fx(scopeWidth), Height: fy(scopeHeight)}
	default:
		scopeWidth = math.Floor((w - margin.left - margin.left - margin.right) / 2)
		scopeHeight = h - margin.top - margin.bottom
		result.Scopes[0] = core.FRect{Left: fx(margin.left), Bottom: fy(margin.bottom), Width: fx(scopeWidth), Height: fy(scopeHeight)}
		result.Scopes[1] = core.FRect{Left: fx(margin.left + margin.left + scopeWidth), Bottom: fy(margin.bottom), Width: fx(scopeWidth), Height: fy(scopeHeight)}
	}
	result.Scale = core.FRect{Left: 0, Bottom: result.Scopes[0].Bottom, Width: fx(margin.left - 1), Height: result.Scopes[0].Height}

	return result
}

// Window returns the visible part [start, end) of a trace with n values.
func Window(n, timeBase, timeOfsProMille int) (start, end int) {
	if timeBase < 1 {
		timeBase = 1
	}
	timeOfsProMille = clampInt(timeOfsProMille, 0, 1000)

	visible := n / timeBase
	start = timeOfsProMille * (n - visible) / 1000
	end = start + visible
	if end-start < 2 {
		start--
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// Clamp the given value into [-1/amp, 1/amp]. NaN is mapped to 0.
func Clamp(v, amp float64) float64 {
	if amp <= 0 || math.IsNaN(amp) {
		amp = 1
	}
	limit := 1 / amp
	if math.IsNaN(v) {
		return 0
	}
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// Render the derived trace into a frame.
func Render(derived display.Derived, view core.ViewConfig, trigger core.TriggerState, layout Layout) core.Frame {
	result := core.Frame{
		TraceSize: len(derived.Trace),
		Mode:      view.Mode,
	}
	if !layout.Valid() {
		return result
	}

	for _, r := range layout.Scopes {
		result.Loops = append(result.Loops, grid(r, view.GridIntensity)...)
		result.Loops = append(result.Loops, border(r))
	}
	result.Loops = append(result.Loops, triggerBand(derived, trigger, view.Amp, layout)...)
	result.Scale = powerScale(view, layout)

	if derived.Empty() {
		return result
	}

	start, end := Window(len(derived.Trace), view.TimeBase, view.TimeOfsProMille)
	channel1 := func(p core.Point2) float64 { return Clamp(p.A+derived.Ofs1, derived.Amp1) }
	channel2 := func(p core.Point2) float64 { return Clamp(p.B+derived.Ofs2, derived.Amp2) }
	result.Strips = []core.LineStrip{
		traceStrip(derived.Trace, start, end, view.TimeBase, derived.Amp1, channel1, layout.Scopes[0]),
		traceStrip(derived.Trace, start, end, view.TimeBase, derived.Amp2, channel2, layout.Scopes[1]),
	}

	return result
}

func traceStrip(trace []core.Point2, start, end, timeBase int, amp float64, value func(core.Point2) float64, r core.FRect) core.LineStrip {
	if timeBase < 1 {
		timeBase = 1
	}
	scaleX := 0.0
	if len(trace) > 1 {
		scaleX = float64(timeBase) / float64(len(trace)-1)
	}

	result := core.LineStrip{
		Color:  TraceColor,
		Points: make([]core.FPoint, 0, end-start),
	}
	for i := start; i < end && i < len(trace); i++ {
		x := math.Min(1, float64(i-start)*scaleX)
		y := 0.5 + 0.5*amp*value(trace[i])
		result.Points = append(result.Points, r.At(x, y))
	}
	return result
}

func border(r core.FRect) core.LineLoop {
	return core.LineLoop{
		Color: BorderColor,
		Points: []core.FPoint{
			{X: r.Left, Y: r.Bottom},
			{X: r.Right(), Y: r.Bottom},
			{X: r.Right(), Y: r.Top()},
			{X: r.Left, Y: r.Top()},
		},
	}
}

func grid(r core.FRect, intensity int) []core.LineLoop {
	color := GridColor(intensity)
	if color.A == 0 {
		return nil
	}

	result := make([]core.LineLoop, 0, 2*gridLines)
	for i := 1; i <= gridLines; i++ {
		f := float64(i) / float64(gridLines+1)
		result = append(result, core.LineLoop{Color: color, Points: []core.FPoint{r.At(0, f), r.At(1, f)}})
	}
	for i := 1; i <= gridLines; i++ {
		f := float64(i) / float64(gridLines+1)
		result = append(result, core.LineLoop{Color: color, Points: []core.FPoint{r.At(f, 0), r.At(f, 1)}})
	}
	return result
}

// triggerBand draws the trigger levels in the scale of the channel they belong to. The detector
// clamps the levels with the view amplitude, in the magnitude modes the channel scale is finer,
// so a level outside the visible range is pinned to the edge of the scope.
func triggerBand(derived display.Derived, trigger core.TriggerState, viewAmp float64, layout Layout) []core.LineLoop {
	var r core.FRect
	var amp float64
	switch trigger.Channel {
	case core.TriggerChannelI:
		r, amp = layout.Scopes[0], derived.Amp1
	case core.TriggerChannelQ:
		r, amp = layout.Scopes[1], derived.Amp2
	default:
		return nil
	}

	level := func(v float64, color core.Color) core.LineLoop {
		y := 0.5 + 0.5*Clamp(amp*Clamp(v, viewAmp), 1)
		return core.LineLoop{Color: color, Points: []core.FPoint{r.At(0, y), r.At(1, y)}}
	}
	return []core.LineLoop{
		level(trigger.LevelHigh, TriggerHighColor),
		level(trigger.LevelLow, TriggerLowColor),
	}
}

// PowerRange returns the dB range that is covered by the scope height with the given view configuration.
func PowerRange(view core.ViewConfig) core.DBRange {
	amp := view.Amp
	if amp <= 0 {
		amp = 1
	}
	floor := -100 + view.Ofs*100
	return core.DBRange{From: core.DB(floor), To: core.DB(floor + 100/amp)}
}

// powerScale returns the scale label, the mark positions are fractions of the scale rectangle.
func powerScale(view core.ViewConfig, layout Layout) core.ScaleLabel {
	dbRange := PowerRange(view)
	result := core.ScaleLabel{
		Rect:  layout.Scale,
		Range: dbRange,
	}

	step := scaleSteps[len(scaleSteps)-1]
	for _, s := range scaleSteps {
		if float64(dbRange.Width())/float64(s) <= 10 {
			step = s
			break
		}
	}

	first := int(math.Ceil(float64(dbRange.From)/float64(step))) * step
	for db := first; core.DB(db) <= dbRange.To; db += step {
		result.Marks = append(result.Marks, core.DBMark{
			DB: core.DB(db),
			Y:  core.ToDBFrct(core.DB(db), dbRange),
		})
	}
	return result
}

// TriggerLevelAt returns the trigger configuration that corresponds to a click at the given point. A click into the
// first scope selects the I channel, a click into the second scope selects the Q channel, everywhere else means free-run.
// The hysteresis band is placed symmetrically around the amplitude at the point.
func TriggerLevelAt(p core.FPoint, layout Layout, view core.ViewConfig) core.TriggerState {
	amp := view.Amp
	if amp <= 0 {
		amp = 1
	}

	result := core.TriggerState{Channel: core.TriggerFreeRun}
	var r core.FRect
	switch {
	case !layout.Valid():
		return result
	case layout.Scopes[0].Contains(p):
		result.Channel = core.TriggerChannelI
		r = layout.Scopes[0]
	case layout.Scopes[1].Contains(p):
		result.Channel = core.TriggerChannelQ
		r = layout.Scopes[1]
	default:
		return result
	}

	relY := float64((p.Y - r.Bottom) / r.Height)
	amplitude := (2*relY - 1) / amp
	result.LevelHigh = math.Max(-1, math.Min(amplitude+0.01/amp, 1))
	result.LevelLow = math.Max(-1, math.Min(amplitude-0.01/amp, 1))
	return result
}

// TimeAt returns the time in seconds relative to the start of the visible window at the given point.
// The second return value is false if the point is outside of the scopes or the time cannot be determined.
func TimeAt(p core.FPoint, layout Layout, view core.ViewConfig, traceSize, sampleRate int) (float64, bool) {
	if sampleRate <= 0 || traceSize <= 0 || !layout.Valid() {
		return 0, false
	}
	timeBase := max(1, view.TimeBase)
	for _, r := range layout.Scopes {
		if !r.Contains(p) {
			continue
		}
		relX := float64((p.X - r.Left) / r.Width)
		return relX * float64(traceSize) / (float64(sampleRate) * float64(timeBase)), true
	}
	return 0, false
}

func clampInt(v, lower, upper int) int {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
