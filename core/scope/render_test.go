package scope

import (
	"fmt"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/display"
)

func TestWindow(t *testing.T) {
	tt := []struct {
		n, timeBase, ofs int
		start, end       int
	}{
		{10, 5, 0, 0, 2},
		{10, 5, 1000, 8, 10},
		{10, 5, 500, 4, 6},
		{10, 1, 0, 0, 10},
		{10, 1, 500, 0, 10},
		{10, 10, 0, 0, 1},
		{10, 10, 1000, 8, 10},
		{10, 0, 0, 0, 10},
		{10, 5, -5, 0, 2},
		{10, 5, 2000, 8, 10},
		{0, 1, 0, 0, 0},
		{1, 1, 0, 0, 1},
	}
	for _, tc := range tt {
		t.Run(fmt.Sprintf("%d_%d_%d", tc.n, tc.timeBase, tc.ofs), func(t *testing.T) {
			start, end := Window(tc.n, tc.timeBase, tc.ofs)
			assert.Equal(t, tc.start, start, "start")
			assert.Equal(t, tc.end, end, "end")
		})
	}
}

func TestClamp(t *testing.T) {
	tt := []struct {
		value, amp, expected float64
	}{
		{0.5, 1, 0.5},
		{2, 1, 1},
		{-2, 1, -1},
		{0.6, 2, 0.5},
		{-0.6, 2, -0.5},
		{0.1, 2, 0.1},
		{math.Inf(1), 1, 1},
		{math.Inf(-1), 4, -0.25},
		{0.5, 0, 0.5},
		{math.NaN(), 1, 0},
	}
	for i, tc := range tt {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			assert.Equal(t, tc.expected, Clamp(tc.value, tc.amp))
		})
	}
}

func TestNewLayout_Horizontal(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)

	require.True(t, layout.Valid())
	assert.InDelta(t, 35.0/475, float64(layout.Scopes[0].Left), 1e-9)
	assert.InDelta(t, 200.0/475, float64(layout.Scopes[0].Width), 1e-9)
	assert.InDelta(t, 20.0/225, float64(layout.Scopes[0].Bottom), 1e-9)
	assert.InDelta(t, 200.0/225, float64(layout.Scopes[0].Height), 1e-9)
	assert.InDelta(t, 270.0/475, float64(layout.Scopes[1].Left), 1e-9)
	assert.Equal(t, layout.Scopes[0].Bottom, layout.Scopes[1].Bottom)
	assert.Equal(t, layout.Scopes[0].Width, layout.Scopes[1].Width)
	assert.InDelta(t, 34.0/475, float64(layout.Scale.Width), 1e-9)
	assert.Equal(t, layout.Scopes[0].Height, layout.Scale.Height)
}

func TestNewLayout_Vertical(t *testing.T) {
	layout := NewLayout(440, 245, core.Vertical)

	require.True(t, layout.Valid())
	assert.InDelta(t, 400.0/440, float64(layout.Scopes[0].Width), 1e-9)
	assert.InDelta(t, 100.0/245, float64(layout.Scopes[0].Height), 1e-9)
	assert.InDelta(t, 140.0/245, float64(layout.Scopes[0].Bottom), 1e-9)
	assert.InDelta(t, 20.0/245, float64(layout.Scopes[1].Bottom), 1e-9)
	assert.Equal(t, layout.Scopes[0].Left, layout.Scopes[1].Left)
	assert.Equal(t, layout.Scopes[0].Bottom, layout.Scale.Bottom)
}

func TestNewLayout_Degenerate(t *testing.T) {
	assert.False(t, NewLayout(0, 100, core.Horizontal).Valid())
	assert.False(t, NewLayout(100, -1, core.Vertical).Valid())
	assert.False(t, NewLayout(50, 20, core.Horizontal).Valid())
}

func relY(r core.FRect, p core.FPoint) float64 {
	return float64((p.Y - r.Bottom) / r.Height)
}

func relX(r core.FRect, p core.FPoint) float64 {
	return float64((p.X - r.Left) / r.Width)
}

func TestRender_ClampsValues(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	view.Amp = 2
	raw := []complex128{complex(3, -3), complex(0.1, 0.2), complex(-0.7, 0.4), complex(0.25, -0.5)}
	derived := display.Transform(raw, core.ModeIQ, view.Amp, 0)

	frame := Render(derived, view, core.TriggerState{}, layout)

	require.Len(t, frame.Strips, 2)
	for c, strip := range frame.Strips {
		require.Len(t, strip.Points, len(raw))
		assert.Equal(t, TraceColor, strip.Color)
		for i, p := range strip.Points {
			v := real(raw[i])
			if c == 1 {
				v = imag(raw[i])
			}
			expected := 0.5 + 0.5*2*Clamp(v, 2)
			assert.InDelta(t, expected, relY(layout.Scopes[c], p), 1e-9, "channel %d point %d", c, i)
			assert.True(t, layout.Scopes[c].Contains(p), "channel %d point %d", c, i)
		}
	}
}

func TestRender_AppliesChannelOffset(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	view.Mode = core.ModeMagLinPha
	derived := display.Transform([]complex128{complex(0.5, 0), complex(1, 0)}, view.Mode, 1, 0)

	frame := Render(derived, view, core.TriggerState{}, layout)

	require.Len(t, frame.Strips, 2)
	assert.InDelta(t, 0.25, relY(layout.Scopes[0], frame.Strips[0].Points[0]), 1e-9)
	assert.InDelta(t, 0.5, relY(layout.Scopes[0], frame.Strips[0].Points[1]), 1e-9)
	assert.InDelta(t, 0.5, relY(layout.Scopes[1], frame.Strips[1].Points[0]), 1e-9)
}

func TestRender_TimeAxis(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	view.TimeBase = 5
	raw := make([]complex128, 10)
	derived := display.Transform(raw, core.ModeIQ, 1, 0)

	frame := Render(derived, view, core.TriggerState{}, layout)

	require.Len(t, frame.Strips, 2)
	points := frame.Strips[0].Points
	require.Len(t, points, 2)
	assert.InDelta(t, 0.0, relX(layout.Scopes[0], points[0]), 1e-9)
	assert.InDelta(t, 5.0/9.0, relX(layout.Scopes[0], points[1]), 1e-9)
	assert.Equal(t, 10, frame.TraceSize)
}

func TestRender_SingleValue(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	derived := display.Transform([]complex128{complex(0.5, 0.5)}, core.ModeIQ, 1, 0)

	frame := Render(derived, core.DefaultViewConfig(), core.TriggerState{}, layout)

	require.Len(t, frame.Strips, 2)
	require.Len(t, frame.Strips[0].Points, 1)
	assert.InDelta(t, 0.0, relX(layout.Scopes[0], frame.Strips[0].Points[0]), 1e-9)
}

func TestRender_EmptyTrace(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	derived := display.Transform([]complex128{1, 2}, core.ModeDerivative, 1, 0)

	frame := Render(derived, view, core.TriggerState{}, layout)

	assert.True(t, frame.Empty())
	assert.Len(t, frame.Loops, 2*(2*gridLines+1))
	assert.NotEmpty(t, frame.Scale.Marks)
}

func TestRender_Grid(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()

	tt := []struct {
		intensity int
		loops     int
		alpha     float64
	}{
		{0, 2, 0},
		{-10, 2, 0},
		{5, 2 * (2*gridLines + 1), 0.05},
		{100, 2 * (2*gridLines + 1), 1},
		{150, 2 * (2*gridLines + 1), 1},
	}
	for _, tc := range tt {
		t.Run(fmt.Sprintf("%d", tc.intensity), func(t *testing.T) {
			view.GridIntensity = tc.intensity
			frame := Render(display.Derived{}, view, core.TriggerState{}, layout)
			assert.Len(t, frame.Loops, tc.loops)
			assert.Equal(t, BorderColor, frame.Loops[len(frame.Loops)-1].Color)
			if tc.loops > 2 {
				assert.Equal(t, tc.alpha, frame.Loops[0].Color.A)
			}
		})
	}
}

func TestRender_TriggerBand(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	view.GridIntensity = 0
	derived := display.Transform(nil, core.ModeIQ, 1, 0)

	frame := Render(derived, view, core.TriggerState{Channel: core.TriggerFreeRun}, layout)
	assert.Len(t, frame.Loops, 2)

	frame = Render(derived, view, core.TriggerState{Channel: core.TriggerChannelQ, LevelHigh: 0.5, LevelLow: -0.5}, layout)
	require.Len(t, frame.Loops, 4)
	high, low := frame.Loops[2], frame.Loops[3]
	assert.Equal(t, TriggerHighColor, high.Color)
	assert.Equal(t, TriggerLowColor, low.Color)
	require.Len(t, high.Points, 2)
	assert.InDelta(t, 0.75, relY(layout.Scopes[1], high.Points[0]), 1e-9)
	assert.InDelta(t, 0.25, relY(layout.Scopes[1], low.Points[0]), 1e-9)
	assert.InDelta(t, 0.0, relX(layout.Scopes[1], high.Points[0]), 1e-9)
	assert.InDelta(t, 1.0, relX(layout.Scopes[1], high.Points[1]), 1e-9)
}

func TestRender_TriggerBandInChannelScale(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()
	view.GridIntensity = 0
	trigger := core.TriggerState{Channel: core.TriggerChannelI, LevelHigh: 0.8, LevelLow: 0.2}
	testCases := []struct {
		mode core.DisplayMode
		high float64
		low  float64
	}{
		{core.ModeIQ, 0.9, 0.6},
		{core.ModeMagDBPha, 1.0, 0.7},
	}
	for i, tc := range testCases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			view.Mode = tc.mode
			derived := display.Transform(nil, tc.mode, view.Amp, view.Ofs)

			frame := Render(derived, view, trigger, layout)

			require.Len(t, frame.Loops, 4)
			assert.InDelta(t, tc.high, relY(layout.Scopes[0], frame.Loops[2].Points[0]), 1e-9)
			assert.InDelta(t, tc.low, relY(layout.Scopes[0], frame.Loops[3].Points[0]), 1e-9)
		})
	}
}

func TestRender_InvalidLayout(t *testing.T) {
	derived := display.Transform([]complex128{1, 2, 3}, core.ModeIQ, 1, 0)

	frame := Render(derived, core.DefaultViewConfig(), core.TriggerState{}, NewLayout(0, 0, core.Horizontal))

	assert.True(t, frame.Empty())
	assert.Empty(t, frame.Loops)
	assert.Equal(t, 3, frame.TraceSize)
}

func TestPowerScale(t *testing.T) {
	tt := []struct {
		amp, ofs  float64
		from, to  core.DB
		firstMark core.DB
		markCount int
	}{
		{1, 0, -100, 0, -100, 11},
		{2, 0, -100, -50, -100, 6},
		{0.5, 0, -100, 100, -100, 11},
		{1, 0.25, -75, 25, -70, 10},
		{0.25, 0, -100, 300, -100, 9},
	}
	for i, tc := range tt {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			view := core.DefaultViewConfig()
			view.Amp, view.Ofs = tc.amp, tc.ofs
			label := powerScale(view, NewLayout(475, 225, core.Horizontal))

			assert.Equal(t, core.DBRange{From: tc.from, To: tc.to}, label.Range)
			require.Len(t, label.Marks, tc.markCount)
			assert.Equal(t, tc.firstMark, label.Marks[0].DB)
			for _, mark := range label.Marks {
				assert.True(t, mark.Y >= 0 && mark.Y <= 1, "mark %v at %v", mark.DB, mark.Y)
			}
		})
	}
}

func TestTriggerLevelAt(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()

	state := TriggerLevelAt(layout.Scopes[0].At(0.5, 0.5), layout, view)
	assert.Equal(t, core.TriggerChannelI, state.Channel)
	assert.InDelta(t, 0.01, state.LevelHigh, 1e-9)
	assert.InDelta(t, -0.01, state.LevelLow, 1e-9)

	state = TriggerLevelAt(layout.Scopes[1].At(0.5, 0.995), layout, view)
	assert.Equal(t, core.TriggerChannelQ, state.Channel)
	assert.InDelta(t, 1.0, state.LevelHigh, 1e-9)
	assert.True(t, state.LevelHigh <= 1.0)
	assert.InDelta(t, 0.98, state.LevelLow, 1e-9)

	view.Amp = 2
	state = TriggerLevelAt(layout.Scopes[0].At(0.1, 0.75), layout, view)
	assert.Equal(t, core.TriggerChannelI, state.Channel)
	assert.InDelta(t, 0.255, state.LevelHigh, 1e-9)
	assert.InDelta(t, 0.245, state.LevelLow, 1e-9)

	state = TriggerLevelAt(core.FPoint{X: 0.01, Y: 0.5}, layout, view)
	assert.Equal(t, core.TriggerFreeRun, state.Channel)
}

func TestTimeAt(t *testing.T) {
	layout := NewLayout(475, 225, core.Horizontal)
	view := core.DefaultViewConfig()

	time, ok := TimeAt(layout.Scopes[1].At(0.5, 0.5), layout, view, 1000, 1000)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, time, 1e-9)

	view.TimeBase = 4
	time, ok = TimeAt(layout.Scopes[0].At(1, 0.5), layout, view, 1000, 1000)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, time, 1e-9)

	_, ok = TimeAt(layout.Scopes[0].At(0.5, 0.5), layout, view, 1000, 0)
	assert.False(t, ok)

	_, ok = TimeAt(core.FPoint{X: 0.01, Y: 0.01}, layout, view, 1000, 1000)
	assert.False(t, ok)
}

func TestRasterizeScale(t *testing.T) {
	view := core.DefaultViewConfig()
	label := powerScale(view, NewLayout(475, 225, core.Horizontal))

	canvas := RasterizeScale(label, 34, 200)

	assert.Equal(t, image.Rect(0, 0, 34, 200), canvas.Bounds())
	textPixels := 0
	for y := 0; y < 200; y++ {
		for x := 0; x < 34; x++ {
			if canvas.RGBAAt(x, y) == scaleTextColor {
				textPixels++
			}
		}
	}
	assert.True(t, textPixels > 0, "some text is drawn")
	assert.Equal(t, scaleBackgroundColor, canvas.RGBAAt(0, 0))

	empty := RasterizeScale(label, 0, 0)
	assert.True(t, empty.Bounds().Empty())
}

func TestMarkText(t *testing.T) {
	assert.Equal(t, "-100", MarkText(core.DBMark{DB: -100}))
	assert.Equal(t, "0", MarkText(core.DBMark{DB: 0}))
	assert.Equal(t, "20", MarkText(core.DBMark{DB: 20}))
}
