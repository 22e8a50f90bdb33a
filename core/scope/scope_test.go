package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/trace"
)

func TestNew_NormalizesView(t *testing.T) {
	s := New(475, 225, core.ViewConfig{Amp: -1, TimeBase: 0, TimeOfsProMille: 5000, GridIntensity: 500})

	view := s.View()
	assert.Equal(t, 1.0, view.Amp)
	assert.Equal(t, 1, view.TimeBase)
	assert.Equal(t, 1000, view.TimeOfsProMille)
	assert.Equal(t, 100, view.GridIntensity)
	assert.True(t, s.ConfigChanged())
	assert.True(t, s.Layout().Valid())
}

func TestScope_Amp(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())

	s.SetAmp(0)
	assert.Equal(t, 1.0, s.View().Amp)
	s.SetAmp(-2)
	assert.Equal(t, 1.0, s.View().Amp)

	s.FinerAmp()
	assert.Equal(t, 2.0, s.View().Amp)
	s.CoarserAmp()
	s.CoarserAmp()
	assert.Equal(t, 0.5, s.View().Amp)

	s.SetAmp(3)
	s.FinerAmp()
	assert.Equal(t, 5.0, s.View().Amp)

	s.SetAmp(ampSteps[len(ampSteps)-1])
	s.FinerAmp()
	assert.Equal(t, ampSteps[len(ampSteps)-1], s.View().Amp)

	s.SetAmp(ampSteps[0])
	s.CoarserAmp()
	assert.Equal(t, ampSteps[0], s.View().Amp)
}

func TestScope_TimeBase(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())

	s.ZoomOut()
	assert.Equal(t, 1, s.View().TimeBase)

	s.ZoomIn()
	s.ZoomIn()
	assert.Equal(t, 4, s.View().TimeBase)

	s.SetTimeBase(5000)
	assert.Equal(t, MaxTimeBase, s.View().TimeBase)
	s.ZoomIn()
	assert.Equal(t, MaxTimeBase, s.View().TimeBase)

	s.SetTimeOfsProMille(-1)
	assert.Equal(t, 0, s.View().TimeOfsProMille)
	s.ShiftTime(0.25)
	assert.Equal(t, 250, s.View().TimeOfsProMille)
	s.ShiftTime(1)
	assert.Equal(t, 1000, s.View().TimeOfsProMille)
}

func TestScope_ModeAndOrientation(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())
	horizontal := s.Layout()

	s.CycleMode()
	assert.Equal(t, core.ModeMagLinPha, s.View().Mode)

	s.ToggleOrientation()
	assert.Equal(t, core.Vertical, s.View().Orientation)
	assert.NotEqual(t, horizontal, s.Layout())

	s.ToggleOrientation()
	assert.Equal(t, horizontal, s.Layout())
}

func TestScope_UnknownModeIsIQ(t *testing.T) {
	view := core.DefaultViewConfig()
	view.Mode = core.DisplayMode(42)
	s := New(475, 225, view)
	assert.Equal(t, core.ModeIQ, s.View().Mode)

	s.SetMode(core.ModeMagDBPha)
	s.SetMode(core.DisplayMode(-1))
	assert.Equal(t, core.ModeIQ, s.View().Mode)

	frame := s.Frame(trace.Snapshot{Trace: []complex128{1, 2, 3}, SampleRate: 1000, Changed: true})
	assert.Equal(t, core.ModeIQ, frame.Mode)
}

func TestScope_ConfigChanged(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())
	s.Frame(trace.Snapshot{})
	require.False(t, s.ConfigChanged())

	s.SetAmp(1)
	assert.False(t, s.ConfigChanged(), "same value")

	s.SetGridIntensity(50)
	assert.True(t, s.ConfigChanged())
	s.Frame(trace.Snapshot{})

	s.SetSize(475, 225)
	assert.False(t, s.ConfigChanged(), "same size")
	s.SetSize(500, 300)
	assert.True(t, s.ConfigChanged())
	s.Frame(trace.Snapshot{})

	s.SetTrigger(core.TriggerState{Channel: core.TriggerChannelI, LevelHigh: 0.1})
	assert.True(t, s.ConfigChanged())
}

func TestScope_Frame(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())
	raw := []complex128{complex(0.1, 0.2), complex(0.3, 0.4), complex(0.5, 0.6), complex(0.7, 0.8)}

	frame := s.Frame(trace.Snapshot{Trace: raw, SampleRate: 48000, Changed: true})

	assert.False(t, frame.Empty())
	assert.Equal(t, 48000, frame.SampleRate)
	assert.Equal(t, 4, frame.TraceSize)
	assert.Equal(t, core.ModeIQ, frame.Mode)

	s.SetMode(core.ModeDerivative)
	frame = s.Frame(trace.Snapshot{Trace: raw, SampleRate: 48000})
	assert.Equal(t, 1, frame.TraceSize)
	assert.Equal(t, core.ModeDerivative, frame.Mode)

	s.SetMode(core.ModeCyclostationary)
	frame = s.Frame(trace.Snapshot{Trace: raw[:2], SampleRate: 48000, Changed: true})
	assert.True(t, frame.Empty())
}

func TestScope_TriggerAt(t *testing.T) {
	s := New(475, 225, core.DefaultViewConfig())
	s.SetTrigger(core.TriggerState{Slope: core.SlopeFalling, PreTrigger: 16})

	state := s.TriggerAt(s.Layout().Scopes[1].At(0.5, 0.5))

	assert.Equal(t, core.TriggerChannelQ, state.Channel)
	assert.Equal(t, core.SlopeFalling, state.Slope)
	assert.Equal(t, 16, state.PreTrigger)
}
