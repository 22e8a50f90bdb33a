// Package scope maps derived traces into abstract drawing primitives and holds the view state of the scope.
package scope

import (
	"log"
	"math"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/display"
	"github.com/ftl/iqscope/core/trace"
)

// MaxTimeBase is the largest supported time base divisor.
const MaxTimeBase = 1024

var ampSteps = []float64{0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

// Scope controller
type Scope struct {
	width   core.Px
	height  core.Px
	view    core.ViewConfig
	trigger core.TriggerState
	layout  Layout

	cache         display.Cache
	configChanged bool
}

// New returns a new instance of the scope controller.
func New(width, height core.Px, view core.ViewConfig) *Scope {
	result := Scope{
		width:         width,
		height:        height,
		view:          view,
		configChanged: true,
	}
	result.view.Amp = validAmp(view.Amp)
	result.view.Mode = validMode(view.Mode)
	result.view.TimeBase = clampInt(view.TimeBase, 1, MaxTimeBase)
	result.view.TimeOfsProMille = clampInt(view.TimeOfsProMille, 0, 1000)
	result.view.GridIntensity = clampInt(view.GridIntensity, 0, 100)
	result.updateLayout()
	return &result
}

func validAmp(amp float64) float64 {
	if amp <= 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
		return 1
	}
	return amp
}

// validMode maps unknown modes to IQ, the transform draws them as IQ anyway.
func validMode(mode core.DisplayMode) core.DisplayMode {
	if !mode.Valid() {
		return core.ModeIQ
	}
	return mode
}

func (s *Scope) updateLayout() {
	s.layout = NewLayout(s.width, s.height, s.view.Orientation)
	s.configChanged = true
}

// SetSize in pixels
func (s *Scope) SetSize(width, height core.Px) {
	if width == s.width && height == s.height {
		return
	}

	log.Printf("[DEBUG] width %v height %v", width, height)

	s.width = width
	s.height = height
	s.updateLayout()
}

// Size in pixels
func (s *Scope) Size() (core.Px, core.Px) {
	return s.width, s.height
}

// View returns the current view configuration.
func (s *Scope) View() core.ViewConfig {
	return s.view
}

// Trigger returns the trigger configuration that is displayed.
func (s *Scope) Trigger() core.TriggerState {
	return s.trigger
}

// Layout returns the current layout.
func (s *Scope) Layout() Layout {
	return s.layout
}

// ConfigChanged indicates that the view configuration changed since the last frame.
func (s *Scope) ConfigChanged() bool {
	return s.configChanged
}

// SetView replaces the complete view configuration.
func (s *Scope) SetView(view core.ViewConfig) {
	s.SetAmp(view.Amp)
	s.SetAmpOfs(view.Ofs)
	s.SetTimeBase(view.TimeBase)
	s.SetTimeOfsProMille(view.TimeOfsProMille)
	s.SetMode(view.Mode)
	s.SetOrientation(view.Orientation)
	s.SetGridIntensity(view.GridIntensity)
}

// SetAmp sets the amplitude scale. Values <= 0 are ignored.
func (s *Scope) SetAmp(amp float64) {
	if amp <= 0 || math.IsNaN(amp) || math.IsInf(amp, 0) || amp == s.view.Amp {
		return
	}
	s.view.Amp = amp
	s.configChanged = true
}

// FinerAmp increases the amplitude scale one step.
func (s *Scope) FinerAmp() {
	for _, step := range ampSteps {
		if step > s.view.Amp {
			s.SetAmp(step)
			return
		}
	}
}

// CoarserAmp decreases the amplitude scale one step.
func (s *Scope) CoarserAmp() {
	for i := len(ampSteps) - 1; i >= 0; i-- {
		if ampSteps[i] < s.view.Amp {
			s.SetAmp(ampSteps[i])
			return
		}
	}
}

// SetAmpOfs sets the amplitude offset.
func (s *Scope) SetAmpOfs(ofs float64) {
	if math.IsNaN(ofs) || ofs == s.view.Ofs {
		return
	}
	s.view.Ofs = ofs
	s.configChanged = true
}

// SetTimeBase sets the time base divisor, limited to [1, MaxTimeBase].
func (s *Scope) SetTimeBase(timeBase int) {
	timeBase = clampInt(timeBase, 1, MaxTimeBase)
	if timeBase == s.view.TimeBase {
		return
	}
	s.view.TimeBase = timeBase
	s.configChanged = true
}

// ZoomIn one step
func (s *Scope) ZoomIn() {
	s.SetTimeBase(s.view.TimeBase * 2)
}

// ZoomOut one step
func (s *Scope) ZoomOut() {
	s.SetTimeBase(s.view.TimeBase / 2)
}

// SetTimeOfsProMille sets the position of the visible window, limited to [0, 1000].
func (s *Scope) SetTimeOfsProMille(ofs int) {
	ofs = clampInt(ofs, 0, 1000)
	if ofs == s.view.TimeOfsProMille {
		return
	}
	s.view.TimeOfsProMille = ofs
	s.configChanged = true
}

// ShiftTime moves the visible window by the given ratio of the total trace.
func (s *Scope) ShiftTime(ratio core.Frct) {
	s.SetTimeOfsProMille(s.view.TimeOfsProMille + int(ratio*1000))
}

// SetMode selects the display mode.
func (s *Scope) SetMode(mode core.DisplayMode) {
	mode = validMode(mode)
	if mode == s.view.Mode {
		return
	}
	s.view.Mode = mode
	s.configChanged = true
}

// CycleMode switches to the next display mode.
func (s *Scope) CycleMode() {
	s.SetMode(s.view.Mode.Next())
	log.Printf("[INFO] display mode %v", s.view.Mode)
}

// SetOrientation selects the arrangement of the two scopes.
func (s *Scope) SetOrientation(orientation core.Orientation) {
	if orientation == s.view.Orientation {
		return
	}
	s.view.Orientation = orientation
	s.updateLayout()
}

// ToggleOrientation switches to the other orientation.
func (s *Scope) ToggleOrientation() {
	if s.view.Orientation == core.Horizontal {
		s.SetOrientation(core.Vertical)
	} else {
		s.SetOrientation(core.Horizontal)
	}
}

// SetGridIntensity in percent.
func (s *Scope) SetGridIntensity(intensity int) {
	intensity = clampInt(intensity, 0, 100)
	if intensity == s.view.GridIntensity {
		return
	}
	s.view.GridIntensity = intensity
	s.configChanged = true
}

// SetTrigger sets the trigger configuration that is displayed as trigger band.
func (s *Scope) SetTrigger(trigger core.TriggerState) {
	if trigger == s.trigger {
		return
	}
	s.trigger = trigger
	s.configChanged = true
}

// TriggerAt returns the trigger configuration for a click at the given point. Slope and pre-trigger
// are kept from the current configuration.
func (s *Scope) TriggerAt(p core.FPoint) core.TriggerState {
	result := TriggerLevelAt(p, s.layout, s.view)
	result.Slope = s.trigger.Slope
	result.PreTrigger = s.trigger.PreTrigger
	return result
}

// Frame to draw the given snapshot of the trace buffer.
func (s *Scope) Frame(snapshot trace.Snapshot) core.Frame {
	derived, recomputed := s.cache.Get(snapshot.Trace, snapshot.Changed, s.view.Mode, s.view.Amp, s.view.Ofs)
	if recomputed && len(snapshot.Trace) > 0 && derived.Empty() {
		log.Printf("[DEBUG] trace too short for %v: %d", s.view.Mode, len(snapshot.Trace))
	}

	result := Render(derived, s.view, s.trigger, s.layout)
	result.SampleRate = snapshot.SampleRate
	s.configChanged = false
	return result
}
