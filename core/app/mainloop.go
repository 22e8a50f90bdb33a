package app

import (
	"log"
	"sync"
	"time"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/scope"
	"github.com/ftl/iqscope/core/trace"
)

// DefaultFramesPerSecond is used if the configuration contains no valid value.
const DefaultFramesPerSecond = 20

// newMainLoop returns a main loop that offers the rendered frames on the given channel.
// Without a channel the frames are only kept as last frame.
func newMainLoop(buffer traceBuffer, detector triggerDetector, scope *scope.Scope, framesPerSecond int, frames chan core.Frame) *mainLoop {
	if framesPerSecond <= 0 {
		framesPerSecond = DefaultFramesPerSecond
	}
	redrawInterval := (1 * time.Second) / time.Duration(framesPerSecond)
	result := &mainLoop{
		buffer:   buffer,
		detector: detector,
		scope:    scope,

		redrawInterval: redrawInterval,
		command:        make(chan command, 10),

		frames: frames,
	}
	result.publish()

	return result
}

type command func()

type mainLoop struct {
	buffer   traceBuffer
	detector triggerDetector
	scope    *scope.Scope

	redrawInterval time.Duration
	command        chan command

	frames chan core.Frame

	stateLock sync.RWMutex
	view      core.ViewConfig
	trigger   core.TriggerState
	lastFrame core.Frame
}

type traceBuffer interface {
	Snapshot() (trace.Snapshot, bool)
}

type triggerDetector interface {
	Configure(core.TriggerState, float64)
	Config() core.TriggerState
}

func (m *mainLoop) Run(stop chan struct{}) {
	defer log.Print("[DEBUG] main loop shutdown")
	redrawTick := time.NewTicker(m.redrawInterval)
	defer redrawTick.Stop()
	for {
		select {
		case <-redrawTick.C:
			m.redraw()
		case command := <-m.command:
			command()
			m.publish()
		case <-stop:
			return
		}
	}
}

func (m *mainLoop) redraw() {
	snapshot, ok := m.buffer.Snapshot()
	if !ok {
		return
	}
	if !snapshot.Changed && !m.scope.ConfigChanged() {
		return
	}

	frame := m.scope.Frame(snapshot)
	m.stateLock.Lock()
	m.lastFrame = frame
	m.stateLock.Unlock()

	if m.frames == nil {
		return
	}
	select {
	case m.frames <- frame:
	default:
		log.Print("[WARN] trigger redraw hangs")
	}
}

// publish makes the current configuration of the scope available to other goroutines.
func (m *mainLoop) publish() {
	m.stateLock.Lock()
	defer m.stateLock.Unlock()
	m.view = m.scope.View()
	m.trigger = m.scope.Trigger()
}

// Frames for drawing
func (m *mainLoop) Frames() <-chan core.Frame {
	return m.frames
}

// LastFrame returns the most recently rendered frame.
func (m *mainLoop) LastFrame() core.Frame {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.lastFrame
}

// View returns the current view configuration.
func (m *mainLoop) View() core.ViewConfig {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.view
}

// Trigger returns the current trigger configuration.
func (m *mainLoop) Trigger() core.TriggerState {
	m.stateLock.RLock()
	defer m.stateLock.RUnlock()
	return m.trigger
}

func (m *mainLoop) q(cmd command) {
	select {
	case m.command <- cmd:
	default:
		log.Print("[WARN] Mainloop.q hangs")
	}
}

// configureTrigger hands the trigger configuration to the detector and shows the effective configuration.
func (m *mainLoop) configureTrigger(trigger core.TriggerState) {
	m.detector.Configure(trigger, m.scope.View().Amp)
	m.scope.SetTrigger(m.detector.Config())
}

// changeAmp applies the given change and clamps the trigger levels to the new amplitude scale.
func (m *mainLoop) changeAmp(change func()) {
	amp := m.scope.View().Amp
	change()
	if m.scope.View().Amp != amp {
		m.configureTrigger(m.scope.Trigger())
	}
}

// SetSize of the drawing area in Px
func (m *mainLoop) SetSize(width, height core.Px) {
	m.q(func() {
		m.scope.SetSize(width, height)
	})
}

// SetView replaces the complete view configuration.
func (m *mainLoop) SetView(view core.ViewConfig) {
	m.q(func() {
		m.changeAmp(func() { m.scope.SetView(view) })
	})
}

// SetMode of the display.
func (m *mainLoop) SetMode(mode core.DisplayMode) {
	m.q(func() {
		m.scope.SetMode(mode)
	})
}

// CycleMode switches to the next display mode.
func (m *mainLoop) CycleMode() {
	m.q(func() {
		m.scope.CycleMode()
	})
}

// ToggleOrientation of the two scopes.
func (m *mainLoop) ToggleOrientation() {
	m.q(func() {
		m.scope.ToggleOrientation()
	})
}

// FinerAmp increases the amplification.
func (m *mainLoop) FinerAmp() {
	m.q(func() {
		m.changeAmp(m.scope.FinerAmp)
	})
}

// CoarserAmp decreases the amplification.
func (m *mainLoop) CoarserAmp() {
	m.q(func() {
		m.changeAmp(m.scope.CoarserAmp)
	})
}

// SetAmp sets the amplification.
func (m *mainLoop) SetAmp(amp float64) {
	m.q(func() {
		m.changeAmp(func() { m.scope.SetAmp(amp) })
	})
}

// SetAmpOfs sets the amplitude offset.
func (m *mainLoop) SetAmpOfs(ofs float64) {
	m.q(func() {
		m.scope.SetAmpOfs(ofs)
	})
}

// ZoomIn on the time axis.
func (m *mainLoop) ZoomIn() {
	m.q(func() {
		m.scope.ZoomIn()
	})
}

// ZoomOut of the time axis.
func (m *mainLoop) ZoomOut() {
	m.q(func() {
		m.scope.ZoomOut()
	})
}

// SetTimeBase sets the time base.
func (m *mainLoop) SetTimeBase(timeBase int) {
	m.q(func() {
		m.scope.SetTimeBase(timeBase)
	})
}

// SetTimeOfsProMille sets the time offset.
func (m *mainLoop) SetTimeOfsProMille(ofs int) {
	m.q(func() {
		m.scope.SetTimeOfsProMille(ofs)
	})
}

// SetGridIntensity sets the alpha of the grid in percent.
func (m *mainLoop) SetGridIntensity(intensity int) {
	m.q(func() {
		m.scope.SetGridIntensity(intensity)
	})
}

// SetTrigger sets the trigger configuration.
func (m *mainLoop) SetTrigger(trigger core.TriggerState) {
	m.q(func() {
		m.configureTrigger(trigger)
	})
}

// TriggerAt sets the trigger band at the given point of the drawing area.
func (m *mainLoop) TriggerAt(p core.FPoint) {
	m.q(func() {
		m.configureTrigger(m.scope.TriggerAt(p))
	})
}

// FreeRun switches the trigger off.
func (m *mainLoop) FreeRun() {
	m.q(func() {
		trigger := m.scope.Trigger()
		trigger.Channel = core.TriggerFreeRun
		m.configureTrigger(trigger)
	})
}
