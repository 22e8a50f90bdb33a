package trigger

import (
	"log"
	"math"
	"sync"

	"github.com/ftl/iqscope/core"
)

// DefaultWindowSize is the capture length used if no valid window size is given.
const DefaultWindowSize = 1024

// State of the trigger detector.
type State int

// All states.
const (
	FreeRun   State = iota // every block is passed through
	ArmedHigh              // waiting for a rising crossing of the high level
	ArmedLow               // waiting for a falling crossing of the low level
	Triggered              // the crossing happened, the window is being filled
	Captured               // the window is complete and handed to the sink
)

func (s State) String() string {
	switch s {
	case FreeRun:
		return "free-run"
	case ArmedHigh:
		return "armed-high"
	case ArmedLow:
		return "armed-low"
	case Triggered:
		return "triggered"
	case Captured:
		return "captured"
	default:
		return "unknown"
	}
}

// Sink receives the captured windows. It takes ownership of the trace.
type Sink func(trace []complex128, sampleRate int)

// Detector scans the incoming samples for a level crossing on the selected channel and
// hands complete capture windows to its sink.
type Detector struct {
	mu sync.Mutex

	sink       Sink
	windowSize int
	config     core.TriggerState

	state   State
	primed  bool
	history *RingBuffer[complex128]
	window  []complex128
}

type capture struct {
	trace      []complex128
	sampleRate int
}

// New returns a new detector in free-run mode.
func New(windowSize int, sink Sink) *Detector {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Detector{
		sink:       sink,
		windowSize: windowSize,
		state:      FreeRun,
		history:    NewRingBuffer[complex128](windowSize),
	}
}

// ClampLevels limits both levels to the signal range [-1/amp, 1/amp] and swaps them if
// they are inverted.
func ClampLevels(high, low, amp float64) (float64, float64) {
	if amp <= 0 || math.IsNaN(amp) {
		amp = 1
	}
	limit := 1.0 / amp
	high = math.Max(-limit, math.Min(high, limit))
	low = math.Max(-limit, math.Min(low, limit))
	if high < low {
		high, low = low, high
	}
	return high, low
}

// Configure the trigger. Inverted or out of range levels are corrected, never rejected.
func (d *Detector) Configure(state core.TriggerState, amp float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	state.LevelHigh, state.LevelLow = ClampLevels(state.LevelHigh, state.LevelLow, amp)
	state.PreTrigger = max(0, min(state.PreTrigger, d.windowSize-1))
	d.config = state
	d.rearm()

	log.Printf("[DEBUG] trigger %v high %.3f low %.3f pre %d: %v", state.Channel, state.LevelHigh, state.LevelLow, state.PreTrigger, d.state)
}

// Config returns the effective trigger configuration.
func (d *Detector) Config() core.TriggerState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.config
}

// SetWindowSize changes the capture length and re-arms the trigger.
func (d *Detector) SetWindowSize(windowSize int) {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.windowSize = windowSize
	d.history = NewRingBuffer[complex128](windowSize)
	d.config.PreTrigger = min(d.config.PreTrigger, windowSize-1)
	d.rearm()
}

// WindowSize is the current capture length.
func (d *Detector) WindowSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windowSize
}

// State returns the current state of the detector.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Detector) armedState() State {
	switch {
	case d.config.Channel == core.TriggerFreeRun:
		return FreeRun
	case d.config.Slope == core.SlopeFalling:
		return ArmedLow
	default:
		return ArmedHigh
	}
}

func (d *Detector) rearm() {
	d.state = d.armedState()
	d.primed = false
	d.window = nil
}

// Process the given block of samples. In free-run mode the block is handed directly to the
// sink, otherwise only complete capture windows are.
func (d *Detector) Process(block []complex128, sampleRate int) {
	captures := d.scan(block, sampleRate)
	if d.sink == nil {
		return
	}
	for _, c := range captures {
		d.sink(c.trace, c.sampleRate)
	}
}

func (d *Detector) scan(block []complex128, sampleRate int) []capture {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == FreeRun {
		return []capture{{trace: block, sampleRate: sampleRate}}
	}

	var result []capture
	for _, s := range block {
		if d.state == Captured {
			d.rearm()
		}

		v := d.config.Channel.Value(s)
		switch d.state {
		case ArmedHigh:
			if v < d.config.LevelLow {
				d.primed = true
			} else if v > d.config.LevelHigh && d.primed {
				d.startWindow()
			}
		case ArmedLow:
			if v > d.config.LevelHigh {
				d.primed = true
			} else if v < d.config.LevelLow && d.primed {
				d.startWindow()
			}
		}

		if d.state == Triggered {
			d.window = append(d.window, s)
			if len(d.window) == d.windowSize {
				result = append(result, capture{trace: d.window, sampleRate: sampleRate})
				d.window = nil
				d.state = Captured
			}
		}

		d.history.Write(s)
	}
	return result
}

func (d *Detector) startWindow() {
	d.window = make([]complex128, 0, d.windowSize)
	d.window = append(d.window, d.history.Last(d.config.PreTrigger)...)
	d.state = Triggered
}
