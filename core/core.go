package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Frequency represents a frequency in Hz.
type Frequency float64

func (f Frequency) String() string {
	return fmt.Sprintf("%.2fHz", f)
}

// DB represents decibel (dB).
type DB float64

func (f DB) String() string {
	return fmt.Sprintf("%.2fdB", f)
}

// DBRange represents a range of dB.
type DBRange struct {
	From, To DB
}

func (r DBRange) String() string {
	return fmt.Sprintf("[%v,%v]", r.From, r.To)
}

// Width of the dB range.
func (r DBRange) Width() DB {
	return DB(math.Abs(float64(r.To - r.From)))
}

// Contains the given value in dB.
func (r DBRange) Contains(value DB) bool {
	return value >= r.From && value <= r.To
}

// Normalized returns the range with From <= To.
func (r DBRange) Normalized() DBRange {
	if r.From > r.To {
		return DBRange{From: r.To, To: r.From}
	}
	return r
}

// Frct is a fraction of a drawing area, 0 is left/bottom, 1 is right/top.
type Frct float64

// ToDBFrct converts the given value in dB into a fraction of the given range.
func ToDBFrct(value DB, r DBRange) Frct {
	return Frct(math.Round(float64((value-r.From)/r.Width())*1000) / 1000)
}

// Px unit for pixels
type Px float64

// FPoint is a point in fractions of the drawing area.
type FPoint struct {
	X, Y Frct
}

// FRect is a rectangle in fractions of the drawing area.
type FRect struct {
	Left, Bottom, Width, Height Frct
}

// Right edge of the rectangle.
func (r FRect) Right() Frct {
	return r.Left + r.Width
}

// Top edge of the rectangle.
func (r FRect) Top() Frct {
	return r.Bottom + r.Height
}

// Contains the given point.
func (r FRect) Contains(p FPoint) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Bottom && p.Y <= r.Top()
}

// At returns the point at the given relative position inside the rectangle.
func (r FRect) At(x, y float64) FPoint {
	return FPoint{
		X: r.Left + r.Width*Frct(x),
		Y: r.Bottom + r.Height*Frct(y),
	}
}

// Point2 is one element of a derived trace: the values of channel 1 and channel 2.
type Point2 struct {
	A, B float64
}

// DisplayMode selects how the raw trace is transformed for display.
type DisplayMode int

// All display modes.
const (
	ModeIQ DisplayMode = iota
	ModeMagLinPha
	ModeMagDBPha
	ModeDerivative
	ModeCyclostationary
)

// DisplayModes in the order they are cycled through.
var DisplayModes = []DisplayMode{ModeIQ, ModeMagLinPha, ModeMagDBPha, ModeDerivative, ModeCyclostationary}

var displayModeNames = map[DisplayMode]string{
	ModeIQ:              "iq",
	ModeMagLinPha:       "maglinpha",
	ModeMagDBPha:        "magdbpha",
	ModeDerivative:      "derivative",
	ModeCyclostationary: "cyclostationary",
}

func (m DisplayMode) String() string {
	if name, ok := displayModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Valid reports whether m is one of the known display modes.
func (m DisplayMode) Valid() bool {
	_, ok := displayModeNames[m]
	return ok
}

// Next display mode, wraps around after the last one.
func (m DisplayMode) Next() DisplayMode {
	return DisplayModes[(int(m)+1)%len(DisplayModes)]
}

// ParseDisplayMode returns the display mode with the given name.
func ParseDisplayMode(s string) (DisplayMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range displayModeNames {
		if name == s {
			return mode, nil
		}
	}
	return ModeIQ, errors.Errorf("unknown display mode %q", s)
}

// Orientation of the two scope channels.
type Orientation int

// All orientations.
const (
	Horizontal Orientation = iota // side by side
	Vertical                      // stacked
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ViewConfig holds the parameters of the scope display.
type ViewConfig struct {
	Amp             float64
	Ofs             float64
	TimeBase        int
	TimeOfsProMille int
	Orientation     Orientation
	GridIntensity   int
	Mode            DisplayMode
}

// DefaultViewConfig returns the initial view configuration.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		Amp:           1.0,
		TimeBase:      1,
		Orientation:   Horizontal,
		GridIntensity: 5,
		Mode:          ModeIQ,
	}
}

// TriggerChannel selects the signal that is observed by the trigger.
type TriggerChannel int

// All trigger channels.
const (
	TriggerFreeRun TriggerChannel = iota
	TriggerChannelI
	TriggerChannelQ
)

func (c TriggerChannel) String() string {
	switch c {
	case TriggerChannelI:
		return "I"
	case TriggerChannelQ:
		return "Q"
	default:
		return "free-run"
	}
}

// ParseTriggerChannel returns the trigger channel with the given name.
func ParseTriggerChannel(s string) (TriggerChannel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "free", "free-run", "none":
		return TriggerFreeRun, nil
	case "i":
		return TriggerChannelI, nil
	case "q":
		return TriggerChannelQ, nil
	default:
		return TriggerFreeRun, errors.Errorf("unknown trigger channel %q", s)
	}
}

// Value of the channel for the given sample.
func (c TriggerChannel) Value(s complex128) float64 {
	if c == TriggerChannelQ {
		return imag(s)
	}
	return real(s)
}

// Slope of the trigger.
type Slope int

// All slopes.
const (
	SlopeRising Slope = iota
	SlopeFalling
)

// TriggerState holds the trigger configuration.
type TriggerState struct {
	Channel    TriggerChannel
	LevelHigh  float64
	LevelLow   float64
	Slope      Slope
	PreTrigger int
}

// Color with alpha, all components in [0,1].
type Color struct {
	R, G, B, A float64
}

// LineStrip is an open polyline.
type LineStrip struct {
	Color  Color
	Points []FPoint
}

// LineLoop is a closed polyline; with two points it is a single line.
type LineLoop struct {
	Color  Color
	Points []FPoint
}

// DBMark on the dB scale
type DBMark struct {
	DB DB
	Y  Frct
}

// ScaleLabel describes the region of the dB scale next to the first scope.
type ScaleLabel struct {
	Rect  FRect
	Range DBRange
	Marks []DBMark
}

// Frame is everything that is needed to draw one picture of the scope.
type Frame struct {
	Strips     []LineStrip
	Loops      []LineLoop
	Scale      ScaleLabel
	TraceSize  int
	SampleRate int
	Mode       DisplayMode
}

// Empty indicates that the frame contains no trace to draw.
func (f Frame) Empty() bool {
	return len(f.Strips) == 0
}

// SamplesInput interface.
type SamplesInput interface {
	Samples() <-chan []complex128
	SampleRate() int
	Close() error
}

// Configuration parameters of the application.
type Configuration struct {
	Testmode            string
	CenterFrequency     Frequency
	SampleRate          int
	BlockSize           int
	FrequencyCorrection int
	Log2Decimation      int
	Shift               Frequency
	DCBlock             bool
	IQCorrection        bool
	FramesPerSecond     int
	WindowSize          int
	View                ViewConfig
	Trigger             TriggerState
	Export              string
	ExportTarget        string
}
