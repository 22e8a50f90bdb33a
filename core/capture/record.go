package capture

import (
	"math/cmplx"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ftl/iqscope/core"
)

// Record describes one captured trigger window.
type Record struct {
	ID              string
	Time            time.Time
	SampleRate      int
	Length          int
	Channel         core.TriggerChannel
	LevelHigh       float64
	LevelLow        float64
	PeakMagnitude   float64
	MeanMagnitude   float64
	StdDevMagnitude float64
}

// NewRecord returns the record of the given captured window.
func NewRecord(window []complex128, sampleRate int, trigger core.TriggerState, t time.Time) Record {
	result := Record{
		ID:         uuid.NewString(),
		Time:       t,
		SampleRate: sampleRate,
		Length:     len(window),
		Channel:    trigger.Channel,
		LevelHigh:  trigger.LevelHigh,
		LevelLow:   trigger.LevelLow,
	}
	if len(window) == 0 {
		return result
	}

	magnitudes := make([]float64, len(window))
	for i, s := range window {
		magnitudes[i] = cmplx.Abs(s)
	}
	result.PeakMagnitude = floats.Max(magnitudes)
	result.MeanMagnitude, result.StdDevMagnitude = stat.PopMeanStdDev(magnitudes, nil)

	return result
}

// Duration of the captured window.
func (r Record) Duration() time.Duration {
	if r.SampleRate <= 0 {
		return 0
	}
	return time.Duration(r.Length) * time.Second / time.Duration(r.SampleRate)
}
