package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrector_Inactive(t *testing.T) {
	c := NewCorrector(false, false, 16)
	samples := []complex128{complex(0.5, 0.5), complex(0.5, -0.5)}

	actual := c.Process([]complex128{complex(0.5, 0.5), complex(0.5, -0.5)})

	assert.False(t, c.Active())
	assert.Equal(t, samples, actual)
}

func TestCorrector_DCBlock(t *testing.T) {
	c := NewCorrector(true, false, 16)
	dc := complex(0.5, -0.25)
	samples := make([]complex128, 64)
	for i := range samples {
		samples[i] = dc
	}

	actual := c.Process(samples)

	require.True(t, c.Active())
	for i, s := range actual {
		assert.InDeltaf(t, 0.0, real(s), 1e-9, "%d", i)
		assert.InDeltaf(t, 0.0, imag(s), 1e-9, "%d", i)
	}
	assert.InDelta(t, real(dc), real(c.DC()), 1e-9)
	assert.InDelta(t, imag(dc), imag(c.DC()), 1e-9)
}

func TestCorrector_DCBlockKeepsSignal(t *testing.T) {
	c := NewCorrector(true, false, DefaultCorrectionWindow)
	dc := complex(0.1, 0.2)
	samples := tone(2*DefaultCorrectionWindow, 1.0/64.0)
	for i := range samples {
		samples[i] += dc
	}
	expected := tone(2*DefaultCorrectionWindow, 1.0/64.0)

	actual := c.Process(samples)

	for i := DefaultCorrectionWindow; i < len(actual); i++ {
		assert.InDeltaf(t, real(expected[i]), real(actual[i]), 1e-3, "%d", i)
		assert.InDeltaf(t, imag(expected[i]), imag(actual[i]), 1e-3, "%d", i)
	}
}

func TestCorrector_IQImbalance(t *testing.T) {
	gain := 0.5
	phase := 0.1
	ω := 2 * math.Pi / 64.0
	length := 2 * DefaultCorrectionWindow
	samples := make([]complex128, length)
	for i := range samples {
		x := float64(i)
		samples[i] = complex(math.Cos(ω*x), gain*math.Sin(ω*x+phase))
	}

	c := NewCorrector(false, true, DefaultCorrectionWindow)
	actual := c.Process(samples)

	estimatedGain, estimatedPhase := c.Imbalance()
	assert.InDelta(t, gain, estimatedGain, 1e-3)
	assert.InDelta(t, phase, estimatedPhase, 1e-3)
	for i := DefaultCorrectionWindow; i < length; i++ {
		x := float64(i)
		assert.InDeltaf(t, math.Cos(ω*x), real(actual[i]), 1e-9, "I %d", i)
		assert.InDeltaf(t, math.Sin(ω*x), imag(actual[i]), 1e-3, "Q %d", i)
	}
}

func TestCorrector_NoEstimateYet(t *testing.T) {
	c := NewCorrector(false, true, 0)

	gain, phase := c.Imbalance()

	assert.Equal(t, 1.0, gain)
	assert.Equal(t, 0.0, phase)
	assert.Equal(t, []complex128{0}, c.Process([]complex128{0}))
}
