package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBRange_Width(t *testing.T) {
	tt := []struct {
		from     DB
		to       DB
		expected DB
	}{
		{10, -180, 190},
		{-180, 10, 190},
		{-180, 0, 180},
		{0, 30, 30},
	}

	for i, tc := range tt {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			actual := DBRange{tc.from, tc.to}.Width()
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDBRange_ToFrct(t *testing.T) {
	tt := []struct {
		from     DB
		to       DB
		value    DB
		expected Frct
	}{
		{-80, 20, -90, -0.1},
		{-80, 20, -80, 0.0},
		{-80, 20, -60, 0.2},
		{-80, 20, 0, 0.8},
		{-80, 20, 10, 0.9},
		{-80, 20, 30, 1.1},
	}

	for i, tc := range tt {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			actual := ToDBFrct(tc.value, DBRange{tc.from, tc.to})
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDisplayMode_RoundTrip(t *testing.T) {
	for _, mode := range DisplayModes {
		t.Run(mode.String(), func(t *testing.T) {
			actual, err := ParseDisplayMode(mode.String())
			assert.NoError(t, err)
			assert.Equal(t, mode, actual)
		})
	}

	_, err := ParseDisplayMode("waterfall")
	assert.Error(t, err)
}

func TestDisplayMode_Valid(t *testing.T) {
	for _, mode := range DisplayModes {
		assert.True(t, mode.Valid(), mode.String())
	}
	assert.False(t, DisplayMode(-1).Valid())
	assert.False(t, DisplayMode(len(DisplayModes)).Valid())
}

func TestDisplayMode_Next(t *testing.T) {
	assert.Equal(t, ModeMagLinPha, ModeIQ.Next())
	assert.Equal(t, ModeIQ, ModeCyclostationary.Next())
}

func TestTriggerChannel_Value(t *testing.T) {
	s := complex(0.25, -0.5)
	assert.Equal(t, 0.25, TriggerChannelI.Value(s))
	assert.Equal(t, -0.5, TriggerChannelQ.Value(s))
}

func TestFRect_Contains(t *testing.T) {
	r := FRect{Left: 0.1, Bottom: 0.2, Width: 0.5, Height: 0.5}

	assert.True(t, r.Contains(FPoint{0.3, 0.3}))
	assert.True(t, r.Contains(FPoint{0.6, 0.7}))
	assert.False(t, r.Contains(FPoint{0.05, 0.3}))
	assert.False(t, r.Contains(FPoint{0.3, 0.8}))
	at := r.At(0.5, 0.5)
	assert.InDelta(t, 0.35, float64(at.X), 1e-9)
	assert.InDelta(t, 0.45, float64(at.Y), 1e-9)
}
