package cfg

import (
	"testing"

	"github.com/ftl/hamradio/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/iqscope/core"
)

type mapSource map[cfg.Key]interface{}

func (m mapSource) Get(key cfg.Key, defaultValue interface{}) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	return defaultValue
}

func TestFromSource_Defaults(t *testing.T) {
	actual, err := fromSource(mapSource{})

	require.NoError(t, err)
	assert.Equal(t, Static(), actual)
}

func TestFromSource_Values(t *testing.T) {
	source := mapSource{
		testmode:          "burst",
		centerFrequency:   7074000.0,
		sampleRate:        2048000.0,
		log2Decimation:    3.0,
		shift:             -1500.0,
		dcBlock:           true,
		viewMode:          "MagDBPha",
		viewAmp:           2.0,
		viewVertical:      true,
		triggerChannel:    "q",
		triggerLevelHigh:  0.3,
		triggerFalling:    true,
		triggerPreTrigger: 64.0,
		export:            "sqlite3",
		exportTarget:      "captures.db",
	}

	actual, err := fromSource(source)

	require.NoError(t, err)
	assert.Equal(t, "burst", actual.Testmode)
	assert.Equal(t, core.Frequency(7074000), actual.CenterFrequency)
	assert.Equal(t, 2048000, actual.SampleRate)
	assert.Equal(t, 3, actual.Log2Decimation)
	assert.Equal(t, core.Frequency(-1500), actual.Shift)
	assert.True(t, actual.DCBlock)
	assert.False(t, actual.IQCorrection)
	assert.Equal(t, core.ModeMagDBPha, actual.View.Mode)
	assert.Equal(t, 2.0, actual.View.Amp)
	assert.Equal(t, core.Vertical, actual.View.Orientation)
	assert.Equal(t, core.TriggerChannelQ, actual.Trigger.Channel)
	assert.Equal(t, 0.3, actual.Trigger.LevelHigh)
	assert.Equal(t, -0.1, actual.Trigger.LevelLow)
	assert.Equal(t, core.SlopeFalling, actual.Trigger.Slope)
	assert.Equal(t, 64, actual.Trigger.PreTrigger)
	assert.Equal(t, "sqlite3", actual.Export)
	assert.Equal(t, "captures.db", actual.ExportTarget)
}

func TestFromSource_InvalidValues(t *testing.T) {
	source := mapSource{
		sampleRate:     "fast",
		viewMode:       "spectrum",
		triggerChannel: "x",
		dcBlock:        "yes",
	}

	actual, err := fromSource(source)

	assert.Error(t, err)
	assert.Equal(t, Static().SampleRate, actual.SampleRate)
	assert.Equal(t, core.ModeIQ, actual.View.Mode)
	assert.Equal(t, core.TriggerFreeRun, actual.Trigger.Channel)
	assert.False(t, actual.DCBlock)
}
