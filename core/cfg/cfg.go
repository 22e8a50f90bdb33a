package cfg

import (
	"log"

	"github.com/ftl/hamradio/cfg"
	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
)

const (
	testmode            cfg.Key = "iqscope.testmode"
	centerFrequency     cfg.Key = "iqscope.centerFrequency"
	sampleRate          cfg.Key = "iqscope.sampleRate"
	blockSize           cfg.Key = "iqscope.blockSize"
	frequencyCorrection cfg.Key = "iqscope.frequencyCorrection"
	log2Decimation      cfg.Key = "iqscope.log2Decimation"
	shift               cfg.Key = "iqscope.shift"
	dcBlock             cfg.Key = "iqscope.dcBlock"
	iqCorrection        cfg.Key = "iqscope.iqCorrection"
	framesPerSecond     cfg.Key = "iqscope.framesPerSecond"
	windowSize          cfg.Key = "iqscope.windowSize"

	viewMode          cfg.Key = "iqscope.view.mode"
	viewAmp           cfg.Key = "iqscope.view.amp"
	viewOfs           cfg.Key = "iqscope.view.ofs"
	viewTimeBase      cfg.Key = "iqscope.view.timeBase"
	viewTimeOfs       cfg.Key = "iqscope.view.timeOfsProMille"
	viewVertical      cfg.Key = "iqscope.view.vertical"
	viewGridIntensity cfg.Key = "iqscope.view.gridIntensity"

	triggerChannel    cfg.Key = "iqscope.trigger.channel"
	triggerLevelHigh  cfg.Key = "iqscope.trigger.levelHigh"
	triggerLevelLow   cfg.Key = "iqscope.trigger.levelLow"
	triggerFalling    cfg.Key = "iqscope.trigger.falling"
	triggerPreTrigger cfg.Key = "iqscope.trigger.preTrigger"

	export       cfg.Key = "iqscope.export.format"
	exportTarget cfg.Key = "iqscope.export.target"
)

type source interface {
	Get(key cfg.Key, defaultValue interface{}) interface{}
}

// Load the configuration from the default configuration file. Missing values are filled with the static defaults.
func Load() (core.Configuration, error) {
	configuration, err := cfg.LoadDefault()
	if err != nil {
		return core.Configuration{}, errors.Wrap(err, "cannot load the configuration")
	}

	return fromSource(configuration)
}

// Static returns the default configuration.
func Static() core.Configuration {
	return core.Configuration{
		Testmode:        "",
		CenterFrequency: 100000000,
		SampleRate:      1024000,
		BlockSize:       16384,
		Log2Decimation:  0,
		FramesPerSecond: 20,
		WindowSize:      1024,
		View:            core.DefaultViewConfig(),
		Trigger: core.TriggerState{
			Channel:   core.TriggerFreeRun,
			LevelHigh: 0.1,
			LevelLow:  -0.1,
		},
	}
}

func fromSource(s source) (core.Configuration, error) {
	defaults := Static()
	g := getter{s: s}

	result := core.Configuration{
		Testmode:            g.String(testmode, defaults.Testmode),
		CenterFrequency:     core.Frequency(g.Float(centerFrequency, float64(defaults.CenterFrequency))),
		SampleRate:          g.Int(sampleRate, defaults.SampleRate),
		BlockSize:           g.Int(blockSize, defaults.BlockSize),
		FrequencyCorrection: g.Int(frequencyCorrection, defaults.FrequencyCorrection),
		Log2Decimation:      g.Int(log2Decimation, defaults.Log2Decimation),
		Shift:               core.Frequency(g.Float(shift, float64(defaults.Shift))),
		DCBlock:             g.Bool(dcBlock, defaults.DCBlock),
		IQCorrection:        g.Bool(iqCorrection, defaults.IQCorrection),
		FramesPerSecond:     g.Int(framesPerSecond, defaults.FramesPerSecond),
		WindowSize:          g.Int(windowSize, defaults.WindowSize),
		View: core.ViewConfig{
			Amp:             g.Float(viewAmp, defaults.View.Amp),
			Ofs:             g.Float(viewOfs, defaults.View.Ofs),
			TimeBase:        g.Int(viewTimeBase, defaults.View.TimeBase),
			TimeOfsProMille: g.Int(viewTimeOfs, defaults.View.TimeOfsProMille),
			GridIntensity:   g.Int(viewGridIntensity, defaults.View.GridIntensity),
		},
		Trigger: core.TriggerState{
			LevelHigh:  g.Float(triggerLevelHigh, defaults.Trigger.LevelHigh),
			LevelLow:   g.Float(triggerLevelLow, defaults.Trigger.LevelLow),
			PreTrigger: g.Int(triggerPreTrigger, defaults.Trigger.PreTrigger),
		},
		Export:       g.String(export, defaults.Export),
		ExportTarget: g.String(exportTarget, defaults.ExportTarget),
	}

	if g.Bool(viewVertical, false) {
		result.View.Orientation = core.Vertical
	}
	if g.Bool(triggerFalling, false) {
		result.Trigger.Slope = core.SlopeFalling
	}

	var err error
	result.View.Mode, err = core.ParseDisplayMode(g.String(viewMode, defaults.View.Mode.String()))
	if err != nil {
		g.fail(viewMode, err)
	}
	result.Trigger.Channel, err = core.ParseTriggerChannel(g.String(triggerChannel, ""))
	if err != nil {
		g.fail(triggerChannel, err)
	}

	return result, g.err
}

// getter reads typed values and keeps the first error. A value of the wrong type is replaced by the default.
type getter struct {
	s   source
	err error
}

func (g *getter) fail(key cfg.Key, err error) {
	log.Printf("[WARN] configuration %s: %v", key, err)
	if g.err == nil {
		g.err = errors.Wrapf(err, "invalid configuration value %s", key)
	}
}

func (g *getter) Float(key cfg.Key, defaultValue float64) float64 {
	switch v := g.s.Get(key, defaultValue).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		g.fail(key, errors.Errorf("%v is not a number", v))
		return defaultValue
	}
}

func (g *getter) Int(key cfg.Key, defaultValue int) int {
	return int(g.Float(key, float64(defaultValue)))
}

func (g *getter) Bool(key cfg.Key, defaultValue bool) bool {
	v, ok := g.s.Get(key, defaultValue).(bool)
	if !ok {
		g.fail(key, errors.New("not a boolean"))
		return defaultValue
	}
	return v
}

func (g *getter) String(key cfg.Key, defaultValue string) string {
	v, ok := g.s.Get(key, defaultValue).(string)
	if !ok {
		g.fail(key, errors.New("not a string"))
		return defaultValue
	}
	return v
}
