package app

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/dsp"
	"github.com/ftl/iqscope/core/rtlsdr"
)

// Testmodes lists the synthetic inputs that can be used instead of the RTL-SDR dongle.
var Testmodes = []string{"tone", "random", "sweep", "burst"}

func openInput(config core.Configuration) (core.SamplesInput, error) {
	blockSize := dsp.BlockSize(config.BlockSize, 1<<20)
	if blockSize < 2 {
		return nil, errors.Errorf("invalid block size %d", config.BlockSize)
	}
	if config.SampleRate <= 0 {
		return nil, errors.Errorf("invalid sample rate %d", config.SampleRate)
	}
	rate := float64(config.SampleRate)

	switch strings.ToLower(config.Testmode) {
	case "":
		dongle, err := rtlsdr.Open(config.CenterFrequency, config.SampleRate, config.FrequencyCorrection, blockSize)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open RTL-SDR dongle")
		}
		return dongle, nil
	case "tone":
		return dsp.NewToneInput(blockSize, config.SampleRate, rate/100, 0.8), nil
	case "random":
		return dsp.NewRandomInput(blockSize, config.SampleRate, 0.5), nil
	case "sweep":
		return dsp.NewSweepInput(blockSize, config.SampleRate, -rate/4, rate/4, rate/1000, 0.8), nil
	case "burst":
		return dsp.NewBurstInput(blockSize, config.SampleRate, rate/50, 0.8, blockSize/8, blockSize/2), nil
	default:
		return nil, errors.Errorf("%q is not a supported testmode, pick one of: %s", config.Testmode, strings.Join(Testmodes, ", "))
	}
}
