package app

import (
	"log"
	"sync"

	"github.com/ftl/iqscope/core"
	"github.com/ftl/iqscope/core/dsp"
	"github.com/ftl/iqscope/core/trigger"
)

type tracePusher interface {
	Push(trace []complex128, sampleRate int) bool
}

type windowRecorder interface {
	Offer(window []complex128, sampleRate int, trigger core.TriggerState) bool
}

// acquisition moves the samples from the input through the corrections, the decimation and the trigger detector
// into the trace buffer.
type acquisition struct {
	input     core.SamplesInput
	corrector *dsp.Corrector
	decimator *dsp.Decimator
	detector  *trigger.Detector
}

func newAcquisition(input core.SamplesInput, config core.Configuration, buffer tracePusher, recorder windowRecorder) *acquisition {
	result := &acquisition{
		input:     input,
		corrector: dsp.NewCorrector(config.DCBlock, config.IQCorrection, dsp.DefaultCorrectionWindow),
		decimator: dsp.NewDecimator(config.Log2Decimation, config.Shift, input.SampleRate()),
	}

	result.detector = trigger.New(config.WindowSize, func(window []complex128, sampleRate int) {
		if !buffer.Push(window, sampleRate) {
			log.Print("[DEBUG] trace buffer busy, window dropped")
		}
		if recorder == nil {
			return
		}
		config := result.detector.Config()
		if config.Channel == core.TriggerFreeRun {
			return
		}
		recorder.Offer(window, sampleRate, config)
	})
	result.detector.Configure(config.Trigger, config.View.Amp)

	return result
}

func (a *acquisition) Run(stop chan struct{}, wait *sync.WaitGroup) {
	wait.Add(1)
	go func() {
		defer wait.Done()
		defer log.Print("[DEBUG] acquisition shutdown")
		outputRate := a.decimator.OutputRate(a.input.SampleRate())
		for {
			select {
			case samples, ok := <-a.input.Samples():
				if !ok {
					log.Print("[INFO] end of samples input")
					return
				}
				samples = a.corrector.Process(samples)
				samples = a.decimator.Process(samples)
				a.detector.Process(samples, outputRate)
			case <-stop:
				return
			}
		}
	}()
}
