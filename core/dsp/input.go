package dsp

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Input is a synthetic SamplesInput. It produces blocks of samples in the pace of the given sample rate.
type Input struct {
	name       string
	sampleRate int
	samples    chan []complex128
	done       chan struct{}
	closeOnce  sync.Once
}

type generator func(block []complex128, t0 int)

func newInput(name string, blockSize int, sampleRate int, generate generator) *Input {
	if blockSize < 1 {
		blockSize = 1
	}
	result := &Input{
		name:       name,
		sampleRate: sampleRate,
		samples:    make(chan []complex128, 1),
		done:       make(chan struct{}),
	}

	blockDuration := time.Duration(0)
	if sampleRate > 0 {
		blockDuration = time.Duration(float64(blockSize) / float64(sampleRate) * float64(time.Second))
	}

	go func() {
		defer log.Printf("[DEBUG] %s shutdown", name)
		t0 := 0
		for {
			nextBlock := make([]complex128, blockSize)
			generate(nextBlock, t0)
			t0 += blockSize
			select {
			case result.samples <- nextBlock:
				time.Sleep(blockDuration)
			case <-result.done:
				close(result.samples)
				return
			}
		}
	}()

	return result
}

// Samples returns the channel of sample blocks. It is closed when the input is closed.
func (i *Input) Samples() <-chan []complex128 {
	return i.samples
}

// SampleRate of the input.
func (i *Input) SampleRate() int {
	return i.sampleRate
}

// Close the input.
func (i *Input) Close() error {
	i.closeOnce.Do(func() {
		close(i.done)
	})
	return nil
}

func (i *Input) String() string {
	return i.name
}

// NewRandomInput returns a new SamplesInput that produces random samples in [-amplitude, amplitude].
func NewRandomInput(blockSize int, sampleRate int, amplitude float64) *Input {
	return newInput("RandomInput", blockSize, sampleRate, func(block []complex128, _ int) {
		for i := range block {
			block[i] = complex(amplitude*(2*rand.Float64()-1), amplitude*(2*rand.Float64()-1))
		}
	})
}

// NewToneInput returns a new SamplesInput that produces samples of a sine wave with the given frequency.
func NewToneInput(blockSize int, sampleRate int, f float64, amplitude float64) *Input {
	ω := 2.0 * math.Pi * f / float64(sampleRate)
	return newInput("ToneInput", blockSize, sampleRate, func(block []complex128, t0 int) {
		for i := range block {
			t := float64(t0 + i)
			block[i] = complex(amplitude*math.Cos(ω*t), amplitude*math.Sin(ω*t))
		}
	})
}

// NewSweepInput returns a new SamplesInput that produces samples of a sine wave which frequency is increased
// by step with every block, from the given start frequency up to the given end frequency.
func NewSweepInput(blockSize int, sampleRate int, from, to, step float64, amplitude float64) *Input {
	f := from
	phase := 0.0
	return newInput("SweepInput", blockSize, sampleRate, func(block []complex128, _ int) {
		ω := 2.0 * math.Pi * f / float64(sampleRate)
		for i := range block {
			block[i] = complex(amplitude*math.Cos(phase), amplitude*math.Sin(phase))
			phase = math.Mod(phase+ω, 2*math.Pi)
		}
		f += step
		if f > to {
			f = from
		}
	})
}

// NewBurstInput returns a new SamplesInput that produces bursts of a sine wave with the given frequency. Every
// period samples a burst of length samples starts, in between there is only low noise.
func NewBurstInput(blockSize int, sampleRate int, f float64, amplitude float64, length, period int) *Input {
	if period < 1 {
		period = 1
	}
	ω := 2.0 * math.Pi * f / float64(sampleRate)
	const noise = 0.01
	return newInput("BurstInput", blockSize, sampleRate, func(block []complex128, t0 int) {
		for i := range block {
			t := t0 + i
			s := complex(noise*(2*rand.Float64()-1), noise*(2*rand.Float64()-1))
			if t%period < length {
				s += complex(amplitude*math.Cos(ω*float64(t)), amplitude*math.Sin(ω*float64(t)))
			}
			block[i] = s
		}
	})
}
