package dsp

import (
	"log"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/window"

	"github.com/ftl/iqscope/core"
)

// MaxLog2Decimation limits the decimation to 2^MaxLog2Decimation.
const MaxLog2Decimation = 8

// Decimator reduces the sample rate by a power of two. The samples are optionally shifted in frequency and
// low pass filtered before the decimation. Filter and oscillator state are kept between blocks.
type Decimator struct {
	decimation  int
	shiftRate   float64
	filterCoeff []complex128

	filterBuf []complex128
	bufIndex  int
	countDown int
	phase     float64
}

// NewDecimator returns a new decimator for the given decimation 2^log2Decimation. The signal is shifted
// by the given frequency before filtering.
func NewDecimator(log2Decimation int, shift core.Frequency, sampleRate int) *Decimator {
	log2Decimation = max(0, min(log2Decimation, MaxLog2Decimation))
	decimation := 1 << log2Decimation

	var coeff []complex128
	if decimation == 1 {
		coeff = []complex128{1}
	} else {
		coeff = firLowpass(filterOrder(decimation), 1.0/(2.0*float64(decimation)))
	}

	var shiftRate float64
	if sampleRate > 0 {
		shiftRate = toRate(float64(shift), sampleRate)
	}

	log.Printf("[DEBUG] decimation %d, filter order %d, shift %v", decimation, len(coeff), shift)
	return newDecimator(decimation, shiftRate, coeff)
}

func newDecimator(decimation int, shiftRate float64, filterCoeff []complex128) *Decimator {
	return &Decimator{
		decimation:  decimation,
		shiftRate:   shiftRate,
		filterCoeff: filterCoeff,
		filterBuf:   make([]complex128, len(filterCoeff)),
	}
}

func filterOrder(decimation int) int {
	return 4*decimation + 1
}

// Decimation factor
func (d *Decimator) Decimation() int {
	return d.decimation
}

// OutputRate returns the sample rate after decimation.
func (d *Decimator) OutputRate(inputRate int) int {
	return inputRate / d.decimation
}

// Process the given block of samples and return the decimated samples.
func (d *Decimator) Process(samples []complex128) []complex128 {
	ω := 2 * math.Pi * d.shiftRate
	filterOrder := len(d.filterCoeff)
	outputSamples := make([]complex128, 0, len(samples)/d.decimation+1)

	for _, s := range samples {
		if d.shiftRate != 0 {
			s *= cmplx.Exp(complex(0, d.phase))
			d.phase = math.Mod(d.phase+ω, 2*math.Pi)
		}

		d.filterBuf[d.bufIndex] = s
		if d.countDown <= 0 {
			d.countDown = d.decimation - 1

			var out complex128
			for j, c := range d.filterCoeff {
				bi := (filterOrder + d.bufIndex - j) % filterOrder
				out += d.filterBuf[bi] * c
			}
			outputSamples = append(outputSamples, out)
		} else {
			d.countDown--
		}
		d.bufIndex = (d.bufIndex + 1) % filterOrder
	}

	return outputSamples
}

// BlockSize returns the next power of two of the given value, limited to max.
func BlockSize(value, max int) int {
	result := dsputils.NextPowerOf2(value)
	if result > max {
		return max
	}
	return result
}

func toRate(frequency float64, sampleRate int) float64 {
	return frequency / float64(sampleRate)
}

func firLowpass(order int, cutoffRate float64) []complex128 {
	if order%2 == 0 {
		panic("FIR order must be odd")
	}

	window := window.Blackman(order)
	order2 := (order - 1) / 2
	coeff := make([]float64, order)
	sum := 0.0
	for i := range coeff {
		t := float64(i - order2)
		coeff[i] = sinc(2.0*cutoffRate*t) * window[i]
		sum += coeff[i]
	}

	result := make([]complex128, len(coeff))
	for i := range result {
		result[i] = complex((coeff[i] / sum), 0)
	}
	return result
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1.0
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}
