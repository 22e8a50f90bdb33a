package dsp

import "math"

// DefaultCorrectionWindow is the number of samples the correction estimates are averaged over.
const DefaultCorrectionWindow = 4096

// Corrector removes the DC offset and corrects the gain and phase imbalance between the I and Q channels.
type Corrector struct {
	dcBlock      bool
	iqCorrection bool

	dc *complexWindow
	ii *slidingWindow
	qq *slidingWindow
	iq *slidingWindow
}

// NewCorrector returns a new corrector. The estimates are averaged over the given number of samples.
func NewCorrector(dcBlock, iqCorrection bool, windowLength int) *Corrector {
	if windowLength < 1 {
		windowLength = DefaultCorrectionWindow
	}
	return &Corrector{
		dcBlock:      dcBlock,
		iqCorrection: iqCorrection,
		dc:           newComplexWindow(windowLength),
		ii:           newSlidingWindow(windowLength),
		qq:           newSlidingWindow(windowLength),
		iq:           newSlidingWindow(windowLength),
	}
}

// Active indicates that at least one correction is enabled.
func (c *Corrector) Active() bool {
	return c.dcBlock || c.iqCorrection
}

// Process corrects the given samples in place and returns them.
func (c *Corrector) Process(samples []complex128) []complex128 {
	if !c.Active() {
		return samples
	}

	for i, s := range samples {
		if c.dcBlock {
			s -= c.dc.Put(s)
		}
		if c.iqCorrection {
			s = c.balance(s)
		}
		samples[i] = s
	}
	return samples
}

func (c *Corrector) balance(s complex128) complex128 {
	re, im := real(s), imag(s)
	ii := c.ii.Put(re * re)
	qq := c.qq.Put(im * im)
	iq := c.iq.Put(re * im)
	if ii <= 0 || qq <= 0 {
		return s
	}

	gain := math.Sqrt(ii / qq)
	sinφ := iq / math.Sqrt(ii*qq)
	if math.Abs(sinφ) >= 1 {
		return s
	}
	cosφ := math.Sqrt(1 - sinφ*sinφ)

	return complex(re, (im*gain-re*sinφ)/cosφ)
}

// Imbalance returns the current estimate of the gain ratio Q/I and the phase error in radians.
func (c *Corrector) Imbalance() (gain float64, phase float64) {
	ii, qq, iq := c.ii.Mean(), c.qq.Mean(), c.iq.Mean()
	if ii <= 0 || qq <= 0 {
		return 1, 0
	}
	return math.Sqrt(qq / ii), math.Asin(math.Max(-1, math.Min(iq/math.Sqrt(ii*qq), 1)))
}

// DC returns the current estimate of the DC offset.
func (c *Corrector) DC() complex128 {
	return c.dc.Mean()
}
