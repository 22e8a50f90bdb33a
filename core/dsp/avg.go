package dsp

func newSlidingWindow(length int) *slidingWindow {
	if length < 1 {
		length = 1
	}
	result := &slidingWindow{
		length:  length,
		buffer:  make([]float64, length),
		index:   0,
		current: 0,
	}
	return result
}

type slidingWindow struct {
	length  int
	buffer  []float64
	index   int
	current float64
	filled  int
}

func (w *slidingWindow) Put(v float64) float64 {
	w.current += ((v - w.buffer[w.index]) / float64(w.length))
	w.buffer[w.index] = v
	w.index = (w.index + 1) % w.length
	if w.filled < w.length {
		w.filled++
	}
	return w.current
}

// Mean of the values put into the window so far.
func (w *slidingWindow) Mean() float64 {
	if w.filled == 0 {
		return 0
	}
	return w.current * float64(w.length) / float64(w.filled)
}

// Full indicates that the window contains length values.
func (w *slidingWindow) Full() bool {
	return w.filled == w.length
}

func newComplexWindow(length int) *complexWindow {
	return &complexWindow{
		re: newSlidingWindow(length),
		im: newSlidingWindow(length),
	}
}

type complexWindow struct {
	re, im *slidingWindow
}

func (w *complexWindow) Put(v complex128) complex128 {
	w.re.Put(real(v))
	w.im.Put(imag(v))
	return w.Mean()
}

func (w *complexWindow) Mean() complex128 {
	return complex(w.re.Mean(), w.im.Mean())
}
