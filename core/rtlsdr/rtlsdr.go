package rtlsdr

import (
	"bytes"
	"io"
	"log"
	"sync"
	"time"

	rtl "github.com/jpoirier/gortlsdr"
	"github.com/pkg/errors"

	"github.com/ftl/iqscope/core"
)

// Open the RTL-SDR dongle for reading.
func Open(centerFrequency core.Frequency, sampleRate int, frequencyCorrection int, blockSize int) (*Dongle, error) {
	if blockSize%2 != 0 {
		return nil, errors.New("blocksize must be even")
	}

	device, err := rtl.Open(0)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open RTL-SDR device")
	}

	err = device.SetSampleRate(sampleRate)
	if err != nil {
		device.Close()
		return nil, errors.Wrap(err, "SetSampleRate failed")
	}
	log.Printf("[DEBUG] GetSampleRate: %d", device.GetSampleRate())

	err = device.SetCenterFreq(int(centerFrequency))
	if err != nil {
		device.Close()
		return nil, errors.Wrap(err, "SetCenterFreq failed")
	}

	err = device.ResetBuffer()
	if err != nil {
		device.Close()
		return nil, errors.Wrap(err, "ResetBuffer failed")
	}

	if frequencyCorrection != 0 {
		err = device.SetFreqCorrection(frequencyCorrection)
		if err != nil {
			device.Close()
			return nil, errors.Wrap(err, "SetFreqCorrection failed")
		}
	}

	result := &Dongle{
		device:     device,
		sampleRate: device.GetSampleRate(),
		asyncRead:  new(sync.WaitGroup),
	}
	result.input = newBlockInput(result, blockSize)

	result.asyncRead.Add(1)
	go func() {
		defer result.asyncRead.Done()
		result.device.ReadAsync(result.incomingData, nil, 0, 0)
	}()

	return result, nil
}

// Dongle represents the RTL-SDR dongle.
type Dongle struct {
	device     *rtl.Context
	sampleRate int
	input      *blockInput

	bufferLock sync.Mutex
	buffer     bytes.Buffer
	closed     bool
	asyncRead  *sync.WaitGroup
	lastInput  time.Time
}

// Samples returns the channel of sample blocks read from the dongle.
func (d *Dongle) Samples() <-chan []complex128 {
	return d.input.samples
}

// SampleRate of the dongle.
func (d *Dongle) SampleRate() int {
	return d.sampleRate
}

// Read raw 8-bit IQ data from the dongle.
func (d *Dongle) Read(p []byte) (n int, err error) {
	for {
		d.bufferLock.Lock()
		if d.buffer.Len() > 0 {
			n, err = d.buffer.Read(p)
			d.bufferLock.Unlock()
			return n, err
		}
		closed := d.closed
		d.bufferLock.Unlock()
		if closed {
			return 0, io.EOF
		}
		time.Sleep(time.Millisecond)
	}
}

// Close the dongle.
func (d *Dongle) Close() error {
	d.bufferLock.Lock()
	d.closed = true
	d.bufferLock.Unlock()

	d.device.CancelAsync()
	d.asyncRead.Wait()
	d.input.Wait()
	return d.device.Close()
}

func (d *Dongle) incomingData(data []byte) {
	d.bufferLock.Lock()
	defer d.bufferLock.Unlock()

	d.lastInput = time.Now()
	_, err := d.buffer.Write(data)
	if err != nil {
		log.Print("[ERROR] Writing incoming data to buffer failed: ", err)
	}
}
