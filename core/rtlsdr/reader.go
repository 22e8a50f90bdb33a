package rtlsdr

import (
	"io"
	"log"
	"math"
	"sync"

	"github.com/pkg/errors"
)

type blockInput struct {
	samples chan []complex128
	wait    *sync.WaitGroup
}

func newBlockInput(in io.Reader, blockSize int) *blockInput {
	result := &blockInput{
		samples: make(chan []complex128, 1),
		wait:    new(sync.WaitGroup),
	}

	result.wait.Add(1)
	go func() {
		defer result.wait.Done()
		defer log.Print("[DEBUG] RTL-SDR input shutdown")
		defer close(result.samples)
		for {
			block, err := readIQBlock8(in, blockSize)
			if errors.Cause(err) == io.EOF || errors.Cause(err) == io.ErrUnexpectedEOF {
				return
			}
			if err != nil {
				log.Print("[ERROR] ", err)
				return
			}
			result.samples <- block
		}
	}()

	return result
}

func (b *blockInput) Wait() {
	for range b.samples {
	}
	b.wait.Wait()
}

func readIQBlock8(in io.Reader, blocksize int) ([]complex128, error) {
	if blocksize%2 != 0 {
		return []complex128{}, errors.New("blocksize must be even")
	}

	result := make([]complex128, blocksize)

	buf := make([]byte, blocksize*2)
	_, err := io.ReadFull(in, buf)
	if err != nil {
		return []complex128{}, errors.Wrap(err, "cannot read block of 8-bit samples")
	}

	for i := 0; i < len(buf); i += 2 {
		iSample := normalizeSampleUint8(buf[i])
		qSample := normalizeSampleUint8(buf[i+1])
		result[i/2] = complex(iSample, qSample)
	}

	return result, nil
}

const sampleUint8Center = float64(math.MaxUint8) / 2

func normalizeSampleUint8(s byte) float64 {
	return (float64(s) - sampleUint8Center) / sampleUint8Center
}
