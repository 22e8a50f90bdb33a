package capture

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ftl/iqscope/core"
)

// Recorder turns captured windows into records and hands them to an exporter.
type Recorder struct {
	records  chan Record
	exporter Exporter
	wait     *sync.WaitGroup
	now      func() time.Time

	dropLock sync.Mutex
	dropped  int
}

// NewRecorder returns a new recorder for the given exporter. At most queueSize records are queued.
func NewRecorder(exporter Exporter, queueSize int) *Recorder {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Recorder{
		records:  make(chan Record, queueSize),
		exporter: exporter,
		wait:     new(sync.WaitGroup),
		now:      time.Now,
	}
}

// Run the exporter until the recorder is closed or the context is done.
func (r *Recorder) Run(ctx context.Context) {
	r.wait.Add(1)
	go func() {
		defer r.wait.Done()
		defer log.Print("[DEBUG] recorder shutdown")
		if err := r.exporter.Write(ctx, r.records); err != nil && err != context.Canceled {
			log.Print("[ERROR] capture export failed: ", err)
		}
	}()
}

// Offer a captured window to the recorder. The window is dropped if the queue is full.
func (r *Recorder) Offer(window []complex128, sampleRate int, trigger core.TriggerState) bool {
	record := NewRecord(window, sampleRate, trigger, r.now())
	select {
	case r.records <- record:
		return true
	default:
		r.dropLock.Lock()
		r.dropped++
		r.dropLock.Unlock()
		log.Print("[WARN] recorder hangs")
		return false
	}
}

// Dropped returns the number of windows that were dropped.
func (r *Recorder) Dropped() int {
	r.dropLock.Lock()
	defer r.dropLock.Unlock()
	return r.dropped
}

// Close the recorder and wait until the queued records are exported.
func (r *Recorder) Close() {
	close(r.records)
	r.wait.Wait()
}
