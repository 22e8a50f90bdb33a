// Package trace holds the single current capture window that is shared between
// the acquisition path and the render loop.
//
// Both sides acquire the buffer with a bounded wait. If the buffer cannot be
// acquired in time, a push is dropped and a snapshot is skipped. Only the
// freshest window matters for a live scope, so there is no queue: the latest
// push wins.
package trace

import (
	"sync/atomic"
	"time"
)

// DefaultTimeout is the default bounded wait for the exclusive access.
const DefaultTimeout = 2 * time.Millisecond

// Buffer is a lock guarded single slot for the current raw trace.
type Buffer struct {
	lock    chan struct{}
	timeout time.Duration

	trace      []complex128
	sampleRate int

	changed  atomic.Bool
	accepted atomic.Uint64
	dropped  atomic.Uint64
}

// Snapshot of the buffer content. Trace must be treated as read-only.
type Snapshot struct {
	Trace      []complex128
	SampleRate int
	Changed    bool
}

// Stats of the buffer usage.
type Stats struct {
	Accepted uint64
	Dropped  uint64
}

// New returns a new empty buffer. A timeout <= 0 selects the DefaultTimeout.
func New(timeout time.Duration) *Buffer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Buffer{
		lock:    make(chan struct{}, 1),
		timeout: timeout,
	}
}

func (b *Buffer) acquire() bool {
	select {
	case b.lock <- struct{}{}:
		return true
	default:
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case b.lock <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (b *Buffer) release() {
	<-b.lock
}

// Push replaces the current trace and sample rate. The buffer takes ownership of the given
// slice, the caller must not modify it afterwards. Push returns false if the data was dropped
// because the buffer could not be acquired in time.
func (b *Buffer) Push(trace []complex128, sampleRate int) bool {
	if !b.acquire() {
		b.dropped.Add(1)
		return false
	}
	defer b.release()

	b.trace = trace
	b.sampleRate = sampleRate
	b.changed.Store(true)
	b.accepted.Add(1)
	return true
}

// Snapshot returns the current trace and sample rate. The second return value is false if
// the buffer could not be acquired in time; the caller should skip this frame.
func (b *Buffer) Snapshot() (Snapshot, bool) {
	if !b.acquire() {
		return Snapshot{}, false
	}
	defer b.release()

	return Snapshot{
		Trace:      b.trace,
		SampleRate: b.sampleRate,
		Changed:    b.changed.Swap(false),
	}, true
}

// Changed indicates that new data was pushed since the last snapshot.
func (b *Buffer) Changed() bool {
	return b.changed.Load()
}

// Stats returns the number of accepted and dropped pushes.
func (b *Buffer) Stats() Stats {
	return Stats{
		Accepted: b.accepted.Load(),
		Dropped:  b.dropped.Load(),
	}
}
