package trigger

// RingBuffer keeps the most recent values up to its capacity.
type RingBuffer[T any] struct {
	buffer []T
	cursor int
	full   bool
}

// NewRingBuffer returns a new ring buffer with the given capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &RingBuffer[T]{
		buffer: make([]T, capacity),
	}
}

// Write a single value, overwriting the oldest one if the buffer is full.
func (r *RingBuffer[T]) Write(value T) {
	if len(r.buffer) == 0 {
		return
	}
	r.buffer[r.cursor] = value
	r.cursor = (r.cursor + 1) % len(r.buffer)
	if r.cursor == 0 {
		r.full = true
	}
}

// Len is the number of values currently held.
func (r *RingBuffer[T]) Len() int {
	if r.full {
		return len(r.buffer)
	}
	return r.cursor
}

// Cap is the capacity of the buffer.
func (r *RingBuffer[T]) Cap() int {
	return len(r.buffer)
}

// Last returns a copy of the n most recent values, oldest first.
func (r *RingBuffer[T]) Last(n int) []T {
	n = max(0, min(n, r.Len()))
	result := make([]T, n)
	if n == 0 {
		return result
	}
	start := (r.cursor - n + len(r.buffer)) % len(r.buffer)
	a := copy(result, r.buffer[start:min(start+n, len(r.buffer))])
	copy(result[a:], r.buffer[:n-a])
	return result
}

// Reset drops all values.
func (r *RingBuffer[T]) Reset() {
	r.cursor = 0
	r.full = false
}
