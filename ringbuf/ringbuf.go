// SPDX-License-Identifier: EPL-2.0

package ringbuf

import "sync/atomic"

const cacheLine = 64

// Buffer is a lock-free SPSC sample queue. Indices grow monotonically and are
// masked into the power-of-two backing array, so full and empty are told apart
// without a spare slot.
type Buffer struct {
	data []float32
	mask uint64

	_        [cacheLine]byte
	readIdx  atomic.Uint64
	_        [cacheLine - 8]byte
	writeIdx atomic.Uint64
	_        [cacheLine - 8]byte
}

// New allocates a buffer able to hold at least capacity samples. The capacity
// is rounded up to the next power of two.
func New(capacity int) *Buffer {
	size := nextPowerOfTwo(uint64(max(capacity, 2)))

	return &Buffer{
		data: make([]float32, size),
		mask: size - 1,
	}
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

// Cap returns the number of samples the buffer can hold.
func (b *Buffer) Cap() int { return len(b.data) }

// Len returns the number of unread samples. The value is a snapshot and may
// be stale by the time the caller uses it.
func (b *Buffer) Len() int {
	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	if r > w {
		return 0
	}
	return int(w - r)
}

// Free returns the number of samples that can be written without blocking.
func (b *Buffer) Free() int { return len(b.data) - b.Len() }

// Write copies as many samples from src as fit. A partial write returns the
// count with a nil error; ErrWouldBlock is only returned when nothing fit.
// Producer side only.
func (b *Buffer) Write(src []float32) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	free := uint64(len(b.data)) - (w - r)
	if free == 0 {
		return 0, ErrWouldBlock
	}

	n := min(uint64(len(src)), free)
	start := w & b.mask
	first := min(n, uint64(len(b.data))-start)
	copy(b.data[start:start+first], src[:first])
	copy(b.data[:n-first], src[first:n])

	b.writeIdx.Store(w + n)

	return int(n), nil
}

// Read moves up to len(dst) samples into dst and returns the count.
// Consumer side only.
func (b *Buffer) Read(dst []float32) int {
	if len(dst) == 0 {
		return 0
	}

	r := b.readIdx.Load()
	w := b.writeIdx.Load()
	if w <= r {
		return 0
	}

	n := min(uint64(len(dst)), w-r)
	start := r & b.mask
	first := min(n, uint64(len(b.data))-start)
	copy(dst[:first], b.data[start:start+first])
	copy(dst[first:n], b.data[:n-first])

	// A concurrent Clear moved the read index; what was copied is stale.
	if !b.readIdx.CompareAndSwap(r, r+n) {
		return 0
	}

	return int(n)
}

// Clear discards every unread sample. Producer side only; it races safely
// with a concurrent Read.
func (b *Buffer) Clear() {
	w := b.writeIdx.Load()
	for {
		r := b.readIdx.Load()
		if r >= w || b.readIdx.CompareAndSwap(r, w) {
			return
		}
	}
}
