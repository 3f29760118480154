// SPDX-License-Identifier: EPL-2.0

// Package ringbuf provides a fixed-capacity single-producer/single-consumer
// queue of interleaved float32 samples.
//
// The producer (a decode worker) calls Write and Clear, the consumer (the
// device render callback) calls Read. Neither side blocks or allocates; a full
// buffer is reported through ErrWouldBlock and the producer is expected to
// retry later.
//
//	rb := ringbuf.New(128 * 1024)
//
//	// producer goroutine
//	n, err := rb.Write(packet)
//	if errors.Is(err, ringbuf.ErrWouldBlock) {
//	    // back off and retry packet[n:]
//	}
//
//	// render callback
//	got := rb.Read(out)
package ringbuf
