// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"log/slog"
	"sync"
)

// outbox queues notifications for delivery so that control calls never
// wait for the controller to read. Consecutive position updates of the
// same file collapse into the newest one, so only PlaybackFinished values
// accumulate.
type outbox struct {
	mu    sync.Mutex
	queue []Notification
	ready chan struct{}
}

func newOutbox() *outbox {
	return &outbox{ready: make(chan struct{}, 1)}
}

// push never blocks.
func (o *outbox) push(n Notification) {
	o.mu.Lock()
	if p, ok := n.(PositionChanged); ok && len(o.queue) > 0 {
		if last, ok := o.queue[len(o.queue)-1].(PositionChanged); ok && last.Path == p.Path {
			o.queue[len(o.queue)-1] = p
			o.mu.Unlock()
			return
		}
	}
	o.queue = append(o.queue, n)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
}

func (o *outbox) pop() (Notification, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.queue) == 0 {
		return nil, false
	}

	n := o.queue[0]
	o.queue[0] = nil
	o.queue = o.queue[1:]

	return n, true
}

// deliver moves queued notifications to out until quit is closed. What
// is still queued then is handed over only as far as out has room.
func (o *outbox) deliver(out chan<- Notification, quit <-chan struct{}, logger *slog.Logger) {
	for {
		n, ok := o.pop()
		if !ok {
			select {
			case <-o.ready:
				continue
			case <-quit:
				o.flush(out, nil, logger)
				return
			}
		}

		select {
		case out <- n:
		case <-quit:
			o.flush(out, n, logger)
			return
		}
	}
}

func (o *outbox) flush(out chan<- Notification, head Notification, logger *slog.Logger) {
	o.mu.Lock()
	pending := o.queue
	o.queue = nil
	o.mu.Unlock()

	if head != nil {
		pending = append([]Notification{head}, pending...)
	}

	dropped := 0
	for _, n := range pending {
		select {
		case out <- n:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		logger.Warn("notifications dropped", slog.Int("count", dropped))
	}
}
