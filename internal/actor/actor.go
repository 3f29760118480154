// SPDX-License-Identifier: EPL-2.0

// Package actor runs a message handler on a dedicated goroutine that owns its
// state. The mailbox is the only way in; the handler reschedules itself by
// returning an Act instead of sending to its own mailbox, which keeps a full
// mailbox from deadlocking the actor.
package actor

import (
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/ik5/audstream/internal/rtprio"
)

// ErrStopped is returned by Send once the actor has exited.
var ErrStopped = errors.New("actor stopped")

// Handler processes one message and tells the loop what to do next.
type Handler[M any] interface {
	Handle(msg M) Act[M]
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[M any] func(msg M) Act[M]

func (f HandlerFunc[M]) Handle(msg M) Act[M] { return f(msg) }

type actKind uint8

const (
	actContinue actKind = iota
	actThen
	actWait
	actShutdown
)

// Act is the outcome of handling a message.
type Act[M any] struct {
	kind  actKind
	msg   M
	delay time.Duration
}

// Continue waits for the next mailbox message.
func Continue[M any]() Act[M] { return Act[M]{kind: actContinue} }

// Shutdown terminates the actor. Later sends fail with ErrStopped.
func Shutdown[M any]() Act[M] { return Act[M]{kind: actShutdown} }

// Then queues msg for the actor itself. Mailbox messages that are already
// waiting are handled first.
func Then[M any](msg M) Act[M] { return Act[M]{kind: actThen, msg: msg} }

// WaitOr delivers msg after delay unless a mailbox message arrives first, in
// which case msg is dropped.
func WaitOr[M any](delay time.Duration, msg M) Act[M] {
	return Act[M]{kind: actWait, msg: msg, delay: delay}
}

// Options tune a spawned actor.
type Options struct {
	// Mailbox is the capacity of the message queue.
	Mailbox int
	// Realtime asks for elevated scheduling priority on the actor thread.
	Realtime bool
	Logger   *slog.Logger
}

// Handle is the external side of a running actor.
type Handle[M any] struct {
	mailbox chan M
	done    chan struct{}
}

// Spawn starts h on its own locked OS thread.
func Spawn[M any](h Handler[M], opts Options) *Handle[M] {
	if opts.Mailbox <= 0 {
		opts.Mailbox = 16
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &Handle[M]{
		mailbox: make(chan M, opts.Mailbox),
		done:    make(chan struct{}),
	}

	go a.run(h, opts)

	return a
}

// Send enqueues msg. It blocks while the mailbox is full and fails with
// ErrStopped if the actor exits in the meantime.
func (a *Handle[M]) Send(msg M) error {
	select {
	case <-a.done:
		return ErrStopped
	default:
	}

	select {
	case a.mailbox <- msg:
		return nil
	case <-a.done:
		return ErrStopped
	}
}

// Done is closed after the actor goroutine returned.
func (a *Handle[M]) Done() <-chan struct{} { return a.done }

func (a *Handle[M]) run(h Handler[M], opts Options) {
	defer close(a.done)

	// The thread is thrown away when the goroutine exits while still locked,
	// so a raised priority never reaches other goroutines.
	runtime.LockOSThread()

	if opts.Realtime {
		if err := rtprio.Promote(); err != nil {
			opts.Logger.Warn("could not raise actor thread priority", "error", err)
		}
	}

	var (
		self    []M
		timer   *time.Timer
		waiting bool
		delayed M
	)

	for {
		var msg M

		switch {
		case len(self) > 0:
			select {
			case msg = <-a.mailbox:
			default:
				msg = self[0]
				self = append(self[:0], self[1:]...)
			}

		case waiting:
			select {
			case msg = <-a.mailbox:
				timer.Stop()
			case <-timer.C:
				msg = delayed
			}
			waiting = false

		default:
			msg = <-a.mailbox
		}

		act := h.Handle(msg)

		switch act.kind {
		case actShutdown:
			if timer != nil {
				timer.Stop()
			}
			return
		case actThen:
			self = append(self, act.msg)
		case actWait:
			if timer == nil {
				timer = time.NewTimer(act.delay)
			} else {
				timer.Reset(act.delay)
			}
			delayed = act.msg
			waiting = true
		}
	}
}
