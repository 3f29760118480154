// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audstream/config"
	"github.com/ik5/audstream/output"
	"github.com/ik5/audstream/player"
)

// SinkOpener creates the output device. output.Open is the default.
type SinkOpener func(cfg output.Config, logger *slog.Logger) (output.Sink, error)

// Options configure an Engine.
type Options struct {
	Output output.Config
	Player player.Options
	// Volume is applied when the device opens, 1 is unity.
	Volume float64
	// Notifications is the capacity of the notification channel.
	Notifications int
	OpenSink      SinkOpener
	Logger        *slog.Logger
}

// OptionsFromConfig builds Options from a validated configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Output: cfg.OutputConfig(),
		Player: cfg.PlayerOptions(),
		Volume: cfg.Playback.Volume,
	}
}

// Engine is the controller-facing side of the player: it owns the output
// device and a playback manager, and turns session events into
// notifications. All methods are safe for concurrent use.
type Engine struct {
	opts   Options
	logger *slog.Logger
	notes  chan Notification
	outbox *outbox

	mu      sync.Mutex
	started bool
	initErr error
	mgr     *player.Manager
	sink    output.Sink

	quit chan struct{}
	wg   sync.WaitGroup
}

func New(opts Options) *Engine {
	if opts.OpenSink == nil {
		opts.OpenSink = output.Open
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifications <= 0 {
		opts.Notifications = 64
	}
	if opts.Volume == 0 {
		opts.Volume = 1
	}

	return &Engine{
		opts:   opts,
		logger: opts.Logger.With(slog.String("component", "engine")),
		notes:  make(chan Notification, opts.Notifications),
		outbox: newOutbox(),
		quit:   make(chan struct{}),
	}
}

// Notifications delivers PositionChanged and PlaybackFinished values in
// order. While the controller is not reading, consecutive position updates
// collapse into the latest one; PlaybackFinished is never dropped before
// Close.
func (e *Engine) Notifications() <-chan Notification { return e.notes }

// Initialize opens the output device. It may only be called once; when it
// fails the error is kept and returned, wrapped in ErrNotInitialized, by
// every later operation.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		if e.initErr != nil {
			return fmt.Errorf("%w: %w", ErrAlreadyInitialized, e.initErr)
		}
		return ErrAlreadyInitialized
	}
	e.started = true

	sink, err := e.opts.OpenSink(e.opts.Output, e.opts.Logger)
	if err != nil {
		e.initErr = err
		e.logger.Error("output device unavailable", slog.Any("error", err))
		return err
	}
	sink.SetVolume(e.opts.Volume)

	popts := e.opts.Player
	if popts.Logger == nil {
		popts.Logger = e.opts.Logger.With(slog.String("component", "player"))
	}

	e.sink = sink
	e.mgr = player.NewManager(sink, popts)

	e.wg.Add(2)
	go e.forward()
	go func() {
		defer e.wg.Done()
		e.outbox.deliver(e.notes, e.quit, e.logger)
	}()

	return nil
}

// manager returns the playback manager or the reason there is none.
// Callers hold e.mu.
func (e *Engine) manager() (*player.Manager, error) {
	switch {
	case e.mgr != nil:
		return e.mgr, nil
	case e.initErr != nil:
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, e.initErr)
	default:
		return nil, ErrNotInitialized
	}
}

// Play stops the current file, if any, and starts path. When path cannot
// be opened the current file keeps playing.
func (e *Engine) Play(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mgr, err := e.manager()
	if err != nil {
		return err
	}

	prev, hadPrev := mgr.Current()

	if _, err := mgr.Play(path); err != nil {
		return fmt.Errorf("play %s: %w", path, err)
	}

	if hadPrev {
		e.finished(prev.Path, true)
	}

	return nil
}

// Seek moves playback of path to pos. It does nothing when path is not the
// file being played.
func (e *Engine) Seek(path string, pos time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mgr, err := e.manager()
	if err != nil {
		return err
	}

	if cur, ok := mgr.Current(); !ok || cur.Path != path {
		return nil
	}

	if err := mgr.Seek(pos); err != nil && !errors.Is(err, player.ErrNoSession) {
		return err
	}

	return nil
}

// Stop ends playback of path. It does nothing when path is not the file
// being played.
func (e *Engine) Stop(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mgr, err := e.manager()
	if err != nil {
		return err
	}

	cur, ok := mgr.Current()
	if !ok || cur.Path != path {
		return nil
	}

	if mgr.StopSession(cur.ID) {
		e.finished(cur.Path, true)
	}

	return nil
}

// PlayingFile returns the file being played.
func (e *Engine) PlayingFile() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mgr == nil {
		return "", false
	}
	return e.mgr.PlayingFile()
}

// Position reports how far the current file has played.
func (e *Engine) Position() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mgr == nil {
		return 0, false
	}
	return e.mgr.Position()
}

func (e *Engine) Pause() error {
	return e.withManager(func(m *player.Manager) { m.Pause() })
}

func (e *Engine) Resume() error {
	return e.withManager(func(m *player.Manager) { m.Resume() })
}

func (e *Engine) SetVolume(v float64) error {
	return e.withManager(func(m *player.Manager) { m.SetVolume(v) })
}

func (e *Engine) withManager(fn func(*player.Manager)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mgr, err := e.manager()
	if err != nil {
		return err
	}
	fn(mgr)

	return nil
}

// Close stops playback and releases the output device.
func (e *Engine) Close() error {
	e.mu.Lock()
	mgr, sink := e.mgr, e.sink
	e.mgr, e.sink = nil, nil
	if e.initErr == nil {
		e.initErr = errors.New("engine closed")
	}
	e.mu.Unlock()

	if mgr == nil {
		return nil
	}

	if cur, ok := mgr.Current(); ok && mgr.StopSession(cur.ID) {
		e.finished(cur.Path, true)
	}

	close(e.quit)
	e.wg.Wait()

	return errors.Join(mgr.Close(), sink.Close())
}

// forward turns manager events into notifications. Events of sessions that
// are no longer current are dropped.
func (e *Engine) forward() {
	defer e.wg.Done()

	e.mu.Lock()
	mgr := e.mgr
	e.mu.Unlock()

	for {
		select {
		case <-e.quit:
			return
		case ev := <-mgr.Events():
			e.handle(mgr, ev)
		}
	}
}

func (e *Engine) handle(mgr *player.Manager, ev player.Event) {
	cur, ok := mgr.Current()
	if !ok || cur.ID != ev.Session {
		return
	}

	switch ev.Kind {
	case player.EventPosition:
		e.outbox.push(PositionChanged{Path: ev.Path, Position: ev.Position})

	case player.EventEndOfFile:
		e.mu.Lock()
		stopped := mgr.StopSession(ev.Session)
		if stopped {
			e.finished(ev.Path, false)
		}
		e.mu.Unlock()
	}
}

// finished queues PlaybackFinished. It does not block, so callers may
// hold e.mu.
func (e *Engine) finished(path string, interrupted bool) {
	e.logger.Debug("finished", slog.String("path", path), slog.Bool("interrupted", interrupted))
	e.outbox.push(PlaybackFinished{Path: path, Interrupted: interrupted})
}
