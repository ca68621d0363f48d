// Package interrupt turns Ctrl+C into a two-stage stop for a batch run.
//
// Watch returns two contexts. The first SIGINT or SIGTERM cancels the drain
// context: callers stop starting new documents, and documents already in
// progress keep running on the work context until they finish. A second
// signal within the abort window cancels the work context as well, so those
// documents stop at their next cancellation check.
package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ExitInterrupt is the exit code of an interrupted run (128 + SIGINT).
const ExitInterrupt = 130

// abortWindow is how soon a second signal must follow to cancel work in progress.
const abortWindow = 2 * time.Second

const (
	drainNotice = "\nInterrupted: finishing files in progress. Press Ctrl+C again to cancel them."
	abortNotice = "\nCanceling files in progress."
)

// Watcher tracks the interrupts of one run. Close it when the run ends.
type Watcher struct {
	mu       sync.Mutex
	last     time.Time
	draining bool
	aborted  bool
	closed   bool

	drain  context.CancelFunc
	cancel context.CancelFunc
	quit   chan struct{}
	notify chan os.Signal // set when subscribed to process signals

	now    func() time.Time
	stderr io.Writer
}

// Config holds the dependencies of a Watcher. The zero value listens for
// process signals and writes notices to os.Stderr.
type Config struct {
	// Signals replaces the process signal subscription.
	Signals <-chan os.Signal
	Now     func() time.Time
	// Stderr receives the notices. It is written from the listening
	// goroutine and must be safe for concurrent use.
	Stderr io.Writer
}

// Watch starts listening for interrupts. work is derived from parent and
// drain from work, so canceling parent stops both.
func Watch(parent context.Context, cfg Config) (w *Watcher, drain, work context.Context) {
	work, cancel := context.WithCancel(parent)
	drain, drainCancel := context.WithCancel(work)

	w = &Watcher{
		drain:  drainCancel,
		cancel: cancel,
		quit:   make(chan struct{}),
		now:    cfg.Now,
		stderr: cfg.Stderr,
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.stderr == nil {
		w.stderr = os.Stderr
	}

	sigs := cfg.Signals
	if sigs == nil {
		w.notify = make(chan os.Signal, 2)
		signal.Notify(w.notify, syscall.SIGINT, syscall.SIGTERM)
		sigs = w.notify
	}
	go w.listen(sigs)

	return w, drain, work
}

func (w *Watcher) listen(sigs <-chan os.Signal) {
	for {
		select {
		case <-w.quit:
			return
		case _, ok := <-sigs:
			if !ok {
				return
			}
			if msg := w.record(); msg != "" {
				fmt.Fprintln(w.stderr, msg)
			}
		}
	}
}

// record applies one signal and returns the notice to print, if any.
func (w *Watcher) record() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.aborted {
		return ""
	}
	now := w.now()

	switch {
	case !w.draining:
		w.draining = true
		w.last = now
		w.drain()
		return drainNotice
	case now.Sub(w.last) <= abortWindow:
		w.aborted = true
		w.cancel()
		return abortNotice
	default:
		// Too late for the previous one; this signal opens a new window.
		w.last = now
		return ""
	}
}

// Draining reports whether an interrupt stopped new work from starting.
func (w *Watcher) Draining() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draining
}

// Close stops listening and releases both contexts. It is safe to call
// more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	if w.notify != nil {
		signal.Stop(w.notify)
	}
	close(w.quit)
	w.cancel()
}
