// Package signalctx derives a single cancellation context from operating
// system termination notifications. The context is cancelled exactly once,
// the first time an interrupt (Ctrl+C) or a termination signal is observed;
// registering for the signals suppresses the default process-killing
// behavior so in-flight verbs can wind down cooperatively.
package signalctx

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Source owns one shared cancellation context for a process invocation.
type Source struct {
	ctx      context.Context
	cancel   context.CancelFunc
	once     sync.Once
	stopOnce sync.Once
	ch       chan os.Signal
}

// New starts listening for SIGINT and SIGTERM and returns a Source whose
// context is cancelled on the first signal observed. Callers should defer
// Stop to restore default signal behavior.
func New(parent context.Context) *Source {
	ctx, cancel := context.WithCancel(parent)
	s := &Source{ctx: ctx, cancel: cancel, ch: make(chan os.Signal, 2)}
	signal.Notify(s.ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Keep draining so repeated interrupts stay no-ops instead of
		// killing the process while a verb is still winding down.
		for range s.ch {
			s.Trigger()
		}
	}()
	return s
}

// Context returns the shared cancellation context.
func (s *Source) Context() context.Context { return s.ctx }

// Trigger cancels the context. Triggering an already-triggered source is a
// no-op.
func (s *Source) Trigger() {
	s.once.Do(s.cancel)
}

// Stop unregisters the signal handlers, cancels the context, and releases
// the watcher goroutine. Safe to call more than once.
func (s *Source) Stop() {
	s.stopOnce.Do(func() {
		signal.Stop(s.ch)
		close(s.ch)
		s.Trigger()
	})
}
