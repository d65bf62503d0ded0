// Package wait provides the demo "wait" verb: it sleeps for a configurable
// number of seconds, observing cancellation, and reports success either way.
// It is the smallest useful example of a verb built on verb.BoolHandler.
package wait

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/pflag"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/verb"
)

// Options is the argument shape of the wait verb.
type Options struct {
	MaxTimeout int
}

// NewOptions returns the options with their defaults applied.
func NewOptions() *Options {
	return &Options{MaxTimeout: 10}
}

// Verb implements verb.Options.
func (o *Options) Verb() string { return "wait" }

// BindFlags implements verb.Options.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.MaxTimeout, "max-timeout", "m", o.MaxTimeout, "Seconds to wait before reporting success.")
}

// Executor waits MaxTimeout ticks or until the run is cancelled. The tick
// duration is one second in production; tests shrink it.
type Executor struct {
	Tick time.Duration
}

// Execute implements verb.Executor. Cancellation is a success outcome: the
// verb's job is to wait at most MaxTimeout, not to insist on it.
func (e *Executor) Execute(ctx context.Context, opts *Options) (bool, error) {
	tick := e.Tick
	if tick == 0 {
		tick = time.Second
	}
	logger := ctxlog.FromContext(ctx)

	timer := time.NewTimer(time.Duration(opts.MaxTimeout) * tick)
	defer timer.Stop()

	cancelled := false
	select {
	case <-ctx.Done():
		cancelled = true
	case <-timer.C:
	}

	logger.Info(fmt.Sprintf("Was cancelled: %t", cancelled))
	return true, nil
}

// NewHandler is the container provider for the wait verb's handler.
func NewHandler(i do.Injector) (verb.Handler[*Options], error) {
	codes, err := do.Invoke[verb.ExitCodes](i)
	if err != nil {
		codes = verb.DefaultExitCodes()
	}
	// A missing logger is fine: the handler falls back to the run context's.
	logger, _ := do.Invoke[*slog.Logger](i)
	return verb.NewBoolHandler[*Options](&Executor{}, codes, logger), nil
}
