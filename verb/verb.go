// Package verb defines the contract every command-line verb handler must
// satisfy, plus reusable handler shapes built on top of it. An options type
// declares the verb's parseable flag shape; a handler consumes the parsed
// options together with a cancellation context and produces a process exit
// code.
package verb

import (
	"context"

	"github.com/spf13/pflag"
)

// Options identifies one verb's parseable argument shape. Exactly one
// registered options type should accept any given argument list.
type Options interface {
	// Verb returns the unique name of the verb. It keys the registry, names
	// the handler's container service, and appears in logs and usage text.
	Verb() string

	// BindFlags declares the verb's flags on the given flag set, binding
	// them to fields of the receiver.
	BindFlags(fs *pflag.FlagSet)
}

// Handler is the uniform invocation surface for a verb. Run blocks until the
// verb completes and returns the process exit code. Expected failures must
// be reported as a non-zero exit code with a nil error; a non-nil error is
// treated as fatal by the dispatcher and surfaces to its caller.
type Handler[O Options] interface {
	Run(ctx context.Context, opts O) (int, error)
}

// Func adapts an ordinary function to the Handler contract.
type Func[O Options] func(ctx context.Context, opts O) (int, error)

// Run implements Handler.
func (f Func[O]) Run(ctx context.Context, opts O) (int, error) {
	return f(ctx, opts)
}

// SyncFunc adapts a plain synchronous function to the Handler contract for
// verbs that have no need to block or observe cancellation. The wrapped
// function completes immediately and never reports a fatal error.
type SyncFunc[O Options] func(opts O) int

// Run implements Handler.
func (f SyncFunc[O]) Run(_ context.Context, opts O) (int, error) {
	return f(opts), nil
}

// ExitCodes holds the process exit codes used for the success and failure
// outcomes of a run.
type ExitCodes struct {
	Success int
	Failure int
}

// DefaultExitCodes returns the conventional codes: 0 on success, 1 on failure.
func DefaultExitCodes() ExitCodes {
	return ExitCodes{Success: 0, Failure: 1}
}
