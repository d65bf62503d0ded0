package verb

import (
	"context"
	"log/slog"

	"github.com/vk/verbgo/ctxlog"
)

// Executor is the user-facing surface of the boolean-result handler: a
// single "did it succeed" operation.
type Executor[O Options] interface {
	Execute(ctx context.Context, opts O) (bool, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc[O Options] func(ctx context.Context, opts O) (bool, error)

// Execute implements Executor.
func (f ExecutorFunc[O]) Execute(ctx context.Context, opts O) (bool, error) {
	return f(ctx, opts)
}

// BoolHandler converts the general Handler contract into a binary
// success/failure model with built-in containment. It logs the start and
// finish of every run, maps the executor's boolean onto the configured exit
// codes, and absorbs both returned errors and panics into the failure exit
// code instead of letting them escape.
type BoolHandler[O Options] struct {
	exec   Executor[O]
	codes  ExitCodes
	logger *slog.Logger
}

// NewBoolHandler wraps exec. A nil logger defers to the logger carried by
// the run context.
func NewBoolHandler[O Options](exec Executor[O], codes ExitCodes, logger *slog.Logger) *BoolHandler[O] {
	return &BoolHandler[O]{exec: exec, codes: codes, logger: logger}
}

// Run implements Handler.
func (h *BoolHandler[O]) Run(ctx context.Context, opts O) (code int, err error) {
	logger := h.logger
	if logger == nil {
		logger = ctxlog.FromContext(ctx)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Verb panicked.", "verb", opts.Verb(), "panic", r)
			code, err = h.codes.Failure, nil
		}
	}()

	logger.Info("Verb starting.", "verb", opts.Verb(), "options", opts)
	ok, execErr := h.exec.Execute(ctx, opts)
	if execErr != nil {
		logger.Error("Verb failed.", "verb", opts.Verb(), "error", execErr)
		return h.codes.Failure, nil
	}
	logger.Info("Verb finished.", "verb", opts.Verb(), "success", ok)

	if !ok {
		return h.codes.Failure, nil
	}
	return h.codes.Success, nil
}
