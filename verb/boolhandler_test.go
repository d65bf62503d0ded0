package verb

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

type noopOptions struct{}

func (o *noopOptions) Verb() string { return "noop" }

func (o *noopOptions) BindFlags(fs *pflag.FlagSet) {}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func TestBoolHandler_SuccessReturnsSuccessCode(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	exec := ExecutorFunc[*noopOptions](func(ctx context.Context, opts *noopOptions) (bool, error) {
		return true, nil
	})
	h := NewBoolHandler[*noopOptions](exec, DefaultExitCodes(), logger)

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Contains(t, buf.String(), "Verb starting.")
	require.Contains(t, buf.String(), "success=true")
}

func TestBoolHandler_FalseReturnsFailureCode(t *testing.T) {
	t.Parallel()

	logger, _ := newTestLogger()
	exec := ExecutorFunc[*noopOptions](func(ctx context.Context, opts *noopOptions) (bool, error) {
		return false, nil
	})
	h := NewBoolHandler[*noopOptions](exec, DefaultExitCodes(), logger)

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 1, code)
}

func TestBoolHandler_ContainsExecutorError(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	exec := ExecutorFunc[*noopOptions](func(ctx context.Context, opts *noopOptions) (bool, error) {
		return false, errors.New("disk on fire")
	})
	h := NewBoolHandler[*noopOptions](exec, DefaultExitCodes(), logger)

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err, "executor errors must be contained, not propagated")
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "disk on fire")
}

func TestBoolHandler_ContainsPanic(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	exec := ExecutorFunc[*noopOptions](func(ctx context.Context, opts *noopOptions) (bool, error) {
		panic("boom")
	})
	h := NewBoolHandler[*noopOptions](exec, DefaultExitCodes(), logger)

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 1, code)
	require.Contains(t, buf.String(), "boom")
}

func TestBoolHandler_UsesConfiguredCodes(t *testing.T) {
	t.Parallel()

	logger, _ := newTestLogger()
	codes := ExitCodes{Success: 7, Failure: 9}
	exec := ExecutorFunc[*noopOptions](func(ctx context.Context, opts *noopOptions) (bool, error) {
		return true, nil
	})

	code, err := NewBoolHandler[*noopOptions](exec, codes, logger).Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 7, code)
}

func TestSyncFunc_CompletesImmediately(t *testing.T) {
	t.Parallel()

	h := SyncFunc[*noopOptions](func(opts *noopOptions) int { return 42 })

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 42, code)
}

func TestFunc_Adapts(t *testing.T) {
	t.Parallel()

	h := Func[*noopOptions](func(ctx context.Context, opts *noopOptions) (int, error) {
		return 5, nil
	})

	code, err := h.Run(context.Background(), &noopOptions{})

	require.NoError(t, err)
	require.Equal(t, 5, code)
}
