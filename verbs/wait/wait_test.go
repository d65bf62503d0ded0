package wait

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vk/verbgo/ctxlog"
	"github.com/vk/verbgo/verb"
)

func newTestContext() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	opts := NewOptions()
	require.Equal(t, 10, opts.MaxTimeout)
	require.Equal(t, "wait", opts.Verb())
}

func TestOptions_BindFlags(t *testing.T) {
	t.Parallel()

	opts := NewOptions()
	fs := pflag.NewFlagSet("wait", pflag.ContinueOnError)
	opts.BindFlags(fs)

	require.NoError(t, fs.Parse([]string{"-m", "0"}))
	require.Equal(t, 0, opts.MaxTimeout)
}

func TestExecute_ZeroTimeoutReturnsImmediately(t *testing.T) {
	t.Parallel()

	ctx, logs := newTestContext()
	exec := &Executor{Tick: 10 * time.Millisecond}

	start := time.Now()
	ok, err := exec.Execute(ctx, &Options{MaxTimeout: 0})

	require.NoError(t, err)
	require.True(t, ok)
	require.Less(t, time.Since(start), time.Second)
	require.Contains(t, logs.String(), "Was cancelled: false")
}

func TestExecute_WaitsFullTimeout(t *testing.T) {
	t.Parallel()

	ctx, logs := newTestContext()
	exec := &Executor{Tick: time.Millisecond}

	start := time.Now()
	ok, err := exec.Execute(ctx, &Options{MaxTimeout: 10})

	require.NoError(t, err)
	require.True(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	require.Contains(t, logs.String(), "Was cancelled: false")
}

func TestExecute_CancellationEndsWaitEarlyButSucceeds(t *testing.T) {
	t.Parallel()

	ctx, logs := newTestContext()
	ctx, cancel := context.WithCancel(ctx)
	exec := &Executor{Tick: time.Hour}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	ok, err := exec.Execute(ctx, &Options{MaxTimeout: 10})

	require.NoError(t, err)
	require.True(t, ok, "cancellation is still a success outcome")
	require.Less(t, time.Since(start), time.Hour)
	require.Contains(t, logs.String(), "Was cancelled: true")
}

func TestHandler_CancelledRunStillExitsZero(t *testing.T) {
	t.Parallel()

	ctx, logs := newTestContext()
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	h := verb.NewBoolHandler[*Options](&Executor{Tick: time.Hour}, verb.DefaultExitCodes(), nil)
	code, err := h.Run(ctx, &Options{MaxTimeout: 10})

	require.NoError(t, err)
	require.Equal(t, 0, code)
	require.Contains(t, logs.String(), "Was cancelled: true")
}
